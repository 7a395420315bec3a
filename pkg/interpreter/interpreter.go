// Package interpreter executes bound programs in their lowered label/goto
// form.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/binder"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

// Options tunes an Interpreter. Zero fields keep their defaults.
type Options struct {
	// Stdout receives the output of print. Defaults to os.Stdout.
	Stdout io.Writer
	// MaxSteps bounds the number of statements executed; 0 means unlimited.
	MaxSteps int
	// MaxDepth bounds the number of nested calls; 0 selects DefaultMaxDepth.
	MaxDepth int
}

// DefaultMaxDepth keeps runaway recursion well inside the Go stack.
const DefaultMaxDepth = 10_000

// Interpreter drives evaluation of one bound Program. Globals are shared with
// interpreters of earlier and later submissions of the same session.
type Interpreter struct {
	program *binder.Program
	globals *runtime.Globals
	frames  *runtime.FrameStack
	natives map[*symbols.FunctionSymbol]nativeFunction
	labels  map[*bound.BlockStatement]map[*symbols.LabelSymbol]int

	initializing map[*symbols.ClassSymbol]*runtime.InstanceValue

	stdout   io.Writer
	maxSteps int
	maxDepth int
	steps    int
}

// RuntimeError is a fault raised while executing a program.
type RuntimeError struct {
	Message string
	Span    ast.Span
}

func (e *RuntimeError) Error() string {
	if e.Span.IsZero() {
		return "interpreter: runtime fault: " + e.Message
	}
	return fmt.Sprintf("interpreter: runtime fault at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

var noSpan ast.Span

func fault(span ast.Span, format string, args ...any) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Span: span}
}

// New returns an interpreter for program. A nil globals starts a fresh
// session.
func New(program *binder.Program, globals *runtime.Globals, opts Options) *Interpreter {
	if globals == nil {
		globals = runtime.NewGlobals()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Interpreter{
		program:      program,
		globals:      globals,
		frames:       runtime.NewFrameStack(),
		natives:      builtinNatives(),
		labels:       make(map[*bound.BlockStatement]map[*symbols.LabelSymbol]int),
		initializing: make(map[*symbols.ClassSymbol]*runtime.InstanceValue),
		stdout:       stdout,
		maxSteps:     opts.MaxSteps,
		maxDepth:     maxDepth,
	}
}

// Globals returns the session state the interpreter writes to.
func (i *Interpreter) Globals() *runtime.Globals {
	return i.globals
}

// FrameDepth reports the number of active call frames. It is zero whenever
// Evaluate is not running.
func (i *Interpreter) FrameDepth() int {
	return i.frames.Depth()
}

// Evaluate runs the script of the program and returns its result, Unit when
// the script does not end in a value.
func (i *Interpreter) Evaluate() (runtime.Value, error) {
	if i.program == nil {
		return runtime.Unit, nil
	}
	body, ok := i.program.Body(i.program.Script)
	if !ok {
		return runtime.Unit, nil
	}
	i.steps = 0
	return i.invoke(noSpan, i.program.Script, body, nil, nil)
}

// invoke runs body in a fresh frame. The frame is released on every exit
// path, including faults. span locates the call for the depth fault.
func (i *Interpreter) invoke(span ast.Span, callee symbols.Callable, body *bound.BlockStatement, instance *runtime.InstanceValue, args []runtime.Value) (runtime.Value, error) {
	if i.frames.Depth() >= i.maxDepth {
		return nil, fault(span, "call depth of %d exceeded", i.maxDepth)
	}
	frame := runtime.NewFrame(callee, instance)
	for idx, param := range callee.Parameters() {
		frame.Locals.Define(param, args[idx])
	}
	i.frames.Push(frame)
	defer i.frames.Pop()
	return i.executeBody(body)
}

func (i *Interpreter) currentFrame() *runtime.Frame {
	frame, ok := i.frames.Top()
	if !ok {
		panic("interpreter: no active frame")
	}
	return frame
}
