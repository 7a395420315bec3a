package driver

import (
	"fmt"
	"io"
	"strings"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/binder"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/cfg"
	"delta/interpreter-go/pkg/interpreter"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

// Compilation is one submission of a session: a set of modules bound on top
// of the previous submission.
type Compilation struct {
	Previous *Compilation
	Modules  []*ast.Module

	program *binder.Program
}

// NewCompilation starts a session with its first submission.
func NewCompilation(modules ...*ast.Module) *Compilation {
	return &Compilation{Modules: modules}
}

// ContinueWith returns the next submission layered on c.
func (c *Compilation) ContinueWith(modules ...*ast.Module) *Compilation {
	return &Compilation{Previous: c, Modules: modules}
}

// Program binds the submission on first use.
func (c *Compilation) Program() *binder.Program {
	if c.program == nil {
		var previous *binder.Program
		if c.Previous != nil {
			previous = c.Previous.Program()
		}
		c.program = binder.BindProgram(previous, c.Modules...)
	}
	return c.program
}

// EvaluationResult is the outcome of a submission that did not fault.
// Diagnostics are set when binding failed, in which case nothing ran.
type EvaluationResult struct {
	Diagnostics []binder.Diagnostic
	Value       runtime.Value
}

// Evaluate binds and, when binding succeeds, runs the submission against
// globals. Runtime faults are returned as errors.
func (c *Compilation) Evaluate(globals *runtime.Globals, stdout io.Writer, opts Options) (*EvaluationResult, error) {
	program := c.Program()
	if program.HasErrors() {
		return &EvaluationResult{Diagnostics: program.Diagnostics}, nil
	}
	interp := interpreter.New(program, globals, interpreter.Options{Stdout: stdout, MaxSteps: opts.StepLimit(), MaxDepth: opts.MaxDepth})
	value, err := interp.Evaluate()
	if err != nil {
		return nil, err
	}
	return &EvaluationResult{Value: value}, nil
}

// body resolves a printable body by name: "" for the script, "f" for a
// function, "C.m" for a method and "C.constructor" for a constructor.
func (c *Compilation) body(name string) (*bound.BlockStatement, error) {
	program := c.Program()
	if name == "" || name == binder.ScriptName {
		body, _ := program.Body(program.Script)
		return body, nil
	}
	if className, memberName, ok := strings.Cut(name, "."); ok {
		class, found := program.LookupClass(className)
		if !found {
			return nil, fmt.Errorf("class %q is not defined", className)
		}
		var method *symbols.MethodSymbol
		if memberName == symbols.ConstructorName {
			method = class.Constructor()
		} else {
			method, _ = class.Method(memberName)
		}
		if method == nil {
			return nil, fmt.Errorf("class %q has no %s", className, memberName)
		}
		body, found := program.MethodBody(method)
		if !found {
			return nil, fmt.Errorf("%s has no body", name)
		}
		return body, nil
	}
	fn, found := program.LookupFunction(name)
	if !found {
		return nil, fmt.Errorf("function %q is not defined", name)
	}
	body, found := program.Body(fn)
	if !found {
		return nil, fmt.Errorf("function %q has no body", name)
	}
	return body, nil
}

// EmitTree writes the lowered body of name.
func (c *Compilation) EmitTree(w io.Writer, name string) error {
	body, err := c.body(name)
	if err != nil {
		return err
	}
	return bound.WriteTo(w, body)
}

// EmitGraph writes the control flow graph of name as DOT.
func (c *Compilation) EmitGraph(w io.Writer, name string) error {
	body, err := c.body(name)
	if err != nil {
		return err
	}
	return cfg.Build(body).WriteDOT(w)
}

// WriteSymbols lists the global symbols visible after this submission, one
// per line.
func (c *Compilation) WriteSymbols(w io.Writer) error {
	for _, sym := range c.Program().Symbols() {
		if _, err := fmt.Fprintln(w, symbols.FormatSymbol(sym)); err != nil {
			return err
		}
	}
	return nil
}
