// Package binder resolves names and types over a syntax tree and produces
// lowered bound bodies for every function, method and constructor.
package binder

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/cfg"
	"delta/interpreter-go/pkg/lowerer"
	"delta/interpreter-go/pkg/symbols"
)

// Binder carries the state of one BindProgram call.
type Binder struct {
	diagnostics []Diagnostic
	path        string

	global *Scope
	scope  *Scope

	// Context of the callable whose body is being bound. function is nil for
	// script statements and property initializers.
	function      symbols.Callable
	class         *symbols.ClassSymbol
	static        bool
	inConstructor bool

	loops  *arraystack.Stack
	labels int
}

type loopLabels struct {
	breakLabel    *symbols.LabelSymbol
	continueLabel *symbols.LabelSymbol
}

type pendingFunction struct {
	path   string
	decl   *ast.FunctionDeclaration
	symbol *symbols.FunctionSymbol
}

type pendingClass struct {
	path   string
	decl   *ast.ClassDeclaration
	symbol *symbols.ClassSymbol
	data   *ClassData
}

type member struct {
	path string
	node ast.Member
}

// BindProgram binds the given modules as one compilation unit layered on
// previous (nil for the first unit). Binding never fails: problems are
// reported through Program.Diagnostics.
func BindProgram(previous *Program, modules ...*ast.Module) *Program {
	parent := RootScope()
	if previous != nil {
		parent = previous.Scope
	}
	b := &Binder{
		global: NewScope(parent),
		loops:  arraystack.New(),
	}
	b.scope = b.global

	var members []member
	for _, mod := range modules {
		if mod == nil {
			continue
		}
		for _, m := range mod.Members {
			members = append(members, member{path: mod.Path, node: m})
		}
	}

	program := &Program{
		Previous:  previous,
		Scope:     b.global,
		Script:    symbols.NewFunction(ScriptName, nil, symbols.Any, nil),
		Functions: make(map[*symbols.FunctionSymbol]*bound.BlockStatement),
		Classes:   make(map[*symbols.ClassSymbol]*ClassData),
	}

	classes := b.declareClasses(members)
	functions := b.declareFunctions(members)
	for _, pc := range classes {
		b.path = pc.path
		pc.data = b.bindClassSignature(pc.decl, pc.symbol)
		program.Classes[pc.symbol] = pc.data
	}

	script := b.bindScript(members)
	program.Functions[program.Script] = lowerer.Lower(script)

	for _, pf := range functions {
		b.path = pf.path
		body := b.bindCallableBody(pf.symbol, pf.decl.Body, nil, false, false)
		program.Functions[pf.symbol] = b.finishBody(pf.symbol, pf.decl.Name, body)
	}
	for _, pc := range classes {
		b.path = pc.path
		b.bindClassBodies(pc)
	}

	program.Diagnostics = b.diagnostics
	return program
}

// bindScript binds the free statements of the unit in the global scope. A
// trailing non-void expression statement becomes the script's result.
func (b *Binder) bindScript(members []member) *bound.BlockStatement {
	var stmts []bound.Statement
	var span ast.Span
	for _, m := range members {
		stmt, ok := m.node.(ast.Statement)
		if !ok {
			continue
		}
		b.path = m.path
		if len(stmts) == 0 {
			span = stmt.Span()
		}
		stmts = append(stmts, b.bindStatement(stmt))
	}
	if n := len(stmts); n > 0 {
		if last, ok := stmts[n-1].(*bound.ExpressionStatement); ok {
			typ := last.Expression.Type()
			if !typ.IsVoid() && !typ.IsError() {
				stmts[n-1] = bound.NewReturnStatement(last.Span(), last.Expression)
			}
		}
	}
	return bound.NewBlockStatement(span, stmts)
}

// bindCallableBody binds a body in a fresh scope seeded with the callable's
// parameters.
func (b *Binder) bindCallableBody(callable symbols.Callable, body *ast.BlockStatement, class *symbols.ClassSymbol, static, constructor bool) *bound.BlockStatement {
	savedScope, savedFunction, savedClass, savedStatic, savedCtor, savedLoops := b.scope, b.function, b.class, b.static, b.inConstructor, b.loops
	defer func() {
		b.scope, b.function, b.class, b.static, b.inConstructor, b.loops = savedScope, savedFunction, savedClass, savedStatic, savedCtor, savedLoops
	}()

	b.scope = NewScope(b.global)
	b.loops = arraystack.New()
	b.function = callable
	b.class = class
	b.static = static
	b.inConstructor = constructor

	for _, param := range callable.Parameters() {
		// Duplicates were reported while the signature was bound.
		b.scope.seedVariable(param)
	}
	if body == nil {
		return bound.NewBlockStatement(ast.Span{}, nil)
	}
	return b.bindBlock(body)
}

// finishBody lowers a bound body and checks that non-void callables return
// on every path.
func (b *Binder) finishBody(callable symbols.Callable, name ast.Node, body *bound.BlockStatement) *bound.BlockStatement {
	analysis := lowerer.Flatten(lowerer.Rewrite(body), false)
	ret := callable.ReturnType()
	if !ret.IsVoid() && !ret.IsError() && !cfg.AllPathsReturn(analysis) {
		b.report(name, "not all code paths of '%s' return a value", callable.Name())
	}
	return lowerer.Flatten(analysis, true)
}

func (b *Binder) pushLoop() loopLabels {
	b.labels++
	labels := loopLabels{
		breakLabel:    symbols.NewLabel(fmt.Sprintf("break%d", b.labels)),
		continueLabel: symbols.NewLabel(fmt.Sprintf("continue%d", b.labels)),
	}
	b.loops.Push(labels)
	return labels
}

func (b *Binder) popLoop() {
	b.loops.Pop()
}

func (b *Binder) currentLoop() (loopLabels, bool) {
	top, ok := b.loops.Peek()
	if !ok {
		return loopLabels{}, false
	}
	return top.(loopLabels), true
}

func (b *Binder) pushScope() {
	b.scope = NewScope(b.scope)
}

func (b *Binder) popScope() {
	b.scope = b.scope.Parent()
}
