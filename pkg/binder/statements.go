package binder

import (
	"fmt"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

func (b *Binder) bindStatement(stmt ast.Statement) bound.Statement {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return b.bindBlock(s)
	case *ast.ExpressionStatement:
		return bound.NewExpressionStatement(s.Span(), b.bindExpression(s.Expression))
	case *ast.VariableDeclaration:
		return b.bindVariableDeclaration(s)
	case *ast.IfStatement:
		return b.bindIf(s)
	case *ast.LoopStatement:
		return b.bindLoop(s)
	case *ast.ForStatement:
		return b.bindFor(s)
	case *ast.ReturnStatement:
		return b.bindReturn(s)
	case *ast.BreakStatement:
		loop, ok := b.currentLoop()
		if !ok {
			b.report(s, "break is only allowed inside a loop")
			return bound.NewErrorStatement(s.Span())
		}
		return bound.NewGotoStatement(s.Span(), loop.breakLabel)
	case *ast.ContinueStatement:
		loop, ok := b.currentLoop()
		if !ok {
			b.report(s, "continue is only allowed inside a loop")
			return bound.NewErrorStatement(s.Span())
		}
		return bound.NewGotoStatement(s.Span(), loop.continueLabel)
	case nil:
		return bound.NewErrorStatement(ast.Span{})
	default:
		panic(fmt.Sprintf("binder: unexpected statement %T", stmt))
	}
}

func (b *Binder) bindBlock(block *ast.BlockStatement) *bound.BlockStatement {
	b.pushScope()
	defer b.popScope()
	stmts := make([]bound.Statement, 0, len(block.Statements))
	for _, stmt := range block.Statements {
		stmts = append(stmts, b.bindStatement(stmt))
	}
	return bound.NewBlockStatement(block.Span(), stmts)
}

// bindNested binds the body of an if, loop or for in its own scope, so a bare
// declaration used as a body does not leak into the enclosing scope.
func (b *Binder) bindNested(stmt ast.Statement) bound.Statement {
	if block, ok := stmt.(*ast.BlockStatement); ok {
		return b.bindBlock(block)
	}
	b.pushScope()
	defer b.popScope()
	return b.bindStatement(stmt)
}

func (b *Binder) bindVariableDeclaration(s *ast.VariableDeclaration) bound.Statement {
	name := s.Name.Name
	if s.Initializer == nil {
		b.report(s.Name, "variable '%s' needs an initializer", name)
	}
	init := b.bindExpression(s.Initializer)
	typ := init.Type()
	if s.Type != nil {
		declared := b.resolveType(s.Type)
		switch {
		case declared.IsVoid():
			b.report(s.Type, "variable '%s' cannot have type void", name)
			declared = symbols.Error
		case declared.IsError() || init.Type().IsError():
		case init.Type().IsVoid() || !declared.Equal(init.Type()):
			b.report(s.Initializer, "cannot assign a value of type %s to variable '%s' of type %s", init.Type().Name(), name, declared.Name())
		}
		typ = declared
	} else if typ.IsVoid() {
		b.report(s.Initializer, "cannot initialize variable '%s' with a void value", name)
		typ = symbols.Error
	}
	return bound.NewVariableDeclaration(s.Span(), b.declareVariable(s.Name, typ, s.Mutable), init)
}

// declareVariable declares a global when binding script statements at the
// top level and a local otherwise. The symbol is returned even when the
// declaration fails so that later statements can still be checked.
func (b *Binder) declareVariable(id *ast.Identifier, typ symbols.Type, mutable bool) *symbols.VariableSymbol {
	var variable *symbols.VariableSymbol
	if b.scope == b.global {
		variable = symbols.NewGlobalVariable(id.Name, typ, mutable)
	} else {
		variable = symbols.NewLocalVariable(id.Name, typ, mutable)
	}
	if b.class != nil {
		if _, clash := b.class.Property(id.Name); clash {
			b.report(id, "variable '%s' is already defined as a property of class '%s'", id.Name, b.class.Name())
			return variable
		}
	}
	if !b.scope.DeclareVariable(variable) {
		b.report(id, "variable '%s' is already defined", id.Name)
	}
	return variable
}

// bindCondition defaults a missing condition to true and requires bool.
func (b *Binder) bindCondition(cond ast.Expression, owner ast.Node) bound.Expression {
	if cond == nil {
		return bound.NewLiteral(owner.Span(), runtime.BoolValue{Val: true})
	}
	expr := b.bindExpression(cond)
	if !expr.Type().IsError() && !expr.Type().Equal(symbols.Bool) {
		b.report(cond, "condition must be bool but is %s", expr.Type().Name())
		return bound.NewErrorExpression(cond.Span())
	}
	return expr
}

func (b *Binder) bindIf(s *ast.IfStatement) bound.Statement {
	cond := b.bindCondition(s.Condition, s)
	then := b.bindNested(s.Then)
	var elseStmt bound.Statement
	if s.Else != nil {
		elseStmt = b.bindNested(s.Else)
	}
	return bound.NewIfStatement(s.Span(), cond, then, elseStmt)
}

func (b *Binder) bindLoop(s *ast.LoopStatement) bound.Statement {
	cond := b.bindCondition(s.Condition, s)
	labels := b.pushLoop()
	body := b.bindNested(s.Body)
	b.popLoop()
	return bound.NewLoopStatement(s.Span(), cond, body, labels.breakLabel, labels.continueLabel)
}

func (b *Binder) bindNumber(expr ast.Expression, what string) bound.Expression {
	bound_ := b.bindExpression(expr)
	if !bound_.Type().IsError() && !bound_.Type().Equal(symbols.Number) {
		b.report(expr, "for-loop %s must be number but is %s", what, bound_.Type().Name())
		return bound.NewErrorExpression(expr.Span())
	}
	return bound_
}

func (b *Binder) bindFor(s *ast.ForStatement) bound.Statement {
	start := b.bindNumber(s.Start, "start")
	end := b.bindNumber(s.End, "end")
	var step bound.Expression
	if s.Step != nil {
		step = b.bindNumber(s.Step, "step")
	}

	b.pushScope()
	defer b.popScope()
	variable := symbols.NewLocalVariable(s.Variable.Name, symbols.Number, false)
	if b.class != nil {
		if _, clash := b.class.Property(variable.Name()); clash {
			b.report(s.Variable, "variable '%s' is already defined as a property of class '%s'", variable.Name(), b.class.Name())
		}
	}
	if !b.scope.DeclareVariable(variable) {
		b.report(s.Variable, "variable '%s' is already defined", variable.Name())
	}

	labels := b.pushLoop()
	body := b.bindNested(s.Body)
	b.popLoop()
	return bound.NewForStatement(s.Span(), variable, start, end, step, body, labels.breakLabel, labels.continueLabel)
}

func (b *Binder) bindReturn(s *ast.ReturnStatement) bound.Statement {
	var value bound.Expression
	if s.Value != nil {
		value = b.bindExpression(s.Value)
	}
	if b.function == nil {
		b.report(s, "return is only allowed inside a function, method or constructor")
		return bound.NewErrorStatement(s.Span())
	}

	name := b.function.Name()
	ret := b.function.ReturnType()
	switch {
	case ret.IsVoid():
		if value != nil {
			b.report(s.Value, "'%s' does not return a value", name)
			return bound.NewErrorStatement(s.Span())
		}
	case value == nil:
		b.report(s, "'%s' must return a value of type %s", name, ret.Name())
		return bound.NewErrorStatement(s.Span())
	case ret.IsError() || value.Type().IsError():
	case !ret.Equal(value.Type()):
		b.report(s.Value, "cannot return a value of type %s from '%s'; expected %s", value.Type().Name(), name, ret.Name())
		return bound.NewReturnStatement(s.Span(), bound.NewErrorExpression(s.Value.Span()))
	}
	return bound.NewReturnStatement(s.Span(), value)
}
