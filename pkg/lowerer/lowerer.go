// Package lowerer rewrites structured bound control flow into labels and
// jumps and flattens nested blocks into one statement list.
package lowerer

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

// Lower rewrites stmt and flattens the result, folding constant jump
// conditions. The result is the executable form of a body.
func Lower(stmt bound.Statement) *bound.BlockStatement {
	return Flatten(Rewrite(stmt), true)
}

// Rewrite replaces if, loop and for statements with labels and gotos. Blocks
// are kept; Flatten removes them. Each call is one lowering pass with its own
// label numbering.
func Rewrite(stmt bound.Statement) bound.Statement {
	l := &lowerer{}
	return l.rewrite(stmt)
}

type lowerer struct {
	labels int
}

func (l *lowerer) label() *symbols.LabelSymbol {
	l.labels++
	return symbols.NewLabel(fmt.Sprintf("Label_%d", l.labels))
}

func (l *lowerer) rewrite(stmt bound.Statement) bound.Statement {
	switch s := stmt.(type) {
	case *bound.BlockStatement:
		out := make([]bound.Statement, 0, len(s.Statements))
		for _, child := range s.Statements {
			out = append(out, l.rewrite(child))
		}
		return bound.NewBlockStatement(s.Span(), out)
	case *bound.IfStatement:
		return l.rewriteIf(s)
	case *bound.LoopStatement:
		return l.rewriteLoop(s)
	case *bound.ForStatement:
		return l.rewriteFor(s)
	case *bound.ExpressionStatement, *bound.VariableDeclaration, *bound.ReturnStatement,
		*bound.LabelStatement, *bound.GotoStatement, *bound.ConditionalGotoStatement, *bound.ErrorStatement:
		return stmt
	default:
		panic(fmt.Sprintf("lowerer: unexpected statement %T", stmt))
	}
}

// if (c) A
//
//	goto end unless c
//	A
//	end:
//
// if (c) A else B
//
//	goto else unless c
//	A
//	goto end
//	else:
//	B
//	end:
func (l *lowerer) rewriteIf(s *bound.IfStatement) bound.Statement {
	span := s.Span()
	if s.Else == nil {
		end := l.label()
		return bound.NewBlockStatement(span, []bound.Statement{
			bound.NewConditionalGotoStatement(span, end, s.Condition, false),
			l.rewrite(s.Then),
			bound.NewLabelStatement(span, end),
		})
	}
	elseLabel := l.label()
	end := l.label()
	return bound.NewBlockStatement(span, []bound.Statement{
		bound.NewConditionalGotoStatement(span, elseLabel, s.Condition, false),
		l.rewrite(s.Then),
		bound.NewGotoStatement(span, end),
		bound.NewLabelStatement(span, elseLabel),
		l.rewrite(s.Else),
		bound.NewLabelStatement(span, end),
	})
}

// loop (c) Body
//
//	goto continue
//	body:
//	Body
//	continue:
//	goto body if c
//	break:
//
// A loop whose condition is the constant true jumps back unconditionally, so
// only break reaches the break label.
func (l *lowerer) rewriteLoop(s *bound.LoopStatement) bound.Statement {
	span := s.Span()
	body := l.label()
	var back bound.Statement = bound.NewConditionalGotoStatement(span, body, s.Condition, true)
	if value, ok := ConstantBool(s.Condition); ok && value {
		back = bound.NewGotoStatement(span, body)
	}
	return bound.NewBlockStatement(span, []bound.Statement{
		bound.NewGotoStatement(span, s.ContinueLabel),
		bound.NewLabelStatement(span, body),
		l.rewrite(s.Body),
		bound.NewLabelStatement(span, s.ContinueLabel),
		back,
		bound.NewLabelStatement(span, s.BreakLabel),
	})
}

// for v = start -> end step s Body
//
//	var start' = start
//	var end' = end
//	var step' = s
//	var desc' = start' > end'
//	var v = start'
//	goto check
//	body:
//	Body
//	continue:
//	if (desc') v = v - step' else v = v + step'
//	check:
//	if (desc') goto body if v >= end' else goto body if v <= end'
//	break:
//
// The bounds and the direction are evaluated once, before the first
// iteration.
func (l *lowerer) rewriteFor(s *bound.ForStatement) bound.Statement {
	span := s.Span()
	v := s.Variable
	temp := func(suffix string, typ symbols.Type) *symbols.VariableSymbol {
		name := v.Name() + "$" + suffix
		if v.Kind() == symbols.KindGlobalVariable {
			return symbols.NewGlobalVariable(name, typ, false)
		}
		return symbols.NewLocalVariable(name, typ, false)
	}
	name := func(sym *symbols.VariableSymbol) bound.Expression {
		return bound.NewNameExpression(span, sym)
	}
	binary := func(left bound.Expression, op string, right bound.Expression) bound.Expression {
		return bound.NewBinaryExpression(span, left, bound.MustBinaryOperator(op, left.Type(), right.Type()), right)
	}

	step := s.Step
	if step == nil {
		step = bound.NewLiteral(span, runtime.NumberValue{Val: 1})
	}
	startVar := temp("start", symbols.Number)
	endVar := temp("end", symbols.Number)
	stepVar := temp("step", symbols.Number)
	descVar := temp("desc", symbols.Bool)

	body := l.label()
	check := l.label()

	decrement := bound.NewExpressionStatement(span, bound.NewAssignmentExpression(span, v, binary(name(v), "-", name(stepVar))))
	increment := bound.NewExpressionStatement(span, bound.NewAssignmentExpression(span, v, binary(name(v), "+", name(stepVar))))
	descending := bound.NewConditionalGotoStatement(span, body, binary(name(v), ">=", name(endVar)), true)
	ascending := bound.NewConditionalGotoStatement(span, body, binary(name(v), "<=", name(endVar)), true)

	return bound.NewBlockStatement(span, []bound.Statement{
		bound.NewVariableDeclaration(span, startVar, s.Start),
		bound.NewVariableDeclaration(span, endVar, s.End),
		bound.NewVariableDeclaration(span, stepVar, step),
		bound.NewVariableDeclaration(span, descVar, binary(name(startVar), ">", name(endVar))),
		bound.NewVariableDeclaration(span, v, name(startVar)),
		bound.NewGotoStatement(span, check),
		bound.NewLabelStatement(span, body),
		l.rewrite(s.Body),
		bound.NewLabelStatement(span, s.ContinueLabel),
		l.rewrite(bound.NewIfStatement(span, name(descVar), decrement, increment)),
		bound.NewLabelStatement(span, check),
		l.rewrite(bound.NewIfStatement(span, name(descVar), descending, ascending)),
		bound.NewLabelStatement(span, s.BreakLabel),
	})
}

// Flatten turns nested blocks into a single statement list using an explicit
// stack. With fold set, conditional gotos on constant conditions become
// unconditional jumps or disappear.
func Flatten(stmt bound.Statement, fold bool) *bound.BlockStatement {
	out := make([]bound.Statement, 0)
	if stmt == nil {
		return bound.NewBlockStatement(ast.Span{}, out)
	}
	stack := arraystack.New()
	stack.Push(stmt)

	for !stack.Empty() {
		top, _ := stack.Pop()
		current := top.(bound.Statement)

		if block, ok := current.(*bound.BlockStatement); ok {
			for i := len(block.Statements) - 1; i >= 0; i-- {
				stack.Push(block.Statements[i])
			}
			continue
		}
		if fold {
			if jump, ok := current.(*bound.ConditionalGotoStatement); ok {
				if value, constant := ConstantBool(jump.Condition); constant {
					if value == jump.JumpIfTrue {
						out = append(out, bound.NewGotoStatement(jump.Span(), jump.Label))
					}
					continue
				}
			}
		}
		out = append(out, current)
	}
	return bound.NewBlockStatement(stmt.Span(), out)
}

// ConstantBool reports the value of a literal boolean condition.
func ConstantBool(expr bound.Expression) (bool, bool) {
	switch e := expr.(type) {
	case *bound.LiteralExpression:
		if b, ok := e.Value.(runtime.BoolValue); ok {
			return b.Val, true
		}
	case *bound.GroupingExpression:
		return ConstantBool(e.Expression)
	}
	return false, false
}
