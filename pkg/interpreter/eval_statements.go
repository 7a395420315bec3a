package interpreter

import (
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

// labelIndex maps every label of a flat body to the index of the statement
// following it. Bodies are immutable, so the map is computed once.
func (i *Interpreter) labelIndex(body *bound.BlockStatement) map[*symbols.LabelSymbol]int {
	if index, ok := i.labels[body]; ok {
		return index
	}
	index := make(map[*symbols.LabelSymbol]int)
	for pos, stmt := range body.Statements {
		if label, ok := stmt.(*bound.LabelStatement); ok {
			index[label.Label] = pos + 1
		}
	}
	i.labels[body] = index
	return index
}

func (i *Interpreter) jump(index map[*symbols.LabelSymbol]int, stmt bound.Statement, label *symbols.LabelSymbol) (int, error) {
	pos, ok := index[label]
	if !ok {
		return 0, fault(stmt.Span(), "jump to unknown label %s", label.Name())
	}
	return pos, nil
}

// executeBody runs a lowered body until it returns or falls off the end.
func (i *Interpreter) executeBody(body *bound.BlockStatement) (runtime.Value, error) {
	index := i.labelIndex(body)
	pc := 0
	for pc < len(body.Statements) {
		stmt := body.Statements[pc]
		if err := i.tick(stmt); err != nil {
			return nil, err
		}
		switch s := stmt.(type) {
		case *bound.LabelStatement:
			pc++
		case *bound.GotoStatement:
			next, err := i.jump(index, s, s.Label)
			if err != nil {
				return nil, err
			}
			pc = next
		case *bound.ConditionalGotoStatement:
			cond, err := i.evaluateCondition(s.Condition)
			if err != nil {
				return nil, err
			}
			if cond != s.JumpIfTrue {
				pc++
				continue
			}
			next, err := i.jump(index, s, s.Label)
			if err != nil {
				return nil, err
			}
			pc = next
		case *bound.ExpressionStatement:
			if _, err := i.evaluateExpression(s.Expression); err != nil {
				return nil, err
			}
			pc++
		case *bound.VariableDeclaration:
			val, err := i.evaluateExpression(s.Initializer)
			if err != nil {
				return nil, err
			}
			i.declare(s.Variable, val)
			pc++
		case *bound.ReturnStatement:
			if s.Value == nil {
				return runtime.Unit, nil
			}
			return i.evaluateExpression(s.Value)
		case *bound.ErrorStatement:
			return nil, fault(s.Span(), "cannot execute a statement that failed to bind")
		default:
			return nil, fault(stmt.Span(), "unsupported statement %s in lowered body", stmt.Kind())
		}
	}
	return runtime.Unit, nil
}

func (i *Interpreter) tick(stmt bound.Statement) error {
	i.steps++
	if i.maxSteps > 0 && i.steps > i.maxSteps {
		return fault(stmt.Span(), "step limit of %d exceeded", i.maxSteps)
	}
	return nil
}

func (i *Interpreter) declare(variable *symbols.VariableSymbol, val runtime.Value) {
	if variable.Kind() == symbols.KindGlobalVariable {
		i.globals.Variables.Define(variable, val)
		return
	}
	i.currentFrame().Locals.Define(variable, val)
}

func (i *Interpreter) evaluateCondition(expr bound.Expression) (bool, error) {
	val, err := i.evaluateExpression(expr)
	if err != nil {
		return false, err
	}
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, fault(expr.Span(), "condition evaluated to %s, expected bool", val.Kind())
	}
	return b.Val, nil
}
