package interpreter

import (
	"math"
	"strings"

	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

func (i *Interpreter) evaluateExpression(expr bound.Expression) (runtime.Value, error) {
	switch e := expr.(type) {
	case *bound.LiteralExpression:
		return e.Value, nil
	case *bound.GroupingExpression:
		return i.evaluateExpression(e.Expression)
	case *bound.UnaryExpression:
		return i.evaluateUnaryExpression(e)
	case *bound.BinaryExpression:
		return i.evaluateBinaryExpression(e)
	case *bound.NameExpression:
		return i.lookup(e, e.Variable)
	case *bound.AssignmentExpression:
		val, err := i.evaluateExpression(e.Value)
		if err != nil {
			return nil, err
		}
		if err := i.assign(e, e.Variable, val); err != nil {
			return nil, err
		}
		return val, nil
	case *bound.CallExpression:
		return i.evaluateCall(e)
	case *bound.ConstructExpression:
		return i.evaluateConstruct(e)
	case *bound.MethodCallExpression:
		return i.evaluateMethodCall(e)
	case *bound.StaticMethodCallExpression:
		return i.evaluateStaticMethodCall(e)
	case *bound.GetPropertyExpression:
		inst, err := i.evaluateInstance(e.Instance)
		if err != nil {
			return nil, err
		}
		return i.readProperty(e, inst, e.Property)
	case *bound.SetPropertyExpression:
		inst, err := i.evaluateInstance(e.Instance)
		if err != nil {
			return nil, err
		}
		val, err := i.evaluateExpression(e.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(e.Property, val)
		return val, nil
	case *bound.StaticGetPropertyExpression:
		inst, err := i.staticStorage(e.Class)
		if err != nil {
			return nil, err
		}
		return i.readProperty(e, inst, e.Property)
	case *bound.StaticSetPropertyExpression:
		inst, err := i.staticStorage(e.Class)
		if err != nil {
			return nil, err
		}
		val, err := i.evaluateExpression(e.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(e.Property, val)
		return val, nil
	case *bound.ErrorExpression:
		return nil, fault(e.Span(), "cannot evaluate an expression that failed to bind")
	default:
		return nil, fault(expr.Span(), "unsupported expression %s", expr.Kind())
	}
}

func (i *Interpreter) evaluateUnaryExpression(expr *bound.UnaryExpression) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case bound.OpIdentity:
		n, err := asNumber(expr, operand)
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: n}, nil
	case bound.OpNegate:
		n, err := asNumber(expr, operand)
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: -n}, nil
	case bound.OpLogicalNot:
		b, err := asBool(expr, operand)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: !b}, nil
	default:
		return nil, fault(expr.Span(), "unsupported unary operator %s", expr.Operator.Syntax)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *bound.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case bound.OpLogicalAnd, bound.OpLogicalOr:
		lb, err := asBool(expr.Left, left)
		if err != nil {
			return nil, err
		}
		if lb == (expr.Operator.Kind == bound.OpLogicalOr) {
			return runtime.BoolValue{Val: lb}, nil
		}
		right, err := i.evaluateExpression(expr.Right)
		if err != nil {
			return nil, err
		}
		rb, err := asBool(expr.Right, right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: rb}, nil
	}

	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case bound.OpConcatenate:
		return runtime.StringValue{Val: runtime.Format(left) + runtime.Format(right)}, nil
	case bound.OpEqual:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case bound.OpNotEqual:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case bound.OpLess, bound.OpLessOrEqual, bound.OpGreater, bound.OpGreaterOrEqual:
		cmp, err := compareValues(expr, left, right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: comparisonOp(expr.Operator.Kind, cmp)}, nil
	}

	l, err := asNumber(expr.Left, left)
	if err != nil {
		return nil, err
	}
	r, err := asNumber(expr.Right, right)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case bound.OpAdd:
		return runtime.NumberValue{Val: l + r}, nil
	case bound.OpSubtract:
		return runtime.NumberValue{Val: l - r}, nil
	case bound.OpMultiply:
		return runtime.NumberValue{Val: l * r}, nil
	case bound.OpDivide:
		return runtime.NumberValue{Val: l / r}, nil
	case bound.OpModulo:
		return runtime.NumberValue{Val: math.Mod(l, r)}, nil
	default:
		return nil, fault(expr.Span(), "unsupported binary operator %s", expr.Operator.Syntax)
	}
}

func comparisonOp(kind bound.BinaryOperatorKind, cmp int) bool {
	switch kind {
	case bound.OpLess:
		return cmp < 0
	case bound.OpLessOrEqual:
		return cmp <= 0
	case bound.OpGreater:
		return cmp > 0
	case bound.OpGreaterOrEqual:
		return cmp >= 0
	default:
		return false
	}
}

func compareValues(expr bound.Expression, left, right runtime.Value) (int, error) {
	switch l := left.(type) {
	case runtime.NumberValue:
		r, err := asNumber(expr, right)
		if err != nil {
			return 0, err
		}
		switch {
		case l.Val < r:
			return -1, nil
		case l.Val > r:
			return 1, nil
		}
		return 0, nil
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		if !ok {
			return 0, fault(expr.Span(), "cannot compare string with %s", right.Kind())
		}
		return strings.Compare(l.Val, r.Val), nil
	default:
		return 0, fault(expr.Span(), "cannot compare %s values", left.Kind())
	}
}

func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.NumberValue:
		r, ok := right.(runtime.NumberValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case *runtime.InstanceValue:
		r, ok := right.(*runtime.InstanceValue)
		return ok && l == r
	default:
		return left.Kind() == right.Kind()
	}
}

func asNumber(expr bound.Expression, val runtime.Value) (float64, error) {
	n, ok := val.(runtime.NumberValue)
	if !ok {
		return 0, fault(expr.Span(), "expected number, got %s", val.Kind())
	}
	return n.Val, nil
}

func asBool(expr bound.Expression, val runtime.Value) (bool, error) {
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, fault(expr.Span(), "expected bool, got %s", val.Kind())
	}
	return b.Val, nil
}

// lookup reads a variable from the store its kind selects.
func (i *Interpreter) lookup(expr bound.Expression, variable *symbols.VariableSymbol) (runtime.Value, error) {
	switch variable.Kind() {
	case symbols.KindGlobalVariable:
		val, err := i.globals.Variables.Get(variable)
		if err != nil {
			return nil, fault(expr.Span(), "%v", err)
		}
		return val, nil
	case symbols.KindProperty:
		inst, err := i.propertyOwner(expr, variable)
		if err != nil {
			return nil, err
		}
		return i.readProperty(expr, inst, variable)
	default:
		val, err := i.currentFrame().Locals.Get(variable)
		if err != nil {
			return nil, fault(expr.Span(), "%v", err)
		}
		return val, nil
	}
}

func (i *Interpreter) assign(expr bound.Expression, variable *symbols.VariableSymbol, val runtime.Value) error {
	switch variable.Kind() {
	case symbols.KindGlobalVariable:
		if err := i.globals.Variables.Assign(variable, val); err != nil {
			return fault(expr.Span(), "%v", err)
		}
	case symbols.KindProperty:
		inst, err := i.propertyOwner(expr, variable)
		if err != nil {
			return err
		}
		inst.Set(variable, val)
	default:
		if err := i.currentFrame().Locals.Assign(variable, val); err != nil {
			return fault(expr.Span(), "%v", err)
		}
	}
	return nil
}
