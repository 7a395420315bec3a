package binder

import (
	"fmt"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

func (b *Binder) bindExpression(expr ast.Expression) bound.Expression {
	switch e := expr.(type) {
	case nil:
		return bound.NewErrorExpression(ast.Span{})
	case *ast.NumberLiteral:
		return bound.NewLiteral(e.Span(), runtime.NumberValue{Val: e.Value})
	case *ast.StringLiteral:
		return bound.NewLiteral(e.Span(), runtime.StringValue{Val: e.Value})
	case *ast.BooleanLiteral:
		return bound.NewLiteral(e.Span(), runtime.BoolValue{Val: e.Value})
	case *ast.GroupingExpression:
		inner := b.bindExpression(e.Expression)
		if inner.Type().IsError() {
			return inner
		}
		return bound.NewGroupingExpression(e.Span(), inner)
	case *ast.UnaryExpression:
		return b.bindUnary(e)
	case *ast.BinaryExpression:
		return b.bindBinary(e)
	case *ast.NameExpression:
		return b.bindName(e)
	case *ast.AssignmentExpression:
		return b.bindAssignment(e)
	case *ast.CallExpression:
		return b.bindCall(e)
	case *ast.GetExpression:
		return b.bindGet(e)
	case *ast.SetExpression:
		return b.bindSet(e)
	case *ast.MethodCallExpression:
		return b.bindMethodCall(e)
	default:
		panic(fmt.Sprintf("binder: unexpected expression %T", expr))
	}
}

func (b *Binder) bindUnary(e *ast.UnaryExpression) bound.Expression {
	operand := b.bindExpression(e.Operand)
	if operand.Type().IsError() {
		return bound.NewErrorExpression(e.Span())
	}
	op, ok := bound.BindUnaryOperator(e.Operator, operand.Type())
	if !ok {
		b.report(e, "unary operator '%s' is not defined for type %s", e.Operator, operand.Type().Name())
		return bound.NewErrorExpression(e.Span())
	}
	return bound.NewUnaryExpression(e.Span(), op, operand)
}

func (b *Binder) bindBinary(e *ast.BinaryExpression) bound.Expression {
	left := b.bindExpression(e.Left)
	right := b.bindExpression(e.Right)
	if left.Type().IsError() || right.Type().IsError() {
		return bound.NewErrorExpression(e.Span())
	}
	op, ok := bound.BindBinaryOperator(e.Operator, left.Type(), right.Type())
	if !ok {
		b.report(e, "binary operator '%s' is not defined for types %s and %s", e.Operator, left.Type().Name(), right.Type().Name())
		return bound.NewErrorExpression(e.Span())
	}
	return bound.NewBinaryExpression(e.Span(), left, op, right)
}

// lookupVariable resolves a bare name: properties of the enclosing class
// first, then the lexical scope chain.
func (b *Binder) lookupVariable(id *ast.Identifier) (*symbols.VariableSymbol, bool) {
	if b.class != nil {
		if prop, ok := b.class.Property(id.Name); ok {
			if b.static && !prop.Static() {
				b.report(id, "instance property '%s' cannot be used in a static method", id.Name)
				return nil, false
			}
			return prop, true
		}
	}
	if v, ok := b.scope.LookupVariable(id.Name); ok {
		return v, true
	}
	b.report(id, "variable '%s' is not defined", id.Name)
	return nil, false
}

func (b *Binder) bindName(e *ast.NameExpression) bound.Expression {
	v, ok := b.lookupVariable(e.Name)
	if !ok {
		return bound.NewErrorExpression(e.Span())
	}
	return bound.NewNameExpression(e.Span(), v)
}

// canAssign reports whether an immutable variable may still be written here.
// Immutable properties are writable inside their class constructor only.
func (b *Binder) canAssign(v *symbols.VariableSymbol) bool {
	if v.Mutable() {
		return true
	}
	return v.Kind() == symbols.KindProperty && !v.Static() && b.inConstructor && v.Owner() == b.class
}

// checkAssignable reports a value whose type does not match the target.
func (b *Binder) checkAssignable(node ast.Node, target symbols.Type, value bound.Expression, what string) bool {
	if target.IsError() || value.Type().IsError() {
		return false
	}
	if !target.Equal(value.Type()) {
		b.report(node, "cannot assign a value of type %s to %s of type %s", value.Type().Name(), what, target.Name())
		return false
	}
	return true
}

func (b *Binder) bindAssignment(e *ast.AssignmentExpression) bound.Expression {
	value := b.bindExpression(e.Value)
	v, ok := b.lookupVariable(e.Name)
	if !ok {
		return bound.NewErrorExpression(e.Span())
	}
	if !b.canAssign(v) {
		b.report(e.Name, "cannot assign to immutable variable '%s'", v.Name())
		return bound.NewErrorExpression(e.Span())
	}
	if !b.checkAssignable(e.Value, v.Type(), value, fmt.Sprintf("variable '%s'", v.Name())) {
		return bound.NewErrorExpression(e.Span())
	}
	return bound.NewAssignmentExpression(e.Span(), v, value)
}

// bindArguments binds call arguments against the parameters of a callable.
// It returns false after reporting an arity or type mismatch.
func (b *Binder) bindArguments(node ast.Node, name string, params []*symbols.VariableSymbol, args []ast.Expression) ([]bound.Expression, bool) {
	out := make([]bound.Expression, 0, len(args))
	for _, arg := range args {
		out = append(out, b.bindExpression(arg))
	}
	if len(out) != len(params) {
		b.report(node, "'%s' expects %d argument(s) but got %d", name, len(params), len(out))
		return nil, false
	}
	ok := true
	for i, arg := range out {
		param := params[i]
		if arg.Type().IsError() || param.Type().IsError() {
			ok = false
			continue
		}
		if arg.Type().IsVoid() || !param.Type().Equal(arg.Type()) {
			b.report(args[i], "argument %d of '%s' must be %s but is %s", i+1, name, param.Type().Name(), arg.Type().Name())
			ok = false
		}
	}
	return out, ok
}

// bindCall resolves a bare call to a constructor, a global function or a
// sibling method, in that order.
func (b *Binder) bindCall(e *ast.CallExpression) bound.Expression {
	name := e.Callee.Name
	if class, ok := b.scope.LookupClass(name); ok {
		var params []*symbols.VariableSymbol
		if ctor := class.Constructor(); ctor != nil {
			params = ctor.Parameters()
		}
		args, ok := b.bindArguments(e, name, params, e.Arguments)
		if !ok {
			return bound.NewErrorExpression(e.Span())
		}
		return bound.NewConstructExpression(e.Span(), class, args)
	}

	if fn, ok := b.scope.LookupFunction(name); ok {
		args, ok := b.bindArguments(e, name, fn.Parameters(), e.Arguments)
		if !ok {
			return bound.NewErrorExpression(e.Span())
		}
		return bound.NewCallExpression(e.Span(), fn, args)
	}

	if b.class != nil {
		if method, ok := b.class.Method(name); ok {
			if b.static && !method.Static() {
				b.report(e.Callee, "instance method '%s' cannot be called from a static method", name)
				return bound.NewErrorExpression(e.Span())
			}
			args, ok := b.bindArguments(e, name, method.Parameters(), e.Arguments)
			if !ok {
				return bound.NewErrorExpression(e.Span())
			}
			if method.Static() {
				return bound.NewStaticMethodCallExpression(e.Span(), b.class, method, args)
			}
			return bound.NewMethodCallExpression(e.Span(), nil, method, args)
		}
	}

	b.report(e.Callee, "function '%s' is not defined", name)
	for _, arg := range e.Arguments {
		b.bindExpression(arg)
	}
	return bound.NewErrorExpression(e.Span())
}
