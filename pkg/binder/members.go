package binder

import (
	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/symbols"
)

// receiver is the bound left-hand side of a member access: either a class
// named directly or an instance-valued expression.
type receiver struct {
	class    *symbols.ClassSymbol
	static   bool
	instance bound.Expression
}

// bindReceiver classifies a member receiver. A bare name that is not a
// variable but names a class selects static access. It returns false when
// the receiver already failed and nothing more should be reported.
func (b *Binder) bindReceiver(expr ast.Expression) (receiver, bool) {
	if name, ok := expr.(*ast.NameExpression); ok && !b.variableVisible(name.Name.Name) {
		if class, ok := b.scope.LookupClass(name.Name.Name); ok {
			return receiver{class: class, static: true}, true
		}
	}
	inst := b.bindExpression(expr)
	typ := inst.Type()
	if typ.IsError() {
		return receiver{}, false
	}
	if typ.Class() == nil {
		b.report(expr, "type %s has no members", typ.Name())
		return receiver{}, false
	}
	return receiver{class: typ.Class(), instance: inst}, true
}

func (b *Binder) variableVisible(name string) bool {
	if b.class != nil {
		if _, ok := b.class.Property(name); ok {
			return true
		}
	}
	_, ok := b.scope.LookupVariable(name)
	return ok
}

// checkAccess reports a private member used outside its class.
func (b *Binder) checkAccess(id *ast.Identifier, access symbols.Accessibility, owner *symbols.ClassSymbol) bool {
	if access == symbols.Private && b.class != owner {
		b.report(id, "'%s' is private to class '%s'", id.Name, owner.Name())
		return false
	}
	return true
}

// checkStatic reports a static member reached through an instance or an
// instance member reached through the class name.
func (b *Binder) checkStatic(id *ast.Identifier, recv receiver, static bool) bool {
	switch {
	case recv.static && !static:
		b.report(id, "'%s' is not static; use an instance of class '%s'", id.Name, recv.class.Name())
		return false
	case !recv.static && static:
		b.report(id, "'%s' is static; use class '%s' instead of an instance", id.Name, recv.class.Name())
		return false
	}
	return true
}

func (b *Binder) lookupProperty(id *ast.Identifier, recv receiver) (*symbols.VariableSymbol, bool) {
	prop, ok := recv.class.Property(id.Name)
	if !ok {
		b.report(id, "class '%s' has no property '%s'", recv.class.Name(), id.Name)
		return nil, false
	}
	if !b.checkAccess(id, prop.Accessibility(), recv.class) || !b.checkStatic(id, recv, prop.Static()) {
		return nil, false
	}
	return prop, true
}

func (b *Binder) bindGet(e *ast.GetExpression) bound.Expression {
	recv, ok := b.bindReceiver(e.Receiver)
	if !ok {
		return bound.NewErrorExpression(e.Span())
	}
	prop, ok := b.lookupProperty(e.Name, recv)
	if !ok {
		return bound.NewErrorExpression(e.Span())
	}
	if recv.static {
		return bound.NewStaticGetPropertyExpression(e.Span(), recv.class, prop)
	}
	return bound.NewGetPropertyExpression(e.Span(), recv.instance, prop)
}

func (b *Binder) bindSet(e *ast.SetExpression) bound.Expression {
	recv, ok := b.bindReceiver(e.Receiver)
	value := b.bindExpression(e.Value)
	if !ok {
		return bound.NewErrorExpression(e.Span())
	}
	prop, ok := b.lookupProperty(e.Name, recv)
	if !ok {
		return bound.NewErrorExpression(e.Span())
	}
	if !b.canAssign(prop) {
		b.report(e.Name, "cannot assign to immutable property '%s'", prop.Name())
		return bound.NewErrorExpression(e.Span())
	}
	if !b.checkAssignable(e.Value, prop.Type(), value, "property '"+prop.Name()+"'") {
		return bound.NewErrorExpression(e.Span())
	}
	if recv.static {
		return bound.NewStaticSetPropertyExpression(e.Span(), recv.class, prop, value)
	}
	return bound.NewSetPropertyExpression(e.Span(), recv.instance, prop, value)
}

func (b *Binder) bindMethodCall(e *ast.MethodCallExpression) bound.Expression {
	recv, ok := b.bindReceiver(e.Receiver)
	if !ok {
		for _, arg := range e.Arguments {
			b.bindExpression(arg)
		}
		return bound.NewErrorExpression(e.Span())
	}
	method, found := recv.class.Method(e.Name.Name)
	if !found {
		b.report(e.Name, "class '%s' has no method '%s'", recv.class.Name(), e.Name.Name)
		return bound.NewErrorExpression(e.Span())
	}
	if !b.checkAccess(e.Name, method.Accessibility(), recv.class) || !b.checkStatic(e.Name, recv, method.Static()) {
		return bound.NewErrorExpression(e.Span())
	}
	args, ok := b.bindArguments(e, method.Name(), method.Parameters(), e.Arguments)
	if !ok {
		return bound.NewErrorExpression(e.Span())
	}
	if recv.static {
		return bound.NewStaticMethodCallExpression(e.Span(), recv.class, method, args)
	}
	return bound.NewMethodCallExpression(e.Span(), recv.instance, method, args)
}
