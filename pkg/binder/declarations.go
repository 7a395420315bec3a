package binder

import (
	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/lowerer"
	"delta/interpreter-go/pkg/symbols"
)

func (b *Binder) declareClasses(members []member) []*pendingClass {
	var out []*pendingClass
	for _, m := range members {
		decl, ok := m.node.(*ast.ClassDeclaration)
		if !ok {
			continue
		}
		b.path = m.path
		name := decl.Name.Name
		if _, primitive := symbols.Primitive(name); primitive {
			b.report(decl.Name, "class name '%s' is reserved for a built-in type", name)
			continue
		}
		class := symbols.NewClass(name, decl)
		if !b.global.DeclareClass(class) {
			b.report(decl.Name, "class '%s' is already defined", name)
			continue
		}
		out = append(out, &pendingClass{path: m.path, decl: decl, symbol: class})
	}
	return out
}

func (b *Binder) declareFunctions(members []member) []*pendingFunction {
	var out []*pendingFunction
	for _, m := range members {
		decl, ok := m.node.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		b.path = m.path
		params := b.bindParameters(decl.Parameters, nil, nil)
		fn := symbols.NewFunction(decl.Name.Name, params, b.resolveReturnType(decl.ReturnType), decl)
		if !b.global.DeclareFunction(fn) {
			b.report(decl.Name, "function '%s' is already defined", fn.Name())
			continue
		}
		out = append(out, &pendingFunction{path: m.path, decl: decl, symbol: fn})
	}
	return out
}

// bindParameters checks names and annotations before a callable symbol is
// created. Parameters that clash with a property of the owning class are
// reported since property names win inside class bodies.
func (b *Binder) bindParameters(params []*ast.Parameter, owner *symbols.ClassSymbol, properties []*symbols.VariableSymbol) []*symbols.VariableSymbol {
	seen := make(map[string]struct{}, len(params))
	out := make([]*symbols.VariableSymbol, 0, len(params))
	for _, param := range params {
		name := param.Name.Name
		if _, dup := seen[name]; dup {
			b.report(param.Name, "parameter '%s' is already defined", name)
			continue
		}
		seen[name] = struct{}{}
		for _, prop := range properties {
			if prop.Name() == name {
				b.report(param.Name, "parameter '%s' is already defined as a property of class '%s'", name, owner.Name())
				break
			}
		}
		typ := b.resolveType(param.Type)
		if typ.IsVoid() {
			b.report(param.Type, "parameter '%s' cannot have type void", name)
			typ = symbols.Error
		}
		out = append(out, symbols.NewParameter(name, typ))
	}
	return out
}

// resolveType maps an annotation to a type, reporting unknown names.
func (b *Binder) resolveType(annotation *ast.TypeAnnotation) symbols.Type {
	if annotation == nil || annotation.Name == nil {
		return symbols.Error
	}
	name := annotation.Name.Name
	if typ, ok := symbols.Primitive(name); ok {
		return typ
	}
	if class, ok := b.scope.LookupClass(name); ok {
		return symbols.InstanceOf(class)
	}
	b.report(annotation, "unknown type '%s'", name)
	return symbols.Error
}

func (b *Binder) resolveReturnType(annotation *ast.TypeAnnotation) symbols.Type {
	if annotation == nil {
		return symbols.Void
	}
	return b.resolveType(annotation)
}

func accessibility(access ast.Accessibility) symbols.Accessibility {
	if access == ast.AccessPublic {
		return symbols.Public
	}
	return symbols.Private
}

// bindClassSignature creates the member symbols of a class and binds its
// property initializers. Initializers see the global scope only: they run
// before the constructor, without a current instance.
func (b *Binder) bindClassSignature(decl *ast.ClassDeclaration, class *symbols.ClassSymbol) *ClassData {
	data := &ClassData{Class: class, Methods: make(map[*symbols.MethodSymbol]*bound.BlockStatement)}

	var constructor *symbols.MethodSymbol
	var properties []*symbols.VariableSymbol
	var methods []*symbols.MethodSymbol
	seen := make(map[string]struct{})
	claim := func(name *ast.Identifier) bool {
		if _, dup := seen[name.Name]; dup {
			b.report(name, "member '%s' is already defined in class '%s'", name.Name, class.Name())
			return false
		}
		seen[name.Name] = struct{}{}
		return true
	}

	// Properties first so parameters can be checked against them.
	for _, m := range decl.Members {
		prop, ok := m.(*ast.PropertyDeclaration)
		if !ok || !claim(prop.Name) {
			continue
		}
		symbol, init := b.bindPropertySignature(class, prop)
		properties = append(properties, symbol)
		data.Properties = append(data.Properties, PropertyData{Property: symbol, Initializer: init})
	}

	for _, m := range decl.Members {
		switch member := m.(type) {
		case *ast.PropertyDeclaration:
		case *ast.MethodDeclaration:
			if member.Name.Name == symbols.ConstructorName {
				b.report(member.Name, "method name '%s' is reserved", symbols.ConstructorName)
				continue
			}
			if !claim(member.Name) {
				continue
			}
			params := b.bindParameters(member.Parameters, class, properties)
			ret := b.resolveReturnType(member.ReturnType)
			methods = append(methods, symbols.NewMethod(member.Name.Name, params, ret, accessibility(member.Access), member.Static, member))
		case *ast.ConstructorDeclaration:
			if constructor != nil {
				b.report(member, "class '%s' declares more than one constructor", class.Name())
				continue
			}
			if member.Access == ast.AccessPrivate {
				b.report(member, "constructor of class '%s' cannot be private", class.Name())
			}
			params := b.bindParameters(member.Parameters, class, properties)
			constructor = symbols.NewMethod(symbols.ConstructorName, params, symbols.Void, symbols.Public, false, member)
		default:
			panic("binder: unexpected class member")
		}
	}

	class.Define(constructor, properties, methods)
	return data
}

func (b *Binder) bindPropertySignature(class *symbols.ClassSymbol, prop *ast.PropertyDeclaration) (*symbols.VariableSymbol, bound.Expression) {
	name := prop.Name.Name
	var init bound.Expression
	if prop.Initializer != nil {
		init = b.bindExpression(prop.Initializer)
	}

	var typ symbols.Type
	switch {
	case prop.Type != nil:
		typ = b.resolveType(prop.Type)
		if typ.IsVoid() {
			b.report(prop.Type, "property '%s' cannot have type void", name)
			typ = symbols.Error
		} else if init != nil && !typ.IsError() && !init.Type().IsError() && !typ.Equal(init.Type()) {
			b.report(prop.Initializer, "cannot initialize property '%s' of type %s with a value of type %s", name, typ.Name(), init.Type().Name())
		}
	case init != nil:
		typ = init.Type()
		if typ.IsVoid() {
			b.report(prop.Initializer, "cannot initialize property '%s' with a void value", name)
			typ = symbols.Error
		}
	default:
		b.report(prop.Name, "property '%s' of class '%s' needs a type or an initializer", name, class.Name())
		typ = symbols.Error
	}
	return symbols.NewProperty(name, typ, prop.Mutable, accessibility(prop.Access), prop.Static), init
}

// bindClassBodies binds and lowers the constructor and method bodies.
func (b *Binder) bindClassBodies(pc *pendingClass) {
	class := pc.symbol
	if ctor := class.Constructor(); ctor != nil {
		decl := ctor.Declaration().(*ast.ConstructorDeclaration)
		body := b.bindCallableBody(ctor, decl.Body, class, false, true)
		pc.data.Constructor = lowerer.Lower(body)
	}
	for _, method := range class.Methods() {
		decl := method.Declaration().(*ast.MethodDeclaration)
		body := b.bindCallableBody(method, decl.Body, class, method.Static(), false)
		pc.data.Methods[method] = b.finishBody(method, decl.Name, body)
	}
}
