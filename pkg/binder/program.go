package binder

import (
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/symbols"
)

// ScriptName is the name of the implicit function wrapping the free
// statements of a compilation unit.
const ScriptName = "$script"

// Program is the result of binding one compilation unit. A Program bound on
// top of a previous one sees its globals through the scope chain; the
// previous Program is never modified.
type Program struct {
	Previous    *Program
	Scope       *Scope
	Script      *symbols.FunctionSymbol
	Diagnostics []Diagnostic
	Functions   map[*symbols.FunctionSymbol]*bound.BlockStatement
	Classes     map[*symbols.ClassSymbol]*ClassData
}

// ClassData holds the lowered bodies of a class.
type ClassData struct {
	Class       *symbols.ClassSymbol
	Constructor *bound.BlockStatement
	Properties  []PropertyData
	Methods     map[*symbols.MethodSymbol]*bound.BlockStatement
}

// PropertyData is a property with its initializer, nil when the property
// starts at the zero value of its type.
type PropertyData struct {
	Property    *symbols.VariableSymbol
	Initializer bound.Expression
}

// HasErrors reports whether binding produced any diagnostics.
func (p *Program) HasErrors() bool {
	return len(p.Diagnostics) > 0
}

// Body returns the lowered body of a function declared in this program or
// any previous one.
func (p *Program) Body(fn *symbols.FunctionSymbol) (*bound.BlockStatement, bool) {
	for prog := p; prog != nil; prog = prog.Previous {
		if body, ok := prog.Functions[fn]; ok {
			return body, true
		}
	}
	return nil, false
}

// Class returns the bound data of a class declared in this program or any
// previous one.
func (p *Program) Class(class *symbols.ClassSymbol) (*ClassData, bool) {
	for prog := p; prog != nil; prog = prog.Previous {
		if data, ok := prog.Classes[class]; ok {
			return data, true
		}
	}
	return nil, false
}

// MethodBody returns the lowered body of a method or constructor.
func (p *Program) MethodBody(method *symbols.MethodSymbol) (*bound.BlockStatement, bool) {
	data, ok := p.Class(method.Owner())
	if !ok {
		return nil, false
	}
	if method.IsConstructor() {
		return data.Constructor, data.Constructor != nil
	}
	body, ok := data.Methods[method]
	return body, ok
}

// Symbols lists the global functions, classes and variables visible after
// this program, newest submission first. A name redeclared in a later
// submission hides older entries.
func (p *Program) Symbols() []symbols.Symbol {
	seen := make(map[string]struct{})
	var out []symbols.Symbol
	add := func(sym symbols.Symbol) {
		key := sym.Kind().String() + ":" + sym.Name()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, sym)
	}
	for prog := p; prog != nil; prog = prog.Previous {
		for _, fn := range prog.Scope.Functions() {
			add(fn)
		}
		for _, class := range prog.Scope.Classes() {
			add(class)
		}
		for _, v := range prog.Scope.Variables() {
			add(v)
		}
	}
	return out
}

// LookupFunction finds a global function by name.
func (p *Program) LookupFunction(name string) (*symbols.FunctionSymbol, bool) {
	return p.Scope.LookupFunction(name)
}

// LookupClass finds a global class by name.
func (p *Program) LookupClass(name string) (*symbols.ClassSymbol, bool) {
	return p.Scope.LookupClass(name)
}
