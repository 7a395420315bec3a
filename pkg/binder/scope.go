package binder

import (
	"delta/interpreter-go/pkg/symbols"
)

// Scope is one level of the lexical environment. A name may be declared at
// most once along the whole chain: inner scopes never shadow outer names.
type Scope struct {
	parent *Scope

	variables map[string]*symbols.VariableSymbol
	functions map[string]*symbols.FunctionSymbol
	classes   map[string]*symbols.ClassSymbol

	variableOrder []*symbols.VariableSymbol
	functionOrder []*symbols.FunctionSymbol
	classOrder    []*symbols.ClassSymbol
}

// NewScope creates a scope nested under parent (nil for a root).
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:    parent,
		variables: make(map[string]*symbols.VariableSymbol),
		functions: make(map[string]*symbols.FunctionSymbol),
		classes:   make(map[string]*symbols.ClassSymbol),
	}
}

// Parent exposes the enclosing scope (nil at the root).
func (s *Scope) Parent() *Scope {
	return s.parent
}

// DeclareVariable adds a variable unless the name is visible anywhere on the
// chain.
func (s *Scope) DeclareVariable(v *symbols.VariableSymbol) bool {
	if _, exists := s.LookupVariable(v.Name()); exists {
		return false
	}
	s.defineVariable(v)
	return true
}

// seedVariable adds a parameter checking only this level, so parameters may
// reuse names of the enclosing scope.
func (s *Scope) seedVariable(v *symbols.VariableSymbol) bool {
	if _, exists := s.variables[v.Name()]; exists {
		return false
	}
	s.defineVariable(v)
	return true
}

func (s *Scope) defineVariable(v *symbols.VariableSymbol) {
	s.variables[v.Name()] = v
	s.variableOrder = append(s.variableOrder, v)
}

func (s *Scope) DeclareFunction(f *symbols.FunctionSymbol) bool {
	if _, exists := s.LookupFunction(f.Name()); exists {
		return false
	}
	s.functions[f.Name()] = f
	s.functionOrder = append(s.functionOrder, f)
	return true
}

func (s *Scope) DeclareClass(c *symbols.ClassSymbol) bool {
	if _, exists := s.LookupClass(c.Name()); exists {
		return false
	}
	s.classes[c.Name()] = c
	s.classOrder = append(s.classOrder, c)
	return true
}

// LookupVariable searches outward through the scope chain.
func (s *Scope) LookupVariable(name string) (*symbols.VariableSymbol, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Scope) LookupFunction(name string) (*symbols.FunctionSymbol, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if f, ok := scope.functions[name]; ok {
			return f, true
		}
	}
	return nil, false
}

func (s *Scope) LookupClass(name string) (*symbols.ClassSymbol, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if c, ok := scope.classes[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// Variables lists the variables declared at this level in declaration order.
func (s *Scope) Variables() []*symbols.VariableSymbol {
	return append([]*symbols.VariableSymbol(nil), s.variableOrder...)
}

func (s *Scope) Functions() []*symbols.FunctionSymbol {
	return append([]*symbols.FunctionSymbol(nil), s.functionOrder...)
}

func (s *Scope) Classes() []*symbols.ClassSymbol {
	return append([]*symbols.ClassSymbol(nil), s.classOrder...)
}
