package symbols

import (
	"fmt"

	"delta/interpreter-go/pkg/ast"
)

// Kind identifies the symbol category.
type Kind int

const (
	KindGlobalVariable Kind = iota
	KindLocalVariable
	KindParameter
	KindProperty
	KindFunction
	KindMethod
	KindClass
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindGlobalVariable:
		return "global"
	case KindLocalVariable:
		return "local"
	case KindParameter:
		return "parameter"
	case KindProperty:
		return "property"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	case KindLabel:
		return "label"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Symbol is a named fact established once during binding.
type Symbol interface {
	Name() string
	Kind() Kind
	String() string
}

// Accessibility of a class member after defaults are applied.
type Accessibility int

const (
	Private Accessibility = iota
	Public
)

func (a Accessibility) String() string {
	if a == Public {
		return "pub"
	}
	return "priv"
}

//-----------------------------------------------------------------------------
// Variables
//-----------------------------------------------------------------------------

// VariableSymbol covers globals, locals, parameters and class properties.
// The accessibility, static flag and owner are meaningful for properties only.
type VariableSymbol struct {
	name    string
	kind    Kind
	typ     Type
	mutable bool
	access  Accessibility
	static  bool
	owner   *ClassSymbol
}

func NewGlobalVariable(name string, typ Type, mutable bool) *VariableSymbol {
	return &VariableSymbol{name: name, kind: KindGlobalVariable, typ: typ, mutable: mutable}
}

func NewLocalVariable(name string, typ Type, mutable bool) *VariableSymbol {
	return &VariableSymbol{name: name, kind: KindLocalVariable, typ: typ, mutable: mutable}
}

// NewParameter creates a parameter symbol. Parameters are assignable inside
// their body.
func NewParameter(name string, typ Type) *VariableSymbol {
	return &VariableSymbol{name: name, kind: KindParameter, typ: typ, mutable: true}
}

func NewProperty(name string, typ Type, mutable bool, access Accessibility, static bool) *VariableSymbol {
	return &VariableSymbol{name: name, kind: KindProperty, typ: typ, mutable: mutable, access: access, static: static}
}

func (v *VariableSymbol) Name() string                 { return v.name }
func (v *VariableSymbol) Kind() Kind                   { return v.kind }
func (v *VariableSymbol) Type() Type                   { return v.typ }
func (v *VariableSymbol) Mutable() bool                { return v.mutable }
func (v *VariableSymbol) Accessibility() Accessibility { return v.access }
func (v *VariableSymbol) Static() bool                 { return v.static }
func (v *VariableSymbol) Owner() *ClassSymbol          { return v.owner }
func (v *VariableSymbol) String() string               { return FormatSymbol(v) }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// Callable is implemented by functions and methods.
type Callable interface {
	Symbol
	Parameters() []*VariableSymbol
	ReturnType() Type
}

type FunctionSymbol struct {
	name        string
	params      []*VariableSymbol
	returnType  Type
	declaration *ast.FunctionDeclaration
}

// NewFunction creates a function symbol. decl is nil for built-ins and for the
// implicit script function.
func NewFunction(name string, params []*VariableSymbol, returnType Type, decl *ast.FunctionDeclaration) *FunctionSymbol {
	return &FunctionSymbol{name: name, params: params, returnType: returnType, declaration: decl}
}

func (f *FunctionSymbol) Name() string                          { return f.name }
func (f *FunctionSymbol) Kind() Kind                            { return KindFunction }
func (f *FunctionSymbol) Parameters() []*VariableSymbol         { return f.params }
func (f *FunctionSymbol) ReturnType() Type                      { return f.returnType }
func (f *FunctionSymbol) Declaration() *ast.FunctionDeclaration { return f.declaration }
func (f *FunctionSymbol) String() string                        { return FormatSymbol(f) }

// MethodSymbol is a function declared in a class. Constructors are methods
// named "constructor" returning void.
type MethodSymbol struct {
	name        string
	params      []*VariableSymbol
	returnType  Type
	access      Accessibility
	static      bool
	owner       *ClassSymbol
	declaration ast.ClassMember
}

const ConstructorName = "constructor"

func NewMethod(name string, params []*VariableSymbol, returnType Type, access Accessibility, static bool, decl ast.ClassMember) *MethodSymbol {
	return &MethodSymbol{
		name:        name,
		params:      params,
		returnType:  returnType,
		access:      access,
		static:      static,
		declaration: decl,
	}
}

func (m *MethodSymbol) Name() string                  { return m.name }
func (m *MethodSymbol) Kind() Kind                    { return KindMethod }
func (m *MethodSymbol) Parameters() []*VariableSymbol { return m.params }
func (m *MethodSymbol) ReturnType() Type              { return m.returnType }
func (m *MethodSymbol) Accessibility() Accessibility  { return m.access }
func (m *MethodSymbol) Static() bool                  { return m.static }
func (m *MethodSymbol) Owner() *ClassSymbol           { return m.owner }
func (m *MethodSymbol) Declaration() ast.ClassMember  { return m.declaration }
func (m *MethodSymbol) IsConstructor() bool           { return m.name == ConstructorName }
func (m *MethodSymbol) String() string                { return FormatSymbol(m) }

//-----------------------------------------------------------------------------
// Classes
//-----------------------------------------------------------------------------

// ClassSymbol describes a declared class. Its members are attached once by
// Define after the member signatures have been bound.
type ClassSymbol struct {
	name        string
	constructor *MethodSymbol
	properties  []*VariableSymbol
	methods     []*MethodSymbol
	declaration *ast.ClassDeclaration
	defined     bool
}

func NewClass(name string, decl *ast.ClassDeclaration) *ClassSymbol {
	return &ClassSymbol{name: name, declaration: decl}
}

// Define attaches the member symbols. It panics when called twice.
func (c *ClassSymbol) Define(constructor *MethodSymbol, properties []*VariableSymbol, methods []*MethodSymbol) {
	if c.defined {
		panic(fmt.Sprintf("symbols: class %s defined twice", c.name))
	}
	c.defined = true
	c.constructor = constructor
	if constructor != nil {
		constructor.owner = c
	}
	c.properties = properties
	for _, prop := range properties {
		prop.owner = c
	}
	c.methods = methods
	for _, method := range methods {
		method.owner = c
	}
}

func (c *ClassSymbol) Name() string                       { return c.name }
func (c *ClassSymbol) Kind() Kind                         { return KindClass }
func (c *ClassSymbol) Constructor() *MethodSymbol         { return c.constructor }
func (c *ClassSymbol) Properties() []*VariableSymbol      { return c.properties }
func (c *ClassSymbol) Methods() []*MethodSymbol           { return c.methods }
func (c *ClassSymbol) Declaration() *ast.ClassDeclaration { return c.declaration }
func (c *ClassSymbol) Type() Type                         { return InstanceOf(c) }
func (c *ClassSymbol) String() string                     { return FormatSymbol(c) }

// Property finds a property by name.
func (c *ClassSymbol) Property(name string) (*VariableSymbol, bool) {
	for _, prop := range c.properties {
		if prop.name == name {
			return prop, true
		}
	}
	return nil, false
}

// Method finds a method by name. The constructor is not included.
func (c *ClassSymbol) Method(name string) (*MethodSymbol, bool) {
	for _, method := range c.methods {
		if method.name == name {
			return method, true
		}
	}
	return nil, false
}

//-----------------------------------------------------------------------------
// Labels
//-----------------------------------------------------------------------------

// LabelSymbol is a jump target created by the binder or the lowerer.
type LabelSymbol struct {
	name string
}

func NewLabel(name string) *LabelSymbol {
	return &LabelSymbol{name: name}
}

func (l *LabelSymbol) Name() string   { return l.name }
func (l *LabelSymbol) Kind() Kind     { return KindLabel }
func (l *LabelSymbol) String() string { return l.name }
