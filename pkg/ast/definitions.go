package ast

// Accessibility is the visibility marker written on class members.
type Accessibility string

const (
	AccessUnspecified Accessibility = ""
	AccessPublic      Accessibility = "pub"
	AccessPrivate     Accessibility = "priv"
)

type Parameter struct {
	nodeImpl

	Name *Identifier     `json:"name"`
	Type *TypeAnnotation `json:"paramType"`
}

func NewParameter(name *Identifier, typ *TypeAnnotation) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, Type: typ}
}

type FunctionDeclaration struct {
	nodeImpl
	memberMarker

	Name       *Identifier     `json:"name"`
	Parameters []*Parameter    `json:"params"`
	ReturnType *TypeAnnotation `json:"returnType,omitempty"`
	Body       *BlockStatement `json:"body"`
}

func NewFunctionDeclaration(name *Identifier, params []*Parameter, returnType *TypeAnnotation, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{
		nodeImpl:   newNodeImpl(NodeFunctionDeclaration),
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Body:       body,
	}
}

type ClassDeclaration struct {
	nodeImpl
	memberMarker

	Name    *Identifier   `json:"name"`
	Members []ClassMember `json:"members"`
}

func NewClassDeclaration(name *Identifier, members []ClassMember) *ClassDeclaration {
	return &ClassDeclaration{nodeImpl: newNodeImpl(NodeClassDeclaration), Name: name, Members: members}
}

type PropertyDeclaration struct {
	nodeImpl
	classMemberMarker

	Access      Accessibility   `json:"access,omitempty"`
	Static      bool            `json:"static,omitempty"`
	Mutable     bool            `json:"mutable,omitempty"`
	Name        *Identifier     `json:"name"`
	Type        *TypeAnnotation `json:"propType,omitempty"`
	Initializer Expression      `json:"initializer,omitempty"`
}

func NewPropertyDeclaration(access Accessibility, static, mutable bool, name *Identifier, typ *TypeAnnotation, init Expression) *PropertyDeclaration {
	return &PropertyDeclaration{
		nodeImpl:    newNodeImpl(NodePropertyDeclaration),
		Access:      access,
		Static:      static,
		Mutable:     mutable,
		Name:        name,
		Type:        typ,
		Initializer: init,
	}
}

type MethodDeclaration struct {
	nodeImpl
	classMemberMarker

	Access     Accessibility   `json:"access,omitempty"`
	Static     bool            `json:"static,omitempty"`
	Name       *Identifier     `json:"name"`
	Parameters []*Parameter    `json:"params"`
	ReturnType *TypeAnnotation `json:"returnType,omitempty"`
	Body       *BlockStatement `json:"body"`
}

func NewMethodDeclaration(access Accessibility, static bool, name *Identifier, params []*Parameter, returnType *TypeAnnotation, body *BlockStatement) *MethodDeclaration {
	return &MethodDeclaration{
		nodeImpl:   newNodeImpl(NodeMethodDeclaration),
		Access:     access,
		Static:     static,
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Body:       body,
	}
}

type ConstructorDeclaration struct {
	nodeImpl
	classMemberMarker

	Access     Accessibility   `json:"access,omitempty"`
	Parameters []*Parameter    `json:"params"`
	Body       *BlockStatement `json:"body"`
}

func NewConstructorDeclaration(access Accessibility, params []*Parameter, body *BlockStatement) *ConstructorDeclaration {
	return &ConstructorDeclaration{
		nodeImpl:   newNodeImpl(NodeConstructorDeclaration),
		Access:     access,
		Parameters: params,
		Body:       body,
	}
}
