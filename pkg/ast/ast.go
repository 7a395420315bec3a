package ast

type NodeType string

const (
	NodeModule                 NodeType = "Module"
	NodeIdentifier             NodeType = "Identifier"
	NodeTypeAnnotation         NodeType = "TypeAnnotation"
	NodeNumberLiteral          NodeType = "NumberLiteral"
	NodeStringLiteral          NodeType = "StringLiteral"
	NodeBooleanLiteral         NodeType = "BooleanLiteral"
	NodeUnaryExpression        NodeType = "UnaryExpression"
	NodeBinaryExpression       NodeType = "BinaryExpression"
	NodeGroupingExpression     NodeType = "GroupingExpression"
	NodeNameExpression         NodeType = "NameExpression"
	NodeAssignmentExpression   NodeType = "AssignmentExpression"
	NodeCallExpression         NodeType = "CallExpression"
	NodeGetExpression          NodeType = "GetExpression"
	NodeSetExpression          NodeType = "SetExpression"
	NodeMethodCallExpression   NodeType = "MethodCallExpression"
	NodeExpressionStatement    NodeType = "ExpressionStatement"
	NodeVariableDeclaration    NodeType = "VariableDeclaration"
	NodeBlockStatement         NodeType = "BlockStatement"
	NodeIfStatement            NodeType = "IfStatement"
	NodeLoopStatement          NodeType = "LoopStatement"
	NodeForStatement           NodeType = "ForStatement"
	NodeReturnStatement        NodeType = "ReturnStatement"
	NodeBreakStatement         NodeType = "BreakStatement"
	NodeContinueStatement      NodeType = "ContinueStatement"
	NodeParameter              NodeType = "Parameter"
	NodeFunctionDeclaration    NodeType = "FunctionDeclaration"
	NodeClassDeclaration       NodeType = "ClassDeclaration"
	NodePropertyDeclaration    NodeType = "PropertyDeclaration"
	NodeMethodDeclaration      NodeType = "MethodDeclaration"
	NodeConstructorDeclaration NodeType = "ConstructorDeclaration"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsZero reports whether the span carries no location (synthesized nodes).
func (s Span) IsZero() bool { return s == Span{} }

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

type spanSetter interface {
	setSpan(Span)
}

// SetSpan records the source location of a node. Loaders call it after
// constructing a node; nodes built in memory keep the zero span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(spanSetter); ok {
		setter.setSpan(span)
	}
}

// WithSpan is SetSpan returning the node, for use in constructor chains.
func WithSpan[T Node](node T, span Span) T {
	SetSpan(node, span)
	return node
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Member is a top-level entry of a module: a function, a class or a
// free-standing statement belonging to the script.
type Member interface {
	Node
	memberNode()
}

type memberMarker struct{}

func (memberMarker) memberNode() {}

// ClassMember is a property, method or constructor declared inside a class.
type ClassMember interface {
	Node
	classMemberNode()
}

type classMemberMarker struct{}

func (classMemberMarker) classMemberNode() {}

// Module

type Module struct {
	nodeImpl

	Path    string   `json:"path,omitempty"`
	Members []Member `json:"members"`
}

func NewModule(path string, members []Member) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Path: path, Members: members}
}

// Identifier

type Identifier struct {
	nodeImpl

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// TypeAnnotation names a type in a declaration: a primitive (number, string,
// bool, void) or a class.
type TypeAnnotation struct {
	nodeImpl

	Name *Identifier `json:"name"`
}

func NewTypeAnnotation(name *Identifier) *TypeAnnotation {
	return &TypeAnnotation{nodeImpl: newNodeImpl(NodeTypeAnnotation), Name: name}
}

// Literals

type NumberLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type GroupingExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewGroupingExpression(expr Expression) *GroupingExpression {
	return &GroupingExpression{nodeImpl: newNodeImpl(NodeGroupingExpression), Expression: expr}
}

// Names and members

type NameExpression struct {
	nodeImpl
	expressionMarker

	Name *Identifier `json:"name"`
}

func NewNameExpression(name *Identifier) *NameExpression {
	return &NameExpression{nodeImpl: newNodeImpl(NodeNameExpression), Name: name}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewAssignmentExpression(name *Identifier, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Name: name, Value: value}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee *Identifier, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args}
}

type GetExpression struct {
	nodeImpl
	expressionMarker

	Receiver Expression  `json:"receiver"`
	Name     *Identifier `json:"name"`
}

func NewGetExpression(receiver Expression, name *Identifier) *GetExpression {
	return &GetExpression{nodeImpl: newNodeImpl(NodeGetExpression), Receiver: receiver, Name: name}
}

type SetExpression struct {
	nodeImpl
	expressionMarker

	Receiver Expression  `json:"receiver"`
	Name     *Identifier `json:"name"`
	Value    Expression  `json:"value"`
}

func NewSetExpression(receiver Expression, name *Identifier, value Expression) *SetExpression {
	return &SetExpression{nodeImpl: newNodeImpl(NodeSetExpression), Receiver: receiver, Name: name, Value: value}
}

type MethodCallExpression struct {
	nodeImpl
	expressionMarker

	Receiver  Expression   `json:"receiver"`
	Name      *Identifier  `json:"name"`
	Arguments []Expression `json:"arguments"`
}

func NewMethodCallExpression(receiver Expression, name *Identifier, args []Expression) *MethodCallExpression {
	return &MethodCallExpression{nodeImpl: newNodeImpl(NodeMethodCallExpression), Receiver: receiver, Name: name, Arguments: args}
}
