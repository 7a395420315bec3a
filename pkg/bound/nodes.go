package bound

import (
	"fmt"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

// NodeKind identifies a bound node variant.
type NodeKind int

const (
	KindExpressionStatement NodeKind = iota
	KindVariableDeclaration
	KindBlockStatement
	KindIfStatement
	KindLoopStatement
	KindForStatement
	KindReturnStatement
	KindLabelStatement
	KindGotoStatement
	KindConditionalGotoStatement
	KindErrorStatement

	KindLiteralExpression
	KindUnaryExpression
	KindBinaryExpression
	KindGroupingExpression
	KindNameExpression
	KindAssignmentExpression
	KindGetPropertyExpression
	KindStaticGetPropertyExpression
	KindSetPropertyExpression
	KindStaticSetPropertyExpression
	KindCallExpression
	KindMethodCallExpression
	KindStaticMethodCallExpression
	KindConstructExpression
	KindErrorExpression
)

var kindNames = [...]string{
	KindExpressionStatement:         "ExpressionStatement",
	KindVariableDeclaration:         "VariableDeclaration",
	KindBlockStatement:              "BlockStatement",
	KindIfStatement:                 "IfStatement",
	KindLoopStatement:               "LoopStatement",
	KindForStatement:                "ForStatement",
	KindReturnStatement:             "ReturnStatement",
	KindLabelStatement:              "LabelStatement",
	KindGotoStatement:               "GotoStatement",
	KindConditionalGotoStatement:    "ConditionalGotoStatement",
	KindErrorStatement:              "ErrorStatement",
	KindLiteralExpression:           "LiteralExpression",
	KindUnaryExpression:             "UnaryExpression",
	KindBinaryExpression:            "BinaryExpression",
	KindGroupingExpression:          "GroupingExpression",
	KindNameExpression:              "NameExpression",
	KindAssignmentExpression:        "AssignmentExpression",
	KindGetPropertyExpression:       "GetPropertyExpression",
	KindStaticGetPropertyExpression: "StaticGetPropertyExpression",
	KindSetPropertyExpression:       "SetPropertyExpression",
	KindStaticSetPropertyExpression: "StaticSetPropertyExpression",
	KindCallExpression:              "CallExpression",
	KindMethodCallExpression:        "MethodCallExpression",
	KindStaticMethodCallExpression:  "StaticMethodCallExpression",
	KindConstructExpression:         "ConstructExpression",
	KindErrorExpression:             "ErrorExpression",
}

func (k NodeKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// Node is implemented by every bound statement and expression.
type Node interface {
	Kind() NodeKind
	// Children lists the direct child nodes in evaluation order.
	Children() []Node
	// Span is the location of the syntax the node was bound from. Nodes
	// synthesized by lowering carry the span of the statement they replace.
	Span() ast.Span
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	Type() symbols.Type
	expressionNode()
}

type nodeBase struct {
	span ast.Span
}

func (n nodeBase) Span() ast.Span { return n.span }

type statementMarker struct{}

func (statementMarker) statementNode() {}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

func exprNodes(exprs []Expression) []Node {
	out := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, e)
	}
	return out
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

type ExpressionStatement struct {
	nodeBase
	statementMarker

	Expression Expression
}

func NewExpressionStatement(span ast.Span, expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeBase: nodeBase{span}, Expression: expr}
}

func (s *ExpressionStatement) Kind() NodeKind   { return KindExpressionStatement }
func (s *ExpressionStatement) Children() []Node { return []Node{s.Expression} }

type VariableDeclaration struct {
	nodeBase
	statementMarker

	Variable    *symbols.VariableSymbol
	Initializer Expression
}

func NewVariableDeclaration(span ast.Span, variable *symbols.VariableSymbol, init Expression) *VariableDeclaration {
	return &VariableDeclaration{nodeBase: nodeBase{span}, Variable: variable, Initializer: init}
}

func (s *VariableDeclaration) Kind() NodeKind   { return KindVariableDeclaration }
func (s *VariableDeclaration) Children() []Node { return []Node{s.Initializer} }

type BlockStatement struct {
	nodeBase
	statementMarker

	Statements []Statement
}

func NewBlockStatement(span ast.Span, stmts []Statement) *BlockStatement {
	return &BlockStatement{nodeBase: nodeBase{span}, Statements: stmts}
}

func (s *BlockStatement) Kind() NodeKind { return KindBlockStatement }
func (s *BlockStatement) Children() []Node {
	out := make([]Node, 0, len(s.Statements))
	for _, stmt := range s.Statements {
		out = append(out, stmt)
	}
	return out
}

// IfStatement has a nil Else when the source has no else branch.
type IfStatement struct {
	nodeBase
	statementMarker

	Condition Expression
	Then      Statement
	Else      Statement
}

func NewIfStatement(span ast.Span, cond Expression, then, elseStmt Statement) *IfStatement {
	return &IfStatement{nodeBase: nodeBase{span}, Condition: cond, Then: then, Else: elseStmt}
}

func (s *IfStatement) Kind() NodeKind { return KindIfStatement }
func (s *IfStatement) Children() []Node {
	if s.Else == nil {
		return []Node{s.Condition, s.Then}
	}
	return []Node{s.Condition, s.Then, s.Else}
}

type LoopStatement struct {
	nodeBase
	statementMarker

	Condition     Expression
	Body          Statement
	BreakLabel    *symbols.LabelSymbol
	ContinueLabel *symbols.LabelSymbol
}

func NewLoopStatement(span ast.Span, cond Expression, body Statement, breakLabel, continueLabel *symbols.LabelSymbol) *LoopStatement {
	return &LoopStatement{
		nodeBase:      nodeBase{span},
		Condition:     cond,
		Body:          body,
		BreakLabel:    breakLabel,
		ContinueLabel: continueLabel,
	}
}

func (s *LoopStatement) Kind() NodeKind   { return KindLoopStatement }
func (s *LoopStatement) Children() []Node { return []Node{s.Condition, s.Body} }

// ForStatement has a nil Step when the source omits it.
type ForStatement struct {
	nodeBase
	statementMarker

	Variable      *symbols.VariableSymbol
	Start         Expression
	End           Expression
	Step          Expression
	Body          Statement
	BreakLabel    *symbols.LabelSymbol
	ContinueLabel *symbols.LabelSymbol
}

func NewForStatement(span ast.Span, variable *symbols.VariableSymbol, start, end, step Expression, body Statement, breakLabel, continueLabel *symbols.LabelSymbol) *ForStatement {
	return &ForStatement{
		nodeBase:      nodeBase{span},
		Variable:      variable,
		Start:         start,
		End:           end,
		Step:          step,
		Body:          body,
		BreakLabel:    breakLabel,
		ContinueLabel: continueLabel,
	}
}

func (s *ForStatement) Kind() NodeKind { return KindForStatement }
func (s *ForStatement) Children() []Node {
	if s.Step == nil {
		return []Node{s.Start, s.End, s.Body}
	}
	return []Node{s.Start, s.End, s.Step, s.Body}
}

// ReturnStatement has a nil Value for a bare return.
type ReturnStatement struct {
	nodeBase
	statementMarker

	Value Expression
}

func NewReturnStatement(span ast.Span, value Expression) *ReturnStatement {
	return &ReturnStatement{nodeBase: nodeBase{span}, Value: value}
}

func (s *ReturnStatement) Kind() NodeKind { return KindReturnStatement }
func (s *ReturnStatement) Children() []Node {
	if s.Value == nil {
		return nil
	}
	return []Node{s.Value}
}

type LabelStatement struct {
	nodeBase
	statementMarker

	Label *symbols.LabelSymbol
}

func NewLabelStatement(span ast.Span, label *symbols.LabelSymbol) *LabelStatement {
	return &LabelStatement{nodeBase: nodeBase{span}, Label: label}
}

func (s *LabelStatement) Kind() NodeKind   { return KindLabelStatement }
func (s *LabelStatement) Children() []Node { return nil }

type GotoStatement struct {
	nodeBase
	statementMarker

	Label *symbols.LabelSymbol
}

func NewGotoStatement(span ast.Span, label *symbols.LabelSymbol) *GotoStatement {
	return &GotoStatement{nodeBase: nodeBase{span}, Label: label}
}

func (s *GotoStatement) Kind() NodeKind   { return KindGotoStatement }
func (s *GotoStatement) Children() []Node { return nil }

// ConditionalGotoStatement jumps to Label when Condition evaluates to
// JumpIfTrue.
type ConditionalGotoStatement struct {
	nodeBase
	statementMarker

	Label      *symbols.LabelSymbol
	Condition  Expression
	JumpIfTrue bool
}

func NewConditionalGotoStatement(span ast.Span, label *symbols.LabelSymbol, cond Expression, jumpIfTrue bool) *ConditionalGotoStatement {
	return &ConditionalGotoStatement{nodeBase: nodeBase{span}, Label: label, Condition: cond, JumpIfTrue: jumpIfTrue}
}

func (s *ConditionalGotoStatement) Kind() NodeKind   { return KindConditionalGotoStatement }
func (s *ConditionalGotoStatement) Children() []Node { return []Node{s.Condition} }

type ErrorStatement struct {
	nodeBase
	statementMarker
}

func NewErrorStatement(span ast.Span) *ErrorStatement {
	return &ErrorStatement{nodeBase: nodeBase{span}}
}

func (s *ErrorStatement) Kind() NodeKind   { return KindErrorStatement }
func (s *ErrorStatement) Children() []Node { return nil }

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

type LiteralExpression struct {
	nodeBase
	expressionMarker

	Value runtime.Value
}

// NewLiteral wraps a number, string or bool constant.
func NewLiteral(span ast.Span, value runtime.Value) *LiteralExpression {
	return &LiteralExpression{nodeBase: nodeBase{span}, Value: value}
}

func (e *LiteralExpression) Kind() NodeKind   { return KindLiteralExpression }
func (e *LiteralExpression) Children() []Node { return nil }
func (e *LiteralExpression) Type() symbols.Type {
	switch e.Value.(type) {
	case runtime.NumberValue:
		return symbols.Number
	case runtime.StringValue:
		return symbols.String
	case runtime.BoolValue:
		return symbols.Bool
	default:
		return symbols.Error
	}
}

type UnaryExpression struct {
	nodeBase
	expressionMarker

	Operator *UnaryOperator
	Operand  Expression
}

func NewUnaryExpression(span ast.Span, op *UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeBase: nodeBase{span}, Operator: op, Operand: operand}
}

func (e *UnaryExpression) Kind() NodeKind     { return KindUnaryExpression }
func (e *UnaryExpression) Children() []Node   { return []Node{e.Operand} }
func (e *UnaryExpression) Type() symbols.Type { return e.Operator.Result }

type BinaryExpression struct {
	nodeBase
	expressionMarker

	Left     Expression
	Operator *BinaryOperator
	Right    Expression
}

func NewBinaryExpression(span ast.Span, left Expression, op *BinaryOperator, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeBase: nodeBase{span}, Left: left, Operator: op, Right: right}
}

func (e *BinaryExpression) Kind() NodeKind     { return KindBinaryExpression }
func (e *BinaryExpression) Children() []Node   { return []Node{e.Left, e.Right} }
func (e *BinaryExpression) Type() symbols.Type { return e.Operator.Result }

type GroupingExpression struct {
	nodeBase
	expressionMarker

	Expression Expression
}

func NewGroupingExpression(span ast.Span, expr Expression) *GroupingExpression {
	return &GroupingExpression{nodeBase: nodeBase{span}, Expression: expr}
}

func (e *GroupingExpression) Kind() NodeKind     { return KindGroupingExpression }
func (e *GroupingExpression) Children() []Node   { return []Node{e.Expression} }
func (e *GroupingExpression) Type() symbols.Type { return e.Expression.Type() }

// NameExpression reads a variable. Inside a class body the variable may be a
// property of the current instance or a static property of the class.
type NameExpression struct {
	nodeBase
	expressionMarker

	Variable *symbols.VariableSymbol
}

func NewNameExpression(span ast.Span, variable *symbols.VariableSymbol) *NameExpression {
	return &NameExpression{nodeBase: nodeBase{span}, Variable: variable}
}

func (e *NameExpression) Kind() NodeKind     { return KindNameExpression }
func (e *NameExpression) Children() []Node   { return nil }
func (e *NameExpression) Type() symbols.Type { return e.Variable.Type() }

type AssignmentExpression struct {
	nodeBase
	expressionMarker

	Variable *symbols.VariableSymbol
	Value    Expression
}

func NewAssignmentExpression(span ast.Span, variable *symbols.VariableSymbol, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeBase: nodeBase{span}, Variable: variable, Value: value}
}

func (e *AssignmentExpression) Kind() NodeKind     { return KindAssignmentExpression }
func (e *AssignmentExpression) Children() []Node   { return []Node{e.Value} }
func (e *AssignmentExpression) Type() symbols.Type { return e.Variable.Type() }

type GetPropertyExpression struct {
	nodeBase
	expressionMarker

	Instance Expression
	Property *symbols.VariableSymbol
}

func NewGetPropertyExpression(span ast.Span, instance Expression, prop *symbols.VariableSymbol) *GetPropertyExpression {
	return &GetPropertyExpression{nodeBase: nodeBase{span}, Instance: instance, Property: prop}
}

func (e *GetPropertyExpression) Kind() NodeKind     { return KindGetPropertyExpression }
func (e *GetPropertyExpression) Children() []Node   { return []Node{e.Instance} }
func (e *GetPropertyExpression) Type() symbols.Type { return e.Property.Type() }

type StaticGetPropertyExpression struct {
	nodeBase
	expressionMarker

	Class    *symbols.ClassSymbol
	Property *symbols.VariableSymbol
}

func NewStaticGetPropertyExpression(span ast.Span, class *symbols.ClassSymbol, prop *symbols.VariableSymbol) *StaticGetPropertyExpression {
	return &StaticGetPropertyExpression{nodeBase: nodeBase{span}, Class: class, Property: prop}
}

func (e *StaticGetPropertyExpression) Kind() NodeKind     { return KindStaticGetPropertyExpression }
func (e *StaticGetPropertyExpression) Children() []Node   { return nil }
func (e *StaticGetPropertyExpression) Type() symbols.Type { return e.Property.Type() }

type SetPropertyExpression struct {
	nodeBase
	expressionMarker

	Instance Expression
	Property *symbols.VariableSymbol
	Value    Expression
}

func NewSetPropertyExpression(span ast.Span, instance Expression, prop *symbols.VariableSymbol, value Expression) *SetPropertyExpression {
	return &SetPropertyExpression{nodeBase: nodeBase{span}, Instance: instance, Property: prop, Value: value}
}

func (e *SetPropertyExpression) Kind() NodeKind     { return KindSetPropertyExpression }
func (e *SetPropertyExpression) Children() []Node   { return []Node{e.Instance, e.Value} }
func (e *SetPropertyExpression) Type() symbols.Type { return e.Property.Type() }

type StaticSetPropertyExpression struct {
	nodeBase
	expressionMarker

	Class    *symbols.ClassSymbol
	Property *symbols.VariableSymbol
	Value    Expression
}

func NewStaticSetPropertyExpression(span ast.Span, class *symbols.ClassSymbol, prop *symbols.VariableSymbol, value Expression) *StaticSetPropertyExpression {
	return &StaticSetPropertyExpression{nodeBase: nodeBase{span}, Class: class, Property: prop, Value: value}
}

func (e *StaticSetPropertyExpression) Kind() NodeKind     { return KindStaticSetPropertyExpression }
func (e *StaticSetPropertyExpression) Children() []Node   { return []Node{e.Value} }
func (e *StaticSetPropertyExpression) Type() symbols.Type { return e.Property.Type() }

type CallExpression struct {
	nodeBase
	expressionMarker

	Function  *symbols.FunctionSymbol
	Arguments []Expression
}

func NewCallExpression(span ast.Span, fn *symbols.FunctionSymbol, args []Expression) *CallExpression {
	return &CallExpression{nodeBase: nodeBase{span}, Function: fn, Arguments: args}
}

func (e *CallExpression) Kind() NodeKind     { return KindCallExpression }
func (e *CallExpression) Children() []Node   { return exprNodes(e.Arguments) }
func (e *CallExpression) Type() symbols.Type { return e.Function.ReturnType() }

// MethodCallExpression calls an instance method. A nil Instance targets the
// current instance of the enclosing method or constructor.
type MethodCallExpression struct {
	nodeBase
	expressionMarker

	Instance  Expression
	Method    *symbols.MethodSymbol
	Arguments []Expression
}

func NewMethodCallExpression(span ast.Span, instance Expression, method *symbols.MethodSymbol, args []Expression) *MethodCallExpression {
	return &MethodCallExpression{nodeBase: nodeBase{span}, Instance: instance, Method: method, Arguments: args}
}

func (e *MethodCallExpression) Kind() NodeKind { return KindMethodCallExpression }
func (e *MethodCallExpression) Children() []Node {
	if e.Instance == nil {
		return exprNodes(e.Arguments)
	}
	return append([]Node{e.Instance}, exprNodes(e.Arguments)...)
}
func (e *MethodCallExpression) Type() symbols.Type { return e.Method.ReturnType() }

type StaticMethodCallExpression struct {
	nodeBase
	expressionMarker

	Class     *symbols.ClassSymbol
	Method    *symbols.MethodSymbol
	Arguments []Expression
}

func NewStaticMethodCallExpression(span ast.Span, class *symbols.ClassSymbol, method *symbols.MethodSymbol, args []Expression) *StaticMethodCallExpression {
	return &StaticMethodCallExpression{nodeBase: nodeBase{span}, Class: class, Method: method, Arguments: args}
}

func (e *StaticMethodCallExpression) Kind() NodeKind     { return KindStaticMethodCallExpression }
func (e *StaticMethodCallExpression) Children() []Node   { return exprNodes(e.Arguments) }
func (e *StaticMethodCallExpression) Type() symbols.Type { return e.Method.ReturnType() }

type ConstructExpression struct {
	nodeBase
	expressionMarker

	Class     *symbols.ClassSymbol
	Arguments []Expression
}

func NewConstructExpression(span ast.Span, class *symbols.ClassSymbol, args []Expression) *ConstructExpression {
	return &ConstructExpression{nodeBase: nodeBase{span}, Class: class, Arguments: args}
}

func (e *ConstructExpression) Kind() NodeKind     { return KindConstructExpression }
func (e *ConstructExpression) Children() []Node   { return exprNodes(e.Arguments) }
func (e *ConstructExpression) Type() symbols.Type { return symbols.InstanceOf(e.Class) }

type ErrorExpression struct {
	nodeBase
	expressionMarker
}

func NewErrorExpression(span ast.Span) *ErrorExpression {
	return &ErrorExpression{nodeBase: nodeBase{span}}
}

func (e *ErrorExpression) Kind() NodeKind     { return KindErrorExpression }
func (e *ErrorExpression) Children() []Node   { return nil }
func (e *ErrorExpression) Type() symbols.Type { return symbols.Error }
