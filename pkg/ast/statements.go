package ast

// Statements double as module members: free-standing statements at the top
// level of a module form the body of the script.

type ExpressionStatement struct {
	nodeImpl
	statementMarker
	memberMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type VariableDeclaration struct {
	nodeImpl
	statementMarker
	memberMarker

	Name        *Identifier     `json:"name"`
	Mutable     bool            `json:"mutable,omitempty"`
	Type        *TypeAnnotation `json:"varType,omitempty"`
	Initializer Expression      `json:"initializer"`
}

func NewVariableDeclaration(name *Identifier, mutable bool, typ *TypeAnnotation, init Expression) *VariableDeclaration {
	return &VariableDeclaration{
		nodeImpl:    newNodeImpl(NodeVariableDeclaration),
		Name:        name,
		Mutable:     mutable,
		Type:        typ,
		Initializer: init,
	}
}

type BlockStatement struct {
	nodeImpl
	statementMarker
	memberMarker

	Statements []Statement `json:"statements"`
}

func NewBlockStatement(stmts []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: stmts}
}

type IfStatement struct {
	nodeImpl
	statementMarker
	memberMarker

	Condition Expression `json:"condition,omitempty"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(cond Expression, then Statement, elseStmt Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: cond, Then: then, Else: elseStmt}
}

type LoopStatement struct {
	nodeImpl
	statementMarker
	memberMarker

	Condition Expression `json:"condition,omitempty"`
	Body      Statement  `json:"body"`
}

func NewLoopStatement(cond Expression, body Statement) *LoopStatement {
	return &LoopStatement{nodeImpl: newNodeImpl(NodeLoopStatement), Condition: cond, Body: body}
}

type ForStatement struct {
	nodeImpl
	statementMarker
	memberMarker

	Variable *Identifier `json:"variable"`
	Start    Expression  `json:"start"`
	End      Expression  `json:"end"`
	Step     Expression  `json:"step,omitempty"`
	Body     Statement   `json:"body"`
}

func NewForStatement(variable *Identifier, start, end, step Expression, body Statement) *ForStatement {
	return &ForStatement{
		nodeImpl: newNodeImpl(NodeForStatement),
		Variable: variable,
		Start:    start,
		End:      end,
		Step:     step,
		Body:     body,
	}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker
	memberMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
	memberMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
	memberMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}
