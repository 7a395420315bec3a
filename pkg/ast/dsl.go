package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Ty(name string) *TypeAnnotation {
	return NewTypeAnnotation(ID(name))
}

// Expression helpers.

func Name(name string) *NameExpression {
	return NewNameExpression(ID(name))
}

func Un(op string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Group(expr Expression) *GroupingExpression {
	return NewGroupingExpression(expr)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(ID(name), value)
}

func Call(callee string, args ...Expression) *CallExpression {
	return NewCallExpression(ID(callee), args)
}

func Get(receiver Expression, name string) *GetExpression {
	return NewGetExpression(receiver, ID(name))
}

func Set(receiver Expression, name string, value Expression) *SetExpression {
	return NewSetExpression(receiver, ID(name), value)
}

func MCall(receiver Expression, name string, args ...Expression) *MethodCallExpression {
	return NewMethodCallExpression(receiver, ID(name), args)
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Var(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(ID(name), false, nil, init)
}

func Mut(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(ID(name), true, nil, init)
}

func VarTyped(name string, typ string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(ID(name), false, Ty(typ), init)
}

func Block(stmts ...Statement) *BlockStatement {
	return NewBlockStatement(stmts)
}

func If(cond Expression, then Statement) *IfStatement {
	return NewIfStatement(cond, then, nil)
}

func IfElse(cond Expression, then, elseStmt Statement) *IfStatement {
	return NewIfStatement(cond, then, elseStmt)
}

func Loop(cond Expression, body Statement) *LoopStatement {
	return NewLoopStatement(cond, body)
}

func For(variable string, start, end Expression, body Statement) *ForStatement {
	return NewForStatement(ID(variable), start, end, nil, body)
}

func ForStep(variable string, start, end, step Expression, body Statement) *ForStatement {
	return NewForStatement(ID(variable), start, end, step, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

// Declaration helpers.

func Param(name, typ string) *Parameter {
	return NewParameter(ID(name), Ty(typ))
}

// Fn declares a function; an empty returnType means void.
func Fn(name string, params []*Parameter, returnType string, body ...Statement) *FunctionDeclaration {
	var ret *TypeAnnotation
	if returnType != "" {
		ret = Ty(returnType)
	}
	return NewFunctionDeclaration(ID(name), params, ret, Block(body...))
}

func Class(name string, members ...ClassMember) *ClassDeclaration {
	return NewClassDeclaration(ID(name), members)
}

func Prop(access Accessibility, name string, typ string, init Expression) *PropertyDeclaration {
	var annotation *TypeAnnotation
	if typ != "" {
		annotation = Ty(typ)
	}
	return NewPropertyDeclaration(access, false, false, ID(name), annotation, init)
}

func Method(access Accessibility, name string, params []*Parameter, returnType string, body ...Statement) *MethodDeclaration {
	var ret *TypeAnnotation
	if returnType != "" {
		ret = Ty(returnType)
	}
	return NewMethodDeclaration(access, false, ID(name), params, ret, Block(body...))
}

func Ctor(access Accessibility, params []*Parameter, body ...Statement) *ConstructorDeclaration {
	return NewConstructorDeclaration(access, params, Block(body...))
}

func Mod(members ...Member) *Module {
	return NewModule("", members)
}
