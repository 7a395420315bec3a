package bound

import (
	"fmt"

	"delta/interpreter-go/pkg/symbols"
)

// BinaryOperatorKind selects the evaluation performed by the interpreter.
type BinaryOperatorKind int

const (
	OpAdd BinaryOperatorKind = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpConcatenate
	OpEqual
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpLogicalAnd
	OpLogicalOr
)

// BinaryOperator is one entry of the resolution table.
type BinaryOperator struct {
	Syntax string
	Kind   BinaryOperatorKind
	Left   symbols.Type
	Right  symbols.Type
	Result symbols.Type
}

// UnaryOperatorKind selects the evaluation performed by the interpreter.
type UnaryOperatorKind int

const (
	OpIdentity UnaryOperatorKind = iota
	OpNegate
	OpLogicalNot
)

type UnaryOperator struct {
	Syntax  string
	Kind    UnaryOperatorKind
	Operand symbols.Type
	Result  symbols.Type
}

var binaryOperators = []*BinaryOperator{
	{"+", OpAdd, symbols.Number, symbols.Number, symbols.Number},
	{"-", OpSubtract, symbols.Number, symbols.Number, symbols.Number},
	{"*", OpMultiply, symbols.Number, symbols.Number, symbols.Number},
	{"/", OpDivide, symbols.Number, symbols.Number, symbols.Number},
	{"%", OpModulo, symbols.Number, symbols.Number, symbols.Number},

	{"+", OpConcatenate, symbols.String, symbols.String, symbols.String},
	{"+", OpConcatenate, symbols.String, symbols.Number, symbols.String},
	{"+", OpConcatenate, symbols.Number, symbols.String, symbols.String},

	{"==", OpEqual, symbols.Number, symbols.Number, symbols.Bool},
	{"!=", OpNotEqual, symbols.Number, symbols.Number, symbols.Bool},
	{"==", OpEqual, symbols.String, symbols.String, symbols.Bool},
	{"!=", OpNotEqual, symbols.String, symbols.String, symbols.Bool},
	{"==", OpEqual, symbols.Bool, symbols.Bool, symbols.Bool},
	{"!=", OpNotEqual, symbols.Bool, symbols.Bool, symbols.Bool},

	{"<", OpLess, symbols.Number, symbols.Number, symbols.Bool},
	{"<=", OpLessOrEqual, symbols.Number, symbols.Number, symbols.Bool},
	{">", OpGreater, symbols.Number, symbols.Number, symbols.Bool},
	{">=", OpGreaterOrEqual, symbols.Number, symbols.Number, symbols.Bool},
	{"<", OpLess, symbols.String, symbols.String, symbols.Bool},
	{"<=", OpLessOrEqual, symbols.String, symbols.String, symbols.Bool},
	{">", OpGreater, symbols.String, symbols.String, symbols.Bool},
	{">=", OpGreaterOrEqual, symbols.String, symbols.String, symbols.Bool},

	{"&&", OpLogicalAnd, symbols.Bool, symbols.Bool, symbols.Bool},
	{"||", OpLogicalOr, symbols.Bool, symbols.Bool, symbols.Bool},
}

var unaryOperators = []*UnaryOperator{
	{"+", OpIdentity, symbols.Number, symbols.Number},
	{"-", OpNegate, symbols.Number, symbols.Number},
	{"!", OpLogicalNot, symbols.Bool, symbols.Bool},
}

type binaryKey struct {
	op          string
	left, right string
}

type unaryKey struct {
	op      string
	operand string
}

var (
	binaryTable = make(map[binaryKey]*BinaryOperator, len(binaryOperators))
	unaryTable  = make(map[unaryKey]*UnaryOperator, len(unaryOperators))
)

func init() {
	for _, op := range binaryOperators {
		binaryTable[binaryKey{op.Syntax, op.Left.Name(), op.Right.Name()}] = op
	}
	for _, op := range unaryOperators {
		unaryTable[unaryKey{op.Syntax, op.Operand.Name()}] = op
	}
}

// primitiveName returns the table key of a type. Instance types and the
// wildcard never match an operator.
func primitiveName(t symbols.Type) (string, bool) {
	if t.Class() != nil || t.IsAny() || t.IsError() || t.IsVoid() {
		return "", false
	}
	return t.Name(), true
}

// BindBinaryOperator resolves an operator for the given operand types.
func BindBinaryOperator(syntax string, left, right symbols.Type) (*BinaryOperator, bool) {
	l, ok := primitiveName(left)
	if !ok {
		return nil, false
	}
	r, ok := primitiveName(right)
	if !ok {
		return nil, false
	}
	op, ok := binaryTable[binaryKey{syntax, l, r}]
	return op, ok
}

// BindUnaryOperator resolves a prefix operator for the given operand type.
func BindUnaryOperator(syntax string, operand symbols.Type) (*UnaryOperator, bool) {
	name, ok := primitiveName(operand)
	if !ok {
		return nil, false
	}
	op, ok := unaryTable[unaryKey{syntax, name}]
	return op, ok
}

// MustBinaryOperator is used by lowering to synthesize operators it knows exist.
func MustBinaryOperator(syntax string, left, right symbols.Type) *BinaryOperator {
	op, ok := BindBinaryOperator(syntax, left, right)
	if !ok {
		panic(fmt.Sprintf("bound: no binary operator %s for %s, %s", syntax, left.Name(), right.Name()))
	}
	return op
}

func MustUnaryOperator(syntax string, operand symbols.Type) *UnaryOperator {
	op, ok := BindUnaryOperator(syntax, operand)
	if !ok {
		panic(fmt.Sprintf("bound: no unary operator %s for %s", syntax, operand.Name()))
	}
	return op
}

// BinaryOperators lists the resolution table.
func BinaryOperators() []*BinaryOperator {
	return append([]*BinaryOperator(nil), binaryOperators...)
}

// UnaryOperators lists the prefix resolution table.
func UnaryOperators() []*UnaryOperator {
	return append([]*UnaryOperator(nil), unaryOperators...)
}
