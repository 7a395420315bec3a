package bound

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"delta/interpreter-go/pkg/runtime"
)

// Format renders a bound node as source-like text.
func Format(node Node) string {
	var b strings.Builder
	p := &printer{w: &b}
	p.node(node)
	return b.String()
}

// WriteTo writes the rendering of node to w.
func WriteTo(w io.Writer, node Node) error {
	_, err := io.WriteString(w, Format(node))
	return err
}

type printer struct {
	w      *strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.w.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(p.w, format, args...)
	p.w.WriteByte('\n')
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case Statement:
		p.statement(n)
	case Expression:
		p.w.WriteString(FormatExpression(n))
	default:
		panic(fmt.Sprintf("bound: unexpected node %T", node))
	}
}

// nested prints a statement one level deeper unless it is already a block.
func (p *printer) nested(stmt Statement) {
	if _, ok := stmt.(*BlockStatement); ok {
		p.statement(stmt)
		return
	}
	p.indent++
	p.statement(stmt)
	p.indent--
}

func (p *printer) statement(stmt Statement) {
	switch s := stmt.(type) {
	case *BlockStatement:
		p.line("{")
		p.indent++
		for _, child := range s.Statements {
			p.statement(child)
		}
		p.indent--
		p.line("}")
	case *ExpressionStatement:
		p.line("%s;", FormatExpression(s.Expression))
	case *VariableDeclaration:
		mut := ""
		if s.Variable.Mutable() {
			mut = "mut "
		}
		p.line("var %s%s: %s = %s;", mut, s.Variable.Name(), s.Variable.Type().Name(), FormatExpression(s.Initializer))
	case *IfStatement:
		p.line("if (%s)", FormatExpression(s.Condition))
		p.nested(s.Then)
		if s.Else != nil {
			p.line("else")
			p.nested(s.Else)
		}
	case *LoopStatement:
		p.line("loop (%s)", FormatExpression(s.Condition))
		p.nested(s.Body)
	case *ForStatement:
		if s.Step != nil {
			p.line("for %s = %s -> %s step %s", s.Variable.Name(), FormatExpression(s.Start), FormatExpression(s.End), FormatExpression(s.Step))
		} else {
			p.line("for %s = %s -> %s", s.Variable.Name(), FormatExpression(s.Start), FormatExpression(s.End))
		}
		p.nested(s.Body)
	case *ReturnStatement:
		if s.Value == nil {
			p.line("ret;")
		} else {
			p.line("ret %s;", FormatExpression(s.Value))
		}
	case *LabelStatement:
		saved := p.indent
		if p.indent > 0 {
			p.indent--
		}
		p.line("%s:", s.Label.Name())
		p.indent = saved
	case *GotoStatement:
		p.line("goto %s;", s.Label.Name())
	case *ConditionalGotoStatement:
		keyword := "unless"
		if s.JumpIfTrue {
			keyword = "if"
		}
		p.line("goto %s %s %s;", s.Label.Name(), keyword, FormatExpression(s.Condition))
	case *ErrorStatement:
		p.line("<error>;")
	default:
		panic(fmt.Sprintf("bound: unexpected statement %T", stmt))
	}
}

func precedence(kind BinaryOperatorKind) int {
	switch kind {
	case OpLogicalOr:
		return 1
	case OpLogicalAnd:
		return 2
	case OpEqual, OpNotEqual:
		return 3
	case OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual:
		return 4
	case OpAdd, OpSubtract, OpConcatenate:
		return 5
	default:
		return 6
	}
}

const unaryPrecedence = 7

// FormatExpression renders an expression, adding parentheses only where the
// operator precedence requires them.
func FormatExpression(expr Expression) string {
	return formatExpression(expr, 0)
}

func formatExpression(expr Expression, parent int) string {
	switch e := expr.(type) {
	case *LiteralExpression:
		if s, ok := e.Value.(runtime.StringValue); ok {
			return strconv.Quote(s.Val)
		}
		return runtime.Format(e.Value)
	case *UnaryExpression:
		return e.Operator.Syntax + formatExpression(e.Operand, unaryPrecedence)
	case *BinaryExpression:
		prec := precedence(e.Operator.Kind)
		text := fmt.Sprintf("%s %s %s", formatExpression(e.Left, prec), e.Operator.Syntax, formatExpression(e.Right, prec+1))
		if prec < parent {
			return "(" + text + ")"
		}
		return text
	case *GroupingExpression:
		return "(" + formatExpression(e.Expression, 0) + ")"
	case *NameExpression:
		return e.Variable.Name()
	case *AssignmentExpression:
		return fmt.Sprintf("%s = %s", e.Variable.Name(), formatExpression(e.Value, 0))
	case *GetPropertyExpression:
		return fmt.Sprintf("%s.%s", formatExpression(e.Instance, unaryPrecedence+1), e.Property.Name())
	case *StaticGetPropertyExpression:
		return fmt.Sprintf("%s.%s", e.Class.Name(), e.Property.Name())
	case *SetPropertyExpression:
		return fmt.Sprintf("%s.%s = %s", formatExpression(e.Instance, unaryPrecedence+1), e.Property.Name(), formatExpression(e.Value, 0))
	case *StaticSetPropertyExpression:
		return fmt.Sprintf("%s.%s = %s", e.Class.Name(), e.Property.Name(), formatExpression(e.Value, 0))
	case *CallExpression:
		return fmt.Sprintf("%s(%s)", e.Function.Name(), formatArguments(e.Arguments))
	case *MethodCallExpression:
		if e.Instance == nil {
			return fmt.Sprintf("%s(%s)", e.Method.Name(), formatArguments(e.Arguments))
		}
		return fmt.Sprintf("%s.%s(%s)", formatExpression(e.Instance, unaryPrecedence+1), e.Method.Name(), formatArguments(e.Arguments))
	case *StaticMethodCallExpression:
		return fmt.Sprintf("%s.%s(%s)", e.Class.Name(), e.Method.Name(), formatArguments(e.Arguments))
	case *ConstructExpression:
		return fmt.Sprintf("%s(%s)", e.Class.Name(), formatArguments(e.Arguments))
	case *ErrorExpression:
		return "<error>"
	default:
		panic(fmt.Sprintf("bound: unexpected expression %T", expr))
	}
}

func formatArguments(args []Expression) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatExpression(arg, 0)
	}
	return strings.Join(parts, ", ")
}
