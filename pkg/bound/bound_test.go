package bound

import (
	"strings"
	"testing"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

var allTypes = []symbols.Type{symbols.Number, symbols.String, symbols.Bool, symbols.Any, symbols.Void, symbols.Error}

func TestBinaryOperatorTableIsTotal(t *testing.T) {
	declared := make(map[binaryKey]*BinaryOperator)
	syntaxes := make(map[string]struct{})
	for _, op := range BinaryOperators() {
		declared[binaryKey{op.Syntax, op.Left.Name(), op.Right.Name()}] = op
		syntaxes[op.Syntax] = struct{}{}
	}
	for syntax := range syntaxes {
		for _, left := range allTypes {
			for _, right := range allTypes {
				got, ok := BindBinaryOperator(syntax, left, right)
				want, exists := declared[binaryKey{syntax, left.Name(), right.Name()}]
				if ok != exists {
					t.Fatalf("%s %s %s: resolved=%v, declared=%v", left.Name(), syntax, right.Name(), ok, exists)
				}
				if ok && got.Result != want.Result {
					t.Fatalf("%s %s %s: result %s, want %s", left.Name(), syntax, right.Name(), got.Result.Name(), want.Result.Name())
				}
			}
		}
	}
}

func TestConcatenationEntriesAreDistinct(t *testing.T) {
	ss, _ := BindBinaryOperator("+", symbols.String, symbols.String)
	sn, _ := BindBinaryOperator("+", symbols.String, symbols.Number)
	ns, _ := BindBinaryOperator("+", symbols.Number, symbols.String)
	if ss == nil || sn == nil || ns == nil {
		t.Fatalf("expected all concatenation entries to resolve")
	}
	if ss == sn || sn == ns || ss == ns {
		t.Fatalf("expected distinct table entries")
	}
	for _, op := range []*BinaryOperator{ss, sn, ns} {
		if op.Result != symbols.String || op.Kind != OpConcatenate {
			t.Fatalf("unexpected concatenation entry %+v", op)
		}
	}
}

func TestUnaryOperators(t *testing.T) {
	if op, ok := BindUnaryOperator("-", symbols.Number); !ok || op.Kind != OpNegate {
		t.Fatalf("expected numeric negation")
	}
	if _, ok := BindUnaryOperator("-", symbols.String); ok {
		t.Fatalf("expected string negation to be rejected")
	}
	if op, ok := BindUnaryOperator("!", symbols.Bool); !ok || op.Result != symbols.Bool {
		t.Fatalf("expected logical not on bool")
	}
	if _, ok := BindUnaryOperator("!", symbols.Any); ok {
		t.Fatalf("wildcard operands never match an operator")
	}

	declared := make(map[unaryKey]*UnaryOperator)
	syntaxes := make(map[string]struct{})
	for _, op := range UnaryOperators() {
		declared[unaryKey{op.Syntax, op.Operand.Name()}] = op
		syntaxes[op.Syntax] = struct{}{}
	}
	for syntax := range syntaxes {
		for _, operand := range allTypes {
			got, ok := BindUnaryOperator(syntax, operand)
			want, exists := declared[unaryKey{syntax, operand.Name()}]
			if ok != exists {
				t.Fatalf("%s%s: resolved=%v, declared=%v", syntax, operand.Name(), ok, exists)
			}
			if ok && (got.Kind != want.Kind || got.Result != want.Result) {
				t.Fatalf("%s%s: resolved to %v, want %v", syntax, operand.Name(), got.Kind, want.Kind)
			}
		}
	}
}

func TestInstanceTypesNeverMatchOperators(t *testing.T) {
	class := symbols.NewClass("number", nil)
	if _, ok := BindBinaryOperator("+", symbols.InstanceOf(class), symbols.Number); ok {
		t.Fatalf("expected instance operand to be rejected")
	}
}

func num(v float64) *LiteralExpression {
	return NewLiteral(ast.Span{}, runtime.NumberValue{Val: v})
}

func TestFormatExpressionParenthesizes(t *testing.T) {
	add := MustBinaryOperator("+", symbols.Number, symbols.Number)
	mul := MustBinaryOperator("*", symbols.Number, symbols.Number)
	sum := NewBinaryExpression(ast.Span{}, num(1), add, num(2))
	product := NewBinaryExpression(ast.Span{}, sum, mul, num(3))
	if got, want := FormatExpression(product), "(1 + 2) * 3"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	nested := NewBinaryExpression(ast.Span{}, num(1), add, NewBinaryExpression(ast.Span{}, num(2), mul, num(3)))
	if got, want := FormatExpression(nested), "1 + 2 * 3"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	str := NewLiteral(ast.Span{}, runtime.StringValue{Val: "a\"b"})
	if got, want := FormatExpression(str), `"a\"b"`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatLoweredStatements(t *testing.T) {
	label := symbols.NewLabel("Label_1")
	cond := NewLiteral(ast.Span{}, runtime.BoolValue{Val: true})
	block := NewBlockStatement(ast.Span{}, []Statement{
		NewConditionalGotoStatement(ast.Span{}, label, cond, false),
		NewReturnStatement(ast.Span{}, num(1)),
		NewLabelStatement(ast.Span{}, label),
	})
	out := Format(block)
	for _, want := range []string{"goto Label_1 unless true;", "ret 1;", "Label_1:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestChildren(t *testing.T) {
	add := MustBinaryOperator("+", symbols.Number, symbols.Number)
	bin := NewBinaryExpression(ast.Span{}, num(1), add, num(2))
	if got := len(bin.Children()); got != 2 {
		t.Fatalf("expected 2 children, got %d", got)
	}
	ifStmt := NewIfStatement(ast.Span{}, NewLiteral(ast.Span{}, runtime.BoolValue{Val: true}), NewExpressionStatement(ast.Span{}, bin), nil)
	if got := len(ifStmt.Children()); got != 2 {
		t.Fatalf("expected if without else to have 2 children, got %d", got)
	}
	if got := len(NewReturnStatement(ast.Span{}, nil).Children()); got != 0 {
		t.Fatalf("expected bare return to have no children, got %d", got)
	}
}
