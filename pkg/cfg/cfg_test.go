package cfg

import (
	"bytes"
	"strings"
	"testing"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/lowerer"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

var noSpan ast.Span

func lit(v any) bound.Expression {
	switch val := v.(type) {
	case bool:
		return bound.NewLiteral(noSpan, runtime.BoolValue{Val: val})
	case float64:
		return bound.NewLiteral(noSpan, runtime.NumberValue{Val: val})
	default:
		panic("unsupported literal")
	}
}

func ret(v float64) bound.Statement {
	return bound.NewReturnStatement(noSpan, lit(v))
}

func block(stmts ...bound.Statement) *bound.BlockStatement {
	return bound.NewBlockStatement(noSpan, stmts)
}

// analyze lowers without folding, the same way return checking does.
func analyze(stmt bound.Statement) *bound.BlockStatement {
	return lowerer.Flatten(lowerer.Rewrite(stmt), false)
}

func TestIfWithoutElseDoesNotReturnOnAllPaths(t *testing.T) {
	body := analyze(block(bound.NewIfStatement(noSpan, lit(true), block(ret(1)), nil)))
	if AllPathsReturn(body) {
		t.Fatalf("expected missing else path to be detected")
	}
}

func TestIfWithElseReturnsOnAllPaths(t *testing.T) {
	body := analyze(block(bound.NewIfStatement(noSpan, lit(true), block(ret(1)), block(ret(2)))))
	if !AllPathsReturn(body) {
		t.Fatalf("expected both branches to return")
	}
}

func TestEmptyBodyDoesNotReturn(t *testing.T) {
	if AllPathsReturn(block()) {
		t.Fatalf("expected empty body to fail the return check")
	}
}

func TestStraightLineReturn(t *testing.T) {
	x := symbols.NewLocalVariable("x", symbols.Number, false)
	body := analyze(block(
		bound.NewVariableDeclaration(noSpan, x, lit(1.0)),
		bound.NewReturnStatement(noSpan, bound.NewNameExpression(noSpan, x)),
	))
	if !AllPathsReturn(body) {
		t.Fatalf("expected straight-line return to pass")
	}
}

func TestLoopExitWithoutReturnFails(t *testing.T) {
	c := symbols.NewLocalVariable("c", symbols.Bool, false)
	loop := bound.NewLoopStatement(noSpan, bound.NewNameExpression(noSpan, c), block(ret(1)),
		symbols.NewLabel("break"), symbols.NewLabel("continue"))
	if AllPathsReturn(analyze(block(loop))) {
		t.Fatalf("expected loop exit path to be detected")
	}
	if !AllPathsReturn(analyze(block(loop, ret(2)))) {
		t.Fatalf("expected trailing return after loop to pass")
	}
}

func TestUnreachableBlocksArePruned(t *testing.T) {
	body := analyze(block(
		ret(1),
		bound.NewExpressionStatement(noSpan, lit(2.0)),
	))
	g := Build(body)
	if len(g.Blocks) != 1 {
		t.Fatalf("expected dead block to be removed, got %d blocks", len(g.Blocks))
	}
	if !AllPathsReturn(body) {
		t.Fatalf("expected dead code after return to be ignored")
	}
}

func TestConditionalEdgesAreGuarded(t *testing.T) {
	c := symbols.NewLocalVariable("c", symbols.Bool, false)
	cond := bound.NewNameExpression(noSpan, c)
	body := analyze(block(bound.NewIfStatement(noSpan, cond, block(ret(1)), nil), ret(2)))
	g := Build(body)

	first := g.Blocks[0]
	if len(first.Outgoing) != 2 {
		t.Fatalf("expected two outgoing edges, got %d", len(first.Outgoing))
	}
	var guards []string
	for _, edge := range first.Outgoing {
		guards = append(guards, edge.String())
	}
	joined := strings.Join(guards, "|")
	if !strings.Contains(joined, "!c") || !strings.Contains(joined, "c") {
		t.Fatalf("expected guards c and !c, got %q", joined)
	}
}

func TestWriteDOT(t *testing.T) {
	body := analyze(block(bound.NewIfStatement(noSpan, lit(true), block(ret(1)), block(ret(2)))))
	var buf bytes.Buffer
	if err := Build(body).WriteDOT(&buf); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"digraph G {", "<Start>", "<End>", "ret 1;", "->"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in DOT output:\n%s", want, out)
		}
	}
}
