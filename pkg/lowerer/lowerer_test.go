package lowerer

import (
	"testing"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

var noSpan ast.Span

func boolLit(v bool) bound.Expression {
	return bound.NewLiteral(noSpan, runtime.BoolValue{Val: v})
}

func numLit(v float64) bound.Expression {
	return bound.NewLiteral(noSpan, runtime.NumberValue{Val: v})
}

func exprStmt(v float64) bound.Statement {
	return bound.NewExpressionStatement(noSpan, numLit(v))
}

func kinds(block *bound.BlockStatement) []bound.NodeKind {
	out := make([]bound.NodeKind, len(block.Statements))
	for i, stmt := range block.Statements {
		out[i] = stmt.Kind()
	}
	return out
}

func expectKinds(t *testing.T, block *bound.BlockStatement, want ...bound.NodeKind) {
	t.Helper()
	got := kinds(block)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("statement %d: expected %v, got %v (all: %v)", i, want[i], got[i], got)
		}
	}
}

func TestIfWithoutElse(t *testing.T) {
	cond := bound.NewNameExpression(noSpan, symbols.NewGlobalVariable("c", symbols.Bool, false))
	body := Lower(bound.NewIfStatement(noSpan, cond, exprStmt(1), nil))
	expectKinds(t, body,
		bound.KindConditionalGotoStatement,
		bound.KindExpressionStatement,
		bound.KindLabelStatement,
	)
	jump := body.Statements[0].(*bound.ConditionalGotoStatement)
	end := body.Statements[2].(*bound.LabelStatement)
	if jump.JumpIfTrue || jump.Label != end.Label {
		t.Fatalf("expected jump-if-false to the end label")
	}
}

func TestIfWithElse(t *testing.T) {
	cond := bound.NewNameExpression(noSpan, symbols.NewGlobalVariable("c", symbols.Bool, false))
	body := Lower(bound.NewIfStatement(noSpan, cond, exprStmt(1), exprStmt(2)))
	expectKinds(t, body,
		bound.KindConditionalGotoStatement,
		bound.KindExpressionStatement,
		bound.KindGotoStatement,
		bound.KindLabelStatement,
		bound.KindExpressionStatement,
		bound.KindLabelStatement,
	)
	jump := body.Statements[0].(*bound.ConditionalGotoStatement)
	elseLabel := body.Statements[3].(*bound.LabelStatement)
	if jump.Label != elseLabel.Label {
		t.Fatalf("expected conditional jump to the else label")
	}
	gotoEnd := body.Statements[2].(*bound.GotoStatement)
	end := body.Statements[5].(*bound.LabelStatement)
	if gotoEnd.Label != end.Label {
		t.Fatalf("expected then branch to jump to the end label")
	}
}

func TestLoopUsesBinderLabels(t *testing.T) {
	breakLabel := symbols.NewLabel("break1")
	continueLabel := symbols.NewLabel("continue1")
	cond := bound.NewNameExpression(noSpan, symbols.NewGlobalVariable("c", symbols.Bool, false))
	loop := bound.NewLoopStatement(noSpan, cond, bound.NewGotoStatement(noSpan, breakLabel), breakLabel, continueLabel)

	body := Lower(loop)
	expectKinds(t, body,
		bound.KindGotoStatement,
		bound.KindLabelStatement,
		bound.KindGotoStatement,
		bound.KindLabelStatement,
		bound.KindConditionalGotoStatement,
		bound.KindLabelStatement,
	)
	if body.Statements[0].(*bound.GotoStatement).Label != continueLabel {
		t.Fatalf("expected loop to start by jumping to its continue label")
	}
	if body.Statements[3].(*bound.LabelStatement).Label != continueLabel {
		t.Fatalf("expected continue label before the condition")
	}
	if body.Statements[5].(*bound.LabelStatement).Label != breakLabel {
		t.Fatalf("expected break label last")
	}
	jump := body.Statements[4].(*bound.ConditionalGotoStatement)
	if !jump.JumpIfTrue || jump.Label != body.Statements[1].(*bound.LabelStatement).Label {
		t.Fatalf("expected jump-if-true back to the body label")
	}
}

func TestInfiniteLoopJumpsBackUnconditionally(t *testing.T) {
	breakLabel := symbols.NewLabel("break1")
	continueLabel := symbols.NewLabel("continue1")
	loop := bound.NewLoopStatement(noSpan, boolLit(true), bound.NewBlockStatement(noSpan, nil), breakLabel, continueLabel)

	body := Flatten(Rewrite(loop), false)
	expectKinds(t, body,
		bound.KindGotoStatement,
		bound.KindLabelStatement,
		bound.KindLabelStatement,
		bound.KindGotoStatement,
		bound.KindLabelStatement,
	)
	back := body.Statements[3].(*bound.GotoStatement)
	if back.Label != body.Statements[1].(*bound.LabelStatement).Label {
		t.Fatalf("expected unconditional jump back to the body label")
	}
}

func TestFoldingConstantConditions(t *testing.T) {
	label := symbols.NewLabel("L")
	block := bound.NewBlockStatement(noSpan, []bound.Statement{
		bound.NewConditionalGotoStatement(noSpan, label, boolLit(true), true),
		bound.NewConditionalGotoStatement(noSpan, label, boolLit(true), false),
		bound.NewConditionalGotoStatement(noSpan, label, bound.NewGroupingExpression(noSpan, boolLit(false)), false),
		bound.NewLabelStatement(noSpan, label),
	})

	folded := Flatten(block, true)
	expectKinds(t, folded,
		bound.KindGotoStatement,
		bound.KindGotoStatement,
		bound.KindLabelStatement,
	)

	unfolded := Flatten(block, false)
	expectKinds(t, unfolded,
		bound.KindConditionalGotoStatement,
		bound.KindConditionalGotoStatement,
		bound.KindConditionalGotoStatement,
		bound.KindLabelStatement,
	)
}

func TestFlattenRemovesNesting(t *testing.T) {
	inner := bound.NewBlockStatement(noSpan, []bound.Statement{exprStmt(2), bound.NewBlockStatement(noSpan, []bound.Statement{exprStmt(3)})})
	outer := bound.NewBlockStatement(noSpan, []bound.Statement{exprStmt(1), inner, exprStmt(4)})

	flat := Flatten(outer, false)
	if len(flat.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(flat.Statements))
	}
	for i, stmt := range flat.Statements {
		lit := stmt.(*bound.ExpressionStatement).Expression.(*bound.LiteralExpression)
		if lit.Value.(runtime.NumberValue).Val != float64(i+1) {
			t.Fatalf("statement %d out of order", i)
		}
	}
}

func TestFlattenDeepNestingDoesNotRecurse(t *testing.T) {
	var stmt bound.Statement = exprStmt(1)
	for i := 0; i < 100000; i++ {
		stmt = bound.NewBlockStatement(noSpan, []bound.Statement{stmt})
	}
	flat := Flatten(stmt, false)
	if len(flat.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(flat.Statements))
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	v := symbols.NewLocalVariable("i", symbols.Number, false)
	forStmt := bound.NewForStatement(noSpan, v, numLit(1), numLit(5), nil,
		bound.NewBlockStatement(noSpan, []bound.Statement{
			bound.NewIfStatement(noSpan, boolLit(true), exprStmt(1), exprStmt(2)),
		}),
		symbols.NewLabel("break"), symbols.NewLabel("continue"))

	for _, fold := range []bool{false, true} {
		once := Flatten(Rewrite(forStmt), fold)
		twice := Flatten(once, fold)
		if len(once.Statements) != len(twice.Statements) {
			t.Fatalf("fold=%v: expected %d statements, got %d", fold, len(once.Statements), len(twice.Statements))
		}
		for i := range once.Statements {
			if once.Statements[i] != twice.Statements[i] {
				t.Fatalf("fold=%v: statement %d differs after second flatten", fold, i)
			}
		}
	}
}

func TestForEvaluatesBoundsOnce(t *testing.T) {
	v := symbols.NewLocalVariable("i", symbols.Number, false)
	start := numLit(5)
	end := numLit(1)
	forStmt := bound.NewForStatement(noSpan, v, start, end, nil, exprStmt(0),
		symbols.NewLabel("break"), symbols.NewLabel("continue"))

	body := Lower(forStmt)
	uses := 0
	var walk func(n bound.Node)
	walk = func(n bound.Node) {
		if n == start || n == end {
			uses++
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(body)
	if uses != 2 {
		t.Fatalf("expected start and end to appear once each, found %d uses", uses)
	}
	decl := body.Statements[4].(*bound.VariableDeclaration)
	if decl.Variable != v {
		t.Fatalf("expected loop variable declared after the cached bounds, got %s", decl.Variable.Name())
	}
}
