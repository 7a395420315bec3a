package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/binder"
	"delta/interpreter-go/pkg/runtime"
)

func bind(t *testing.T, previous *binder.Program, members ...ast.Member) *binder.Program {
	t.Helper()
	program := binder.BindProgram(previous, ast.Mod(members...))
	if program.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", program.Diagnostics)
	}
	return program
}

func evaluate(t *testing.T, members ...ast.Member) (runtime.Value, string) {
	t.Helper()
	var out bytes.Buffer
	interp := New(bind(t, nil, members...), nil, Options{Stdout: &out})
	val, err := interp.Evaluate()
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if depth := interp.FrameDepth(); depth != 0 {
		t.Fatalf("expected no frames after evaluation, got %d", depth)
	}
	return val, out.String()
}

func expectOutput(t *testing.T, got string, lines ...string) {
	t.Helper()
	want := strings.Join(lines, "\n") + "\n"
	if got != want {
		t.Fatalf("expected output %q, got %q", want, got)
	}
}

func printOf(expr ast.Expression) *ast.ExpressionStatement {
	return ast.Expr(ast.Call("print", expr))
}

func numberParams(names ...string) []*ast.Parameter {
	params := make([]*ast.Parameter, len(names))
	for i, name := range names {
		params[i] = ast.Param(name, "number")
	}
	return params
}

func TestEvaluateFunctionCall(t *testing.T) {
	_, out := evaluate(t,
		ast.Fn("add", numberParams("a", "b"), "number", ast.Ret(ast.Bin("+", ast.Name("a"), ast.Name("b")))),
		printOf(ast.Call("add", ast.Num(2), ast.Num(3))),
	)
	expectOutput(t, out, "5")
}

func TestScriptResultIsTrailingExpression(t *testing.T) {
	val, _ := evaluate(t, ast.Var("x", ast.Num(4)), ast.Expr(ast.Bin("*", ast.Name("x"), ast.Num(2))))
	num, ok := val.(runtime.NumberValue)
	if !ok || num.Val != 8 {
		t.Fatalf("expected 8, got %#v", val)
	}

	val, _ = evaluate(t, ast.Var("x", ast.Num(4)))
	if val != runtime.Unit {
		t.Fatalf("expected unit, got %#v", val)
	}
}

func TestStringConcatenationAndComparison(t *testing.T) {
	_, out := evaluate(t,
		printOf(ast.Bin("+", ast.Str("n="), ast.Num(1.5))),
		printOf(ast.Bin("+", ast.Num(2), ast.Str("!"))),
		printOf(ast.Bin("<", ast.Str("abc"), ast.Str("abd"))),
		printOf(ast.Bin("==", ast.Bool(true), ast.Bool(false))),
		printOf(ast.Bin("%", ast.Num(7), ast.Num(4))),
	)
	expectOutput(t, out, "n=1.5", "2!", "true", "false", "3")
}

func TestGroupingAndUnary(t *testing.T) {
	_, out := evaluate(t,
		printOf(ast.Bin("*", ast.Group(ast.Bin("+", ast.Num(1), ast.Num(2))), ast.Num(3))),
		printOf(ast.Un("-", ast.Group(ast.Bin("-", ast.Num(2), ast.Num(5))))),
		printOf(ast.Un("!", ast.Bool(false))),
	)
	expectOutput(t, out, "9", "3", "true")
}

func TestLogicalOperatorsShortCircuit(t *testing.T) {
	_, out := evaluate(t,
		ast.Fn("loud", nil, "bool", printOf(ast.Str("called")), ast.Ret(ast.Bool(true))),
		printOf(ast.Bin("&&", ast.Bool(false), ast.Call("loud"))),
		printOf(ast.Bin("||", ast.Bool(true), ast.Call("loud"))),
		printOf(ast.Bin("||", ast.Bool(false), ast.Call("loud"))),
	)
	expectOutput(t, out, "false", "true", "called", "true")
}

func TestForLoopDirections(t *testing.T) {
	_, out := evaluate(t, ast.For("i", ast.Num(5), ast.Num(1), printOf(ast.Name("i"))))
	expectOutput(t, out, "5", "4", "3", "2", "1")

	_, out = evaluate(t, ast.For("i", ast.Num(1), ast.Num(5), printOf(ast.Name("i"))))
	expectOutput(t, out, "1", "2", "3", "4", "5")

	_, out = evaluate(t, ast.ForStep("i", ast.Num(0), ast.Num(10), ast.Num(5), printOf(ast.Name("i"))))
	expectOutput(t, out, "0", "5", "10")
}

func TestForBoundsEvaluatedOnce(t *testing.T) {
	_, out := evaluate(t,
		ast.Mut("calls", ast.Num(0)),
		ast.Fn("limit", nil, "number",
			ast.Expr(ast.Assign("calls", ast.Bin("+", ast.Name("calls"), ast.Num(1)))),
			ast.Ret(ast.Num(3)),
		),
		ast.For("i", ast.Num(1), ast.Call("limit"), ast.Block()),
		printOf(ast.Name("calls")),
	)
	expectOutput(t, out, "1")
}

func TestLoopBreakAndContinue(t *testing.T) {
	_, out := evaluate(t,
		ast.Mut("n", ast.Num(0)),
		ast.Loop(ast.Bool(true), ast.Block(
			ast.Expr(ast.Assign("n", ast.Bin("+", ast.Name("n"), ast.Num(1)))),
			ast.If(ast.Bin("==", ast.Bin("%", ast.Name("n"), ast.Num(2)), ast.Num(0)), ast.Cont()),
			ast.If(ast.Bin(">", ast.Name("n"), ast.Num(6)), ast.Brk()),
			printOf(ast.Name("n")),
		)),
	)
	expectOutput(t, out, "1", "3", "5")
}

func TestRecursion(t *testing.T) {
	n := ast.Name("n")
	_, out := evaluate(t,
		ast.Fn("fib", numberParams("n"), "number",
			ast.If(ast.Bin("<", n, ast.Num(2)), ast.Block(ast.Ret(n))),
			ast.Ret(ast.Bin("+",
				ast.Call("fib", ast.Bin("-", n, ast.Num(1))),
				ast.Call("fib", ast.Bin("-", n, ast.Num(2))),
			)),
		),
		printOf(ast.Call("fib", ast.Num(10))),
	)
	expectOutput(t, out, "55")
}

func TestEarlyReturnReleasesFrames(t *testing.T) {
	_, out := evaluate(t,
		ast.Fn("first", numberParams("limit"), "number",
			ast.For("i", ast.Num(1), ast.Name("limit"),
				ast.If(ast.Bin("==", ast.Name("i"), ast.Num(3)), ast.Ret(ast.Name("i")))),
			ast.Ret(ast.Num(-1)),
		),
		printOf(ast.Call("first", ast.Num(10))),
		printOf(ast.Call("first", ast.Num(2))),
	)
	expectOutput(t, out, "3", "-1")
}

func counterClass() *ast.ClassDeclaration {
	count := ast.Prop(ast.AccessPrivate, "count", "number", nil)
	count.Mutable = true
	created := ast.Prop(ast.AccessPublic, "created", "", ast.Num(100))
	created.Mutable = true
	created.Static = true
	total := ast.Method(ast.AccessPublic, "total", nil, "number", ast.Ret(ast.Name("created")))
	total.Static = true
	return ast.Class("Counter",
		count,
		ast.Prop(ast.AccessPublic, "label", "string", nil),
		created,
		ast.Ctor(ast.AccessPublic, []*ast.Parameter{ast.Param("name", "string"), ast.Param("start", "number")},
			ast.Expr(ast.Assign("label", ast.Name("name"))),
			ast.Expr(ast.Assign("count", ast.Name("start"))),
			ast.Expr(ast.Assign("created", ast.Bin("+", ast.Name("created"), ast.Num(1)))),
		),
		ast.Method(ast.AccessPublic, "next", nil, "number",
			ast.Expr(ast.Call("bump")),
			ast.Ret(ast.Name("count")),
		),
		ast.Method(ast.AccessPrivate, "bump", nil, "",
			ast.Expr(ast.Assign("count", ast.Bin("+", ast.Name("count"), ast.Num(1)))),
		),
		total,
	)
}

func TestClassesAndStatics(t *testing.T) {
	_, out := evaluate(t,
		counterClass(),
		ast.Var("a", ast.Call("Counter", ast.Str("a"), ast.Num(10))),
		ast.Var("b", ast.Call("Counter", ast.Str("b"), ast.Num(0))),
		printOf(ast.MCall(ast.Name("a"), "next")),
		printOf(ast.MCall(ast.Name("a"), "next")),
		printOf(ast.MCall(ast.Name("b"), "next")),
		printOf(ast.Get(ast.Name("b"), "label")),
		printOf(ast.MCall(ast.Name("Counter"), "total")),
		ast.Expr(ast.Set(ast.Name("Counter"), "created", ast.Num(0))),
		printOf(ast.Get(ast.Name("Counter"), "created")),
		printOf(ast.Name("a")),
	)
	expectOutput(t, out, "11", "12", "1", "b", "102", "0", "<Counter instance>")
}

func TestPropertyInitializersRunPerInstance(t *testing.T) {
	items := ast.Prop(ast.AccessPublic, "items", "", ast.Bin("+", ast.Str("x"), ast.Num(1)))
	items.Mutable = true
	_, out := evaluate(t,
		ast.Class("Bag", items),
		ast.Var("a", ast.Call("Bag")),
		ast.Var("b", ast.Call("Bag")),
		ast.Expr(ast.Set(ast.Name("a"), "items", ast.Str("changed"))),
		printOf(ast.Get(ast.Name("a"), "items")),
		printOf(ast.Get(ast.Name("b"), "items")),
	)
	expectOutput(t, out, "changed", "x1")
}

func TestIncrementalGlobalsPersist(t *testing.T) {
	var out bytes.Buffer
	first := bind(t, nil,
		ast.Mut("x", ast.Num(1)),
		ast.Fn("bump", nil, "", ast.Expr(ast.Assign("x", ast.Bin("+", ast.Name("x"), ast.Num(1))))),
	)
	globals := runtime.NewGlobals()
	if _, err := New(first, globals, Options{Stdout: &out}).Evaluate(); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	second := bind(t, first, ast.Expr(ast.Call("bump")), ast.Expr(ast.Name("x")))
	val, err := New(second, globals, Options{Stdout: &out}).Evaluate()
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if num, ok := val.(runtime.NumberValue); !ok || num.Val != 2 {
		t.Fatalf("expected 2, got %#v", val)
	}
	if keys := globals.Variables.Keys(); len(keys) != 1 || keys[0] != "x" {
		t.Fatalf("unexpected globals %v", keys)
	}
}

func TestMaxStepsFault(t *testing.T) {
	program := bind(t, nil,
		ast.Fn("spin", nil, "", ast.Loop(nil, ast.Block())),
		ast.Expr(ast.Call("spin")),
	)
	interp := New(program, nil, Options{Stdout: &bytes.Buffer{}, MaxSteps: 500})
	_, err := interp.Evaluate()
	var rt *RuntimeError
	if !errors.As(err, &rt) || !strings.Contains(rt.Message, "step limit of 500 exceeded") {
		t.Fatalf("expected a step limit fault, got %v", err)
	}
	if depth := interp.FrameDepth(); depth != 0 {
		t.Fatalf("expected frames to be released after a fault, got %d", depth)
	}
}

func TestDivisionByZeroFollowsIEEE(t *testing.T) {
	_, out := evaluate(t,
		printOf(ast.Bin("/", ast.Num(1), ast.Num(0))),
		printOf(ast.Bin("/", ast.Un("-", ast.Num(1)), ast.Num(0))),
	)
	expectOutput(t, out, "inf", "-inf")
}

func TestRuntimeErrorString(t *testing.T) {
	err := &RuntimeError{Message: "boom", Span: ast.Span{Start: ast.Position{Line: 3, Column: 7}}}
	if got := err.Error(); got != "interpreter: runtime fault at 3:7: boom" {
		t.Fatalf("unexpected error string %q", got)
	}
}

func runawayFunction() *ast.FunctionDeclaration {
	return ast.Fn("down", numberParams("n"), "number",
		ast.Ret(ast.Call("down", ast.Bin("+", ast.Name("n"), ast.Num(1)))),
	)
}

func TestCallDepthFault(t *testing.T) {
	program := bind(t, nil, runawayFunction(), ast.Expr(ast.Call("down", ast.Num(0))))
	for _, tc := range []struct {
		maxDepth int
		want     string
	}{
		{maxDepth: 50, want: "call depth of 50 exceeded"},
		{maxDepth: 0, want: "call depth of 10000 exceeded"},
	} {
		interp := New(program, nil, Options{Stdout: &bytes.Buffer{}, MaxDepth: tc.maxDepth})
		_, err := interp.Evaluate()
		var rt *RuntimeError
		if !errors.As(err, &rt) || rt.Message != tc.want {
			t.Fatalf("max depth %d: expected %q, got %v", tc.maxDepth, tc.want, err)
		}
		if depth := interp.FrameDepth(); depth != 0 {
			t.Fatalf("max depth %d: expected frames to be released, got %d", tc.maxDepth, depth)
		}
	}
}

func staticProp(name string, init ast.Expression) *ast.PropertyDeclaration {
	prop := ast.Prop(ast.AccessPublic, name, "", init)
	prop.Static = true
	return prop
}

func TestFailedStaticInitializerIsNotRecorded(t *testing.T) {
	program := bind(t, nil,
		runawayFunction(),
		ast.Class("Table", staticProp("seed", ast.Call("down", ast.Num(0)))),
		ast.Expr(ast.Get(ast.Name("Table"), "seed")),
	)
	globals := runtime.NewGlobals()
	if _, err := New(program, globals, Options{Stdout: &bytes.Buffer{}, MaxDepth: 20}).Evaluate(); err == nil {
		t.Fatalf("expected the static initializer to fault")
	}
	class, ok := program.LookupClass("Table")
	if !ok {
		t.Fatalf("expected class Table to be declared")
	}
	if _, ok := globals.Static(class); ok {
		t.Fatalf("expected no static storage after a failed initializer")
	}
}

func TestStaticInitializerSeesEarlierStatics(t *testing.T) {
	_, out := evaluate(t,
		ast.Fn("tripled", nil, "number", ast.Ret(ast.Bin("*", ast.Get(ast.Name("Table"), "base"), ast.Num(3)))),
		ast.Class("Table",
			staticProp("base", ast.Num(2)),
			staticProp("derived", ast.Call("tripled")),
		),
		printOf(ast.Get(ast.Name("Table"), "derived")),
	)
	expectOutput(t, out, "6")
}
