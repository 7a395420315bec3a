package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/runtime"
)

func printOf(expr ast.Expression) *ast.ExpressionStatement {
	return ast.Expr(ast.Call("print", expr))
}

func TestSessionLayersSubmissions(t *testing.T) {
	var out bytes.Buffer
	session := NewSession(&out, DefaultOptions())

	if result, err := session.Submit(ast.Mod(ast.Mut("x", ast.Num(1)))); err != nil || len(result.Diagnostics) > 0 {
		t.Fatalf("first submission failed: %v %v", err, result)
	}
	if result, err := session.Submit(ast.Mod(
		ast.Fn("bump", nil, "number", ast.Ret(ast.Assign("x", ast.Bin("+", ast.Name("x"), ast.Num(1))))),
	)); err != nil || len(result.Diagnostics) > 0 {
		t.Fatalf("second submission failed: %v %v", err, result)
	}
	result, err := session.Submit(ast.Mod(printOf(ast.Call("bump")), ast.Expr(ast.Name("x"))))
	if err != nil {
		t.Fatalf("third submission failed: %v", err)
	}
	if out.String() != "2\n" {
		t.Fatalf("expected output 2, got %q", out.String())
	}
	if n, ok := result.Value.(runtime.NumberValue); !ok || n.Val != 2 {
		t.Fatalf("expected script result 2, got %#v", result.Value)
	}
}

func TestSessionDropsFailedSubmission(t *testing.T) {
	var out bytes.Buffer
	session := NewSession(&out, DefaultOptions())

	result, err := session.Submit(ast.Mod(
		ast.Var("y", ast.Num(1)),
		printOf(ast.Name("missing")),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Diagnostics) != 1 || !strings.Contains(result.Diagnostics[0].Message, "variable 'missing' is not defined") {
		t.Fatalf("expected undefined variable diagnostic, got %v", result.Diagnostics)
	}
	if session.Last() != nil {
		t.Fatalf("failed submission must not become the session state")
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should run when binding fails, got %q", out.String())
	}

	result, err = session.Submit(ast.Mod(ast.Var("y", ast.Num(2)), printOf(ast.Name("y"))))
	if err != nil || len(result.Diagnostics) > 0 {
		t.Fatalf("redeclaring y after a dropped submission should bind: %v %v", err, result.Diagnostics)
	}
	if out.String() != "2\n" {
		t.Fatalf("expected output 2, got %q", out.String())
	}
}

func TestSessionRuntimeFault(t *testing.T) {
	session := NewSession(&bytes.Buffer{}, Options{MaxSteps: 50, Emit: EmitNone})
	_, err := session.Submit(ast.Mod(ast.Loop(nil, ast.Block())))
	if err == nil || !strings.Contains(err.Error(), "step limit of 50 exceeded") {
		t.Fatalf("expected step limit fault, got %v", err)
	}
}

func TestSessionCallDepthFault(t *testing.T) {
	session := NewSession(&bytes.Buffer{}, Options{MaxSteps: -1, MaxDepth: 30, Emit: EmitNone})
	_, err := session.Submit(ast.Mod(
		ast.Fn("down", []*ast.Parameter{ast.Param("n", "number")}, "number",
			ast.Ret(ast.Call("down", ast.Bin("+", ast.Name("n"), ast.Num(1))))),
		ast.Expr(ast.Call("down", ast.Num(0))),
	))
	if err == nil || !strings.Contains(err.Error(), "call depth of 30 exceeded") {
		t.Fatalf("expected call depth fault, got %v", err)
	}
}

func TestSessionEmitSymbols(t *testing.T) {
	var out bytes.Buffer
	session := NewSession(&out, Options{MaxSteps: DefaultMaxSteps, Emit: EmitSymbols})
	_, err := session.Submit(ast.Mod(
		ast.Mut("count", ast.Num(0)),
		ast.Fn("add", []*ast.Parameter{ast.Param("a", "number"), ast.Param("b", "number")}, "number",
			ast.Ret(ast.Bin("+", ast.Name("a"), ast.Name("b")))),
	))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	for _, want := range []string{"var mut count: number", "fn add(a: number, b: number) -> number"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in symbols output:\n%s", want, out.String())
		}
	}
}

func TestCompilationEmitGraph(t *testing.T) {
	compilation := NewCompilation(ast.Mod(
		ast.Fn("sign", []*ast.Parameter{ast.Param("n", "number")}, "number",
			ast.IfElse(ast.Bin("<", ast.Name("n"), ast.Num(0)), ast.Ret(ast.Num(-1)), ast.Ret(ast.Num(1))),
		),
	))
	if compilation.Program().HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", compilation.Program().Diagnostics)
	}
	var graph bytes.Buffer
	if err := compilation.EmitGraph(&graph, "sign"); err != nil {
		t.Fatalf("emit graph: %v", err)
	}
	if !strings.HasPrefix(graph.String(), "digraph G {") || !strings.Contains(graph.String(), "->") {
		t.Fatalf("unexpected graph:\n%s", graph.String())
	}
	var tree bytes.Buffer
	if err := compilation.EmitTree(&tree, "sign"); err != nil {
		t.Fatalf("emit tree: %v", err)
	}
	if !strings.Contains(tree.String(), "return") {
		t.Fatalf("expected lowered returns in tree:\n%s", tree.String())
	}
	if err := compilation.EmitTree(&tree, "nope"); err == nil {
		t.Fatalf("expected unknown function to fail")
	}
	if err := compilation.EmitTree(&tree, "Nope.run"); err == nil {
		t.Fatalf("expected unknown class to fail")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const libModule = `{"type": "Module", "members": [
  {"type": "FunctionDeclaration", "name": "five", "returnType": "number", "body": {"type": "BlockStatement", "statements": [
    {"type": "ReturnStatement", "value": {"type": "NumberLiteral", "value": 5}}
  ]}}
]}`

const mainModule = `{"type": "Module", "members": [
  {"type": "ExpressionStatement", "expression": {"type": "CallExpression", "callee": "print", "arguments": [
    {"type": "CallExpression", "callee": "five", "arguments": []}
  ]}}
]}`

const brokenModule = `{"type": "Module", "members": [
  {"type": "ExpressionStatement", "expression": {"type": "NameExpression", "name": {
    "type": "Identifier", "name": "nope",
    "span": {"start": {"line": 1, "column": 1}, "end": {"line": 1, "column": 5}}
  }}}
]}`

func TestRunTest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/lib.json", libModule)
	writeFile(t, root, "src/main.json", mainModule)
	writeFile(t, root, "src/broken.json", brokenModule)
	manifestPath := writeFile(t, root, ManifestName, `
name: demo
targets:
  passes:
    type: test
    units: src/lib.json
    main: src/main.json
    expect:
      stdout: "5\n"
  wrong-output:
    type: test
    units: src/lib.json
    main: src/main.json
    expect:
      stdout: "6\n"
  expected-diagnostic:
    type: test
    main: src/broken.json
    expect:
      diagnostics: ["variable 'nope' is not defined"]
  unexpected-diagnostic:
    type: test
    main: src/broken.json
`)
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	want := map[string]bool{
		"passes":                true,
		"wrong-output":          false,
		"expected-diagnostic":   true,
		"unexpected-diagnostic": false,
	}
	for _, target := range manifest.TestTargets() {
		result, err := manifest.RunTest(target, Options{})
		if err != nil {
			t.Fatalf("%s: %v", target.OriginalName, err)
		}
		if result.Passed() != want[target.OriginalName] {
			t.Fatalf("%s: expected passed=%v, failures %v", target.OriginalName, want[target.OriginalName], result.Failures)
		}
	}
}

func TestRunFilesReportsDiagnosticsWithLocation(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "broken.json", brokenModule)
	result, err := NewSession(&bytes.Buffer{}, DefaultOptions()).RunFiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := FormatDiagnostics(result.Diagnostics)
	if !strings.HasPrefix(got, path+":1:1: binder: ") {
		t.Fatalf("unexpected diagnostics %q", got)
	}
}
