package runtime

import (
	"testing"

	"delta/interpreter-go/pkg/symbols"
)

func TestEnvironmentDefineAssignGet(t *testing.T) {
	env := NewEnvironment()
	x := symbols.NewGlobalVariable("x", symbols.Number, true)
	y := symbols.NewGlobalVariable("x", symbols.Number, true)

	env.Define(x, NumberValue{Val: 1})
	if err := env.Assign(x, NumberValue{Val: 2}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got, err := env.Get(x)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if num, ok := got.(NumberValue); !ok || num.Val != 2 {
		t.Fatalf("expected 2, got %#v", got)
	}
	// Same name, different symbol.
	if _, err := env.Get(y); err == nil {
		t.Fatalf("expected lookup by a different symbol to fail")
	}
	if err := env.Assign(y, NumberValue{}); err == nil {
		t.Fatalf("expected assign to an undefined symbol to fail")
	}
}

func TestFrameStackDiscipline(t *testing.T) {
	stack := NewFrameStack()
	if _, ok := stack.Top(); ok {
		t.Fatalf("expected empty stack")
	}
	outer := NewFrame(nil, nil)
	inner := NewFrame(nil, nil)
	stack.Push(outer)
	stack.Push(inner)
	if stack.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", stack.Depth())
	}
	if top, _ := stack.Top(); top != inner {
		t.Fatalf("expected inner frame on top")
	}
	if popped, _ := stack.Pop(); popped != inner {
		t.Fatalf("expected to pop inner frame")
	}
	if popped, _ := stack.Pop(); popped != outer {
		t.Fatalf("expected to pop outer frame")
	}
	if _, ok := stack.Pop(); ok {
		t.Fatalf("expected pop on empty stack to fail")
	}
}

func TestFormat(t *testing.T) {
	class := symbols.NewClass("Point", nil)
	cases := []struct {
		value Value
		want  string
	}{
		{NumberValue{Val: 5}, "5"},
		{NumberValue{Val: 2.5}, "2.5"},
		{NumberValue{Val: -0.25}, "-0.25"},
		{StringValue{Val: "hi"}, "hi"},
		{BoolValue{Val: true}, "true"},
		{Unit, "null"},
		{NewInstance(class), "<Point instance>"},
	}
	for _, tc := range cases {
		if got := Format(tc.value); got != tc.want {
			t.Fatalf("Format(%#v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestZeroValue(t *testing.T) {
	if v := ZeroValue(symbols.Number); v != (NumberValue{}) {
		t.Fatalf("expected zero number, got %#v", v)
	}
	if v := ZeroValue(symbols.String); v != (StringValue{}) {
		t.Fatalf("expected empty string, got %#v", v)
	}
	if v := ZeroValue(symbols.InstanceOf(symbols.NewClass("C", nil))); v != Unit {
		t.Fatalf("expected unit for class-typed zero value, got %#v", v)
	}
}

func TestGlobalsStatics(t *testing.T) {
	globals := NewGlobals()
	class := symbols.NewClass("C", nil)
	if _, ok := globals.Static(class); ok {
		t.Fatalf("expected no static storage before initialization")
	}
	inst := NewInstance(class)
	globals.SetStatic(class, inst)
	if got, ok := globals.Static(class); !ok || got != inst {
		t.Fatalf("expected static storage to round-trip")
	}
}
