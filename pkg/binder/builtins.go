package binder

import "delta/interpreter-go/pkg/symbols"

// Print is the built-in print(text: any) -> void.
var Print = symbols.NewFunction("print", []*symbols.VariableSymbol{symbols.NewParameter("text", symbols.Any)}, symbols.Void, nil)

// Builtins lists every built-in function.
func Builtins() []*symbols.FunctionSymbol {
	return []*symbols.FunctionSymbol{Print}
}

var rootScope = newRootScope()

func newRootScope() *Scope {
	scope := NewScope(nil)
	for _, fn := range Builtins() {
		scope.DeclareFunction(fn)
	}
	return scope
}

// RootScope returns the scope holding the built-ins. Every global scope
// chain ends here.
func RootScope() *Scope {
	return rootScope
}
