package runtime

import (
	"fmt"
	"sort"

	"delta/interpreter-go/pkg/symbols"
)

// Environment maps variable symbols to their current values. The interpreter
// keeps one environment for globals and one per active call.
type Environment struct {
	values map[*symbols.VariableSymbol]Value
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[*symbols.VariableSymbol]Value)}
}

// Define inserts or replaces a binding.
func (e *Environment) Define(sym *symbols.VariableSymbol, value Value) {
	e.values[sym] = value
}

// Assign updates an existing binding.
func (e *Environment) Assign(sym *symbols.VariableSymbol, value Value) error {
	if _, ok := e.values[sym]; ok {
		e.values[sym] = value
		return nil
	}
	return fmt.Errorf("Undefined variable '%s'", sym.Name())
}

// Get retrieves a binding.
func (e *Environment) Get(sym *symbols.VariableSymbol) (Value, error) {
	if v, ok := e.values[sym]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("Undefined variable '%s'", sym.Name())
}

// Keys returns the bound variable names in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k.Name())
	}
	sort.Strings(keys)
	return keys
}

// Globals is the state that persists across submissions of a session: global
// variables and the static storage of every class.
type Globals struct {
	Variables *Environment
	statics   map[*symbols.ClassSymbol]*InstanceValue
}

func NewGlobals() *Globals {
	return &Globals{
		Variables: NewEnvironment(),
		statics:   make(map[*symbols.ClassSymbol]*InstanceValue),
	}
}

// Static returns the static storage of a class, if it has been initialized.
func (g *Globals) Static(class *symbols.ClassSymbol) (*InstanceValue, bool) {
	inst, ok := g.statics[class]
	return inst, ok
}

// SetStatic records the static storage of a class.
func (g *Globals) SetStatic(class *symbols.ClassSymbol, inst *InstanceValue) {
	g.statics[class] = inst
}
