package runtime

import (
	"fmt"
	"math"
	"strconv"

	"delta/interpreter-go/pkg/symbols"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindInstance
	KindUnit
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInstance:
		return "instance"
	case KindUnit:
		return "unit"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the closed set of runtime values. Only the types in this file
// implement it.
type Value interface {
	Kind() Kind
	isValue()
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }
func (NumberValue) isValue()     {}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }
func (StringValue) isValue()     {}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }
func (BoolValue) isValue()     {}

// UnitValue is produced by void calls and statement-only scripts.
type UnitValue struct{}

func (UnitValue) Kind() Kind { return KindUnit }
func (UnitValue) isValue()   {}

var Unit Value = UnitValue{}

//-----------------------------------------------------------------------------
// Instances
//-----------------------------------------------------------------------------

// InstanceValue is a class instance. Static properties of a class are held in
// a dedicated instance created on first use.
type InstanceValue struct {
	Class  *symbols.ClassSymbol
	Fields map[*symbols.VariableSymbol]Value
}

func NewInstance(class *symbols.ClassSymbol) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[*symbols.VariableSymbol]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }
func (*InstanceValue) isValue()     {}

// Get returns the value stored for a property.
func (v *InstanceValue) Get(prop *symbols.VariableSymbol) (Value, error) {
	if val, ok := v.Fields[prop]; ok {
		return val, nil
	}
	return nil, fmt.Errorf("Undefined property '%s' on %s instance", prop.Name(), v.Class.Name())
}

// Set stores a property value.
func (v *InstanceValue) Set(prop *symbols.VariableSymbol, value Value) {
	v.Fields[prop] = value
}

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

// ZeroValue is the initial value of a property declared without an
// initializer.
func ZeroValue(typ symbols.Type) Value {
	switch typ {
	case symbols.Number:
		return NumberValue{}
	case symbols.String:
		return StringValue{}
	case symbols.Bool:
		return BoolValue{}
	default:
		return Unit
	}
}

// FormatNumber renders numbers without a trailing fraction when integral.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Format renders a value the way print displays it.
func Format(v Value) string {
	switch val := v.(type) {
	case NumberValue:
		return FormatNumber(val.Val)
	case StringValue:
		return val.Val
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case *InstanceValue:
		return fmt.Sprintf("<%s instance>", val.Class.Name())
	case UnitValue, nil:
		return "null"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}
