package symbols

// Type is a named static type. Instance types additionally carry the class
// that declares them.
type Type struct {
	name  string
	class *ClassSymbol
}

var (
	Void   = Type{name: "void"}
	Error  = Type{name: "?"}
	Any    = Type{name: "any"}
	Number = Type{name: "number"}
	String = Type{name: "string"}
	Bool   = Type{name: "bool"}
)

// InstanceOf returns the type of instances of the given class.
func InstanceOf(class *ClassSymbol) Type {
	return Type{name: class.Name(), class: class}
}

// Primitive resolves a built-in type name. Class types are resolved by the
// binder through its scope chain.
func Primitive(name string) (Type, bool) {
	switch name {
	case "number":
		return Number, true
	case "string":
		return String, true
	case "bool":
		return Bool, true
	case "any":
		return Any, true
	case "void":
		return Void, true
	default:
		return Type{}, false
	}
}

func (t Type) Name() string {
	if t.IsError() {
		return "unknown"
	}
	return t.name
}

func (t Type) String() string { return t.Name() }

// Class returns the declaring class of an instance type, or nil.
func (t Type) Class() *ClassSymbol { return t.class }

func (t Type) IsError() bool { return t.name == Error.name && t.class == nil }
func (t Type) IsVoid() bool  { return t.name == Void.name && t.class == nil }
func (t Type) IsAny() bool   { return t.name == Any.name && t.class == nil }

// Equal compares two types. Any is a wildcard on either side; otherwise Error
// equals nothing and the remaining types compare by name.
func (t Type) Equal(other Type) bool {
	if t.IsAny() || other.IsAny() {
		return true
	}
	if t.IsError() || other.IsError() {
		return false
	}
	return t.name == other.name
}
