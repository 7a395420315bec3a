package symbols

import (
	"fmt"
	"strings"
)

// FormatSymbol renders a symbol the way tooling displays it, e.g.
// "var mut x: number" or "fn add(a: number, b: number) -> number".
func FormatSymbol(sym Symbol) string {
	switch s := sym.(type) {
	case *VariableSymbol:
		return formatVariable(s)
	case *FunctionSymbol:
		return fmt.Sprintf("fn %s(%s) -> %s", s.name, formatParameters(s.params), s.returnType.Name())
	case *MethodSymbol:
		var b strings.Builder
		b.WriteString(s.access.String())
		b.WriteByte(' ')
		if s.static {
			b.WriteString("static ")
		}
		if s.IsConstructor() {
			fmt.Fprintf(&b, "constructor(%s)", formatParameters(s.params))
			return b.String()
		}
		fmt.Fprintf(&b, "fn %s(%s) -> %s", s.name, formatParameters(s.params), s.returnType.Name())
		return b.String()
	case *ClassSymbol:
		return "class " + s.name
	case *LabelSymbol:
		return s.name
	case nil:
		return "<nil>"
	default:
		return sym.Name()
	}
}

func formatVariable(v *VariableSymbol) string {
	if v.kind == KindParameter {
		return fmt.Sprintf("%s: %s", v.name, v.typ.Name())
	}
	var b strings.Builder
	if v.kind == KindProperty {
		b.WriteString(v.access.String())
		b.WriteByte(' ')
		if v.static {
			b.WriteString("static ")
		}
	}
	b.WriteString("var ")
	if v.mutable {
		b.WriteString("mut ")
	}
	fmt.Fprintf(&b, "%s: %s", v.name, v.typ.Name())
	return b.String()
}

func formatParameters(params []*VariableSymbol) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = fmt.Sprintf("%s: %s", param.name, param.typ.Name())
	}
	return strings.Join(parts, ", ")
}
