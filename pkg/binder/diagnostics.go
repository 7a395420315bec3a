package binder

import (
	"fmt"

	"delta/interpreter-go/pkg/ast"
)

// Diagnostic is a binding error attached to a source location.
type Diagnostic struct {
	Message string
	Path    string
	Span    ast.Span
}

func (d Diagnostic) String() string {
	if d.Span.IsZero() {
		if d.Path == "" {
			return d.Message
		}
		return fmt.Sprintf("%s: %s", d.Path, d.Message)
	}
	loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
	if d.Path != "" {
		loc = d.Path + ":" + loc
	}
	return fmt.Sprintf("%s: %s", loc, d.Message)
}

func (b *Binder) report(node ast.Node, format string, args ...any) {
	var span ast.Span
	if node != nil {
		span = node.Span()
	}
	b.diagnostics = append(b.diagnostics, Diagnostic{
		Message: "binder: " + fmt.Sprintf(format, args...),
		Path:    b.path,
		Span:    span,
	})
}
