package driver

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"delta/interpreter-go/pkg/ast"
	"delta/interpreter-go/pkg/binder"
	"delta/interpreter-go/pkg/runtime"
)

// Session runs successive submissions against one global store. A
// submission that fails to bind is dropped so the next one layers on the
// last good state.
type Session struct {
	Globals *runtime.Globals
	Stdout  io.Writer
	Options Options

	last *Compilation
}

func NewSession(stdout io.Writer, opts Options) *Session {
	return &Session{Globals: runtime.NewGlobals(), Stdout: stdout, Options: opts}
}

// Last returns the most recent submission that bound cleanly.
func (s *Session) Last() *Compilation {
	return s.last
}

// Submit binds and runs modules as the next submission.
func (s *Session) Submit(modules ...*ast.Module) (*EvaluationResult, error) {
	var next *Compilation
	if s.last == nil {
		next = NewCompilation(modules...)
	} else {
		next = s.last.ContinueWith(modules...)
	}
	if next.Program().HasErrors() {
		return &EvaluationResult{Diagnostics: next.Program().Diagnostics}, nil
	}
	s.last = next
	switch s.Options.Emit {
	case EmitTree:
		if err := next.EmitTree(s.Stdout, ""); err != nil {
			return nil, err
		}
	case EmitSymbols:
		if err := next.WriteSymbols(s.Stdout); err != nil {
			return nil, err
		}
	}
	return next.Evaluate(s.Globals, s.Stdout, s.Options)
}

// RunFiles submits each file in order, stopping at the first failure.
func (s *Session) RunFiles(paths ...string) (*EvaluationResult, error) {
	result := &EvaluationResult{Value: runtime.Unit}
	for _, path := range paths {
		mod, err := LoadModule(path)
		if err != nil {
			return nil, err
		}
		if result, err = s.Submit(mod); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(result.Diagnostics) > 0 {
			return result, nil
		}
	}
	return result, nil
}

// TestResult reports one test target.
type TestResult struct {
	Target   string
	Failures []string
}

func (r *TestResult) Passed() bool {
	return len(r.Failures) == 0
}

// RunTest runs a test target with captured output and compares it with the
// target's expectations. A runtime fault fails the test unless it is listed
// among the expected diagnostics.
func (m *Manifest) RunTest(target *TargetSpec, overrides Options) (*TestResult, error) {
	opts, err := m.TargetOptions(target, overrides)
	if err != nil {
		return nil, err
	}
	opts.Emit = EmitNone
	var out bytes.Buffer
	session := NewSession(&out, opts)

	result := &TestResult{Target: target.OriginalName}
	var produced []string
	evaluation, runErr := session.RunFiles(m.Submissions(target)...)
	switch {
	case runErr != nil:
		produced = append(produced, runErr.Error())
	case len(evaluation.Diagnostics) > 0:
		for _, d := range evaluation.Diagnostics {
			produced = append(produced, d.Message)
		}
	}

	expect := target.Expect
	if expect == nil {
		expect = &Expectation{}
	}
	if expect.Stdout != nil && out.String() != *expect.Stdout {
		result.Failures = append(result.Failures, fmt.Sprintf("stdout mismatch:\n  want %q\n  got  %q", *expect.Stdout, out.String()))
	}
	result.Failures = append(result.Failures, compareDiagnostics(expect.Diagnostics, produced)...)
	return result, nil
}

// compareDiagnostics matches each expected fragment against a distinct
// produced message.
func compareDiagnostics(expected, produced []string) []string {
	var failures []string
	used := make([]bool, len(produced))
	for _, want := range expected {
		found := false
		for i, got := range produced {
			if !used[i] && strings.Contains(got, want) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			failures = append(failures, fmt.Sprintf("missing diagnostic %q", want))
		}
	}
	for i, got := range produced {
		if !used[i] {
			failures = append(failures, fmt.Sprintf("unexpected diagnostic %q", got))
		}
	}
	return failures
}

// FormatDiagnostics renders diagnostics one per line.
func FormatDiagnostics(diagnostics []binder.Diagnostic) string {
	var b strings.Builder
	for _, d := range diagnostics {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
