package driver

import (
	"fmt"

	"dario.cat/mergo"

	"delta/interpreter-go/pkg/interpreter"
)

// DefaultMaxSteps bounds runaway programs unless configured otherwise.
const DefaultMaxSteps = 10_000_000

// DefaultMaxDepth bounds nested calls unless configured otherwise.
const DefaultMaxDepth = interpreter.DefaultMaxDepth

// Emit values select what `run` prints before executing.
const (
	EmitNone    = "none"
	EmitTree    = "tree"
	EmitSymbols = "symbols"
)

// Options configures evaluation. Zero fields are unset and inherit from the
// layer below; a negative MaxSteps disables the step limit. MaxDepth is
// always bounded.
type Options struct {
	MaxSteps int    `yaml:"max_steps"`
	MaxDepth int    `yaml:"max_depth"`
	Emit     string `yaml:"emit"`
}

func DefaultOptions() Options {
	return Options{MaxSteps: DefaultMaxSteps, MaxDepth: DefaultMaxDepth, Emit: EmitNone}
}

// ResolveOptions layers options over the defaults, later layers winning.
func ResolveOptions(layers ...Options) (Options, error) {
	resolved := DefaultOptions()
	for _, layer := range layers {
		if err := mergo.Merge(&resolved, layer, mergo.WithOverride); err != nil {
			return Options{}, fmt.Errorf("options: %w", err)
		}
	}
	if err := resolved.validate(); err != nil {
		return Options{}, err
	}
	return resolved, nil
}

func (o Options) validate() error {
	if o.MaxDepth < 0 {
		return fmt.Errorf("options: max_depth must be positive, got %d", o.MaxDepth)
	}
	switch o.Emit {
	case EmitNone, EmitTree, EmitSymbols:
		return nil
	default:
		return fmt.Errorf("options: unknown emit mode %q", o.Emit)
	}
}

// StepLimit converts MaxSteps to the interpreter's convention where 0 means
// unlimited.
func (o Options) StepLimit() int {
	if o.MaxSteps < 0 {
		return 0
	}
	return o.MaxSteps
}
