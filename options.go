package automation

import (
	"github.com/goliatone/go-automation/compiler"
	"github.com/goliatone/go-automation/graph"
	"github.com/goliatone/go-automation/keymap"
)

// DefaultVerticalSpacing is the gap between stacked nodes on the canvas.
const DefaultVerticalSpacing = 150.0

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor logger.
func WithLogger(logger Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithInitialDefinition hydrates the graph from a saved definition instead
// of starting from the default trigger.
func WithInitialDefinition(def compiler.Definition) Option {
	return func(e *Editor) {
		cp := def.Clone()
		e.initial = &cp
	}
}

// WithStrictSave makes Save refuse graphs with field errors.
func WithStrictSave(strict bool) Option {
	return func(e *Editor) {
		e.strict = strict
	}
}

// WithLinearizer swaps the action ordering used by Compile, Preview and
// DryRun.
func WithLinearizer(fn compiler.Linearizer) Option {
	return func(e *Editor) {
		if fn != nil {
			e.compileOpts = append(e.compileOpts, compiler.WithLinearizer(fn))
		}
	}
}

// WithIDGenerator sets how node and edge ids are minted.
func WithIDGenerator(fn graph.IDGenerator) Option {
	return func(e *Editor) {
		if fn != nil {
			e.graphOpts = append(e.graphOpts, graph.WithIDGenerator(fn))
		}
	}
}

// WithVerticalSpacing sets the offset between a new action and the node
// above it.
func WithVerticalSpacing(spacing float64) Option {
	return func(e *Editor) {
		if spacing > 0 {
			e.spacing = spacing
		}
	}
}

// WithKeymap replaces the default key bindings.
func WithKeymap(km *keymap.Keymap) Option {
	return func(e *Editor) {
		if km != nil {
			e.keys = km
		}
	}
}
