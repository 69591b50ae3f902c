package catalog

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-automation/graph"
)

// Registry is the read-only catalog of trigger, condition and action types
// available to one authoring session.
type Registry struct {
	order map[graph.Kind][]string
	index map[graph.Kind]map[string]Entry
	err   error
}

// Option configures a Registry during construction.
type Option func(*Registry)

// WithConditions registers condition types. None ship by default.
func WithConditions(descs ...TypeDescriptor) Option {
	return func(r *Registry) {
		for _, d := range descs {
			d.Kind = graph.KindCondition
			r.add(bind(d))
		}
	}
}

// WithEntries registers custom entries, replacing any type with the same
// kind and key.
func WithEntries(entries ...Entry) Option {
	return func(r *Registry) {
		for _, e := range entries {
			if e != nil {
				r.add(e)
			}
		}
	}
}

// New builds a registry from trigger and action descriptors. Descriptors with
// a built-in key keep the built-in typed behavior; every other key is served
// by its config schema alone.
func New(triggers, actions []TypeDescriptor, opts ...Option) (*Registry, error) {
	r := &Registry{
		order: make(map[graph.Kind][]string),
		index: make(map[graph.Kind]map[string]Entry),
	}
	for _, d := range triggers {
		d.Kind = graph.KindTrigger
		r.add(bind(d))
	}
	for _, d := range actions {
		d.Kind = graph.KindAction
		r.add(bind(d))
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	if len(r.order[graph.KindTrigger]) == 0 || len(r.order[graph.KindAction]) == 0 {
		return nil, newError(ErrEmptyRegistry, "", map[string]any{
			"triggers": len(r.order[graph.KindTrigger]),
			"actions":  len(r.order[graph.KindAction]),
		})
	}
	return r, nil
}

// Default returns a registry holding every built-in type.
func Default() *Registry {
	r, err := New(BuiltinTriggers(), BuiltinActions())
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in registry invalid: %v", err))
	}
	return r
}

func bind(d TypeDescriptor) Entry {
	d.Key = strings.TrimSpace(d.Key)
	if ctor, ok := builtins[d.Kind][d.Key]; ok {
		return ctor(d)
	}
	return Schema(d)
}

func (r *Registry) add(e Entry) {
	if r.err != nil {
		return
	}
	d := e.Descriptor()
	if err := d.validate(); err != nil {
		r.err = newError(ErrInvalidDescriptor, err.Error(), map[string]any{
			"key":  d.Key,
			"kind": string(d.Kind),
		})
		return
	}
	if r.index[d.Kind] == nil {
		r.index[d.Kind] = make(map[string]Entry)
	}
	if _, exists := r.index[d.Kind][d.Key]; !exists {
		r.order[d.Kind] = append(r.order[d.Kind], d.Key)
	}
	r.index[d.Kind][d.Key] = e
}

// Lookup finds the entry for kind and key.
func (r *Registry) Lookup(kind graph.Kind, key string) (Entry, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.index[kind][key]
	return e, ok
}

func (r *Registry) Trigger(key string) (Entry, bool) { return r.Lookup(graph.KindTrigger, key) }

func (r *Registry) Action(key string) (Entry, bool) { return r.Lookup(graph.KindAction, key) }

func (r *Registry) Condition(key string) (Entry, bool) { return r.Lookup(graph.KindCondition, key) }

// Descriptors lists the descriptors of kind in registration order.
func (r *Registry) Descriptors(kind graph.Kind) []TypeDescriptor {
	if r == nil {
		return nil
	}
	out := make([]TypeDescriptor, 0, len(r.order[kind]))
	for _, key := range r.order[kind] {
		out = append(out, r.index[kind][key].Descriptor())
	}
	return out
}

func (r *Registry) Triggers() []TypeDescriptor { return r.Descriptors(graph.KindTrigger) }

func (r *Registry) Actions() []TypeDescriptor { return r.Descriptors(graph.KindAction) }

func (r *Registry) Conditions() []TypeDescriptor { return r.Descriptors(graph.KindCondition) }

// DefaultTrigger is the first registered trigger type.
func (r *Registry) DefaultTrigger() TypeDescriptor {
	return r.first(graph.KindTrigger)
}

// DefaultAction is the first registered action type.
func (r *Registry) DefaultAction() TypeDescriptor {
	return r.first(graph.KindAction)
}

func (r *Registry) first(kind graph.Kind) TypeDescriptor {
	keys := r.order[kind]
	if len(keys) == 0 {
		return TypeDescriptor{}
	}
	return r.index[kind][keys[0]].Descriptor()
}

// Label returns the display label for a type, or the raw key when unknown.
func (r *Registry) Label(kind graph.Kind, key string) string {
	if e, ok := r.Lookup(kind, key); ok {
		return e.Descriptor().DisplayLabel()
	}
	return key
}

// Parse decodes a node config through the entry registered for kind and key.
func (r *Registry) Parse(kind graph.Kind, key string, values map[string]any) (Config, error) {
	e, ok := r.Lookup(kind, key)
	if !ok {
		return nil, newError(ErrUnknownType, fmt.Sprintf("unknown %s type %q", kind, key), map[string]any{
			"kind": string(kind),
			"key":  key,
		})
	}
	cfg, err := e.Parse(values)
	if err != nil {
		wrapped := newError(ErrInvalidConfig, fmt.Sprintf("invalid %s config: %v", key, err), map[string]any{
			"kind": string(kind),
			"key":  key,
		})
		wrapped.Source = err
		return nil, wrapped
	}
	return cfg, nil
}
