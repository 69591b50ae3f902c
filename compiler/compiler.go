package compiler

import (
	"sort"

	"github.com/goliatone/go-automation/graph"
)

// Source is the read side of a graph the compiler needs.
type Source interface {
	Trigger() (graph.Node, bool)
	ActionNodes() []graph.Node
	Outgoing(id string) []graph.Edge
	Node(id string) (graph.Node, bool)
}

// Linearizer orders the action nodes of a graph into the execution sequence.
type Linearizer func(src Source) []graph.Node

// Option configures a compile run.
type Option func(*options)

type options struct {
	linearize Linearizer
}

// WithLinearizer swaps the ordering strategy.
func WithLinearizer(fn Linearizer) Option {
	return func(o *options) {
		if fn != nil {
			o.linearize = fn
		}
	}
}

// Linearize sorts every action node by ascending vertical position, breaking
// ties by creation order. Edges are not consulted: a disconnected action is
// still part of the sequence.
func Linearize(src Source) []graph.Node {
	nodes := src.ActionNodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Position.Y != nodes[j].Position.Y {
			return nodes[i].Position.Y < nodes[j].Position.Y
		}
		return nodes[i].Seq < nodes[j].Seq
	})
	return nodes
}

// FromTrigger walks edges breadth-first from the trigger and returns the
// reachable action nodes in visit order. Siblings are visited by position
// then creation order. Unreachable actions are left out.
func FromTrigger(src Source) []graph.Node {
	trigger, ok := src.Trigger()
	if !ok {
		return nil
	}
	visited := map[string]bool{trigger.ID: true}
	queue := []string{trigger.ID}
	out := make([]graph.Node, 0)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		next := make([]graph.Node, 0)
		for _, e := range src.Outgoing(current) {
			if visited[e.Target] {
				continue
			}
			node, ok := src.Node(e.Target)
			if !ok {
				continue
			}
			visited[e.Target] = true
			next = append(next, node)
		}
		sort.SliceStable(next, func(i, j int) bool {
			if next[i].Position.Y != next[j].Position.Y {
				return next[i].Position.Y < next[j].Position.Y
			}
			return next[i].Seq < next[j].Seq
		})
		for _, node := range next {
			if node.Kind == graph.KindAction {
				out = append(out, node)
			}
			queue = append(queue, node.ID)
		}
	}
	return out
}

// Order returns the action nodes in the sequence Compile would emit them.
func Order(src Source, opts ...Option) []graph.Node {
	return resolve(opts).linearize(src)
}

func resolve(opts []Option) options {
	o := options{linearize: Linearize}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Compile turns the current graph into a Definition. It only reads src, so
// two calls without a mutation in between yield equal definitions.
func Compile(src Source, opts ...Option) (Definition, error) {
	o := resolve(opts)

	trigger, ok := src.Trigger()
	if !ok {
		return Definition{}, ErrNoTrigger.Clone()
	}

	ordered := o.linearize(src)
	if len(ordered) == 0 {
		return Definition{}, ErrNoActions.Clone().WithMetadata(map[string]any{
			"trigger_type": trigger.TypeKey,
		})
	}

	def := Definition{
		TriggerType:   trigger.TypeKey,
		TriggerConfig: copyValues(trigger.Config),
		Actions:       make([]ActionDefinition, 0, len(ordered)),
	}
	for _, node := range ordered {
		def.Actions = append(def.Actions, ActionDefinition{
			Type:   node.TypeKey,
			Params: copyValues(node.Config),
		})
	}
	return def, nil
}
