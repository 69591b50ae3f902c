// Package automation is the authoring core for trigger and action
// automations: an editable graph checked against a type registry, compiled
// into a linear definition and explained through previews and dry runs.
package automation

import (
	"strings"

	"github.com/goliatone/go-automation/catalog"
	"github.com/goliatone/go-automation/compiler"
	"github.com/goliatone/go-automation/graph"
	"github.com/goliatone/go-automation/keymap"
	"github.com/goliatone/go-automation/preview"
	"github.com/goliatone/go-automation/validate"
)

// Editor is one authoring session over a single automation graph. It owns
// the graph, checks every change against the type registry and exposes the
// compiled, validated and previewed views of the current state.
//
// Editor is not safe for concurrent use.
type Editor struct {
	reg         *catalog.Registry
	graph       *graph.Graph
	keys        *keymap.Keymap
	logger      Logger
	spacing     float64
	strict      bool
	initial     *compiler.Definition
	compileOpts []compiler.Option
	graphOpts   []graph.Option
}

// NewEditor starts a session. The graph holds the registry's default trigger,
// or the trigger and chained actions of WithInitialDefinition.
func NewEditor(reg *catalog.Registry, opts ...Option) (*Editor, error) {
	if reg == nil {
		return nil, ErrNilRegistry.Clone()
	}
	if len(reg.Triggers()) == 0 || len(reg.Actions()) == 0 {
		return nil, catalog.ErrEmptyRegistry.Clone().WithMetadata(map[string]any{
			"triggers": len(reg.Triggers()),
			"actions":  len(reg.Actions()),
		})
	}

	e := &Editor{
		reg:     reg,
		spacing: DefaultVerticalSpacing,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.logger = normalizeLogger(e.logger)
	if e.keys == nil {
		e.keys = keymap.New()
	}
	e.graph = graph.New(e.graphOpts...)

	if e.initial != nil {
		if err := e.hydrate(*e.initial); err != nil {
			return nil, err
		}
		return e, nil
	}

	if _, err := e.graph.CreateNode(graph.KindTrigger, reg.DefaultTrigger().Key, graph.Position{}); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Editor) hydrate(def compiler.Definition) error {
	triggerType := strings.TrimSpace(def.TriggerType)
	if triggerType == "" {
		triggerType = e.reg.DefaultTrigger().Key
	}
	if _, ok := e.reg.Trigger(triggerType); !ok {
		e.logger.Warn("hydrating unknown trigger type %q", triggerType)
	}

	tail, err := e.graph.CreateNode(graph.KindTrigger, triggerType, graph.Position{})
	if err != nil {
		return err
	}
	if err := e.graph.SetNodeConfig(tail.ID, def.TriggerConfig); err != nil {
		return err
	}

	for _, action := range def.Actions {
		key := strings.TrimSpace(action.Type)
		if key == "" {
			key = e.reg.DefaultAction().Key
		}
		if _, ok := e.reg.Action(key); !ok {
			e.logger.Warn("hydrating unknown action type %q", key)
		}
		node, err := e.graph.CreateNode(graph.KindAction, key, tail.Position.Below(e.spacing))
		if err != nil {
			return err
		}
		if err := e.graph.SetNodeConfig(node.ID, action.Params); err != nil {
			return err
		}
		if _, err := e.graph.CreateEdge(tail.ID, node.ID); err != nil {
			return err
		}
		tail = node
	}

	withLoggerFields(e.logger, map[string]any{
		"trigger_type": triggerType,
		"actions":      len(def.Actions),
	}).Debug("hydrated automation graph")
	return nil
}

// Registry returns the type registry of the session.
func (e *Editor) Registry() *catalog.Registry { return e.reg }

// Graph exposes the read side of the graph. Callers mutate through the
// editor, never through the returned value.
func (e *Editor) Graph() preview.Source { return e.graph }

func (e *Editor) Nodes() []graph.Node { return e.graph.Nodes() }

func (e *Editor) Edges() []graph.Edge { return e.graph.Edges() }

func (e *Editor) Node(id string) (graph.Node, bool) { return e.graph.Node(id) }

func (e *Editor) Trigger() graph.Node {
	trigger, _ := e.graph.Trigger()
	return trigger
}

func (e *Editor) Selected() (graph.Node, bool) { return e.graph.Selected() }

// tail is the lowest action, or the trigger when there are none.
func (e *Editor) tail() (graph.Node, bool) {
	actions := e.graph.ActionNodes()
	if len(actions) == 0 {
		return e.graph.Trigger()
	}
	last := actions[0]
	for _, node := range actions[1:] {
		if node.Position.Y >= last.Position.Y {
			last = node
		}
	}
	return last, true
}

// AddActionNode appends an action of the registry's default type one spacing
// below the lowest action, wired from it.
func (e *Editor) AddActionNode() (graph.Node, error) {
	key := e.reg.DefaultAction().Key
	tail, hasTail := e.tail()

	pos := graph.Position{}
	if hasTail {
		pos = tail.Position.Below(e.spacing)
	}
	node, err := e.graph.CreateNode(graph.KindAction, key, pos)
	if err != nil {
		return graph.Node{}, e.rejected("add action", err)
	}
	if hasTail {
		if _, err := e.graph.CreateEdge(tail.ID, node.ID); err != nil {
			return node, e.rejected("wire action", err)
		}
	}
	return node, nil
}

// AddConditionNode places a condition of typeKey below the trigger. It is
// not wired: the host connects it explicitly.
func (e *Editor) AddConditionNode(typeKey string) (graph.Node, error) {
	if _, ok := e.reg.Condition(typeKey); !ok {
		return graph.Node{}, e.rejected("add condition", e.unknownType(graph.KindCondition, typeKey))
	}
	pos := e.Trigger().Position.Below(e.spacing)
	if conditions := e.graph.NodesOfKind(graph.KindCondition); len(conditions) > 0 {
		last := conditions[len(conditions)-1]
		pos = last.Position
		pos.X += e.spacing
	}
	node, err := e.graph.CreateNode(graph.KindCondition, typeKey, pos)
	if err != nil {
		return graph.Node{}, e.rejected("add condition", err)
	}
	return node, nil
}

// DeleteSelected removes the selected node. It reports false when nothing
// is selected or the selection is the trigger.
func (e *Editor) DeleteSelected() bool {
	node, ok := e.graph.Selected()
	if !ok {
		return false
	}
	if err := e.graph.DeleteNode(node.ID); err != nil {
		_ = e.rejected("delete selected", err)
		return false
	}
	return true
}

// DeleteNode removes a node and its edges. The trigger cannot be deleted.
func (e *Editor) DeleteNode(id string) error {
	if err := e.graph.DeleteNode(id); err != nil {
		return e.rejected("delete node", err)
	}
	return nil
}

func (e *Editor) Select(id string) error {
	if err := e.graph.Select(id); err != nil {
		return e.rejected("select", err)
	}
	return nil
}

func (e *Editor) ClearSelection() { e.graph.ClearSelection() }

// Connect adds an edge. Illegal pairs are rejected and leave the graph as is.
func (e *Editor) Connect(source, target string) (graph.Edge, error) {
	edge, err := e.graph.CreateEdge(source, target)
	if err != nil {
		return graph.Edge{}, e.rejected("connect", err)
	}
	return edge, nil
}

func (e *Editor) Disconnect(edgeID string) error {
	if err := e.graph.DeleteEdge(edgeID); err != nil {
		return e.rejected("disconnect", err)
	}
	return nil
}

// SetConfig merges values into the node config.
func (e *Editor) SetConfig(id string, values map[string]any) error {
	if err := e.graph.SetNodeConfig(id, values); err != nil {
		return e.rejected("set config", err)
	}
	return nil
}

// SetType switches a node to another registered type of the same kind and
// resets its config.
func (e *Editor) SetType(id, typeKey string) error {
	node, ok := e.graph.Node(id)
	if !ok {
		return e.rejected("set type", e.graph.SetNodeType(id, typeKey))
	}
	if _, ok := e.reg.Lookup(node.Kind, typeKey); !ok {
		return e.rejected("set type", e.unknownType(node.Kind, typeKey))
	}
	if err := e.graph.SetNodeType(id, typeKey); err != nil {
		return e.rejected("set type", err)
	}
	return nil
}

func (e *Editor) Move(id string, pos graph.Position) error {
	if err := e.graph.MoveNode(id, pos); err != nil {
		return e.rejected("move", err)
	}
	return nil
}

// Apply runs a graph command after the registry checks the editor applies to
// its own methods.
func (e *Editor) Apply(cmd graph.Command) (graph.Result, error) {
	switch c := cmd.(type) {
	case graph.CreateNode:
		if _, ok := e.reg.Lookup(c.Kind, c.TypeKey); !ok {
			return graph.Result{}, e.rejected(c.Type(), e.unknownType(c.Kind, c.TypeKey))
		}
	case graph.SetType:
		if err := e.SetType(c.ID, c.TypeKey); err != nil {
			return graph.Result{NodeID: c.ID}, err
		}
		return graph.Result{NodeID: c.ID}, nil
	}

	res, err := e.graph.Apply(cmd)
	if err != nil {
		name := "apply"
		if cmd != nil {
			name = cmd.Type()
		}
		return res, e.rejected(name, err)
	}
	return res, nil
}

// HandleKey routes a key press through the keymap. It reports whether the
// event changed the graph or the selection.
func (e *Editor) HandleKey(ev keymap.Event) bool {
	action, ok := e.keys.Resolve(ev)
	if !ok {
		return false
	}
	switch action {
	case keymap.ActionDeleteSelected:
		return e.DeleteSelected()
	case keymap.ActionClearSelection:
		_, had := e.graph.Selected()
		e.graph.ClearSelection()
		return had
	}
	return false
}

// Compile linearizes the current graph.
func (e *Editor) Compile() (compiler.Definition, error) {
	return compiler.Compile(e.graph, e.compileOpts...)
}

// Diagnostics returns connectivity warnings and field errors for the
// current state.
func (e *Editor) Diagnostics() []validate.Diagnostic {
	return validate.All(e.graph, e.reg)
}

// InvalidNodes lists the ids of nodes with field errors.
func (e *Editor) InvalidNodes() []string {
	return validate.InvalidNodes(validate.Fields(e.graph, e.reg))
}

func (e *Editor) Preview() []string {
	return preview.Render(e.graph, e.reg, e.compileOpts...)
}

func (e *Editor) DryRun() preview.Report {
	return preview.DryRun(e.graph, e.reg, e.compileOpts...)
}

func (e *Editor) unknownType(kind graph.Kind, key string) error {
	return catalog.ErrUnknownType.Clone().WithMetadata(map[string]any{
		"kind": string(kind),
		"key":  key,
	})
}

func (e *Editor) rejected(op string, err error) error {
	if err == nil {
		return nil
	}
	withLoggerFields(e.logger, map[string]any{
		"operation": op,
		"code":      ErrorCode(err),
	}).Debug("editor rejected %s: %v", op, err)
	return err
}
