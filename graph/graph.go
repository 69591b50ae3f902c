package graph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh identifier for a node ("node") or edge ("edge").
type IDGenerator func(prefix string) string

// Option configures a Graph.
type Option func(*Graph)

// WithIDGenerator replaces the default uuid based identifiers.
func WithIDGenerator(fn IDGenerator) Option {
	return func(g *Graph) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// Graph owns every node and edge of one automation. It is the only place
// where they are mutated. Graph is not safe for concurrent use.
type Graph struct {
	nodes     map[string]*Node
	order     []string
	edges     map[string]*Edge
	edgeOrder []string
	selected  string
	seq       int
	newID     IDGenerator
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
		newID: func(string) string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// CreateNode adds a node and returns a copy of it.
func (g *Graph) CreateNode(kind Kind, typeKey string, pos Position) (Node, error) {
	if !kind.Valid() {
		return Node{}, newError(ErrUnsupportedKind, fmt.Sprintf("unsupported node kind %q", kind), nil)
	}
	typeKey = strings.TrimSpace(typeKey)
	if typeKey == "" {
		return Node{}, newError(ErrInvalidCommand, "node type is required", map[string]any{"kind": string(kind)})
	}
	if kind == KindTrigger {
		if trigger, ok := g.Trigger(); ok {
			return Node{}, newError(ErrDuplicateTrigger, "", map[string]any{"trigger_id": trigger.ID})
		}
	}

	g.seq++
	node := &Node{
		ID:       g.newID("node"),
		Kind:     kind,
		TypeKey:  typeKey,
		Config:   map[string]any{},
		Position: pos,
		Seq:      g.seq,
	}
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return node.clone(), nil
}

// DeleteNode removes a node together with every edge that touches it.
// The trigger is protected and stays in place.
func (g *Graph) DeleteNode(id string) error {
	node, err := g.lookup(id)
	if err != nil {
		return err
	}
	if node.Kind == KindTrigger {
		return newError(ErrTriggerProtected, "", map[string]any{"node_id": id})
	}

	kept := g.edgeOrder[:0]
	for _, edgeID := range g.edgeOrder {
		edge := g.edges[edgeID]
		if edge.Source == id || edge.Target == id {
			delete(g.edges, edgeID)
			continue
		}
		kept = append(kept, edgeID)
	}
	g.edgeOrder = kept

	delete(g.nodes, id)
	g.order = removeID(g.order, id)
	if g.selected == id {
		g.selected = ""
	}
	return nil
}

// SetNodeConfig merges partial into the node config.
func (g *Graph) SetNodeConfig(id string, partial map[string]any) error {
	node, err := g.lookup(id)
	if err != nil {
		return err
	}
	if node.Config == nil {
		node.Config = make(map[string]any, len(partial))
	}
	for k, v := range partial {
		node.Config[k] = v
	}
	return nil
}

// SetNodeType switches the node type. Config always resets because schemas
// differ per type.
func (g *Graph) SetNodeType(id, typeKey string) error {
	node, err := g.lookup(id)
	if err != nil {
		return err
	}
	typeKey = strings.TrimSpace(typeKey)
	if typeKey == "" {
		return newError(ErrInvalidCommand, "node type is required", map[string]any{"node_id": id})
	}
	node.TypeKey = typeKey
	node.Config = map[string]any{}
	return nil
}

// MoveNode updates the node position.
func (g *Graph) MoveNode(id string, pos Position) error {
	node, err := g.lookup(id)
	if err != nil {
		return err
	}
	node.Position = pos
	return nil
}

// CreateEdge links source to target when CanConnect allows it. A rejected
// edge leaves the graph unchanged. Connecting an already linked pair returns
// the existing edge.
func (g *Graph) CreateEdge(sourceID, targetID string) (Edge, error) {
	source, err := g.lookup(sourceID)
	if err != nil {
		return Edge{}, err
	}
	target, err := g.lookup(targetID)
	if err != nil {
		return Edge{}, err
	}
	meta := map[string]any{
		"source":      sourceID,
		"target":      targetID,
		"source_kind": string(source.Kind),
		"target_kind": string(target.Kind),
	}
	if sourceID == targetID {
		return Edge{}, newError(ErrEdgeRejected, "a node cannot connect to itself", meta)
	}
	if !CanConnect(source.Kind, target.Kind) {
		return Edge{}, newError(ErrEdgeRejected, fmt.Sprintf("%s cannot connect to %s", source.Kind, target.Kind), meta)
	}
	for _, edgeID := range g.edgeOrder {
		if e := g.edges[edgeID]; e.Source == sourceID && e.Target == targetID {
			return *e, nil
		}
	}

	edge := &Edge{ID: g.newID("edge"), Source: sourceID, Target: targetID}
	g.edges[edge.ID] = edge
	g.edgeOrder = append(g.edgeOrder, edge.ID)
	return *edge, nil
}

// DeleteEdge removes an edge.
func (g *Graph) DeleteEdge(id string) error {
	if _, ok := g.edges[id]; !ok {
		return newError(ErrEdgeNotFound, "", map[string]any{"edge_id": id})
	}
	delete(g.edges, id)
	g.edgeOrder = removeID(g.edgeOrder, id)
	return nil
}

// Select marks a single node as selected, replacing any previous selection.
func (g *Graph) Select(id string) error {
	if _, err := g.lookup(id); err != nil {
		return err
	}
	g.selected = id
	return nil
}

func (g *Graph) ClearSelection() {
	g.selected = ""
}

// Selected returns the selected node, if any.
func (g *Graph) Selected() (Node, bool) {
	if g.selected == "" {
		return Node{}, false
	}
	return g.Node(g.selected)
}

func (g *Graph) Node(id string) (Node, bool) {
	node, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return node.clone(), true
}

// Nodes returns copies of all nodes in creation order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].clone())
	}
	return out
}

// NodesOfKind returns copies of the nodes of kind in creation order.
func (g *Graph) NodesOfKind(kind Kind) []Node {
	out := make([]Node, 0)
	for _, id := range g.order {
		if node := g.nodes[id]; node.Kind == kind {
			out = append(out, node.clone())
		}
	}
	return out
}

func (g *Graph) ActionNodes() []Node {
	return g.NodesOfKind(KindAction)
}

func (g *Graph) Trigger() (Node, bool) {
	for _, id := range g.order {
		if node := g.nodes[id]; node.Kind == KindTrigger {
			return node.clone(), true
		}
	}
	return Node{}, false
}

// Edges returns all edges in creation order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, *g.edges[id])
	}
	return out
}

// Incoming returns the edges whose target is id.
func (g *Graph) Incoming(id string) []Edge {
	out := make([]Edge, 0)
	for _, edgeID := range g.edgeOrder {
		if e := g.edges[edgeID]; e.Target == id {
			out = append(out, *e)
		}
	}
	return out
}

// Outgoing returns the edges whose source is id.
func (g *Graph) Outgoing(id string) []Edge {
	out := make([]Edge, 0)
	for _, edgeID := range g.edgeOrder {
		if e := g.edges[edgeID]; e.Source == id {
			out = append(out, *e)
		}
	}
	return out
}

func (g *Graph) lookup(id string) (*Node, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, newError(ErrNodeNotFound, "", map[string]any{"node_id": id})
	}
	return node, nil
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
