package graph

import (
	"fmt"
	"strings"
)

// Command is a single graph mutation. Every change to a graph can be
// expressed as a command applied through Graph.Apply.
type Command interface {
	Type() string
	Validate() error
}

// Result carries the identifiers produced by a command.
type Result struct {
	NodeID string
	EdgeID string
}

type CreateNode struct {
	Kind     Kind
	TypeKey  string
	Position Position
}

func (CreateNode) Type() string { return "graph::create_node" }

func (c CreateNode) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("kind %q is not supported", c.Kind)
	}
	if strings.TrimSpace(c.TypeKey) == "" {
		return fmt.Errorf("type key is required")
	}
	return nil
}

type DeleteNode struct {
	ID string
}

func (DeleteNode) Type() string { return "graph::delete_node" }

func (c DeleteNode) Validate() error { return requireID("node id", c.ID) }

// SetConfig merges Values into the node config.
type SetConfig struct {
	ID     string
	Values map[string]any
}

func (SetConfig) Type() string { return "graph::set_config" }

func (c SetConfig) Validate() error { return requireID("node id", c.ID) }

type SetType struct {
	ID      string
	TypeKey string
}

func (SetType) Type() string { return "graph::set_type" }

func (c SetType) Validate() error {
	if err := requireID("node id", c.ID); err != nil {
		return err
	}
	return requireID("type key", c.TypeKey)
}

type MoveNode struct {
	ID       string
	Position Position
}

func (MoveNode) Type() string { return "graph::move_node" }

func (c MoveNode) Validate() error { return requireID("node id", c.ID) }

type CreateEdge struct {
	Source string
	Target string
}

func (CreateEdge) Type() string { return "graph::create_edge" }

func (c CreateEdge) Validate() error {
	if err := requireID("source", c.Source); err != nil {
		return err
	}
	return requireID("target", c.Target)
}

type DeleteEdge struct {
	ID string
}

func (DeleteEdge) Type() string { return "graph::delete_edge" }

func (c DeleteEdge) Validate() error { return requireID("edge id", c.ID) }

type SelectNode struct {
	ID string
}

func (SelectNode) Type() string { return "graph::select_node" }

func (c SelectNode) Validate() error { return requireID("node id", c.ID) }

type ClearSelection struct{}

func (ClearSelection) Type() string { return "graph::clear_selection" }

func (ClearSelection) Validate() error { return nil }

// Apply validates cmd and runs it against the graph.
func (g *Graph) Apply(cmd Command) (Result, error) {
	if cmd == nil {
		return Result{}, newError(ErrInvalidCommand, "command is required", nil)
	}
	if err := cmd.Validate(); err != nil {
		return Result{}, newError(ErrInvalidCommand, err.Error(), map[string]any{"command": cmd.Type()})
	}

	switch c := cmd.(type) {
	case CreateNode:
		node, err := g.CreateNode(c.Kind, c.TypeKey, c.Position)
		return Result{NodeID: node.ID}, err
	case DeleteNode:
		return Result{NodeID: c.ID}, g.DeleteNode(c.ID)
	case SetConfig:
		return Result{NodeID: c.ID}, g.SetNodeConfig(c.ID, c.Values)
	case SetType:
		return Result{NodeID: c.ID}, g.SetNodeType(c.ID, c.TypeKey)
	case MoveNode:
		return Result{NodeID: c.ID}, g.MoveNode(c.ID, c.Position)
	case CreateEdge:
		edge, err := g.CreateEdge(c.Source, c.Target)
		return Result{EdgeID: edge.ID}, err
	case DeleteEdge:
		return Result{EdgeID: c.ID}, g.DeleteEdge(c.ID)
	case SelectNode:
		return Result{NodeID: c.ID}, g.Select(c.ID)
	case ClearSelection:
		g.ClearSelection()
		return Result{}, nil
	default:
		return Result{}, newError(ErrInvalidCommand, fmt.Sprintf("unsupported command %s", cmd.Type()), nil)
	}
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}
