package graph

import (
	"fmt"
	"strings"
)

// Kind is the closed set of node kinds an automation graph can hold.
type Kind string

const (
	KindTrigger   Kind = "trigger"
	KindCondition Kind = "condition"
	KindAction    Kind = "action"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTrigger, KindCondition, KindAction:
		return true
	}
	return false
}

// ParseKind normalizes a user supplied kind name.
func ParseKind(value string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(value)))
	if !k.Valid() {
		return "", newError(ErrUnsupportedKind, fmt.Sprintf("unsupported node kind %q", value), nil)
	}
	return k, nil
}

// Position is canvas geometry. Only Y matters to the compiler.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Below returns the position offset units under p.
func (p Position) Below(offset float64) Position {
	return Position{X: p.X, Y: p.Y + offset}
}

type Node struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     Kind           `json:"kind" yaml:"kind"`
	TypeKey  string         `json:"type" yaml:"type"`
	Config   map[string]any `json:"config" yaml:"config"`
	Position Position       `json:"position" yaml:"position"`
	// Seq is the creation sequence, used to break position ties.
	Seq int `json:"seq" yaml:"seq"`
}

func (n Node) clone() Node {
	n.Config = CopyConfig(n.Config)
	return n
}

type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// CopyConfig returns a shallow copy of config, never nil.
func CopyConfig(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var allowedTargets = map[Kind]map[Kind]bool{
	KindTrigger:   {KindAction: true, KindCondition: true},
	KindCondition: {KindAction: true},
	KindAction:    {KindAction: true},
}

// CanConnect reports whether an edge from a source of kind source to a target
// of kind target is legal. Triggers never receive edges and nothing flows
// back upstream.
func CanConnect(source, target Kind) bool {
	return allowedTargets[source][target]
}
