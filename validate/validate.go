package validate

import (
	"fmt"

	"github.com/goliatone/go-automation/catalog"
	"github.com/goliatone/go-automation/graph"
)

// Source is the read side of a graph the validator needs.
type Source interface {
	Nodes() []graph.Node
	NodesOfKind(kind graph.Kind) []graph.Node
	Incoming(id string) []graph.Edge
}

// Connectivity warns about action nodes nothing points at. The first created
// action is exempt. These warnings never block compilation.
func Connectivity(src Source, reg *catalog.Registry) []Diagnostic {
	diags := make([]Diagnostic, 0)
	actions := src.NodesOfKind(graph.KindAction)
	for i, node := range actions {
		if i == 0 {
			continue
		}
		if len(src.Incoming(node.ID)) > 0 {
			continue
		}
		label := reg.Label(node.Kind, node.TypeKey)
		diags = append(diags, Diagnostic{
			Code:     CodeDisconnectedAction,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%q is not connected to other blocks", label),
			NodeID:   node.ID,
			Label:    label,
			Order:    node.Seq,
		})
	}
	sortDiagnostics(diags)
	return diags
}

// Fields checks every node config against its registered type.
func Fields(src Source, reg *catalog.Registry) []Diagnostic {
	diags := make([]Diagnostic, 0)
	for _, node := range src.Nodes() {
		diags = append(diags, NodeFields(node, reg)...)
	}
	sortDiagnostics(diags)
	return diags
}

// NodeFields checks a single node config.
func NodeFields(node graph.Node, reg *catalog.Registry) []Diagnostic {
	label := reg.Label(node.Kind, node.TypeKey)
	base := Diagnostic{
		Severity: SeverityError,
		NodeID:   node.ID,
		Label:    label,
		Order:    node.Seq,
	}

	if _, ok := reg.Lookup(node.Kind, node.TypeKey); !ok {
		d := base
		d.Code = CodeUnknownType
		d.Message = fmt.Sprintf("%s type %q is not available", node.Kind, node.TypeKey)
		return []Diagnostic{d}
	}

	var issues []catalog.FieldIssue
	cfg, err := reg.Parse(node.Kind, node.TypeKey, node.Config)
	if err != nil {
		issues = catalog.ConfigIssues(err)
	} else {
		issues = cfg.Validate()
	}

	out := make([]Diagnostic, 0, len(issues))
	for _, issue := range issues {
		d := base
		d.Field = issue.Field
		d.Code = CodeInvalidField
		if issue.Missing {
			d.Code = CodeMissingField
		}
		d.Message = fmt.Sprintf("%q: %s", label, issue.Message)
		out = append(out, d)
	}
	return out
}

// All runs every check and returns the combined, sorted diagnostics.
func All(src Source, reg *catalog.Registry) []Diagnostic {
	diags := append(Connectivity(src, reg), Fields(src, reg)...)
	sortDiagnostics(diags)
	return diags
}
