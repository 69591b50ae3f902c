package validate

import (
	"sort"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

const (
	CodeDisconnectedAction = "AUT001_DISCONNECTED_ACTION"
	CodeMissingField       = "AUT002_MISSING_FIELD"
	CodeInvalidField       = "AUT003_INVALID_FIELD"
	CodeUnknownType        = "AUT004_UNKNOWN_TYPE"
)

// Diagnostic is a deterministic validation message for editor tooling.
type Diagnostic struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	NodeID   string `json:"node_id,omitempty"`
	Field    string `json:"field,omitempty"`
	// Label is the display label of the node the diagnostic refers to.
	Label string `json:"label,omitempty"`
	// Order is the node creation sequence, used to keep output stable.
	Order int `json:"-"`
}

func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.Message < b.Message
	})
}

// Messages flattens diagnostics into their human readable messages.
func Messages(diags []Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

// InvalidNodes returns the ids of nodes with at least one error, in first
// appearance order.
func InvalidNodes(diags []Diagnostic) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, d := range diags {
		if !d.IsError() || d.NodeID == "" || seen[d.NodeID] {
			continue
		}
		seen[d.NodeID] = true
		out = append(out, d.NodeID)
	}
	return out
}

// ForNode filters diagnostics down to one node.
func ForNode(diags []Diagnostic, nodeID string) []Diagnostic {
	out := make([]Diagnostic, 0)
	for _, d := range diags {
		if d.NodeID == nodeID {
			out = append(out, d)
		}
	}
	return out
}
