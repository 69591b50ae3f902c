package preview

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-automation/catalog"
	"github.com/goliatone/go-automation/compiler"
	"github.com/goliatone/go-automation/graph"
	"github.com/goliatone/go-automation/validate"
)

// StepResult is the dry-run verdict for one action node.
type StepResult struct {
	Index       int      `json:"index"`
	NodeID      string   `json:"node_id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Passed      bool     `json:"passed"`
	Problems    []string `json:"problems,omitempty"`
	// Excluded marks an action the linearizer left out of the sequence. It
	// has no position and would not run.
	Excluded bool `json:"excluded,omitempty"`
}

// Report explains what the automation would do without running anything.
type Report struct {
	Preview []string     `json:"preview"`
	Steps   []StepResult `json:"steps"`
	// Warnings are non blocking, such as disconnected actions.
	Warnings []string `json:"warnings,omitempty"`
	// Errors are field problems on non action nodes, such as the trigger.
	Errors []string `json:"errors,omitempty"`
	// Blocking is set when the graph cannot compile at all.
	Blocking error `json:"-"`
}

// Passed reports whether the automation compiles and every check passed.
func (r Report) Passed() bool {
	if r.Blocking != nil || len(r.Errors) > 0 {
		return false
	}
	for _, step := range r.Steps {
		if !step.Passed {
			return false
		}
	}
	return true
}

// DryRun validates the graph and pairs each action with a pass or fail line.
// It never contacts an execution engine and never persists anything.
func DryRun(src Source, reg *catalog.Registry, opts ...compiler.Option) Report {
	report := Report{
		Preview: Render(src, reg, opts...),
		Steps:   make([]StepResult, 0),
	}
	if _, err := compiler.Compile(src, opts...); err != nil {
		report.Blocking = err
	}

	fields := validate.Fields(src, reg)
	report.Warnings = validate.Messages(validate.Connectivity(src, reg))

	ordered := make(map[string]bool)
	for i, node := range compiler.Order(src, opts...) {
		ordered[node.ID] = true
		report.Steps = append(report.Steps, newStep(reg, fields, node, i+1))
	}
	for _, node := range src.ActionNodes() {
		if ordered[node.ID] {
			continue
		}
		step := newStep(reg, fields, node, 0)
		step.Excluded = true
		report.Steps = append(report.Steps, step)
	}

	for _, d := range fields {
		if d.IsError() && !isAction(src, d.NodeID) {
			report.Errors = append(report.Errors, d.Message)
		}
	}
	return report
}

func newStep(reg *catalog.Registry, fields []validate.Diagnostic, node graph.Node, index int) StepResult {
	step := StepResult{
		Index:       index,
		NodeID:      node.ID,
		Type:        node.TypeKey,
		Description: ActionText(reg, node.TypeKey, node.Config),
		Passed:      true,
	}
	for _, d := range validate.ForNode(fields, node.ID) {
		if d.IsError() {
			step.Passed = false
			step.Problems = append(step.Problems, d.Message)
		}
	}
	return step
}

func isAction(src Source, id string) bool {
	node, ok := src.Node(id)
	return ok && node.Kind == graph.KindAction
}

// Lines renders the report for a terminal or log.
func (r Report) Lines() []string {
	lines := []string{"Preview:"}
	for _, l := range r.Preview {
		lines = append(lines, "  "+l)
	}

	lines = append(lines, "Dry run (nothing is executed):")
	if len(r.Steps) == 0 {
		lines = append(lines, "  no actions to check")
	}
	for _, step := range r.Steps {
		status := "PASS"
		if !step.Passed {
			status = "FAIL"
		}
		line := fmt.Sprintf("  %s %d. %s", status, step.Index, step.Description)
		if step.Excluded {
			line = fmt.Sprintf("  %s - %s (not in the compiled sequence)", status, step.Description)
		}
		if len(step.Problems) > 0 {
			line += " (" + strings.Join(step.Problems, "; ") + ")"
		}
		lines = append(lines, line)
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "Errors:")
		for _, e := range r.Errors {
			lines = append(lines, "  - "+e)
		}
	}
	if len(r.Warnings) > 0 {
		lines = append(lines, "Warnings:")
		for _, w := range r.Warnings {
			lines = append(lines, "  - "+w)
		}
	}

	switch {
	case r.Blocking != nil:
		lines = append(lines, "Result: blocked: "+r.Blocking.Error())
	case r.Passed():
		lines = append(lines, "Result: ready to save")
	default:
		lines = append(lines, "Result: has problems")
	}
	return lines
}

func (r Report) String() string {
	return Text(r.Lines())
}
