package preview

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-automation/catalog"
	"github.com/goliatone/go-automation/compiler"
	"github.com/goliatone/go-automation/graph"
	"github.com/goliatone/go-automation/validate"
)

// Source is the read side of a graph needed to render and simulate.
type Source interface {
	compiler.Source
	validate.Source
}

const (
	noTriggerLine = "No trigger configured"
	noActionsLine = "No actions configured"
)

// Render summarizes the graph in plain language: one line for the trigger,
// then one numbered line per compiled action. It is recomputed on every call.
func Render(src Source, reg *catalog.Registry, opts ...compiler.Option) []string {
	trigger, ok := src.Trigger()
	if !ok {
		return []string{noTriggerLine}
	}
	lines := []string{TriggerLine(reg, trigger.TypeKey, trigger.Config)}

	def, err := compiler.Compile(src, opts...)
	if err != nil {
		return append(lines, noActionsLine)
	}
	for i, action := range def.Actions {
		lines = append(lines, ActionLine(reg, i+1, action.Type, action.Params))
	}
	return lines
}

// RenderDefinition summarizes an already compiled definition.
func RenderDefinition(def compiler.Definition, reg *catalog.Registry) []string {
	lines := []string{TriggerLine(reg, def.TriggerType, def.TriggerConfig)}
	if len(def.Actions) == 0 {
		return append(lines, noActionsLine)
	}
	for i, action := range def.Actions {
		lines = append(lines, ActionLine(reg, i+1, action.Type, action.Params))
	}
	return lines
}

// TriggerLine phrases a trigger. Types without their own phrasing fall back
// to the registry label.
func TriggerLine(reg *catalog.Registry, key string, config map[string]any) string {
	if text := describe(reg, graph.KindTrigger, key, config); text != "" {
		return text
	}
	return fmt.Sprintf("When %q happens", reg.Label(graph.KindTrigger, key))
}

// ActionLine phrases the n-th action, falling back to "<n>. <label>".
func ActionLine(reg *catalog.Registry, n int, key string, params map[string]any) string {
	return fmt.Sprintf("%d. %s", n, ActionText(reg, key, params))
}

// ActionText phrases an action without its number.
func ActionText(reg *catalog.Registry, key string, params map[string]any) string {
	if text := describe(reg, graph.KindAction, key, params); text != "" {
		return text
	}
	return reg.Label(graph.KindAction, key)
}

func describe(reg *catalog.Registry, kind graph.Kind, key string, values map[string]any) string {
	cfg, err := reg.Parse(kind, key, values)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cfg.Describe())
}

// Text joins rendered lines.
func Text(lines []string) string {
	return strings.Join(lines, "\n")
}
