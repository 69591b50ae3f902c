package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Definition is the compiled, serializable automation consumed by the
// execution engine. It is a snapshot and shares no state with the graph.
type Definition struct {
	TriggerType   string             `json:"triggerType" yaml:"triggerType" toml:"triggerType"`
	TriggerConfig map[string]any     `json:"triggerConfig" yaml:"triggerConfig" toml:"triggerConfig"`
	Actions       []ActionDefinition `json:"actions" yaml:"actions" toml:"actions"`
}

// ActionDefinition is one step of a compiled automation.
type ActionDefinition struct {
	Type   string         `json:"type" yaml:"type" toml:"type"`
	Params map[string]any `json:"params" yaml:"params" toml:"params"`
}

// Clone returns a copy whose maps and slices are not shared with d.
func (d Definition) Clone() Definition {
	out := Definition{
		TriggerType:   d.TriggerType,
		TriggerConfig: copyValues(d.TriggerConfig),
		Actions:       make([]ActionDefinition, len(d.Actions)),
	}
	for i, a := range d.Actions {
		out.Actions[i] = ActionDefinition{Type: a.Type, Params: copyValues(a.Params)}
	}
	return out
}

// ParseDefinition reads a definition in YAML or JSON.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse definition: %w", err)
	}
	return def.checked()
}

// ParseDefinitionTOML reads a definition in TOML.
func ParseDefinitionTOML(data []byte) (Definition, error) {
	var def Definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse definition: %w", err)
	}
	return def.checked()
}

func (d Definition) checked() (Definition, error) {
	if strings.TrimSpace(d.TriggerType) == "" {
		return Definition{}, fmt.Errorf("parse definition: triggerType is required")
	}
	for idx, action := range d.Actions {
		if strings.TrimSpace(action.Type) == "" {
			return Definition{}, fmt.Errorf("parse definition: actions[%d] type is required", idx)
		}
	}
	return d.Clone(), nil
}

// LoadDefinition reads a definition document from path.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read definition %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseDefinitionTOML(data)
	}
	return ParseDefinition(data)
}

// Encode renders the definition as "json", "yaml" or "toml".
func (d Definition) Encode(format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return json.MarshalIndent(d, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(d)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func copyValues(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
