package catalog

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-automation/graph"
)

// ValueKind hints how an editor should render and coerce a config field.
type ValueKind string

const (
	ValueString ValueKind = "string"
	ValueText   ValueKind = "text"
	ValueNumber ValueKind = "number"
	ValueBool   ValueKind = "bool"
	ValueUser   ValueKind = "user"
	ValueStage  ValueKind = "stage"
	ValueEmail  ValueKind = "email"
	ValueCron   ValueKind = "cron"
)

// FieldSpec is one entry of a type's config schema.
type FieldSpec struct {
	Field     string    `json:"field" yaml:"field" toml:"field"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Required  bool      `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	ValueKind ValueKind `json:"valueKind,omitempty" yaml:"valueKind,omitempty" toml:"valueKind,omitempty"`
}

// TypeDescriptor declares a trigger, condition or action type.
type TypeDescriptor struct {
	Kind         graph.Kind  `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Key          string      `json:"key" yaml:"key" toml:"key"`
	Label        string      `json:"label" yaml:"label" toml:"label"`
	Description  string      `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	ConfigSchema []FieldSpec `json:"configSchema,omitempty" yaml:"configSchema,omitempty" toml:"configSchema,omitempty"`
}

func (d TypeDescriptor) validate() error {
	if !d.Kind.Valid() {
		return fmt.Errorf("descriptor %q has unsupported kind %q", d.Key, d.Kind)
	}
	if strings.TrimSpace(d.Key) == "" {
		return fmt.Errorf("%s descriptor key is required", d.Kind)
	}
	seen := make(map[string]struct{}, len(d.ConfigSchema))
	for idx, field := range d.ConfigSchema {
		name := strings.TrimSpace(field.Field)
		if name == "" {
			return fmt.Errorf("descriptor %q configSchema[%d] field is required", d.Key, idx)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("descriptor %q declares field %q twice", d.Key, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// DisplayLabel falls back to the key when no label is set.
func (d TypeDescriptor) DisplayLabel() string {
	if label := strings.TrimSpace(d.Label); label != "" {
		return label
	}
	return d.Key
}

// RequiredFields lists the schema fields flagged as required, in order.
func (d TypeDescriptor) RequiredFields() []FieldSpec {
	out := make([]FieldSpec, 0)
	for _, f := range d.ConfigSchema {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

func (d TypeDescriptor) field(name string) (FieldSpec, bool) {
	for _, f := range d.ConfigSchema {
		if f.Field == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (d TypeDescriptor) clone() TypeDescriptor {
	if len(d.ConfigSchema) > 0 {
		schema := make([]FieldSpec, len(d.ConfigSchema))
		copy(schema, d.ConfigSchema)
		d.ConfigSchema = schema
	}
	return d
}
