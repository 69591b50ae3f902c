package catalog

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/goliatone/go-errors"
	"github.com/mitchellh/mapstructure"
)

// FieldIssue is one problem found in a node config.
type FieldIssue struct {
	Field   string
	Message string
	// Missing is set when a required value is absent, as opposed to present
	// but malformed.
	Missing bool
}

func missing(field, label string) FieldIssue {
	return FieldIssue{Field: field, Message: fmt.Sprintf("%s is required", label), Missing: true}
}

func invalid(field, format string, args ...any) FieldIssue {
	return FieldIssue{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Config is a parsed, strongly typed node configuration.
type Config interface {
	Validate() []FieldIssue
	// Describe returns type specific phrasing, or "" when the type has none.
	Describe() string
}

// Entry binds a descriptor to the code that understands its config.
type Entry interface {
	Descriptor() TypeDescriptor
	Parse(values map[string]any) (Config, error)
}

type typedEntry[C Config] struct {
	desc TypeDescriptor
}

// Typed builds an entry that decodes config maps into C.
// C must be a struct type with mapstructure tags.
func Typed[C Config](desc TypeDescriptor) Entry {
	return typedEntry[C]{desc: desc}
}

func (e typedEntry[C]) Descriptor() TypeDescriptor { return e.desc.clone() }

func (e typedEntry[C]) Parse(values map[string]any) (Config, error) {
	var cfg C
	if err := decode(values, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(values map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(values)
}

// ConfigIssues turns a Parse failure into readable field issues. Decode
// errors are reported per field; anything else becomes a single issue.
func ConfigIssues(err error) []FieldIssue {
	if err == nil {
		return nil
	}
	cause := err
	var ge *apperrors.Error
	if stderrors.As(err, &ge) && ge.Source != nil {
		cause = ge.Source
	}

	var me *mapstructure.Error
	if !stderrors.As(cause, &me) || len(me.Errors) == 0 {
		return []FieldIssue{{Message: cause.Error()}}
	}
	issues := make([]FieldIssue, 0, len(me.Errors))
	for _, text := range me.Errors {
		field := quotedField(text)
		if field == "" {
			issues = append(issues, FieldIssue{Message: text})
			continue
		}
		issues = append(issues, invalid(field, "%s has an invalid value", field))
	}
	return issues
}

// quotedField extracts the field name mapstructure wraps in single quotes.
func quotedField(text string) string {
	start := strings.IndexByte(text, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(text[start+1:], '\'')
	if end <= 0 {
		return ""
	}
	return text[start+1 : start+1+end]
}

// schemaEntry serves descriptors without dedicated code: required fields are
// checked from the schema and descriptions fall back to the label.
type schemaEntry struct {
	desc TypeDescriptor
}

// Schema builds an entry driven only by the descriptor config schema.
func Schema(desc TypeDescriptor) Entry {
	return schemaEntry{desc: desc}
}

func (e schemaEntry) Descriptor() TypeDescriptor { return e.desc.clone() }

func (e schemaEntry) Parse(values map[string]any) (Config, error) {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return schemaConfig{desc: e.desc, values: cp}, nil
}

type schemaConfig struct {
	desc   TypeDescriptor
	values map[string]any
}

func (c schemaConfig) Validate() []FieldIssue {
	issues := make([]FieldIssue, 0)
	for _, spec := range c.desc.RequiredFields() {
		if isBlank(c.values[spec.Field]) {
			issues = append(issues, missing(spec.Field, fieldLabel(spec)))
		}
	}

	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, ok := c.desc.field(name)
		value := c.values[name]
		if !ok || isBlank(value) {
			continue
		}
		switch spec.ValueKind {
		case ValueNumber:
			if _, ok := toFloat(value); !ok {
				issues = append(issues, invalid(spec.Field, "%s must be a number", fieldLabel(spec)))
			}
		case ValueBool:
			if _, ok := value.(bool); !ok {
				issues = append(issues, invalid(spec.Field, "%s must be true or false", fieldLabel(spec)))
			}
		case ValueCron:
			if err := validateCron(fmt.Sprint(value)); err != nil {
				issues = append(issues, invalid(spec.Field, "%s is not a valid schedule: %v", fieldLabel(spec), err))
			}
		}
	}
	return issues
}

func (c schemaConfig) Describe() string { return "" }

func fieldLabel(spec FieldSpec) string {
	if label := strings.TrimSpace(spec.Label); label != "" {
		return label
	}
	return spec.Field
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}
