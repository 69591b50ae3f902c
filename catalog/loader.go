package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document is the file representation of a registry.
type Document struct {
	Triggers   []TypeDescriptor `json:"triggers" yaml:"triggers" toml:"triggers"`
	Actions    []TypeDescriptor `json:"actions" yaml:"actions" toml:"actions"`
	Conditions []TypeDescriptor `json:"conditions,omitempty" yaml:"conditions,omitempty" toml:"conditions,omitempty"`
}

// ParseRegistry reads a registry document in YAML or JSON.
func ParseRegistry(data []byte, opts ...Option) (*Registry, error) {
	var doc Document
	// yaml can handle JSON too, so a single attempt is fine
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return doc.Build(opts...)
}

// ParseRegistryTOML reads a registry document in TOML.
func ParseRegistryTOML(data []byte, opts ...Option) (*Registry, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return doc.Build(opts...)
}

// LoadRegistry reads a registry document from path. Files ending in .toml
// are read as TOML, anything else as YAML or JSON.
func LoadRegistry(path string, opts ...Option) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseRegistryTOML(data, opts...)
	}
	return ParseRegistry(data, opts...)
}

// Build turns the document into a registry.
func (d Document) Build(opts ...Option) (*Registry, error) {
	if len(d.Conditions) > 0 {
		opts = append([]Option{WithConditions(d.Conditions...)}, opts...)
	}
	return New(d.Triggers, d.Actions, opts...)
}

// Export returns the document describing r.
func (r *Registry) Export() Document {
	return Document{
		Triggers:   r.Triggers(),
		Actions:    r.Actions(),
		Conditions: r.Conditions(),
	}
}
