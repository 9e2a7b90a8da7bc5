package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// File represents the root of a YAML mapping profile.
type File struct {
	// Version of the profile schema.
	Version string `yaml:"version,omitempty"`

	// Mappings is a list of type pair mappings.
	Mappings []TypeMapping `yaml:"mappings"`
}

// TypeMapping configures the mapping of one source type to one target type.
type TypeMapping struct {
	// Source type identifier (e.g., "store.Order" or full path).
	Source string `yaml:"source"`

	// Target type identifier (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target"`

	// OneToOne maps source field paths to target field names.
	// Example: { "OrderID": "ID", "CustomerName": "Customer" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit rules for single target fields.
	Fields []FieldMapping `yaml:"fields,omitempty"`

	// Ignore lists target fields that receive no binding at all.
	Ignore []string `yaml:"ignore,omitempty"`

	// FaultIsolation guards synthesized bindings at runtime.
	FaultIsolation bool `yaml:"fault_isolation,omitempty"`

	// TemplateOnly disables synthesis: only the profile rules are applied.
	TemplateOnly bool `yaml:"template_only,omitempty"`

	// Conversions selects the numeric conversions synthesis may use:
	// "all" (default), "safe" or "none".
	Conversions string `yaml:"conversions,omitempty"`
}

// FieldMapping is an explicit rule for one target field: a constant
// default, a source path, or a transform over several source paths.
type FieldMapping struct {
	// Target field name.
	Target string `yaml:"target"`

	// Source field paths, a single string or a list.
	Source StringOrArray `yaml:"source,omitempty"`

	// Transform names a registered function applied to the sources.
	Transform string `yaml:"transform,omitempty"`

	// Default is a constant decoded into the target field type.
	Default *yaml.Node `yaml:"default,omitempty"`
}

// Pair returns the "source->target" label used in diagnostics.
func (tm *TypeMapping) Pair() string {
	return fmt.Sprintf("%s->%s", tm.Source, tm.Target)
}

// Targets returns the target fields that have a rule, renames first, in a
// stable order.
func (tm *TypeMapping) Targets() []string {
	var out []string

	for _, src := range tm.renameSources() {
		out = append(out, tm.OneToOne[src])
	}

	for _, fm := range tm.Fields {
		out = append(out, fm.Target)
	}

	return out
}

// renameSources returns the keys of the 121 section sorted, so that
// resolution does not depend on map iteration order.
func (tm *TypeMapping) renameSources() []string {
	keys := make([]string, 0, len(tm.OneToOne))
	for k := range tm.OneToOne {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// StringOrArray is a list of strings that can be written in YAML as a
// single string or as a sequence.
type StringOrArray []string

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if len(s) == 0 {
		return ""
	}

	return s[0]
}
