package wictypes

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// StepEntry is a single `{step_key: step_body | null}` mapping from a
// document's `steps:` sequence.
type StepEntry struct {
	Key  string
	Body Yaml // nil when the step was written with no body at all
}

// StepList is the ordered `steps:` sequence of a YAML workflow document.
// It round-trips through YAML as a sequence of single-key mappings,
// walked node-pair by node-pair to preserve declaration order
// (gopkg.in/yaml.v3 maps do not guarantee iteration order, so
// StepEntry/StepList is required wherever order matters -- edge
// inference's reverse-scan tie-break depends on it).
type StepList []StepEntry

// UnmarshalYAML decodes a sequence of single-key mappings, preserving
// order. A mapping with more than one key, or a step list that isn't a
// sequence, is a structural error.
func (s *StepList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("steps: must be a sequence, got %v", node.Kind)
	}

	out := make(StepList, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("each step must be a single-key mapping, got %v", item.Kind)
		}
		if len(item.Content) != 2 {
			return fmt.Errorf("each step must have exactly one key, got %d", len(item.Content)/2)
		}
		keyNode, valNode := item.Content[0], item.Content[1]
		var body Yaml
		if valNode.Kind != yaml.ScalarNode || valNode.Tag != "!!null" {
			if err := valNode.Decode(&body); err != nil {
				return fmt.Errorf("decoding step %q: %w", keyNode.Value, err)
			}
		}
		out = append(out, StepEntry{Key: keyNode.Value, Body: body})
	}
	*s = out
	return nil
}

// MarshalYAML emits the sequence back in the same single-key-mapping shape.
func (s StepList) MarshalYAML() (interface{}, error) {
	out := make([]yaml.Node, 0, len(s))
	for _, entry := range s {
		var valNode yaml.Node
		if entry.Body == nil {
			valNode.Kind = yaml.ScalarNode
			valNode.Tag = "!!null"
		} else if err := valNode.Encode(entry.Body); err != nil {
			return nil, err
		}
		mapping := yaml.Node{Kind: yaml.MappingNode}
		keyNode := yaml.Node{Kind: yaml.ScalarNode, Value: entry.Key}
		mapping.Content = append(mapping.Content, &keyNode, &valNode)
		out = append(out, mapping)
	}
	return out, nil
}

// Keys returns the ordered step keys.
func (s StepList) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}
	return keys
}

// StepsDict is the compiled, mangled-name-keyed representation of a
// StepList. Go maps don't preserve order, so StepsDict additionally
// records the original order for deterministic re-emission.
type StepsDict struct {
	Order []string
	Steps map[string]Yaml
}

func NewStepsDict() *StepsDict {
	return &StepsDict{Steps: map[string]Yaml{}}
}

func (d *StepsDict) Set(name string, body Yaml) {
	if _, exists := d.Steps[name]; !exists {
		d.Order = append(d.Order, name)
	}
	d.Steps[name] = body
}

// MarshalYAML emits the mapping in insertion order.
func (d StepsDict) MarshalYAML() (interface{}, error) {
	mapping := yaml.Node{Kind: yaml.MappingNode}
	for _, name := range d.Order {
		var valNode yaml.Node
		if err := valNode.Encode(d.Steps[name]); err != nil {
			return nil, err
		}
		keyNode := yaml.Node{Kind: yaml.ScalarNode, Value: name}
		mapping.Content = append(mapping.Content, &keyNode, &valNode)
	}
	return &mapping, nil
}
