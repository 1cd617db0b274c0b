package compiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/foldedcode/wic/utils/wictypes"
)

// yamlDoc is the on-disk shape of one workflow document: an ordered
// `steps:` sequence. Other top-level keys are not decoded.
type yamlDoc struct {
	Steps wictypes.StepList `yaml:"steps"`
}

func loadYamlDoc(path string) (*yamlDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: reading %s: %w", path, err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("compiler: parsing %s: %w", path, err)
	}
	doc.Steps = ExtractBackendSteps(doc.Steps)
	return &doc, nil
}

// ExtractBackendSteps is the extension point for backend-specific step
// expansion (e.g. a single logical step fanning out into several
// engine-specific steps before the rest of the compiler sees them). No
// backend currently needs this, so it passes the step list through
// unchanged; a future backend plugs in here rather than inside
// compileFrame itself.
func ExtractBackendSteps(steps wictypes.StepList) wictypes.StepList {
	return steps
}

// buildStepBody assembles the final CWL step body: every other key of
// the original document (requirements, hints, label...) is opaque to
// the compiler and copied through verbatim, but `in:` is always
// replaced with resolvedIn -- the same map resolveProvidedArgs and the
// required-arg loop rewrote in place, holding the mangled input names
// and workflow-internal references the raw YAML's `&`/`*`/literal
// tokens were resolved to -- plus a `run:` pointer at the
// tool/compiled-sub-workflow path and an `out:` list of every output
// port the step exposes.
func buildStepBody(body wictypes.Yaml, runPath string, outputs []string, resolvedIn map[string]interface{}) wictypes.Yaml {
	out := wictypes.Yaml{}
	for k, v := range body {
		out[k] = v
	}
	out["in"] = resolvedIn
	out["run"] = runPath
	out["out"] = append([]string{}, outputs...)
	return out
}

type cwlPort struct {
	Type    string      `yaml:"type"`
	Default interface{} `yaml:"default"`
	Format  string      `yaml:"format"`
}

// LoadToolDoc parses a CWL CommandLineTool document at path into a
// ToolDoc, for registry population by an external discovery step. Ports
// are walked node-pair by node-pair (as wictypes.StepList does for
// steps) to preserve declaration order, since edge inference picks the
// first matching output port in declaration order within a step.
func LoadToolDoc(path string) (wictypes.ToolDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wictypes.ToolDoc{}, fmt.Errorf("compiler: reading tool %s: %w", path, err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return wictypes.ToolDoc{}, fmt.Errorf("compiler: parsing tool %s: %w", path, err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return wictypes.ToolDoc{}, fmt.Errorf("compiler: tool %s is not a mapping document", path)
	}
	mapping := root.Content[0]

	doc := wictypes.ToolDoc{
		Class:   wictypes.ClassCommandLineTool,
		Inputs:  wictypes.NewOrderedPorts(),
		Outputs: wictypes.NewOrderedPorts(),
	}

	for i := 0; i < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		val := mapping.Content[i+1]
		switch key {
		case "class":
			doc.Class = val.Value
		case "inputs":
			if err := decodePorts(val, &doc.Inputs); err != nil {
				return wictypes.ToolDoc{}, fmt.Errorf("compiler: tool %s inputs: %w", path, err)
			}
		case "outputs":
			if err := decodePorts(val, &doc.Outputs); err != nil {
				return wictypes.ToolDoc{}, fmt.Errorf("compiler: tool %s outputs: %w", path, err)
			}
		}
	}
	return doc, nil
}

// decodePorts walks a CWL inputs:/outputs: mapping node-pair by
// node-pair, preserving declaration order.
func decodePorts(node *yaml.Node, out *wictypes.OrderedPorts) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("must be a mapping, got %v", node.Kind)
	}
	for i := 0; i < len(node.Content); i += 2 {
		name := node.Content[i].Value
		valNode := node.Content[i+1]

		var port cwlPort
		if valNode.Kind == yaml.ScalarNode {
			port.Type = valNode.Value
		} else if err := valNode.Decode(&port); err != nil {
			return fmt.Errorf("port %q: %w", name, err)
		}
		out.Set(name, wictypes.ToolPort{Type: port.Type, Default: port.Default, Format: port.Format})
	}
	return nil
}

// stepIn extracts the `in:` mapping from a step body, returning an empty
// map for steps with no explicit bindings (the step forwards nothing and
// relies entirely on edge inference).
func stepIn(body wictypes.Yaml) map[string]interface{} {
	if body == nil {
		return map[string]interface{}{}
	}
	raw, ok := body["in"]
	if !ok {
		return map[string]interface{}{}
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return m
}
