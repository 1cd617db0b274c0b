package wictypes

import "gopkg.in/yaml.v3"

// CompiledWorkflow is a fully elaborated CWL v1.0 Workflow document, the
// return value of one recursive compile frame.
type CompiledWorkflow struct {
	Inputs       OrderedPorts
	Outputs      OrderedPorts
	Steps        *StepsDict
	Requirements []string // requirement class names, e.g. "SubworkflowFeatureRequirement"
}

func NewCompiledWorkflow() *CompiledWorkflow {
	return &CompiledWorkflow{
		Inputs:  NewOrderedPorts(),
		Outputs: NewOrderedPorts(),
		Steps:   NewStepsDict(),
	}
}

// AddRequirement idempotently adds a requirement class name, guarding
// against duplicate SubworkflowFeatureRequirement entries when a
// workflow is recompiled as someone else's sub-workflow.
func (c *CompiledWorkflow) AddRequirement(name string) {
	for _, r := range c.Requirements {
		if r == name {
			return
		}
	}
	c.Requirements = append(c.Requirements, name)
}

// MarshalYAML emits the standard CWL v1.0 Workflow shape.
func (c *CompiledWorkflow) MarshalYAML() (interface{}, error) {
	root := yaml.Node{Kind: yaml.MappingNode}
	put := func(key string, val interface{}) error {
		var v yaml.Node
		if err := v.Encode(val); err != nil {
			return err
		}
		k := yaml.Node{Kind: yaml.ScalarNode, Value: key}
		root.Content = append(root.Content, &k, &v)
		return nil
	}

	if err := put("cwlVersion", "v1.0"); err != nil {
		return nil, err
	}
	if err := put("class", ClassWorkflow); err != nil {
		return nil, err
	}
	if len(c.Requirements) > 0 {
		reqs := make([]map[string]string, len(c.Requirements))
		for i, r := range c.Requirements {
			reqs[i] = map[string]string{"class": r}
		}
		if err := put("requirements", reqs); err != nil {
			return nil, err
		}
	}

	inputsMap := map[string]interface{}{}
	for _, k := range c.Inputs.Keys {
		p, _ := c.Inputs.Get(k)
		inputsMap[k] = portToCWLType(p)
	}
	if err := put("inputs", inputsMap); err != nil {
		return nil, err
	}

	outputsMap := map[string]interface{}{}
	for _, k := range c.Outputs.Keys {
		p, _ := c.Outputs.Get(k)
		entry := map[string]interface{}{"type": p.Type}
		if p.Default != nil {
			entry["outputSource"] = p.Default
		}
		outputsMap[k] = entry
	}
	if err := put("outputs", outputsMap); err != nil {
		return nil, err
	}

	if err := put("steps", c.Steps); err != nil {
		return nil, err
	}

	return &root, nil
}

func portToCWLType(p ToolPort) interface{} {
	if p.Format != "" {
		return map[string]interface{}{"type": p.Type, "format": p.Format}
	}
	return p.Type
}
