package wictypes

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCompiledWorkflowMarshalShape(t *testing.T) {
	doc := NewCompiledWorkflow()
	doc.AddRequirement("SubworkflowFeatureRequirement")
	doc.Inputs.Set("main__step__0__align___input_file", ToolPort{Type: "File"})
	doc.Outputs.Set("main__step__0__align/output_file", ToolPort{Type: "File", Default: "main__step__0__align/output_file"})
	doc.Steps.Set("main__step__0__align", Yaml{
		"in":  map[string]interface{}{"input_file": "main__step__0__align___input_file"},
		"run": "align.cwl",
		"out": []string{"output_file"},
	})

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)

	for _, want := range []string{
		"cwlVersion: v1.0",
		"class: Workflow",
		"SubworkflowFeatureRequirement",
		"main__step__0__align___input_file",
		"main__step__0__align/output_file",
		"outputSource",
		"run: align.cwl",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("marshaled document missing %q:\n%s", want, s)
		}
	}
}

func TestCompiledWorkflowMarshalOmitsRequirementsWhenEmpty(t *testing.T) {
	doc := NewCompiledWorkflow()
	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "requirements") {
		t.Errorf("expected no requirements key when none were added:\n%s", out)
	}
}

func TestAddRequirementIsIdempotent(t *testing.T) {
	doc := NewCompiledWorkflow()
	doc.AddRequirement("SubworkflowFeatureRequirement")
	doc.AddRequirement("SubworkflowFeatureRequirement")
	if len(doc.Requirements) != 1 {
		t.Errorf("Requirements = %v, want exactly one entry", doc.Requirements)
	}
}

func TestPortToCWLTypeWithFormat(t *testing.T) {
	out := portToCWLType(ToolPort{Type: "File", Format: "https://edamontology.org/format_2330"})
	m, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("expected a map result when Format is set, got %T", out)
	}
	if m["type"] != "File" || m["format"] != "https://edamontology.org/format_2330" {
		t.Errorf("portToCWLType() = %v", m)
	}
}

func TestPortToCWLTypeWithoutFormat(t *testing.T) {
	out := portToCWLType(ToolPort{Type: "File"})
	if out != "File" {
		t.Errorf("portToCWLType() = %v, want bare type string", out)
	}
}
