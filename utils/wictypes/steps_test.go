package wictypes

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestStepListUnmarshalPreservesOrder(t *testing.T) {
	doc := `
steps:
  - gmx_pdb2gmx:
      in:
        input_pdb: protein.pdb
  - gmx_solvate: null
  - gmx_editconf:
`
	var v struct {
		Steps StepList `yaml:"steps"`
	}
	if err := yaml.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"gmx_pdb2gmx", "gmx_solvate", "gmx_editconf"}
	got := v.Steps.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v.Steps[0].Body["in"] == nil {
		t.Error("expected first step's body to decode its 'in' mapping")
	}
	if v.Steps[1].Body != nil {
		t.Errorf("expected a null step body to decode to nil, got %v", v.Steps[1].Body)
	}
}

func TestStepListUnmarshalRejectsMultiKeyMapping(t *testing.T) {
	doc := `
steps:
  - gmx_pdb2gmx: null
    gmx_solvate: null
`
	var v struct {
		Steps StepList `yaml:"steps"`
	}
	if err := yaml.Unmarshal([]byte(doc), &v); err == nil {
		t.Fatal("expected an error for a multi-key step mapping")
	}
}

func TestStepListMarshalRoundTrip(t *testing.T) {
	in := StepList{
		{Key: "gmx_pdb2gmx", Body: Yaml{"in": map[string]interface{}{"input_pdb": "protein.pdb"}}},
		{Key: "gmx_solvate"},
	}
	out, err := yaml.Marshal(struct {
		Steps StepList `yaml:"steps"`
	}{Steps: in})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var roundTrip struct {
		Steps StepList `yaml:"steps"`
	}
	if err := yaml.Unmarshal(out, &roundTrip); err != nil {
		t.Fatalf("unmarshal round-trip: %v", err)
	}
	if !strings.Contains(string(out), "gmx_pdb2gmx") {
		t.Errorf("marshaled doc missing step key:\n%s", out)
	}
	if len(roundTrip.Steps) != 2 || roundTrip.Steps.Keys()[0] != "gmx_pdb2gmx" || roundTrip.Steps.Keys()[1] != "gmx_solvate" {
		t.Errorf("round-tripped steps = %v", roundTrip.Steps.Keys())
	}
}

func TestStepsDictPreservesInsertionOrder(t *testing.T) {
	d := NewStepsDict()
	d.Set("main__step__1__solvate", Yaml{"run": "solvate.cwl"})
	d.Set("main__step__0__pdb2gmx", Yaml{"run": "pdb2gmx.cwl"})

	out, err := yaml.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	idxSolvate := strings.Index(s, "main__step__1__solvate")
	idxPdb2gmx := strings.Index(s, "main__step__0__pdb2gmx")
	if idxSolvate < 0 || idxPdb2gmx < 0 {
		t.Fatalf("missing expected keys in marshaled output:\n%s", s)
	}
	if idxSolvate > idxPdb2gmx {
		t.Errorf("expected insertion order (solvate first) to survive marshaling, got:\n%s", s)
	}
}

func TestOrderedPortsSetGet(t *testing.T) {
	ports := NewOrderedPorts()
	ports.Set("input_gro", ToolPort{Type: "File"})
	ports.Set("input_top", ToolPort{Type: "File"})

	if len(ports.Keys) != 2 || ports.Keys[0] != "input_gro" || ports.Keys[1] != "input_top" {
		t.Errorf("Keys = %v", ports.Keys)
	}
	port, ok := ports.Get("input_gro")
	if !ok || port.Type != "File" {
		t.Errorf("Get(input_gro) = %v, %v", port, ok)
	}
}

func TestOrderedPortsSetOverwriteKeepsOriginalPosition(t *testing.T) {
	ports := NewOrderedPorts()
	ports.Set("a", ToolPort{Type: "File"})
	ports.Set("b", ToolPort{Type: "int"})
	ports.Set("a", ToolPort{Type: "string"})

	if len(ports.Keys) != 2 {
		t.Fatalf("Keys = %v, expected no duplicate key entries", ports.Keys)
	}
	port, _ := ports.Get("a")
	if port.Type != "string" {
		t.Errorf("expected overwritten type, got %q", port.Type)
	}
}

func TestToolPortOptionalAndBaseType(t *testing.T) {
	optional := ToolPort{Type: "File?"}
	if !optional.Optional() {
		t.Error("expected '?' suffix to mark the port optional")
	}
	if optional.BaseType() != "File" {
		t.Errorf("BaseType() = %q", optional.BaseType())
	}

	withDefault := ToolPort{Type: "int", Default: 5}
	if !withDefault.Optional() {
		t.Error("expected a default value to mark the port optional")
	}

	required := ToolPort{Type: "File"}
	if required.Optional() {
		t.Error("expected a plain type with no default to be required")
	}
}
