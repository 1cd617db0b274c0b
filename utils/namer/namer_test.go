package namer

import "testing"

func TestStepName(t *testing.T) {
	name, err := StepName("main", 2, "align.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "main__step__2__align"
	if name != want {
		t.Errorf("StepName() = %q, want %q", name, want)
	}
}

func TestStepNameAtomicToolKey(t *testing.T) {
	// Atomic tool stems (no file extension) pass through unchanged.
	name, err := StepName("main", 0, "gmx_pdb2gmx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "main__step__0__gmx_pdb2gmx"
	if name != want {
		t.Errorf("StepName() = %q, want %q", name, want)
	}
}

func TestPortNameSplitPortRoundTrip(t *testing.T) {
	namespace := []string{"main__step__0__prep", "prep__step__1__solvate"}
	mangled, err := PortName(namespace, "solvate__step__2__gmx_solvate", "output_gro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gotNS, gotStep, gotPort, err := SplitPort(mangled, len(namespace))
	if err != nil {
		t.Fatalf("SplitPort: %v", err)
	}
	if len(gotNS) != len(namespace) {
		t.Fatalf("namespace length = %d, want %d", len(gotNS), len(namespace))
	}
	for i := range namespace {
		if gotNS[i] != namespace[i] {
			t.Errorf("namespace[%d] = %q, want %q", i, gotNS[i], namespace[i])
		}
	}
	if gotStep != "solvate__step__2__gmx_solvate" {
		t.Errorf("step = %q", gotStep)
	}
	if gotPort != "output_gro" {
		t.Errorf("port = %q", gotPort)
	}
}

func TestPortNameRootNamespace(t *testing.T) {
	mangled, err := PortName(nil, "main__step__0__align", "output_file")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mangled != "main__step__0__align___output_file" {
		t.Errorf("PortName() = %q", mangled)
	}
	ns, step, port, err := SplitPort(mangled, 0)
	if err != nil {
		t.Fatalf("SplitPort: %v", err)
	}
	if len(ns) != 0 {
		t.Errorf("namespace = %v, want empty", ns)
	}
	if step != "main__step__0__align" || port != "output_file" {
		t.Errorf("step/port = %q/%q", step, port)
	}
}

func TestPortNameRejectsSeparatorInComponent(t *testing.T) {
	_, err := PortName(nil, "bad___step", "port")
	if err == nil {
		t.Fatal("expected error for a component containing the port separator")
	}
}

func TestSplitPortWrongArity(t *testing.T) {
	_, _, _, err := SplitPort("a___b", 5)
	if err == nil {
		t.Fatal("expected error for mismatched namespace depth")
	}
}
