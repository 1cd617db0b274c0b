package toolreg

import (
	"testing"

	"github.com/foldedcode/wic/utils/wictypes"
)

func TestSetGetRoundTrip(t *testing.T) {
	r := New()
	entry := Entry{RunPath: "tools/gmx_pdb2gmx.cwl", Doc: wictypes.ToolDoc{Class: wictypes.ClassCommandLineTool}}
	r.Set("gmx_pdb2gmx", entry)

	got, ok := r.Get("gmx_pdb2gmx")
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if got.RunPath != entry.RunPath {
		t.Errorf("RunPath = %q, want %q", got.RunPath, entry.RunPath)
	}
}

func TestGetMissing(t *testing.T) {
	r := New()
	if _, ok := r.Get("missing"); ok {
		t.Error("expected missing stem to not be found")
	}
}

func TestHas(t *testing.T) {
	r := New()
	if r.Has("align") {
		t.Error("expected Has to be false before Set")
	}
	r.Set("align", Entry{RunPath: "align.cwl"})
	if !r.Has("align") {
		t.Error("expected Has to be true after Set")
	}
}

func TestMustGetMissingReturnsError(t *testing.T) {
	r := New()
	_, err := r.MustGet("nonexistent")
	if err == nil {
		t.Fatal("expected an error for a missing stem")
	}
}

func TestSetOverwritesExistingEntry(t *testing.T) {
	r := New()
	r.Set("align", Entry{RunPath: "v1.cwl"})
	r.Set("align", Entry{RunPath: "v2.cwl"})

	got, ok := r.Get("align")
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if got.RunPath != "v2.cwl" {
		t.Errorf("RunPath = %q, want v2.cwl (overwritten)", got.RunPath)
	}
}

func TestZeroValueRegistryIsUsable(t *testing.T) {
	var r Registry
	r.Set("x", Entry{RunPath: "x.cwl"})
	if !r.Has("x") {
		t.Error("expected zero-value Registry to lazily initialize its map on Set")
	}
}
