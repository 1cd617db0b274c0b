package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

const fixtureTool = `
class: CommandLineTool
inputs:
  input_pdb:
    type: File
outputs:
  output_gro:
    type: File
`

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TestCompileCommandEndToEnd drives compileCmd's RunE directly against a
// small on-disk fixture tree, skipping --graph and --validate since both
// shell out to external binaries that may not be present in a test
// environment.
func TestCompileCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WIC_CONFIG", filepath.Join(dir, "does-not-exist.yaml"))

	writeFixture(t, filepath.Join(dir, "tools", "gmx_pdb2gmx.yml"), fixtureTool)
	rootPath := filepath.Join(dir, "root.yml")
	writeFixture(t, rootPath, `
steps:
  - gmx_pdb2gmx:
      in:
        input_pdb: protein.pdb
`)

	outDir := filepath.Join(dir, "out")

	compileOutDir = outDir
	compileGraph = false
	compileValidate = false
	compileQuiet = true
	compileSearchDir = dir

	if err := compileCmd.RunE(compileCmd, []string{rootPath}); err != nil {
		t.Fatalf("compile RunE: %v", err)
	}

	cwlPath := filepath.Join(outDir, "root.cwl")
	if _, err := os.Stat(cwlPath); err != nil {
		t.Errorf("expected %s to exist: %v", cwlPath, err)
	}
	inputsPath := filepath.Join(outDir, "root.inputs.yml")
	if _, err := os.Stat(inputsPath); err != nil {
		t.Errorf("expected %s to exist: %v", inputsPath, err)
	}
}

func TestStemOf(t *testing.T) {
	cases := map[string]string{
		"/a/b/root.yml":        "root",
		"gmx_pdb2gmx.cwl":      "gmx_pdb2gmx",
		"/a/b/c/no-extension":  "no-extension",
	}
	for in, want := range cases {
		if got := stemOf(in); got != want {
			t.Errorf("stemOf(%q) = %q, want %q", in, got, want)
		}
	}
}
