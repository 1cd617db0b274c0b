package compiler

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/foldedcode/wic/utils/scopes"
	"github.com/foldedcode/wic/utils/wictypes"
)

// WriteCWL marshals doc as YAML and writes it to path.
func WriteCWL(path string, doc *wictypes.CompiledWorkflow) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("compiler: marshaling compiled workflow: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("compiler: writing %s: %w", path, err)
	}
	return nil
}

// BuildInputsFile assembles the companion inputs file from a frame's
// InputsFileWorkflow table, expanding File-typed literals into the
// {class: File, path, format} shape CWL expects. The format key is
// populated by the same heuristics applied to the compiled document's
// `inputs:` section, so a literal bound to a domain-specific port (e.g.
// an "mdin" file) gets the matching EDAM format URI here too.
func BuildInputsFile(frame *scopes.Frame, heuristics []wictypes.FormatHeuristic) wictypes.WorkflowInputsFile {
	out := wictypes.WorkflowInputsFile{}
	for name, entry := range frame.InputsFileWorkflow {
		if entry.Type == "File" {
			fileEntry := map[string]interface{}{
				"class": "File",
				"path":  entry.Value,
			}
			if format := matchFormat(name, entry.Type, heuristics); format != "" {
				fileEntry["format"] = format
			}
			out[name] = fileEntry
		} else {
			out[name] = entry.Value
		}
	}
	return out
}

func matchFormat(name, typ string, heuristics []wictypes.FormatHeuristic) string {
	for _, h := range heuristics {
		if strings.Contains(name, h.KeySubstr) && strings.Contains(typ, h.TypeSubstr) {
			return h.Format
		}
	}
	return ""
}

// WriteInputsFile marshals file as YAML and writes it to path.
func WriteInputsFile(path string, file wictypes.WorkflowInputsFile) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("compiler: marshaling inputs file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("compiler: writing %s: %w", path, err)
	}
	return nil
}
