// Package scopes holds the per-compilation-frame accumulator tables the
// recursive compiler threads through each level of elaboration. Each
// recursive frame owns its own instance; a frame merges selected
// results from its children on return
// but never propagates its own InputsWorkflow upward, since "internal"
// inputs are already encoded in the compiled document the child returned.
package scopes

import "github.com/foldedcode/wic/utils/wictypes"

// Frame is one recursion frame's mutable accumulators.
type Frame struct {
	// InputsWorkflow: mangled port name -> tool port (type only).
	InputsWorkflow map[string]wictypes.ToolPort
	// InputsFileWorkflow: mangled port name -> literal/ &-def name + type,
	// destined for the companion inputs file.
	InputsFileWorkflow map[string]wictypes.InputFileEntry
	// VarsOutputInternal: "<step>/<port>" strings consumed inside this
	// workflow, used to decide which outputs are "intermediate".
	VarsOutputInternal []string
}

func NewFrame() *Frame {
	return &Frame{
		InputsWorkflow:     map[string]wictypes.ToolPort{},
		InputsFileWorkflow: map[string]wictypes.InputFileEntry{},
	}
}

// AddWorkflowInput registers a new workflow-level input as a typed CWL
// input. A literal value for it is recorded separately, with
// AddInputFileEntry.
func (f *Frame) AddWorkflowInput(name string, port wictypes.ToolPort) {
	f.InputsWorkflow[name] = port
}

// AddInputFileEntry records a literal value destined for the companion
// inputs file.
func (f *Frame) AddInputFileEntry(name string, entry wictypes.InputFileEntry) {
	f.InputsFileWorkflow[name] = entry
}

// HasInputFileEntry reports whether a literal has already been recorded
// for this mangled name -- used by edge inference to decide whether a
// required input was already satisfied by a preceding literal.
func (f *Frame) HasInputFileEntry(name string) bool {
	_, ok := f.InputsFileWorkflow[name]
	return ok
}

// MarkOutputInternal records that "<step>/<port>" is consumed inside this
// workflow.
func (f *Frame) MarkOutputInternal(stepSlashPort string) {
	f.VarsOutputInternal = append(f.VarsOutputInternal, stepSlashPort)
}

// MergeChild folds a child frame's InputsFileWorkflow and
// VarsOutputInternal into this frame, namespacing the child's mangled
// input names under the child's step name. The child's InputsWorkflow
// is intentionally NOT merged -- see package doc.
func (f *Frame) MergeChild(childStepName string, child *Frame) {
	for k, v := range child.InputsFileWorkflow {
		f.InputsFileWorkflow[childStepName+"___"+k] = v
	}
	f.VarsOutputInternal = append(f.VarsOutputInternal, child.VarsOutputInternal...)
}

// DedupOutputsInternal returns the unique set of internally-consumed
// outputs, preserving first-seen order.
func DedupOutputsInternal(vars []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(vars))
	for _, v := range vars {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
