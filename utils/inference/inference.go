// Package inference implements edge inference for unbound required
// inputs: when a step declares a required input with no explicit
// binding, the most recently compiled sibling step whose output type
// matches becomes its producer, mirroring the required-arg resolution
// loop of the recursive CWL compiler this module descends from.
package inference

import (
	"fmt"

	"github.com/foldedcode/wic/utils/scopes"
	"github.com/foldedcode/wic/utils/wictypes"
)

// PriorStep is one previously-compiled step in the current workflow,
// in declaration order, carrying the output ports it exposes.
type PriorStep struct {
	Name    string // mangled step name
	Outputs wictypes.OrderedPorts
}

// Result describes how a required input got bound.
type Result struct {
	// Wired is true when a matching producer was found among prior steps.
	Wired bool
	// SourceStep/SourcePort identify the producer when Wired is true.
	SourceStep string
	SourcePort string
}

// Infer resolves one required, unbound input port on the current step.
// It scans priorSteps in reverse declaration order (most recent first)
// and returns the first output whose base type matches port's base type
// (the trailing "?" optional marker is stripped before comparing, so an
// optional producer can satisfy a required consumer of the same base
// type). When no producer matches, the input is promoted to a
// workflow-level input -- Infer performs that promotion into frame
// directly, mutating it in place -- unless frame already holds an
// inputs-file entry for mangledName (a preceding literal supplies it).
func Infer(frame *scopes.Frame, mangledName string, port wictypes.ToolPort, priorSteps []PriorStep) Result {
	want := port.BaseType()
	for i := len(priorSteps) - 1; i >= 0; i-- {
		step := priorSteps[i]
		for _, outName := range step.Outputs.Keys {
			outPort, _ := step.Outputs.Get(outName)
			if outPort.BaseType() == want {
				frame.MarkOutputInternal(fmt.Sprintf("%s/%s", step.Name, outName))
				return Result{Wired: true, SourceStep: step.Name, SourcePort: outName}
			}
		}
	}
	if !frame.HasInputFileEntry(mangledName) {
		frame.AddWorkflowInput(mangledName, port)
	}
	return Result{Wired: false}
}
