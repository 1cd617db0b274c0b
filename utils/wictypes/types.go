// Package wictypes holds the shared data model for the workflow compiler:
// the loosely-typed YAML document tree, tool documents, namespace paths,
// and the cross-scope binding tables threaded through the recursion.
package wictypes

import "fmt"

// Yaml is a generic YAML mapping, kept as interface{} values (like the
// teacher's loosely-typed StepConfig fields) because the compiler must
// round-trip CWL keys it never interprets (requirements, hints, label...).
type Yaml = map[string]interface{}

// NamespacePath is an ordered sequence of mangled step names from the root
// document down to (but not including) the current step.
type NamespacePath []string

// Equal reports whether two namespace paths have the same components.
func (p NamespacePath) Equal(other NamespacePath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p NamespacePath) String() string {
	return fmt.Sprintf("%v", []string(p))
}

// Clone returns an independent copy so callers can append without aliasing.
func (p NamespacePath) Clone() NamespacePath {
	out := make(NamespacePath, len(p))
	copy(out, p)
	return out
}

// ToolPort describes one input or output port of a tool document.
type ToolPort struct {
	Type    string
	Default interface{}
	Format  string
}

// Optional reports whether the port may be omitted: either its type carries
// a trailing '?' or it has a default value.
func (p ToolPort) Optional() bool {
	if p.Default != nil {
		return true
	}
	return len(p.Type) > 0 && p.Type[len(p.Type)-1] == '?'
}

// BaseType strips the trailing '?' optional marker.
func (p ToolPort) BaseType() string {
	if len(p.Type) > 0 && p.Type[len(p.Type)-1] == '?' {
		return p.Type[:len(p.Type)-1]
	}
	return p.Type
}

// Tool classes recognized by the compiler.
const (
	ClassCommandLineTool = "CommandLineTool"
	ClassWorkflow        = "Workflow"
)

// ToolDoc is a tool or (already-compiled) sub-workflow document.
type ToolDoc struct {
	Class   string
	Inputs  OrderedPorts
	Outputs OrderedPorts
	Raw     Yaml // the full document; LoadToolDoc and the compiler leave it unset
}

// OrderedPorts preserves YAML mapping-key order, since iteration order of
// inputs/outputs affects which output "wins" edge inference ties.
type OrderedPorts struct {
	Keys  []string
	Ports map[string]ToolPort
}

func NewOrderedPorts() OrderedPorts {
	return OrderedPorts{Ports: map[string]ToolPort{}}
}

func (o *OrderedPorts) Set(name string, port ToolPort) {
	if o.Ports == nil {
		o.Ports = map[string]ToolPort{}
	}
	if _, exists := o.Ports[name]; !exists {
		o.Keys = append(o.Keys, name)
	}
	o.Ports[name] = port
}

func (o OrderedPorts) Get(name string) (ToolPort, bool) {
	p, ok := o.Ports[name]
	return p, ok
}

// DefSite records where a definition token ("&name") was written: the
// namespace path down to and including the step that owns it, the
// mangled workflow-input name it was promoted to, and the raw
// (unmangled) port name it was declared on -- the last is needed to
// rebuild a "<step>/<port>" workflow-internal reference for callers
// that sit in the same cluster as the definition.
type DefSite struct {
	Namespace NamespacePath
	Port      string
	PortName  string
}

// Defs is the global "$defs" table: user-chosen name -> definition site.
// A name may be defined at most once across an entire compilation.
type Defs map[string]DefSite

// Calls is the "$calls" table: a mangled intermediate workflow input name
// introduced while forwarding a cross-scope reference up the call stack,
// mapped back to the original $defs entry it forwards.
type Calls map[string]DefSite

// InputFileEntry is one entry of the companion inputs file: the literal
// value (or the &-definition name that will supply it) plus its CWL type.
type InputFileEntry struct {
	Value interface{}
	Type  string
}

// WorkflowInputsFile is the compiled companion inputs document.
type WorkflowInputsFile map[string]interface{}

// FormatHeuristic names a (substring-in-key, substring-in-type) rule for
// annotating workflow inputs with an EDAM format URI. Parameterizes the
// "mdin -> format_2330" heuristic from the original Python compiler.
type FormatHeuristic struct {
	KeySubstr  string
	TypeSubstr string
	Format     string
}

// CompilerArgs collects the configuration options recognized by the core,
// per the external-interfaces table.
type CompilerArgs struct {
	GraphLabelStepname         bool
	GraphInlineDepth           int
	GraphShowInputs            bool
	GraphShowOutputs           bool
	GraphLabelEdges            bool
	CWLOutputIntermediateFiles bool
	CWLValidate                bool
	ValidatorCmd               string // e.g. "cwltool"
	RenderCmd                  string // e.g. "dot"
	FormatHeuristics           []FormatHeuristic
	OutputBlacklist            []string
}

// DefaultCompilerArgs mirrors the original compiler's hard-coded
// defaults, now exposed as parameters instead of constants.
func DefaultCompilerArgs() CompilerArgs {
	return CompilerArgs{
		GraphInlineDepth: 1,
		ValidatorCmd:     "cwltool",
		RenderCmd:        "dot",
		FormatHeuristics: []FormatHeuristic{
			{KeySubstr: "mdin", TypeSubstr: "File", Format: "https://edamontology.org/format_2330"},
		},
		OutputBlacklist: []string{"dhdl", "xtc"},
	}
}
