package compiler

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/foldedcode/wic/utils/graphbuild"
	"github.com/foldedcode/wic/utils/inference"
	"github.com/foldedcode/wic/utils/lca"
	"github.com/foldedcode/wic/utils/namer"
	"github.com/foldedcode/wic/utils/progress"
	"github.com/foldedcode/wic/utils/scopes"
	"github.com/foldedcode/wic/utils/toolreg"
	"github.com/foldedcode/wic/utils/wictypes"
)

// Compiler holds the state shared across every recursion frame of a
// single compile run: the tool registry (mutated as sub-workflows
// finish), the global $defs table, the accumulating visualization
// graph, and the resolved paths of every discoverable sub-workflow
// document.
type Compiler struct {
	Args     wictypes.CompilerArgs
	Registry *toolreg.Registry
	Graph    *graphbuild.ClusterGraph
	Progress progress.Writer

	// YamlPaths maps a sub-workflow stem to its resolved file path,
	// populated by utils/discovery before compilation begins.
	YamlPaths map[string]string

	// defs is the single global $defs table: one definition site per
	// `&name`, visible from anywhere in the tree.
	defs wictypes.Defs
}

func New(args wictypes.CompilerArgs, registry *toolreg.Registry, yamlPaths map[string]string) *Compiler {
	return &Compiler{
		Args:      args,
		Registry:  registry,
		Graph:     graphbuild.New(),
		YamlPaths: yamlPaths,
		defs:      wictypes.Defs{},
	}
}

// frameResult is what one recursive compile frame hands back to its
// parent, trimmed to what a Go caller actually consumes.
type frameResult struct {
	Doc   *wictypes.CompiledWorkflow
	Scope *scopes.Frame
	Calls wictypes.Calls
}

// CompileFile compiles the workflow document at path. namespace is this
// frame's namespace path (empty for the root). isRoot controls whether
// unresolved `*name` references are fatal or merely warned about: the
// root frame warns and synthesizes a placeholder input, so a sub-workflow
// can be recompiled standalone, while any other frame returns an error. It returns the compiled
// document and the root frame's scope (needed to build the companion
// inputs file).
func (c *Compiler) CompileFile(path string, namespace []string, isRoot bool) (*wictypes.CompiledWorkflow, *scopes.Frame, error) {
	result, err := c.compileFrame(path, namespace, isRoot)
	if err != nil {
		return nil, nil, err
	}
	if isRoot && c.Progress != nil {
		c.Progress.WriteProgress(progress.Event{Type: progress.EventDone})
	}
	return result.Doc, result.Scope, nil
}

func (c *Compiler) compileFrame(path string, namespace []string, isRoot bool) (*frameResult, error) {
	nsJoined := strings.Join(namespace, "/")
	if c.Progress != nil {
		c.Progress.WriteProgress(progress.Event{Type: progress.EventFrameEnter, Namespace: nsJoined})
		defer c.Progress.WriteProgress(progress.Event{Type: progress.EventFrameExit, Namespace: nsJoined})
	}

	doc, err := loadYamlDoc(path)
	if err != nil {
		return nil, err
	}

	parentStem := stemOf(path)
	compiled := wictypes.NewCompiledWorkflow()
	compiled.AddRequirement("SubworkflowFeatureRequirement")

	frame := scopes.NewFrame()
	calls := wictypes.Calls{}

	var priorSteps []inference.PriorStep

	for index, entry := range doc.Steps {
		mangledStep, err := namer.StepName(parentStem, index, entry.Key)
		if err != nil {
			return nil, err
		}
		childStem := stemOf(entry.Key)

		var toolDoc wictypes.ToolDoc
		var runPath string
		// childCalls holds any *name forwarding placeholders the child
		// frame could not resolve within its own subtree (def lives more
		// than one level below their common ancestor from the child's own
		// vantage point). The required-arg loop below re-attempts them one
		// level shallower, since the common ancestor may now be in reach.
		var childCalls wictypes.Calls
		isSubworkflow := !c.Registry.Has(childStem)

		if isSubworkflow {
			childPath, ok := c.YamlPaths[childStem]
			if !ok {
				return nil, fmt.Errorf("compiler: step %q: no tool or sub-workflow registered for stem %q", entry.Key, childStem)
			}
			child, err := c.compileFrame(childPath, append(append([]string{}, namespace...), mangledStep), false)
			if err != nil {
				return nil, fmt.Errorf("compiling sub-workflow %q: %w", entry.Key, err)
			}
			toolDoc = wictypes.ToolDoc{
				Class:   wictypes.ClassWorkflow,
				Inputs:  child.Doc.Inputs,
				Outputs: child.Doc.Outputs,
			}
			runPath = mangledStep + ".cwl"
			c.Registry.Set(childStem, toolreg.Entry{RunPath: runPath, Doc: toolDoc})
			frame.MergeChild(mangledStep, child.Scope)
			c.Graph.AddSubworkflow(append(append([]string{}, namespace...), mangledStep), entry.Key)
			childCalls = child.Calls
		} else {
			regEntry, err := c.Registry.MustGet(childStem)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", entry.Key, err)
			}
			toolDoc = regEntry.Doc
			runPath = regEntry.RunPath
		}

		c.Graph.AddNode(namespace, mangledStep, "")
		if c.Progress != nil {
			c.Progress.WriteProgress(progress.Event{Type: progress.EventStepCompiled, Namespace: nsJoined, Step: mangledStep})
		}

		provided := stepIn(entry.Body)
		if toolDoc.Class == wictypes.ClassWorkflow {
			// Workflow-class tools auto-wire every input identically,
			// treating all sub-workflow inputs as required.
			for _, k := range toolDoc.Inputs.Keys {
				if _, already := provided[k]; !already {
					provided[k] = nil
				}
			}
		}

		if err := c.resolveProvidedArgs(frame, calls, namespace, mangledStep, toolDoc.Inputs, provided, isRoot); err != nil {
			return nil, err
		}

		for _, portName := range toolDoc.Inputs.Keys {
			port, _ := toolDoc.Inputs.Get(portName)
			if port.Optional() {
				continue
			}
			mangled, err := namer.PortName(namespace, mangledStep, portName)
			if err != nil {
				// A compiled sub-workflow's input keys are already mangled
				// under this step's namespace, so such a key is its own
				// mangled name (and the key its childCalls entry uses).
				prefix := strings.Join(append(append([]string{}, namespace...), mangledStep), namer.PortSep) + namer.PortSep
				if toolDoc.Class != wictypes.ClassWorkflow || !strings.HasPrefix(portName, prefix) {
					return nil, err
				}
				mangled = portName
			}
			// A key present with a non-nil value was already resolved by
			// resolveProvidedArgs. A nil value is the workflow-class
			// auto-wire placeholder seeded above -- it still needs a real
			// producer, so it falls through to the same resolution as any
			// other required, unbound port.
			if v, bound := provided[portName]; bound && v != nil {
				continue
			}
			if site, pending := calls[mangled]; pending {
				provided[portName] = c.wireForwardedCall(frame, namespace, mangledStep, portName, site)
				continue
			}
			if site, pending := childCalls[portName]; pending {
				provided[portName] = c.wireCall(frame, calls, append(append([]string{}, namespace...), mangledStep), mangled, site)
				continue
			}
			result := inference.Infer(frame, mangled, port, priorSteps)
			if result.Wired {
				provided[portName] = fmt.Sprintf("%s/%s", result.SourceStep, result.SourcePort)
			} else {
				provided[portName] = mangled
			}
		}

		for _, outName := range toolDoc.Outputs.Keys {
			if isBlacklisted(outName, c.Args.OutputBlacklist) {
				continue
			}
			outPort, _ := toolDoc.Outputs.Get(outName)
			compiled.Outputs.Set(fmt.Sprintf("%s/%s", mangledStep, outName), wictypes.ToolPort{
				Type:    outPort.Type,
				Default: fmt.Sprintf("%s/%s", mangledStep, outName),
			})
			c.Graph.AddNode(namespace, fmt.Sprintf("%s/%s", mangledStep, outName), "yellow")
			c.Graph.AddEdge(namespace, mangledStep, fmt.Sprintf("%s/%s", mangledStep, outName), outName)
		}

		compiled.Steps.Set(mangledStep, buildStepBody(entry.Body, runPath, toolDoc.Outputs.Keys, provided))
		priorSteps = append(priorSteps, inference.PriorStep{Name: mangledStep, Outputs: toolDoc.Outputs})
	}

	internal := scopes.DedupOutputsInternal(frame.VarsOutputInternal)
	internalSet := map[string]bool{}
	for _, v := range internal {
		internalSet[v] = true
	}
	if !c.Args.CWLOutputIntermediateFiles {
		filtered := wictypes.NewOrderedPorts()
		for _, k := range compiled.Outputs.Keys {
			port, _ := compiled.Outputs.Get(k)
			src, _ := port.Default.(string)
			if internalSet[src] && !isRoot {
				continue
			}
			filtered.Set(k, port)
		}
		compiled.Outputs = filtered
	}

	inputNames := make([]string, 0, len(frame.InputsWorkflow))
	for name := range frame.InputsWorkflow {
		inputNames = append(inputNames, name)
	}
	sort.Strings(inputNames)
	for _, name := range inputNames {
		port := frame.InputsWorkflow[name]
		compiled.Inputs.Set(name, applyFormatHeuristics(name, port, c.Args.FormatHeuristics))
	}

	return &frameResult{Doc: compiled, Scope: frame, Calls: calls}, nil
}

// resolveProvidedArgs processes one step's `in:` bindings in
// deterministic (sorted) order, handling `&name` defines, `*name`
// calls, and literal values. Every case rewrites provided[portName] in
// place to the reference the compiled step must actually carry -- the
// mangled workflow input name, a forwarding input name, or a
// "<step>/<port>" workflow-internal reference -- since provided is the
// same map buildStepBody emits as the step's final `in:` mapping. A
// duplicate `&name` definition, or a `*name` call with no definition
// outside the root frame, is returned as a fatal error rather than
// logged and skipped; no edge inference is attempted for a `*name` call.
func (c *Compiler) resolveProvidedArgs(frame *scopes.Frame, calls wictypes.Calls, namespace []string, stepName string, inputs wictypes.OrderedPorts, provided map[string]interface{}, isRoot bool) error {
	keys := make([]string, 0, len(provided))
	for k := range provided {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	callNamespace := append(append([]string{}, namespace...), stepName)

	for _, portName := range keys {
		val := provided[portName]
		mangled, err := namer.PortName(namespace, stepName, portName)
		if err != nil {
			log.Printf("[WARN] %v", err)
			continue
		}
		inType := "string"
		if port, ok := inputs.Get(portName); ok && port.BaseType() != "" {
			inType = port.BaseType()
		}

		switch v := val.(type) {
		case string:
			switch {
			case strings.HasPrefix(v, "&"):
				name := strings.TrimPrefix(v, "&")
				if existing, exists := c.defs[name]; exists {
					return fmt.Errorf("compiler: duplicate definition &%s at %s (first defined at %s)", name, mangled, existing.Port)
				}
				c.defs[name] = wictypes.DefSite{Namespace: callNamespace, Port: mangled, PortName: portName}
				frame.AddWorkflowInput(mangled, wictypes.ToolPort{Type: inType})
				frame.AddInputFileEntry(mangled, wictypes.InputFileEntry{Value: name, Type: inType})
				provided[portName] = mangled
			case strings.HasPrefix(v, "*"):
				name := strings.TrimPrefix(v, "*")
				site, ok := c.defs[name]
				if !ok {
					if isRoot {
						log.Printf("[WARN] unresolved *%s at %s; creating a placeholder input", name, mangled)
						frame.AddWorkflowInput(mangled, wictypes.ToolPort{Type: inType})
						provided[portName] = mangled
						continue
					}
					return fmt.Errorf("compiler: unresolved *%s at %s: no &%s definition and no matching producer", name, mangled, name)
				}
				provided[portName] = c.wireCall(frame, calls, callNamespace, mangled, site)
			default:
				frame.AddWorkflowInput(mangled, wictypes.ToolPort{Type: inType})
				frame.AddInputFileEntry(mangled, wictypes.InputFileEntry{Value: v, Type: inType})
				provided[portName] = mangled
			}
		case nil:
			// identity-wired Workflow-class input with no override; left
			// to the required-arg loop / edge inference.
		default:
			frame.AddWorkflowInput(mangled, wictypes.ToolPort{Type: inType})
			frame.AddInputFileEntry(mangled, wictypes.InputFileEntry{Value: v, Type: inType})
			provided[portName] = mangled
		}
	}
	return nil
}

// wireCall resolves a `*name` reference against its `&name` definition
// site using the LCA split of the CALL side: what matters is how deep
// the calling step sits below the common ancestor of call and
// definition, not how deep the definition sits. One level down (the
// current frame already contains both the call and -- via some
// ancestor step -- the definition) makes this frame the LCA, so the
// reference is wired directly as a "<step>/<port>" workflow-internal
// reference built from the definition's own tail; more than one level
// needs a forwarding input at this frame, with the pending forward
// recorded in calls for the parent frame to consume as the recursion
// unwinds (see wireForwardedCall). Returns the value the step's `in:`
// binding must be rewritten to.
func (c *Compiler) wireCall(frame *scopes.Frame, calls wictypes.Calls, callNamespace []string, mangledCallPort string, def wictypes.DefSite) string {
	_, callTail, defTail := lca.Symmetric(callNamespace, def.Namespace)
	if len(callTail) > 1 {
		calls[mangledCallPort] = def
		frame.AddWorkflowInput(mangledCallPort, wictypes.ToolPort{Type: "string"})
		return mangledCallPort
	}

	ref := defTail[0] + "/" + def.PortName
	if len(defTail) > 1 {
		rest := append(append([]string{}, defTail[1:]...), def.PortName)
		ref = defTail[0] + "/" + strings.Join(rest, "___")
	}
	c.Graph.AddEdge(commonPrefix(callNamespace, def.Namespace), def.Port, mangledCallPort, "")
	return ref
}

func (c *Compiler) wireForwardedCall(frame *scopes.Frame, namespace []string, stepName, portName string, site wictypes.DefSite) string {
	mangled, _ := namer.PortName(namespace, stepName, portName)
	callNamespace := append(append([]string{}, namespace...), stepName)
	return c.wireCall(frame, wictypes.Calls{}, callNamespace, mangled, site)
}

func commonPrefix(a, b []string) []string {
	common, _ := lca.Partition(a, b)
	return common
}

func stemOf(name string) string {
	base := filepath.Base(name)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}

func isBlacklisted(name string, blacklist []string) bool {
	for _, b := range blacklist {
		if strings.Contains(name, b) {
			return true
		}
	}
	return false
}

func applyFormatHeuristics(name string, port wictypes.ToolPort, heuristics []wictypes.FormatHeuristic) wictypes.ToolPort {
	for _, h := range heuristics {
		if strings.Contains(name, h.KeySubstr) && strings.Contains(port.Type, h.TypeSubstr) {
			port.Format = h.Format
		}
	}
	return port
}
