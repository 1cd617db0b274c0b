// Package toolreg is the in-memory map from tool stem to (run-path, tool
// document). It is pre-populated by an external discovery step with all
// atomic tools, then mutated by the compiler as
// each sub-workflow finishes compiling, so that later siblings referencing
// it as a tool find it.
package toolreg

import (
	"fmt"
	"sync"

	"github.com/foldedcode/wic/utils/wictypes"
)

// Entry is one tool registry record: where its compiled run document
// lives, and the parsed tool document itself.
type Entry struct {
	RunPath string
	Doc     wictypes.ToolDoc
}

// Registry is the tool registry. The mutex is a defensive invariant,
// not a concurrency feature: registry writes are already serialized by
// construction (only the frame that just returned from a sub-workflow
// compile writes to it).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func New() *Registry {
	return &Registry{entries: map[string]Entry{}}
}

func (r *Registry) Set(stem string, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]Entry{}
	}
	r.entries[stem] = entry
}

func (r *Registry) Get(stem string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[stem]
	return e, ok
}

// MustGet returns the entry or an error identifying the missing tool
// stem, the "tool_registry lookup miss" failure mode.
func (r *Registry) MustGet(stem string) (Entry, error) {
	e, ok := r.Get(stem)
	if !ok {
		return Entry{}, fmt.Errorf("toolreg: no tool registered for stem %q", stem)
	}
	return e, nil
}

// Has reports whether stem is a known tool (used to distinguish atomic
// tool steps from sub-workflow references).
func (r *Registry) Has(stem string) bool {
	_, ok := r.Get(stem)
	return ok
}
