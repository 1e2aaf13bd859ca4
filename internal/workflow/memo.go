package workflow

import (
	"sync"

	"github.com/vedicsoul/consciousness-engine/internal/engine"
)

// Memo overlays CacheTier within one request: once an engine has been
// invoked, every later reference to it (a workflow repeating an engine id,
// or a workflow and a sibling single-engine call sharing one request) reuses
// the stored Output rather than invoking the kernel again (spec.md §4.8).
type Memo struct {
	mu      sync.Mutex
	results map[string]engine.Output
}

// NewMemo returns an empty per-request memo.
func NewMemo() *Memo {
	return &Memo{results: make(map[string]engine.Output)}
}

func (m *Memo) get(engineID string) (engine.Output, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out, ok := m.results[engineID]
	return out, ok
}

func (m *Memo) set(engineID string, out engine.Output) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[engineID] = out
}
