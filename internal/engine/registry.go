// Package engine defines the EngineDescriptor/EngineInput/EngineOutput
// contract every engine kernel (native or sidecar-bridged) implements, and
// the registry that looks kernels up by id and enforces phase gating.
package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
)

// Kernel is implemented by every engine's pure compute core. Native kernels
// do the work themselves; bridged kernels delegate to the sidecar client.
type Kernel interface {
	Calculate(ctx context.Context, in Input) (Output, error)
}

// entry pairs a Descriptor with the kernel handle it names.
type entry struct {
	descriptor Descriptor
	kernel     Kernel
}

// Registry maps engineId to EngineDescriptor plus a handle to its compute
// kernel. Registration happens once at startup; lookup is O(1). Modeled on
// the teacher's name-to-factory service registry, generalized from a
// blockchain ServiceFactory registry to an engine-kernel registry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds an engine descriptor and its kernel. Panics on duplicate
// id: registration happens once at startup from a fixed engine list, so a
// collision is a programming error, not a runtime condition.
func (r *Registry) Register(d Descriptor, k Kernel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[d.ID]; exists {
		panic("engine already registered: " + d.ID)
	}
	r.entries[d.ID] = entry{descriptor: d, kernel: k}
	r.order = append(r.order, d.ID)
}

// Get returns the descriptor and kernel for engineId, or UnknownEngine.
func (r *Registry) Get(engineID string) (Descriptor, Kernel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[engineID]
	if !ok {
		return Descriptor{}, nil, apperrors.UnknownEngine(engineID)
	}
	return e.descriptor, e.kernel, nil
}

// ValidateCapability returns nil if principal's currentPhase unlocks
// engineId, UnknownEngine if engineId isn't registered, or PhaseGated if
// the principal's phase is strictly lower than the engine's requiredPhase.
func (r *Registry) ValidateCapability(engineID string, principal Principal) error {
	d, _, err := r.Get(engineID)
	if err != nil {
		return err
	}
	if principal.CurrentPhase < d.RequiredPhase {
		return apperrors.PhaseGated(engineID, d.RequiredPhase, principal.CurrentPhase)
	}
	return nil
}

// ListDescriptors returns every registered descriptor with
// requiredPhase <= principal.CurrentPhase, in registration order.
func (r *Registry) ListDescriptors(principal Principal) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		d := r.entries[id].descriptor
		if principal.CurrentPhase >= d.RequiredPhase {
			out = append(out, d)
		}
	}
	return out
}

// AllDescriptors returns every registered descriptor regardless of phase,
// in registration order. Used by diagnostics and by the registry's own tests.
func (r *Registry) AllDescriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].descriptor)
	}
	return out
}

// IDs returns all registered engine ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.order...)
}

// SortedIDs returns all registered engine ids in lexical order, useful for
// deterministic iteration in diagnostics and tests.
func (r *Registry) SortedIDs() []string {
	ids := r.IDs()
	sort.Strings(ids)
	return ids
}
