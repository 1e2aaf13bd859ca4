package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedicsoul/consciousness-engine/internal/apperrors"
)

type stubKernel struct{ id string }

func (s stubKernel) Calculate(ctx context.Context, in Input) (Output, error) {
	return Output{EngineID: s.id}, nil
}

func TestRegistryGetAndRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{ID: "numerology", RequiredPhase: 0}, stubKernel{"numerology"})
	r.Register(Descriptor{ID: "human_design", RequiredPhase: 2}, stubKernel{"human_design"})

	assert.Equal(t, []string{"numerology", "human_design"}, r.IDs())

	d, k, err := r.Get("numerology")
	require.NoError(t, err)
	assert.Equal(t, "numerology", d.ID)
	out, err := k.Calculate(context.Background(), Input{})
	require.NoError(t, err)
	assert.Equal(t, "numerology", out.EngineID)
}

func TestRegistryGetUnknownEngine(t *testing.T) {
	r := NewRegistry()
	_, _, err := r.Get("tarot")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownEngine)
	assert.Equal(t, apperrors.CodeUnknownEngine, apperrors.CodeOf(err))
}

func TestValidateCapabilityPhaseGated(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{ID: "human_design", RequiredPhase: 2}, stubKernel{"human_design"})

	err := r.ValidateCapability("human_design", Principal{ID: "p1", CurrentPhase: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPhaseGated)

	err = r.ValidateCapability("human_design", Principal{ID: "p1", CurrentPhase: 2})
	assert.NoError(t, err)
}

func TestRegistryPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{ID: "numerology"}, stubKernel{"numerology"})
	assert.Panics(t, func() {
		r.Register(Descriptor{ID: "numerology"}, stubKernel{"numerology"})
	})
}

func TestListDescriptorsFiltersByPhase(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{ID: "numerology", RequiredPhase: 0}, stubKernel{"numerology"})
	r.Register(Descriptor{ID: "human_design", RequiredPhase: 2}, stubKernel{"human_design"})
	r.Register(Descriptor{ID: "gene_keys", RequiredPhase: 3}, stubKernel{"gene_keys"})

	visible := r.ListDescriptors(Principal{CurrentPhase: 2})
	require.Len(t, visible, 2)
	assert.Equal(t, "numerology", visible[0].ID)
	assert.Equal(t, "human_design", visible[1].ID)
}
