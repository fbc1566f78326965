package maintenance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryGateBeginRelease(t *testing.T) {
	gate := NewMemoryGate()
	ctx := context.Background()

	active, err := gate.Active(ctx)
	require.NoError(t, err)
	require.False(t, active)

	release, err := gate.Begin(ctx)
	require.NoError(t, err)

	active, err = gate.Active(ctx)
	require.NoError(t, err)
	require.True(t, active)

	release()

	active, err = gate.Active(ctx)
	require.NoError(t, err)
	require.False(t, active)
}

func TestMemoryGateNestedAcquisition(t *testing.T) {
	gate := NewMemoryGate()
	ctx := context.Background()

	outer, err := gate.Begin(ctx)
	require.NoError(t, err)
	inner, err := gate.Begin(ctx)
	require.NoError(t, err)

	inner()
	active, err := gate.Active(ctx)
	require.NoError(t, err)
	require.True(t, active)

	outer()
	active, err = gate.Active(ctx)
	require.NoError(t, err)
	require.False(t, active)
}

func TestMemoryGateReleaseIdempotent(t *testing.T) {
	gate := NewMemoryGate()
	ctx := context.Background()

	release, err := gate.Begin(ctx)
	require.NoError(t, err)
	release()
	release()

	active, err := gate.Active(ctx)
	require.NoError(t, err)
	require.False(t, active)
}
