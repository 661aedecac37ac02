package parallax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateStartsOpen(t *testing.T) {
	gate := &ControlsGate{}
	assert.True(t, gate.Enabled())
	assert.Equal(t, "", gate.Owner())
}

func TestGateAcquireAndRelease(t *testing.T) {
	gate := &ControlsGate{}

	claim, err := gate.Acquire("measure-tool")
	require.NoError(t, err)
	assert.False(t, gate.Enabled())
	assert.Equal(t, "measure-tool", gate.Owner())

	claim.Release()
	assert.True(t, gate.Enabled())
}

func TestGateDoubleAcquireFails(t *testing.T) {
	gate := &ControlsGate{}

	claim, err := gate.Acquire("first")
	require.NoError(t, err)

	_, err = gate.Acquire("second")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Equal(t, "first", gate.Owner(), "a failed acquire must not disturb the holder")

	claim.Release()
	_, err = gate.Acquire("second")
	assert.NoError(t, err)
}

func TestGateRejectsEmptyOwner(t *testing.T) {
	gate := &ControlsGate{}
	_, err := gate.Acquire("")
	assert.Error(t, err)
	assert.True(t, gate.Enabled())
}

func TestGateReleaseIsIdempotent(t *testing.T) {
	gate := &ControlsGate{}

	claim, err := gate.Acquire("first")
	require.NoError(t, err)
	claim.Release()

	// A new claim by someone else must survive a stale double release.
	_, err = gate.Acquire("second")
	require.NoError(t, err)
	claim.Release()
	assert.Equal(t, "second", gate.Owner())

	var nilClaim *ControlsClaim
	nilClaim.Release()
}
