package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDispatchRunsOnOwningGoroutine(t *testing.T) {
	s, err := StartSession(60)
	require.NoError(t, err)
	defer s.Close()

	err = s.Dispatch(func(d *Dispatcher) error {
		// Pacing works here because Dispatch marshals onto the owner.
		return d.PulseTime(time.Second)
	})
	require.NoError(t, err)
}

func TestSessionRejectsDirectCallsFromTestGoroutine(t *testing.T) {
	s, err := StartSession(60)
	require.NoError(t, err)
	defer s.Close()

	var captured *Dispatcher
	require.NoError(t, s.Dispatch(func(d *Dispatcher) error {
		captured = d
		return nil
	}))

	require.ErrorIs(t, captured.Idle(), ErrNotOwner)
}

func TestSessionTimersPersistAcrossDispatches(t *testing.T) {
	s, err := StartSession(60)
	require.NoError(t, err)
	defer s.Close()

	fired := false
	require.NoError(t, s.Dispatch(func(d *Dispatcher) error {
		return d.PostDelayed(func() { fired = true }, 3*time.Second)
	}))

	require.NoError(t, s.Dispatch(func(d *Dispatcher) error {
		return d.PulseTime(2 * time.Second)
	}))
	assert.False(t, fired)

	require.NoError(t, s.Dispatch(func(d *Dispatcher) error {
		return d.PulseTime(time.Second)
	}))
	assert.True(t, fired)
}

func TestSessionDispatchFailsAfterClose(t *testing.T) {
	s, err := StartSession(60)
	require.NoError(t, err)

	s.Close()
	s.Close() // safe to call twice

	err = s.Dispatch(func(d *Dispatcher) error { return nil })
	require.Error(t, err)
}
