package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeadlessRenderTimerValidatesFPS(t *testing.T) {
	_, err := NewHeadlessRenderTimer(0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewHeadlessRenderTimer(-30)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestHeadlessRenderTimerFrameInterval(t *testing.T) {
	timer, err := NewHeadlessRenderTimer(60)
	require.NoError(t, err)
	assert.Equal(t, time.Second/60, timer.FrameInterval())
	assert.Equal(t, float64(60), timer.FramesPerSecond())

	timer, err = NewHeadlessRenderTimer(10)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, timer.FrameInterval())
}

func TestHeadlessRenderTimerNotifiesSynchronously(t *testing.T) {
	timer, err := NewHeadlessRenderTimer(60)
	require.NoError(t, err)

	inPulse := false
	notified := false
	timer.Subscribe(func(now time.Time) {
		notified = true
		assert.True(t, inPulse, "notification must happen inside the pulsing call stack")
		assert.Equal(t, testEpoch, now)
	})

	inPulse = true
	timer.Pulse(testEpoch)
	inPulse = false

	assert.True(t, notified)
}

func TestHeadlessRenderTimerCancelStopsNotifications(t *testing.T) {
	timer, err := NewHeadlessRenderTimer(60)
	require.NoError(t, err)

	ticks := 0
	cancel := timer.Subscribe(func(time.Time) { ticks++ })

	timer.Pulse(testEpoch)
	cancel()
	timer.Pulse(testEpoch)

	assert.Equal(t, 1, ticks)
}

func TestTickerRenderTimerTicks(t *testing.T) {
	timer, err := NewTickerRenderTimer(100)
	require.NoError(t, err)

	got := make(chan time.Time, 1)
	timer.Subscribe(func(now time.Time) {
		select {
		case got <- now:
		default:
		}
	})

	timer.Start()
	defer timer.Stop()

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a tick within 2s")
	}
}

func TestTickerRenderTimerStopIsIdempotent(t *testing.T) {
	timer, err := NewTickerRenderTimer(100)
	require.NoError(t, err)

	timer.Stop() // never started
	timer.Start()
	timer.Stop()
	timer.Stop()
}
