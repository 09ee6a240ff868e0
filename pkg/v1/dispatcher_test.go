package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHeadlessDispatcher installs the headless backend and returns a fresh
// dispatcher owned by the test goroutine, running on a virtual clock
// seeded at testEpoch.
func newHeadlessDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	_, err := UseHeadless(60)
	require.NoError(t, err)

	d := NewDispatcherWithClock(NewClock())
	require.NoError(t, d.SetTimeProvider(NewVirtualClock(testEpoch)))
	return d
}

func TestIdleDrainsImmediateJobs(t *testing.T) {
	d := newHeadlessDispatcher(t)

	ran := 0
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Post(func() { ran++ }))
	}
	require.Equal(t, 3, d.PendingJobs())

	require.NoError(t, d.Idle())
	assert.Equal(t, 3, ran)
	assert.Equal(t, 0, d.PendingJobs(), "ready queue must be empty after Idle")
	assert.False(t, d.Draining())
}

func TestIdleRunsJobsInPostOrder(t *testing.T) {
	d := newHeadlessDispatcher(t)

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		require.NoError(t, d.Post(func() { order = append(order, name) }))
	}
	require.NoError(t, d.Idle())
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestIdleIsIdempotent(t *testing.T) {
	d := newHeadlessDispatcher(t)

	ran := 0
	require.NoError(t, d.Post(func() { ran++ }))
	require.NoError(t, d.Idle())
	before := d.Now()

	require.NoError(t, d.Idle())
	assert.Equal(t, 1, ran, "second Idle must have no additional effect")
	assert.Equal(t, before, d.Now())
}

func TestDelayedJobWaitsForPulse(t *testing.T) {
	d := newHeadlessDispatcher(t)

	ran := false
	require.NoError(t, d.PostDelayed(func() { ran = true }, 5*time.Second))

	require.NoError(t, d.Idle())
	assert.False(t, ran, "job is not due yet")
	require.Equal(t, 1, d.PendingJobs())

	require.NoError(t, d.PulseTime(5*time.Second))
	assert.True(t, ran)
	assert.Equal(t, 0, d.PendingJobs())
}

func TestPulseTimeFiresTimersInDueOrder(t *testing.T) {
	d := newHeadlessDispatcher(t)

	var order []int
	require.NoError(t, d.PostDelayed(func() { order = append(order, 3) }, 3*time.Second))
	require.NoError(t, d.PostDelayed(func() { order = append(order, 1) }, time.Second))
	require.NoError(t, d.PostDelayed(func() { order = append(order, 2) }, 2*time.Second))

	require.NoError(t, d.PulseTime(10*time.Second))
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, testEpoch.Add(10*time.Second), d.Now())
}

func TestPulseTimeRejectsNegativeDuration(t *testing.T) {
	d := newHeadlessDispatcher(t)
	before := d.Now()

	err := d.PulseTime(-time.Millisecond)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, before, d.Now())
}

func TestPostDelayedRejectsNegativeDelay(t *testing.T) {
	d := newHeadlessDispatcher(t)

	err := d.PostDelayed(func() {}, -time.Second)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, d.PendingJobs())
}

func TestNestedIdleResolvesInnerToOuter(t *testing.T) {
	d := newHeadlessDispatcher(t)

	var order []string
	require.NoError(t, d.Post(func() {
		order = append(order, "outer-job")
		// Work queued from inside a job is picked up by a nested drain.
		AssertNoError(d.Post(func() { order = append(order, "inner-job") }))
		AssertNoError(d.Idle())
		order = append(order, "after-inner-idle")
	}))

	require.NoError(t, d.Idle())
	assert.Equal(t, []string{"outer-job", "inner-job", "after-inner-idle"}, order)
	assert.False(t, d.Draining())
}

func TestCrossGoroutineCallsFailWithoutStateChange(t *testing.T) {
	d := newHeadlessDispatcher(t)
	require.NoError(t, d.PostDelayed(func() {}, time.Minute))

	pendingBefore := d.PendingJobs()
	nowBefore := d.Now()

	errs := make(chan error, 4)
	go func() {
		errs <- d.Idle()
		errs <- d.PulseTime(time.Second)
		errs <- d.PulseRenderFrames(1)
		errs <- d.SetTimeProvider(NewVirtualClock(testEpoch))
	}()
	for i := 0; i < 4; i++ {
		require.ErrorIs(t, <-errs, ErrNotOwner)
	}

	assert.Equal(t, pendingBefore, d.PendingJobs(), "job queue must be unchanged")
	assert.Equal(t, nowBefore, d.Now(), "virtual clock must be unchanged")
}

func TestPacingRequiresHeadlessBackend(t *testing.T) {
	d := newHeadlessDispatcher(t)

	ticker, err := NewTickerRenderTimer(60)
	require.NoError(t, err)
	UseBackend(BackendDesktop, ticker)
	defer func() {
		_, err := UseHeadless(60)
		require.NoError(t, err)
	}()

	before := d.Now()
	require.ErrorIs(t, d.Idle(), ErrNotHeadless)
	require.ErrorIs(t, d.PulseTime(time.Second), ErrNotHeadless)
	require.ErrorIs(t, d.PulseRenderFrames(1), ErrNotHeadless)
	require.ErrorIs(t, d.SetTimeProvider(NewVirtualClock(testEpoch)), ErrNotHeadless)
	assert.Equal(t, before, d.Now())
}
