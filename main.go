package main

import (
	"log"
	"time"

	v1 "github.com/XWinterVarit/headless_tester/pkg/v1"
)

func main() {
	// Boot a headless session: dispatcher, virtual clock and render timer
	// all live on the session's own goroutine.
	session, err := v1.StartSession(60)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	defer session.Close()

	sc := v1.NewScenario(session)

	// Shared across steps, like test fixtures.
	var heartbeats int

	sc.Step("Schedule Heartbeats", func(d *v1.Dispatcher) {
		// A self-rescheduling timer job: one beat per second of virtual time.
		var beat func()
		beat = func() {
			heartbeats++
			v1.AssertNoError(d.PostDelayed(beat, time.Second))
		}
		v1.AssertNoError(d.PostDelayed(beat, time.Second))
	})

	sc.Step("Pulse Ten Seconds", func(d *v1.Dispatcher) {
		// Ten seconds pass instantly, one second per pulse so each beat's
		// reschedule lands on the next second. No wall-clock time is spent.
		for i := 0; i < 10; i++ {
			v1.AssertNoError(d.PulseTime(time.Second))
		}
		v1.AssertEqual(heartbeats, 10)
	})

	sc.Step("Pulse Render Frames", func(d *v1.Dispatcher) {
		ticks := 0
		cancel := v1.ActiveRenderTimer().Subscribe(func(time.Time) { ticks++ })
		defer cancel()

		v1.AssertNoError(d.PulseRenderFrames(60))
		v1.AssertEqual(ticks, 60)
	})

	sc.Step("Override Time Provider", func(d *v1.Dispatcher) {
		base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		override := v1.NewVirtualClock(base)

		v1.AssertNoError(d.SetTimeProvider(override))
		v1.AssertNoError(d.PulseTime(time.Minute))
		v1.AssertEqual(d.Now(), base.Add(time.Minute))
		v1.AssertNoError(d.RestoreTimeProvider(override))
	})

	if err := sc.RunAll(); err != nil {
		log.Fatalf("Demo scenario failed: %v", err)
	}
	log.Println("Demo scenario passed")
}
