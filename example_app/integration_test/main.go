package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	v1 "github.com/XWinterVarit/headless_tester/pkg/v1"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	_ "github.com/mattn/go-sqlite3"
)

// This driver exercises the example app's UI logic headlessly: the same
// SQLite-backed status label, but polled by a dispatcher timer under
// virtual time instead of a wall-clock ticker. No window ever opens and
// no real time passes while waiting for polls.
func main() {
	fps := flag.Float64("fps", 60, "Headless render frame rate")
	poll := flag.Duration("poll", 2*time.Second, "DB poll interval (virtual time)")
	flag.Parse()

	session, err := v1.StartSession(*fps)
	if err != nil {
		log.Fatalf("Failed to start headless session: %v", err)
	}
	defer session.Close()

	sc := v1.NewScenario(session)

	var db *sql.DB
	var statusLabel *widget.Label
	var refresher *v1.CanvasRefresher

	sc.Step("Setup", func(d *v1.Dispatcher) {
		// In-memory DB; single connection so every query sees the same data.
		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		v1.AssertNoError(err)
		db.SetMaxOpenConns(1)

		_, err = db.Exec("CREATE TABLE job_status (id INTEGER PRIMARY KEY AUTOINCREMENT, status TEXT)")
		v1.AssertNoError(err)

		// Headless fyne app and window; assertions read widget state
		// directly off the test canvas.
		test.NewApp()
		statusLabel = widget.NewLabel("no jobs yet")
		test.NewWindow(statusLabel)

		refresher = v1.NewCanvasRefresher(v1.ActiveRenderTimer())
		refresher.Track(statusLabel)

		// Self-rescheduling poll job: the headless stand-in for the
		// app's wall-clock ticker loop.
		var pollJob func()
		pollJob = func() {
			var status string
			err := db.QueryRow("SELECT status FROM job_status ORDER BY id DESC LIMIT 1").Scan(&status)
			if err == nil {
				statusLabel.SetText(status)
			}
			v1.AssertNoError(d.PostDelayed(pollJob, *poll))
		}
		v1.AssertNoError(d.PostDelayed(pollJob, *poll))
	})

	sc.Step("Status Appears After One Poll", func(d *v1.Dispatcher) {
		_, err := db.Exec("INSERT INTO job_status (status) VALUES (?)", "running")
		v1.AssertNoError(err)

		// Nothing happens until the poll timer fires in virtual time.
		v1.AssertEqual(statusLabel.Text, "no jobs yet")

		v1.AssertNoError(d.PulseTime(*poll))
		v1.AssertEqual(statusLabel.Text, "running")
	})

	sc.Step("Render Frames Repaint The Canvas", func(d *v1.Dispatcher) {
		_, err := db.Exec("INSERT INTO job_status (status) VALUES (?)", "done")
		v1.AssertNoError(err)

		// Enough frames to cover one poll interval.
		frames := int(*poll/time.Second)*int(*fps) + 1
		v1.AssertNoError(d.PulseRenderFrames(frames))
		v1.AssertEqual(statusLabel.Text, "done")
	})

	sc.Step("WaitUntil Tracks A Future Update", func(d *v1.Dispatcher) {
		_, err := db.Exec("INSERT INTO job_status (status) VALUES (?)", "archived")
		v1.AssertNoError(err)

		v1.AssertNoError(d.WaitUntil(func() bool {
			return statusLabel.Text == "archived"
		}, time.Second, 30*time.Second))
	})

	sc.Step("Cleanup", func(d *v1.Dispatcher) {
		refresher.Detach()
		v1.AssertNoError(db.Close())
	})

	if err := sc.RunAll(); err != nil {
		fmt.Fprintf(os.Stderr, "integration scenario failed: %v\n", err)
		os.Exit(1)
	}
	log.Println("integration scenario passed")
}
