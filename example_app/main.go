package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	_ "github.com/mattn/go-sqlite3"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// latestStatus reads the most recent row from the status table.
func latestStatus(db *sql.DB) (string, error) {
	var status string
	err := db.QueryRow("SELECT status FROM job_status ORDER BY id DESC LIMIT 1").Scan(&status)
	if err == sql.ErrNoRows {
		return "no jobs yet", nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

func main() {
	dsn := flag.String("dsn", getEnv("APP_DSN", "app.db"), "SQLite DSN")
	pollStr := flag.String("poll", getEnv("APP_POLL", "2s"), "DB poll interval")
	flag.Parse()

	poll, err := time.ParseDuration(*pollStr)
	if err != nil {
		log.Fatalf("Invalid poll interval: %v", err)
	}

	log.Printf("Opening SQLite DB: %s", *dsn)
	db, err := sql.Open("sqlite3", *dsn)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec("CREATE TABLE IF NOT EXISTS job_status (id INTEGER PRIMARY KEY AUTOINCREMENT, status TEXT)")
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}

	myApp := app.New()
	myWindow := myApp.NewWindow("Job Monitor")

	statusLabel := widget.NewLabel("no jobs yet")
	updatedLabel := widget.NewLabel("")

	content := container.NewVBox(
		widget.NewLabelWithStyle("Latest Job Status", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		statusLabel,
		updatedLabel,
	)
	myWindow.SetContent(content)
	myWindow.Resize(fyne.NewSize(400, 200))

	// Real-time mode polls the DB with a wall-clock ticker. The headless
	// integration driver replaces this loop with dispatcher timers pulsed
	// through virtual time (see integration_test/main.go).
	go func() {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()
		for now := range ticker.C {
			status, err := latestStatus(db)
			if err != nil {
				log.Printf("Poll failed: %v", err)
				continue
			}
			fyne.Do(func() {
				statusLabel.SetText(status)
				updatedLabel.SetText(fmt.Sprintf("updated %s", now.Format(time.TimeOnly)))
			})
		}
	}()

	log.Println("Starting GUI window...")
	myWindow.ShowAndRun()
}
