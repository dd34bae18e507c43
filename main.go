package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/sadopc/leafkeep/internal/gemini"
	"github.com/sadopc/leafkeep/internal/plants"
	"github.com/sadopc/leafkeep/internal/reminder"
	"github.com/sadopc/leafkeep/internal/store"
	"github.com/sadopc/leafkeep/internal/tui"
)

func main() {
	// Optional .env for GEMINI_API_KEY and location hints.
	godotenv.Load()

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	coord := reminder.NewCoordinator(reminder.NewMemoryScheduler())
	svc := plants.New(s, coord)

	// Reminder handles do not survive restarts; rebuild them from the
	// persisted schedule.
	if list, err := s.Plants(); err == nil {
		coord.RescheduleAll(list)
	}

	model, err := s.GetSetting("gemini_model")
	if err != nil || model == "" {
		model = gemini.DefaultModel
	}
	identifier := gemini.New(os.Getenv("GEMINI_API_KEY"), model)

	app := tui.NewApp(s, svc, coord, identifier, locationContext())
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// locationContext builds the optional identification context from the
// environment. Returns nil when nothing is configured.
func locationContext() *gemini.Context {
	city := os.Getenv("LEAFKEEP_CITY")
	country := os.Getenv("LEAFKEEP_COUNTRY")
	latStr := os.Getenv("LEAFKEEP_LATITUDE")

	if city == "" && country == "" && latStr == "" {
		return nil
	}

	loc := &gemini.Context{City: city, Country: country}
	if lat, err := strconv.ParseFloat(latStr, 64); err == nil {
		loc.Season = gemini.Season(lat, time.Now().Month())
	}
	return loc
}
