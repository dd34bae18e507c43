package tui

import (
	"context"
	"time"

	"github.com/sadopc/leafkeep/internal/care"
	"github.com/sadopc/leafkeep/internal/gemini"
	"github.com/sadopc/leafkeep/internal/reminder"
	"github.com/sadopc/leafkeep/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewPlants viewState = iota
	viewAdd
	viewHistory
	viewReminders
	viewSettings
)

var viewNames = []string{"Plants", "Add Plant", "History", "Reminders", "Settings"}

// Identifier is the provider capability injected into the add flow so tests
// can substitute a deterministic fake.
type Identifier interface {
	Identify(ctx context.Context, jpeg []byte, loc *gemini.Context) care.CareAssessment
}

// --- Messages ---

type plantsDataMsg struct {
	plants []store.Plant
}

type plantDetailMsg struct {
	plant   *store.Plant
	history []store.WateringEvent
	canUndo bool
}

type wateredMsg struct {
	plant *store.Plant
}

type undoneMsg struct {
	plant *store.Plant
}

type plantDeletedMsg struct {
	name string
}

type plantSavedMsg struct {
	plant *store.Plant
}

type identifyDoneMsg struct {
	assessment care.CareAssessment
}

type historyDataMsg struct {
	events []store.WateringEvent
	plants []store.Plant
}

type remindersDataMsg struct {
	reminders []reminder.Reminder
}

type settingsDataMsg struct {
	settings []store.Setting
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	count int
}

type tickMsg time.Time

// --- Helpers ---

func formatDate(t time.Time) string {
	return t.Local().Format("Jan 02, 2006")
}

func formatDateTime(t time.Time) string {
	return t.Local().Format("Jan 02 15:04")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
