package care

import (
	"fmt"
	"math"
	"time"

	"github.com/sadopc/leafkeep/internal/store"
)

// NextWatering adds intervalDays calendar days to lastWatered. Calendar
// days, not wall-clock hours: the local time-of-day is preserved across
// DST boundaries.
func NextWatering(lastWatered time.Time, intervalDays int) time.Time {
	return lastWatered.AddDate(0, 0, intervalDays)
}

// ApplyWatering records a watering action on p at now and returns the
// updated record plus the ledger event describing what happened.
//
// Wet soil defers the next check to ceil(interval/2) days instead of a full
// cycle; the event carries the deferred interval actually used so undo and
// audit never depend on later interval edits.
func ApplyWatering(p store.Plant, soilWasWet bool, now time.Time) (store.Plant, store.WateringEvent) {
	days := p.WateringFrequencyDays
	if soilWasWet {
		days = (p.WateringFrequencyDays + 1) / 2
	}

	p.LastWatered = now
	p.NextWatering = NextWatering(now, days)

	event := store.WateringEvent{
		PlantID:    p.ID,
		Date:       now,
		SoilWasWet: soilWasWet,
	}
	if soilWasWet {
		event.DeferredDays = days
	}
	return p, event
}

// SetLastWatered applies a manual correction of the last-watered date and
// recomputes the next watering from the current interval. Any deferred
// adjustment from a prior watering action is intentionally not preserved.
func SetLastWatered(p store.Plant, when time.Time) store.Plant {
	p.LastWatered = when
	p.NextWatering = NextWatering(when, p.WateringFrequencyDays)
	return p
}

// Overdue reports whether now is past the plant's next watering.
func Overdue(p store.Plant, now time.Time) bool {
	return now.After(p.NextWatering)
}

// DueStatus classifies a due date relative to now.
type DueStatus int

const (
	DueOverdue DueStatus = iota
	DueToday
	DueLater
)

// Due returns the status of the next watering and the calendar-day distance
// (positive in both the overdue and later cases). The comparison is on
// local calendar days, not fractional hours, so the answer cannot flap
// around midnight.
func Due(next, now time.Time) (DueStatus, int) {
	nextDay := midnight(next)
	today := midnight(now)
	days := int(math.Round(nextDay.Sub(today).Hours() / 24))

	switch {
	case days < 0:
		return DueOverdue, -days
	case days == 0:
		return DueToday, 0
	default:
		return DueLater, days
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DescribeDue renders a due status for display.
func DescribeDue(next, now time.Time) string {
	status, days := Due(next, now)
	switch status {
	case DueOverdue:
		if days == 1 {
			return "Overdue by 1 day"
		}
		return fmt.Sprintf("Overdue by %d days", days)
	case DueToday:
		return "Due today"
	default:
		if days == 1 {
			return "Due tomorrow"
		}
		return fmt.Sprintf("Due in %d days", days)
	}
}
