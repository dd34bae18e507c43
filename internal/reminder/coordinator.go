// Package reminder derives watering reminders from plant schedules and
// keeps the one-reminder-per-plant invariant against an injected scheduler.
package reminder

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/leafkeep/internal/store"
)

// reminderHour is the local hour reminders fire on the due date.
const reminderHour = 9

// Reminder is a scheduled reminder as reported by a Scheduler.
type Reminder struct {
	Handle  string
	PlantID string
	FireAt  time.Time
	Title   string
	Body    string
}

// Scheduler is the reminder-delivery capability. Implementations own
// transport; the coordinator only decides what should exist.
type Scheduler interface {
	Schedule(plantID string, fireAt time.Time, title, body string) (string, error)
	Cancel(handle string) error
	List() ([]Reminder, error)
}

type Coordinator struct {
	scheduler Scheduler
	now       func() time.Time
}

func NewCoordinator(s Scheduler) *Coordinator {
	return &Coordinator{scheduler: s, now: time.Now}
}

// Reconcile replaces the plant's reminder with one derived from its current
// schedule: 09:00 local on the due date when that date is still ahead,
// nothing when it has already passed. Overdue state is surfaced by the live
// due computation, never by a backdated notification. Calling Reconcile
// twice with unchanged state leaves exactly one reminder.
func (c *Coordinator) Reconcile(p store.Plant) error {
	if err := c.CancelAll(p.ID); err != nil {
		return err
	}

	now := c.now()
	if !p.NextWatering.After(now) {
		return nil
	}

	due := p.NextWatering
	fireAt := time.Date(due.Year(), due.Month(), due.Day(), reminderHour, 0, 0, 0, due.Location())

	_, err := c.scheduler.Schedule(
		p.ID,
		fireAt,
		"Time to water!",
		fmt.Sprintf("%s needs watering today", p.Name),
	)
	if err != nil {
		return fmt.Errorf("schedule reminder for %s: %w", p.ID, err)
	}
	return nil
}

// CancelAll removes every reminder for the plant. Safe when none exist.
func (c *Coordinator) CancelAll(plantID string) error {
	reminders, err := c.scheduler.List()
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}
	for _, r := range reminders {
		if r.PlantID != plantID {
			continue
		}
		if err := c.scheduler.Cancel(r.Handle); err != nil {
			return fmt.Errorf("cancel reminder %s: %w", r.Handle, err)
		}
	}
	return nil
}

// RescheduleAll cancels every outstanding reminder and re-derives one per
// plant from current state. Used after bulk operations such as a data
// import, and at startup.
func (c *Coordinator) RescheduleAll(plants []store.Plant) error {
	reminders, err := c.scheduler.List()
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}
	for _, r := range reminders {
		if err := c.scheduler.Cancel(r.Handle); err != nil {
			return fmt.Errorf("cancel reminder %s: %w", r.Handle, err)
		}
	}
	for _, p := range plants {
		if err := c.Reconcile(p); err != nil {
			return err
		}
	}
	return nil
}

// Upcoming returns all scheduled reminders ordered by fire time.
func (c *Coordinator) Upcoming() ([]Reminder, error) {
	reminders, err := c.scheduler.List()
	if err != nil {
		return nil, err
	}
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].FireAt.Before(reminders[j].FireAt)
	})
	return reminders, nil
}
