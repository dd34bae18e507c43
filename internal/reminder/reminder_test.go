package reminder

import (
	"testing"
	"time"

	"github.com/sadopc/leafkeep/internal/store"
)

func newTestCoordinator(now time.Time) (*Coordinator, *MemoryScheduler) {
	sched := NewMemoryScheduler()
	c := NewCoordinator(sched)
	c.now = func() time.Time { return now }
	return c, sched
}

func plantDueAt(id string, next time.Time) store.Plant {
	return store.Plant{
		ID:                    id,
		Name:                  "Plant " + id,
		WateringFrequencyDays: 7,
		NextWatering:          next,
	}
}

// ============================================================
// Reconcile
// ============================================================

func TestReconcileSchedulesAtNineLocal(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)
	c, sched := newTestCoordinator(now)

	next := time.Date(2024, time.June, 17, 15, 30, 0, 0, time.Local)
	if err := c.Reconcile(plantDueAt("1", next)); err != nil {
		t.Fatal(err)
	}

	reminders, _ := sched.List()
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}

	r := reminders[0]
	want := time.Date(2024, time.June, 17, 9, 0, 0, 0, time.Local)
	if !r.FireAt.Equal(want) {
		t.Fatalf("fire at = %v, want 09:00 on the due date", r.FireAt)
	}
	if r.Title != "Time to water!" {
		t.Fatalf("title = %q", r.Title)
	}
	if r.Body != "Plant 1 needs watering today" {
		t.Fatalf("body = %q", r.Body)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)
	c, sched := newTestCoordinator(now)
	p := plantDueAt("1", now.AddDate(0, 0, 7))

	for i := 0; i < 3; i++ {
		if err := c.Reconcile(p); err != nil {
			t.Fatal(err)
		}
	}

	reminders, _ := sched.List()
	if len(reminders) != 1 {
		t.Fatalf("repeated reconcile must leave exactly one reminder, got %d", len(reminders))
	}
}

func TestReconcilePastDueSchedulesNothing(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)
	c, sched := newTestCoordinator(now)

	// Already overdue, and due exactly now: no backdated notification.
	for _, next := range []time.Time{now.AddDate(0, 0, -2), now} {
		if err := c.Reconcile(plantDueAt("1", next)); err != nil {
			t.Fatal(err)
		}
		reminders, _ := sched.List()
		if len(reminders) != 0 {
			t.Fatalf("next=%v: expected no reminder, got %d", next, len(reminders))
		}
	}
}

func TestReconcileReplacesStaleReminder(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)
	c, sched := newTestCoordinator(now)

	p := plantDueAt("1", now.AddDate(0, 0, 7))
	c.Reconcile(p)

	p.NextWatering = now.AddDate(0, 0, 3)
	c.Reconcile(p)

	reminders, _ := sched.List()
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}
	want := time.Date(2024, time.June, 13, 9, 0, 0, 0, time.Local)
	if !reminders[0].FireAt.Equal(want) {
		t.Fatalf("stale reminder not replaced: fires %v, want %v", reminders[0].FireAt, want)
	}
}

// ============================================================
// CancelAll
// ============================================================

func TestCancelAll(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)
	c, sched := newTestCoordinator(now)

	c.Reconcile(plantDueAt("1", now.AddDate(0, 0, 7)))
	c.Reconcile(plantDueAt("2", now.AddDate(0, 0, 3)))

	if err := c.CancelAll("1"); err != nil {
		t.Fatal(err)
	}

	reminders, _ := sched.List()
	if len(reminders) != 1 || reminders[0].PlantID != "2" {
		t.Fatalf("expected only plant 2's reminder, got %+v", reminders)
	}

	// Cancelling again, and for an unknown plant, is safe.
	if err := c.CancelAll("1"); err != nil {
		t.Fatal(err)
	}
	if err := c.CancelAll("never-existed"); err != nil {
		t.Fatal(err)
	}
}

// ============================================================
// RescheduleAll
// ============================================================

func TestRescheduleAll(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)
	c, sched := newTestCoordinator(now)

	// Stale state from a previous session, including a plant that no
	// longer exists.
	sched.Schedule("ghost", now.AddDate(0, 0, 1), "Time to water!", "Ghost needs watering today")
	sched.Schedule("1", now.AddDate(0, 0, 99), "Time to water!", "stale")

	plants := []store.Plant{
		plantDueAt("1", now.AddDate(0, 0, 7)),
		plantDueAt("2", now.AddDate(0, 0, -1)), // overdue: no reminder
		plantDueAt("3", now.AddDate(0, 0, 2)),
	}
	if err := c.RescheduleAll(plants); err != nil {
		t.Fatal(err)
	}

	reminders, err := c.Upcoming()
	if err != nil {
		t.Fatal(err)
	}
	if len(reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(reminders))
	}
	if reminders[0].PlantID != "3" || reminders[1].PlantID != "1" {
		t.Fatalf("wrong reminders or order: %+v", reminders)
	}
}

func TestUpcomingSorted(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)
	c, _ := newTestCoordinator(now)

	c.Reconcile(plantDueAt("a", now.AddDate(0, 0, 9)))
	c.Reconcile(plantDueAt("b", now.AddDate(0, 0, 1)))
	c.Reconcile(plantDueAt("c", now.AddDate(0, 0, 4)))

	reminders, err := c.Upcoming()
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(reminders); i++ {
		if reminders[i].FireAt.Before(reminders[i-1].FireAt) {
			t.Fatalf("not sorted by fire time: %+v", reminders)
		}
	}
}
