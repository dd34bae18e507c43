// Package plants coordinates the plant collection, the watering ledger and
// the reminder coordinator. It is the single point of truth for mutations:
// a record never exists without matching reminder state, and vice versa.
package plants

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sadopc/leafkeep/internal/care"
	"github.com/sadopc/leafkeep/internal/store"
)

var (
	// ErrNameRequired is surfaced to the user; the operation aborts before
	// any mutation.
	ErrNameRequired = errors.New("plant name is required")
	// ErrInvalidInterval rejects non-positive watering intervals at the
	// record-validation boundary.
	ErrInvalidInterval = errors.New("watering interval must be positive")
	// ErrNotFound marks a missing record. Callers treat it as recoverable.
	ErrNotFound = errors.New("plant not found")
)

// maxBackdate bounds manual last-watered corrections to the last 30 days.
const maxBackdate = 30 * 24 * time.Hour

// Reconciler is the reminder coupling every mutation goes through.
type Reconciler interface {
	Reconcile(p store.Plant) error
	CancelAll(plantID string) error
	RescheduleAll(plants []store.Plant) error
}

// Profile is the user-confirmed input a new plant record is created from.
// Only Name is required.
type Profile struct {
	Name                  string
	Species               string
	ImageRef              string
	Notes                 string
	WateringFrequencyDays *int
	LastWatered           time.Time // zero means now
}

// UndoToken captures the state needed to reverse the most recent watering
// action. It is session-local and never persisted; at most one is
// outstanding, and a newer watering silently replaces it.
type UndoToken struct {
	previous  store.Plant
	timestamp time.Time
}

// Service owns all plant mutations. The mutex serializes the
// read-all/mutate/write-all cycles that Bubble Tea commands would otherwise
// run concurrently; overlapping user actions still resolve last-write-wins
// at the collection level, per the single-user design.
type Service struct {
	mu        sync.Mutex
	store     *store.Store
	reminders Reconciler
	undo      *UndoToken
	lastID    int64
	now       func() time.Time
}

func New(s *store.Store, r Reconciler) *Service {
	return &Service{store: s, reminders: r, now: time.Now}
}

// newID returns a time-based unique id, strictly increasing even when two
// creations land on the same millisecond.
func (s *Service) newID() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// Create validates the profile and adds a new record, then schedules its
// reminder. The watering interval defaults to the configured default when
// the profile has none.
func (s *Service) Create(p Profile) (*store.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	days := s.store.DefaultWateringDays()
	if p.WateringFrequencyDays != nil {
		days = *p.WateringFrequencyDays
	}
	if days <= 0 {
		return nil, fmt.Errorf("%d: %w", days, ErrInvalidInterval)
	}

	now := s.now()
	lastWatered := p.LastWatered
	if lastWatered.IsZero() {
		lastWatered = now
	}

	plant := store.Plant{
		ID:                    s.newID(),
		Name:                  name,
		Species:               p.Species,
		ImageRef:              p.ImageRef,
		WateringFrequencyDays: days,
		LastWatered:           lastWatered,
		NextWatering:          care.NextWatering(lastWatered, days),
		Notes:                 strings.TrimSpace(p.Notes),
		AddedDate:             now,
	}

	if err := s.store.AddPlant(plant); err != nil {
		return nil, err
	}
	if err := s.reminders.Reconcile(plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

// List returns the collection sorted by next watering, soonest first.
func (s *Service) List() ([]store.Plant, error) {
	plants, err := s.store.Plants()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(plants, func(i, j int) bool {
		return plants[i].NextWatering.Before(plants[j].NextWatering)
	})
	return plants, nil
}

// Get returns the plant with the given id.
func (s *Service) Get(id string) (*store.Plant, error) {
	p, err := s.store.GetPlant(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Update replaces an existing record and reconciles its reminder. A missing
// id is a silent no-op, matching the store contract; no reminder may exist
// for a record that does not.
func (s *Service) Update(p store.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.WateringFrequencyDays <= 0 {
		return fmt.Errorf("%d: %w", p.WateringFrequencyDays, ErrInvalidInterval)
	}
	current, err := s.store.GetPlant(p.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}
	if err := s.store.UpdatePlant(p); err != nil {
		return err
	}
	return s.reminders.Reconcile(p)
}

// Delete removes the record and cancels its reminders. Idempotent: deleting
// an absent id succeeds. History entries are kept for audit.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeletePlant(id); err != nil {
		return err
	}
	if s.undo != nil && s.undo.previous.ID == id {
		s.undo = nil
	}
	return s.reminders.CancelAll(id)
}

// Water records a watering action: schedule update, ledger append, reminder
// reconciliation. It returns the updated record and arms the undo token,
// silently discarding any token from an earlier action.
func (s *Service) Water(id string, soilWasWet bool) (*store.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.GetPlant(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	now := s.now()
	updated, event := care.ApplyWatering(*current, soilWasWet, now)

	if err := s.store.UpdatePlant(updated); err != nil {
		return nil, err
	}
	if err := s.store.AppendEvent(event); err != nil {
		return nil, err
	}
	if err := s.reminders.Reconcile(updated); err != nil {
		return nil, err
	}

	s.undo = &UndoToken{previous: *current, timestamp: now}
	return &updated, nil
}

// CanUndo reports whether an undoable watering action is outstanding for
// the given plant.
func (s *Service) CanUndo(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undo != nil && s.undo.previous.ID == id
}

// Undo consumes the outstanding token: the prior record snapshot is
// restored verbatim and the matching ledger event removed. The pair is a
// best-effort dual write; the restore runs first and both errors surface
// joined so the user sees a failure instead of silent divergence.
func (s *Service) Undo() (*store.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.undo == nil {
		return nil, errors.New("nothing to undo")
	}
	token := s.undo
	s.undo = nil

	restoreErr := s.store.UpdatePlant(token.previous)
	ledgerErr := s.store.RemoveEvent(token.previous.ID, token.timestamp)
	if err := errors.Join(restoreErr, ledgerErr); err != nil {
		return nil, fmt.Errorf("undo watering: %w", err)
	}

	if err := s.reminders.Reconcile(token.previous); err != nil {
		return nil, err
	}
	restored := token.previous
	return &restored, nil
}

// SetLastWatered applies a manual correction of the last-watered date,
// bounded to the past 30 days, and recomputes the schedule from the current
// interval.
func (s *Service) SetLastWatered(id string, when time.Time) (*store.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if when.After(now) {
		return nil, errors.New("last watered cannot be in the future")
	}
	if when.Before(now.Add(-maxBackdate)) {
		return nil, errors.New("last watered cannot be more than 30 days ago")
	}

	current, err := s.store.GetPlant(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	updated := care.SetLastWatered(*current, when)
	if err := s.store.UpdatePlant(updated); err != nil {
		return nil, err
	}
	if err := s.reminders.Reconcile(updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// History returns the watering events for one plant in insertion order.
func (s *Service) History(id string) ([]store.WateringEvent, error) {
	return s.store.HistoryFor(id)
}

// ReplaceAll swaps in imported collections and rebuilds every reminder from
// scratch, restoring the one-reminder-per-plant invariant.
func (s *Service) ReplaceAll(plants []store.Plant, events []store.WateringEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SavePlants(plants); err != nil {
		return err
	}
	if err := s.store.SaveHistory(events); err != nil {
		return err
	}
	s.undo = nil
	return s.reminders.RescheduleAll(plants)
}
