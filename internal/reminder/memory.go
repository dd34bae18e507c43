package reminder

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryScheduler keeps reminders in process memory. It stands in for an OS
// notification service; handles are session-local, like the undo token, and
// are rebuilt from plant state at startup via RescheduleAll.
type MemoryScheduler struct {
	mu        sync.Mutex
	reminders map[string]Reminder
}

func NewMemoryScheduler() *MemoryScheduler {
	return &MemoryScheduler{reminders: make(map[string]Reminder)}
}

func (m *MemoryScheduler) Schedule(plantID string, fireAt time.Time, title, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handle := uuid.NewString()
	m.reminders[handle] = Reminder{
		Handle:  handle,
		PlantID: plantID,
		FireAt:  fireAt,
		Title:   title,
		Body:    body,
	}
	return handle, nil
}

func (m *MemoryScheduler) Cancel(handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reminders, handle)
	return nil
}

func (m *MemoryScheduler) List() ([]Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		out = append(out, r)
	}
	return out, nil
}
