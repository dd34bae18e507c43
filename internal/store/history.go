package store

import "time"

// History returns the full watering ledger in insertion order.
func (s *Store) History() ([]WateringEvent, error) {
	var events []WateringEvent
	if err := s.readDocument(historyKey, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveHistory replaces the full watering ledger.
func (s *Store) SaveHistory(events []WateringEvent) error {
	if events == nil {
		events = []WateringEvent{}
	}
	return s.writeDocument(historyKey, events)
}

// HistoryFor returns the events for one plant, insertion order preserved.
func (s *Store) HistoryFor(plantID string) ([]WateringEvent, error) {
	events, err := s.History()
	if err != nil {
		return nil, err
	}
	var filtered []WateringEvent
	for _, e := range events {
		if e.PlantID == plantID {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// AppendEvent appends e to the ledger. No deduplication, no validation
// beyond what the caller already did.
func (s *Store) AppendEvent(e WateringEvent) error {
	events, err := s.History()
	if err != nil {
		return err
	}
	events = append(events, e)
	return s.SaveHistory(events)
}

// RemoveEvent removes the first event matching plantID and timestamp
// exactly. No match is a no-op.
func (s *Store) RemoveEvent(plantID string, timestamp time.Time) error {
	events, err := s.History()
	if err != nil {
		return err
	}
	for i, e := range events {
		if e.PlantID == plantID && e.Date.Equal(timestamp) {
			events = append(events[:i], events[i+1:]...)
			return s.SaveHistory(events)
		}
	}
	return nil
}
