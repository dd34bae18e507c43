package store

import "time"

// Plant is a single tracked plant. The JSON tags are the on-disk document
// format; NextWatering is always derived from LastWatered plus the interval
// chosen by the last watering action.
type Plant struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Species               string    `json:"species,omitempty"`
	ImageRef              string    `json:"imageUri,omitempty"`
	WateringFrequencyDays int       `json:"wateringFrequencyDays"`
	LastWatered           time.Time `json:"lastWatered"`
	NextWatering          time.Time `json:"nextWatering"`
	Notes                 string    `json:"notes,omitempty"`
	AddedDate             time.Time `json:"addedDate"`
}

// WateringEvent is an immutable watering fact. DeferredDays is only set when
// the soil-was-wet path was taken, and records the interval actually used so
// history and undo never have to recompute it from mutable plant state.
type WateringEvent struct {
	PlantID      string    `json:"plantId"`
	Date         time.Time `json:"date"`
	SoilWasWet   bool      `json:"soilWasWet"`
	DeferredDays int       `json:"deferredDays,omitempty"`
}
