package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/leafkeep/internal/store"
)

// Backup is the JSON export format: both collections in one document, so a
// restore can rebuild plants, history and reminder state together.
type Backup struct {
	ExportedAt string                `json:"exported_at"`
	Plants     []store.Plant         `json:"plants"`
	History    []store.WateringEvent `json:"watering_history"`
}

func ToJSON(plants []store.Plant, history []store.WateringEvent, path string) error {
	backup := Backup{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Plants:     plants,
		History:    history,
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads a backup file back into its collections.
func FromJSON(path string) ([]store.Plant, []store.WateringEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read backup: %w", err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, nil, fmt.Errorf("decode backup: %w", err)
	}
	return backup.Plants, backup.History, nil
}
