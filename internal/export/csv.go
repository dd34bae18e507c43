package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/leafkeep/internal/store"
)

func ToCSV(plants []store.Plant, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Name", "Species", "Frequency (days)", "Last Watered", "Next Watering", "Added", "Notes"}); err != nil {
		return err
	}

	for _, p := range plants {
		row := []string{
			p.ID,
			p.Name,
			p.Species,
			fmt.Sprintf("%d", p.WateringFrequencyDays),
			p.LastWatered.Local().Format(time.RFC3339),
			p.NextWatering.Local().Format(time.RFC3339),
			p.AddedDate.Local().Format("2006-01-02"),
			p.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
