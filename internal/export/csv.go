package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/streaknest/internal/habit"
)

// ToCSV writes one row per habit per tracked day.
func ToCSV(habits []habit.Habit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"habit_id", "habit", "date", "count"}); err != nil {
		return err
	}

	for _, h := range habits {
		for _, e := range h.TrackingData {
			row := []string{
				h.ID,
				h.Name,
				e.Date,
				strconv.Itoa(e.Count),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
