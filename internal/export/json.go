package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sadopc/streaknest/internal/habit"
)

// ToJSON writes the habit array in the same shape as the habits slot.
func ToJSON(habits []habit.Habit, path string) error {
	if habits == nil {
		habits = []habit.Habit{}
	}
	data, err := json.MarshalIndent(habits, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads a plain habit array written by ToJSON.
func FromJSON(path string) ([]habit.Habit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}
	return decodeStrict(data)
}

// decodeStrict runs the validation layer and rejects the whole import if any
// record is malformed, so a bad file never partially replaces the store.
func decodeStrict(data []byte) ([]habit.Habit, error) {
	habits, dropped, err := habit.Decode(data)
	if err != nil {
		if errors.Is(err, habit.ErrNotList) {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		return nil, err
	}
	if dropped > 0 {
		return nil, fmt.Errorf("%w: %d malformed habit records", ErrFormat, dropped)
	}
	return habits, nil
}
