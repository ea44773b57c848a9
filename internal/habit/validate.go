package habit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidHabit wraps every per-record rejection.
	ErrInvalidHabit = errors.New("invalid habit")
	// ErrNotList is returned when the persisted value is not a JSON array.
	ErrNotList = errors.New("persisted habits are not a list")
)

// ValidationError names the field that caused a record to be rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid habit: %s", e.Reason)
	}
	return fmt.Sprintf("invalid habit: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidHabit }

// Decode parses a persisted habits value. Records that fail Sanitize are
// dropped and counted; a value that is not an array fails as a whole.
func Decode(data []byte) ([]Habit, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNotList, err)
	}
	if items == nil {
		return nil, 0, ErrNotList
	}

	habits := make([]Habit, 0, len(items))
	dropped := 0
	for _, item := range items {
		var raw any
		if err := json.Unmarshal(item, &raw); err != nil {
			dropped++
			continue
		}
		h, err := Sanitize(raw)
		if err != nil {
			dropped++
			continue
		}
		habits = append(habits, h)
	}
	return habits, dropped, nil
}

// Sanitize turns one decoded JSON value into a well-formed Habit, filling
// defaults for optional fields. Missing or mistyped required fields reject
// the record with a *ValidationError.
func Sanitize(raw any) (Habit, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Habit{}, &ValidationError{Reason: "not an object"}
	}

	var h Habit
	var err error
	if h.ID, err = requireString(m, "id"); err != nil {
		return Habit{}, err
	}
	if h.Name, err = requireString(m, "name"); err != nil {
		return Habit{}, err
	}
	if h.Unit, err = requireString(m, "unit"); err != nil {
		return Habit{}, err
	}
	if h.Icon, err = requireString(m, "icon"); err != nil {
		return Habit{}, err
	}
	goal, ok := m["goal"].(float64)
	if !ok {
		return Habit{}, &ValidationError{Field: "goal", Reason: "missing or not a number"}
	}
	h.Goal = int(goal)
	if h.Goal < 1 {
		h.Goal = 1
	}

	h.Count = max(optionalInt(m, "count"), 0)
	h.Streak = max(optionalInt(m, "streak"), 0)
	if day, ok := m["lastTracked"].(string); ok {
		h.LastTracked = &day
	}
	h.TrackingData = sanitizeTracking(m["trackingData"])
	h.Achievements = sanitizeAchievements(m["achievements"], h.Name)

	h.ReminderEnabled, _ = m["reminderEnabled"].(bool)
	h.ReminderStart, _ = m["reminderStart"].(string)
	h.ReminderEnd, _ = m["reminderEnd"].(string)
	h.ReminderInterval = optionalInt(m, "reminderInterval")
	return h, nil
}

func requireString(m map[string]any, field string) (string, error) {
	s, ok := m[field].(string)
	if !ok {
		return "", &ValidationError{Field: field, Reason: "missing or not a string"}
	}
	return s, nil
}

func optionalInt(m map[string]any, field string) int {
	if n, ok := m[field].(float64); ok {
		return int(n)
	}
	return 0
}

// sanitizeTracking coerces each entry and merges duplicate dates so the
// one-entry-per-day invariant holds. Entries without a date are skipped.
func sanitizeTracking(raw any) []TrackingEntry {
	list, _ := raw.([]any)
	out := make([]TrackingEntry, 0, len(list))
	index := make(map[string]int, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var date string
		switch d := m["date"].(type) {
		case string:
			date = d
		case float64:
			date = strconv.FormatFloat(d, 'f', -1, 64)
		case bool:
			date = strconv.FormatBool(d)
		default:
			continue
		}
		count := max(optionalInt(m, "count"), 0)
		if i, seen := index[date]; seen {
			out[i].Count += count
			continue
		}
		index[date] = len(out)
		out = append(out, TrackingEntry{Date: date, Count: count})
	}
	return out
}

// sanitizeAchievements keeps a stored set only when it is complete: one
// well-formed entry for each weekday and one for the month kind. Anything
// else is regenerated from name, carrying over achieved flags by kind.
func sanitizeAchievements(raw any, name string) []Achievement {
	list, _ := raw.([]any)
	out := make([]Achievement, 0, len(list))
	achieved := make(map[string]bool, len(list))
	complete := len(list) == len(achievementWeekdays)+1
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			complete = false
			continue
		}
		id, ok1 := m["id"].(string)
		title, ok2 := m["title"].(string)
		desc, ok3 := m["description"].(string)
		threshold, ok4 := m["threshold"].(float64)
		done, ok5 := m["achieved"].(bool)
		a := Achievement{ID: id, Title: title, Description: desc, Threshold: int(threshold), Achieved: done}
		if ok1 && done {
			achieved[a.Kind()] = true
		}
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			complete = false
			continue
		}
		out = append(out, a)
	}

	if complete {
		kinds := make(map[string]bool, len(out))
		for _, a := range out {
			kinds[a.Kind()] = true
		}
		for _, want := range achievementKinds() {
			if !kinds[want] {
				complete = false
				break
			}
		}
	}
	if complete {
		return out
	}

	fresh := GenerateAchievements(name)
	for i := range fresh {
		fresh[i].Achieved = achieved[fresh[i].Kind()]
	}
	return fresh
}
