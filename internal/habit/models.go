package habit

import "time"

// DateLayout is the calendar-day format used for lastTracked and tracking entries.
const DateLayout = "2006-01-02"

// DefaultUnit is applied when a habit is created without a unit.
const DefaultUnit = "times"

type Habit struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon"`
	Count        int             `json:"count"`
	Goal         int             `json:"goal"`
	Unit         string          `json:"unit"`
	Streak       int             `json:"streak"`
	LastTracked  *string         `json:"lastTracked"`
	TrackingData []TrackingEntry `json:"trackingData"`
	Achievements []Achievement   `json:"achievements"`

	ReminderEnabled  bool   `json:"reminderEnabled"`
	ReminderStart    string `json:"reminderStart,omitempty"`    // HH:MM
	ReminderEnd      string `json:"reminderEnd,omitempty"`      // HH:MM
	ReminderInterval int    `json:"reminderInterval,omitempty"` // minutes
}

// TrackingEntry is the per-day increment log. There is at most one entry per date.
type TrackingEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold"`
	Achieved    bool   `json:"achieved"`
}

// ReminderPatch carries a partial reminder update; nil fields are left as they are.
type ReminderPatch struct {
	Enabled  *bool
	Start    *string
	End      *string
	Interval *int
}

// New returns a fresh habit with zeroed counters and a generated achievement set.
func New(id, name, icon string) Habit {
	if icon == "" {
		icon = IconCircle.String()
	}
	return Habit{
		ID:           id,
		Name:         name,
		Icon:         icon,
		Goal:         1,
		Unit:         DefaultUnit,
		TrackingData: []TrackingEntry{},
		Achievements: GenerateAchievements(name),
	}
}

// Day formats t as a calendar day in t's own location.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// TrackedOn reports whether the habit was last tracked on day.
func (h Habit) TrackedOn(day string) bool {
	return h.LastTracked != nil && *h.LastTracked == day
}

// CountOn returns the number of increments logged for day.
func (h Habit) CountOn(day string) int {
	for _, e := range h.TrackingData {
		if e.Date == day {
			return e.Count
		}
	}
	return 0
}

// Progress is today's count over the goal, capped at 1.
func (h Habit) Progress(day string) float64 {
	if h.Goal <= 0 {
		return 0
	}
	p := float64(h.CountOn(day)) / float64(h.Goal)
	if p > 1 {
		return 1
	}
	return p
}

// Unlocked counts the achieved entries.
func (h Habit) Unlocked() int {
	n := 0
	for _, a := range h.Achievements {
		if a.Achieved {
			n++
		}
	}
	return n
}

// ApplyReminder merges the non-nil fields of p.
func (h *Habit) ApplyReminder(p ReminderPatch) {
	if p.Enabled != nil {
		h.ReminderEnabled = *p.Enabled
	}
	if p.Start != nil {
		h.ReminderStart = *p.Start
	}
	if p.End != nil {
		h.ReminderEnd = *p.End
	}
	if p.Interval != nil {
		h.ReminderInterval = *p.Interval
	}
}

// Clone returns a deep copy that shares no slices or pointers with h.
func (h Habit) Clone() Habit {
	c := h
	if h.LastTracked != nil {
		day := *h.LastTracked
		c.LastTracked = &day
	}
	c.TrackingData = append([]TrackingEntry{}, h.TrackingData...)
	c.Achievements = append([]Achievement{}, h.Achievements...)
	return c
}

// CloneAll deep-copies a habit list.
func CloneAll(habits []Habit) []Habit {
	out := make([]Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}
