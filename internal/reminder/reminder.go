package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/streaknest/internal/habit"
)

// ParseClock parses an "HH:MM" wall-clock time.
func ParseClock(s string) (hour, min int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	min, err = strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, min, nil
}

// Validate checks a reminder window before it is stored.
func Validate(start, end string, interval int) error {
	sh, sm, err := ParseClock(start)
	if err != nil {
		return err
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return err
	}
	if eh*60+em < sh*60+sm {
		return fmt.Errorf("reminder end %s is before start %s", end, start)
	}
	if interval <= 0 {
		return fmt.Errorf("reminder interval must be positive, got %d", interval)
	}
	return nil
}

// Times lists the reminder instants on day's date from start to end inclusive,
// every interval minutes. Invalid settings produce no times.
func Times(day time.Time, start, end string, interval int) []time.Time {
	if Validate(start, end, interval) != nil {
		return nil
	}
	sh, sm, _ := ParseClock(start)
	eh, em, _ := ParseClock(end)
	y, mo, d := day.Date()
	from := time.Date(y, mo, d, sh, sm, 0, 0, day.Location())
	to := time.Date(y, mo, d, eh, em, 0, 0, day.Location())

	var times []time.Time
	for t := from; !t.After(to); t = t.Add(time.Duration(interval) * time.Minute) {
		times = append(times, t)
	}
	return times
}

// Next returns the first reminder strictly after now: today if any remain,
// otherwise the first one tomorrow.
func Next(h habit.Habit, now time.Time) (time.Time, bool) {
	if !h.ReminderEnabled {
		return time.Time{}, false
	}
	for _, t := range Times(now, h.ReminderStart, h.ReminderEnd, h.ReminderInterval) {
		if t.After(now) {
			return t, true
		}
	}
	tomorrow := Times(now.AddDate(0, 0, 1), h.ReminderStart, h.ReminderEnd, h.ReminderInterval)
	if len(tomorrow) == 0 {
		return time.Time{}, false
	}
	return tomorrow[0], true
}

// Message is the notification text for a habit reminder.
func Message(h habit.Habit) (title, body string) {
	title = "Reminder: " + h.Name
	body = fmt.Sprintf("Time to work on %s (goal: %d %s)", strings.ToLower(h.Name), h.Goal, h.Unit)
	return title, body
}
