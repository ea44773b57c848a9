package habit

import (
	"fmt"
	"strings"
	"time"
)

// KindMonth is the id suffix of the long-streak achievement.
const KindMonth = "month"

// MonthThreshold is the streak length that unlocks the long-streak achievement.
const MonthThreshold = 30

var achievementWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// GenerateAchievements builds the fixed per-habit set: one achievement per
// weekday followed by the long-streak achievement. Ids are the lower-cased
// name plus a kind suffix, so two habits with the same name share ids.
func GenerateAchievements(name string) []Achievement {
	lower := strings.ToLower(name)
	out := make([]Achievement, 0, len(achievementWeekdays)+1)
	for _, wd := range achievementWeekdays {
		day := wd.String()
		out = append(out, Achievement{
			ID:          lower + "-" + strings.ToLower(day),
			Title:       fmt.Sprintf("%s %s", day, name),
			Description: fmt.Sprintf("Complete %s on %s", lower, day),
			Threshold:   1,
		})
	}
	out = append(out, Achievement{
		ID:          lower + "-" + KindMonth,
		Title:       fmt.Sprintf("%s Master", name),
		Description: fmt.Sprintf("Complete %s for %d consecutive days", lower, MonthThreshold),
		Threshold:   MonthThreshold,
	})
	return out
}

// achievementKinds lists every kind a complete set carries.
func achievementKinds() []string {
	kinds := make([]string, 0, len(achievementWeekdays)+1)
	for _, wd := range achievementWeekdays {
		kinds = append(kinds, strings.ToLower(wd.String()))
	}
	return append(kinds, KindMonth)
}

// Kind returns the id suffix after the last '-': a lower-case weekday name or KindMonth.
func (a Achievement) Kind() string {
	i := strings.LastIndex(a.ID, "-")
	if i < 0 {
		return ""
	}
	return a.ID[i+1:]
}

// Unlock marks achievements earned by an increment made on weekday that left
// the habit at streak. Already-achieved entries are never touched. The indices
// of newly achieved entries are returned in order.
func Unlock(achievements []Achievement, weekday time.Weekday, streak int) []int {
	today := strings.ToLower(weekday.String())
	var unlocked []int
	for i := range achievements {
		a := &achievements[i]
		if a.Achieved {
			continue
		}
		switch kind := a.Kind(); {
		case kind == today:
			a.Achieved = true
		case kind == KindMonth && streak >= a.Threshold:
			a.Achieved = true
		default:
			continue
		}
		unlocked = append(unlocked, i)
	}
	return unlocked
}
