package tui

import (
	"strings"

	"github.com/sadopc/streaknest/internal/habit"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHabits viewState = iota
	viewAchievements
	viewSettings
)

var viewNames = []string{"Habits", "Achievements", "Settings"}

// --- Messages ---

// habitsDataMsg carries a fresh snapshot from the tracker to every view.
type habitsDataMsg struct {
	habits []habit.Habit
	today  string
}

type statusMsg struct {
	text    string
	isError bool
}

type toastMsg struct {
	title       string
	description string
}

type toastExpiredMsg struct {
	id int
}

type exportDoneMsg struct {
	path string
}

type themeChangedMsg struct {
	name string
}

// --- Helpers ---

// progressBar renders p (0..1) as a bar of width cells.
func progressBar(p float64, width int) string {
	if width < 1 {
		return ""
	}
	p = max(0, min(p, 1))
	filled := int(p * float64(width))
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func glyph(h habit.Habit) string {
	return habit.ParseIcon(h.Icon).Glyph()
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	return max(cursor, 0)
}
