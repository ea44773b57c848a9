package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/streaknest/internal/habit"
)

type achievementsModel struct {
	width  int
	height int

	habits []habit.Habit
	cursor int // selected habit
}

func newAchievementsModel() achievementsModel {
	return achievementsModel{}
}

func (a *achievementsModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

func (a achievementsModel) update(msg tea.Msg) (achievementsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case habitsDataMsg:
		a.habits = msg.habits
		a.cursor = clampCursor(a.cursor, len(a.habits))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Down):
			if a.cursor < len(a.habits)-1 {
				a.cursor++
			}
		}
	}
	return a, nil
}

func (a achievementsModel) view() string {
	w := a.width - 4
	if len(a.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Achievements"),
			"",
			mutedStyle.Render("No habits yet."),
		)
		return panelStyle.Width(w).Render(content)
	}

	h := a.habits[a.cursor]
	title := titleStyle.Render(fmt.Sprintf("%s %s", glyph(h), h.Name))
	summary := highlightStyle.Render(fmt.Sprintf("%d/%d unlocked", h.Unlocked(), len(h.Achievements)))
	pager := mutedStyle.Render(fmt.Sprintf("habit %d of %d", a.cursor+1, len(a.habits)))

	var rows []string
	rows = append(rows, fmt.Sprintf("%s  %s  %s", title, summary, pager), "")
	for _, ach := range h.Achievements {
		if ach.Achieved {
			rows = append(rows, successStyle.Render("  ★ "+ach.Title)+"  "+mutedStyle.Render(ach.Description))
		} else {
			rows = append(rows, mutedStyle.Render("  ☆ "+ach.Title+"  "+ach.Description))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: switch habit"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
