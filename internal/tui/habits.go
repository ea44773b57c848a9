package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/streaknest/internal/habit"
	"github.com/sadopc/streaknest/internal/tracker"
)

type habitsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	habits []habit.Habit
	today  string
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "add", "edit", "delete"

	// Form field pointers (survive value copies)
	formName    *string
	formIcon    *string
	formGoal    *string
	formUnit    *string
	formConfirm *bool

	editingID string
}

func newHabitsModel(t *tracker.Tracker) habitsModel {
	name, icon, goal, unit := "", habit.IconCircle.String(), "", ""
	confirm := false
	return habitsModel{
		tracker:     t,
		formName:    &name,
		formIcon:    &icon,
		formGoal:    &goal,
		formUnit:    &unit,
		formConfirm: &confirm,
	}
}

func (m *habitsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// refresh snapshots the tracker for every view.
func refresh(t *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		return habitsDataMsg{habits: t.Habits(), today: t.Today()}
	}
}

func (m habitsModel) selected() (habit.Habit, bool) {
	if m.cursor < 0 || m.cursor >= len(m.habits) {
		return habit.Habit{}, false
	}
	return m.habits[m.cursor], true
}

func (m habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		m.habits = msg.habits
		m.today = msg.today
		m.cursor = clampCursor(m.cursor, len(m.habits))
		return m, nil

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m habitsModel) updateList(msg tea.KeyMsg) (habitsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.habits)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Track):
		h, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmds := []tea.Cmd{refresh(m.tracker)}
		for _, a := range m.tracker.Increment(h.ID) {
			a := a
			cmds = append(cmds, func() tea.Msg {
				return toastMsg{title: a.Title, description: a.Description}
			})
		}
		return m, tea.Batch(cmds...)
	case key.Matches(msg, keys.New):
		return m.showAddForm()
	case key.Matches(msg, keys.Edit):
		if _, ok := m.selected(); ok {
			return m.showEditForm()
		}
	case key.Matches(msg, keys.Delete):
		if _, ok := m.selected(); ok {
			return m.showDeleteForm()
		}
	case key.Matches(msg, keys.Reset):
		h, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.tracker.ResetCount(h.ID)
		return m, tea.Batch(refresh(m.tracker), status("Reset "+h.Name))
	case key.Matches(msg, keys.ResetAll):
		m.tracker.ResetAllStreaks()
		return m, tea.Batch(refresh(m.tracker), status("All streaks reset"))
	}
	return m, nil
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateGoal(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errors.New("goal must be a whole number of at least 1")
	}
	return nil
}

func iconOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(habit.Icons))
	for i, ic := range habit.Icons {
		opts[i] = huh.NewOption(fmt.Sprintf("%s %s", ic.Glyph(), ic), ic.String())
	}
	return opts
}

func (m habitsModel) showAddForm() (habitsModel, tea.Cmd) {
	*m.formName = ""
	*m.formIcon = habit.IconCircle.String()
	m.formType = "add"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit Name").Value(m.formName).Validate(validateName),
			huh.NewSelect[string]().Title("Icon").Options(iconOptions()...).Value(m.formIcon),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m habitsModel) showEditForm() (habitsModel, tea.Cmd) {
	h, _ := m.selected()
	*m.formName = h.Name
	*m.formGoal = strconv.Itoa(h.Goal)
	*m.formUnit = h.Unit
	m.formType = "edit"
	m.editingID = h.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit Name").Value(m.formName).Validate(validateName),
			huh.NewInput().Title("Daily Goal").Value(m.formGoal).Validate(validateGoal),
			huh.NewInput().Title("Unit").Value(m.formUnit),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m habitsModel) showDeleteForm() (habitsModel, tea.Cmd) {
	h, _ := m.selected()
	*m.formConfirm = false
	m.formType = "delete"
	m.editingID = h.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", h.Name)).
				Description("Its history and achievements are removed too.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.formConfirm),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "add":
			if h, ok := m.tracker.AddHabit(*m.formName, *m.formIcon); ok {
				m.cursor = len(m.habits)
				return m, tea.Batch(refresh(m.tracker), status("Added "+h.Name))
			}
		case "edit":
			goal, _ := strconv.Atoi(strings.TrimSpace(*m.formGoal))
			m.tracker.Update(m.editingID, *m.formName, goal, *m.formUnit)
		case "delete":
			if *m.formConfirm {
				m.tracker.Delete(m.editingID)
			}
		}
		return m, refresh(m.tracker)
	}

	return m, cmd
}

func (m habitsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Habit")
		switch m.formType {
		case "edit":
			title = titleStyle.Render("Edit Habit")
		case "delete":
			title = titleStyle.Render("Delete Habit")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Today") + "  " + mutedStyle.Render(m.today)
	if len(m.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No habits yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	barWidth := max(10, min(30, w-50))

	var rows []string
	rows = append(rows, title, "")
	for i, h := range m.habits {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		count := h.CountOn(m.today)
		progress := fmt.Sprintf("%d/%d %s", count, h.Goal, h.Unit)
		if count >= h.Goal {
			progress = successStyle.Render(progress + " ✓")
		} else {
			progress = mutedStyle.Render(progress)
		}
		streak := warningStyle.Render(fmt.Sprintf("🔥 %d", h.Streak))

		row := fmt.Sprintf("%s %s  %s  %s",
			style.Render(fmt.Sprintf("%s%s %-18s", cursor, glyph(h), h.Name)),
			progressBar(h.Progress(m.today), barWidth),
			progress,
			streak,
		)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: track  n: new  e: edit  d: delete  r: reset  R: reset all"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
