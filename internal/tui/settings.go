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
	"github.com/sadopc/streaknest/internal/logger"
	"github.com/sadopc/streaknest/internal/reminder"
	"github.com/sadopc/streaknest/internal/store"
	"github.com/sadopc/streaknest/internal/tracker"
)

const (
	defaultReminderStart    = "08:00"
	defaultReminderEnd      = "20:00"
	defaultReminderInterval = 60
)

type settingsModel struct {
	tracker *tracker.Tracker
	store   *store.Store
	width   int
	height  int

	theme  string
	habits []habit.Habit
	slots  []store.Slot
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string

	// Form values as pointers (survive value copies)
	reminderOn       *bool
	reminderStart    *string
	reminderEnd      *string
	reminderInterval *string
}

func newSettingsModel(t *tracker.Tracker, s *store.Store, theme string) settingsModel {
	on := false
	start, end, interval := "", "", ""
	return settingsModel{
		tracker:          t,
		store:            s,
		theme:            theme,
		reminderOn:       &on,
		reminderStart:    &start,
		reminderEnd:      &end,
		reminderInterval: &interval,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type slotsDataMsg struct {
	slots []store.Slot
}

func (s settingsModel) refreshSlots() tea.Cmd {
	if s.store == nil {
		return nil
	}
	return func() tea.Msg {
		slots, err := s.store.ListSlots()
		if err != nil {
			logger.Warn("list slots", "error", err)
		}
		return slotsDataMsg{slots: slots}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		s.habits = msg.habits
		s.cursor = clampCursor(s.cursor, len(s.habits))
		return s, nil

	case slotsDataMsg:
		s.slots = msg.slots
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.habits)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Theme):
			return s.toggleTheme()
		case key.Matches(msg, keys.Enter):
			if s.cursor < len(s.habits) {
				return s.showReminderForm()
			}
		}
	}
	return s, nil
}

func (s settingsModel) toggleTheme() (settingsModel, tea.Cmd) {
	s.theme = applyTheme(otherTheme(s.theme))
	if s.store != nil {
		if err := s.store.Set(store.KeyTheme, s.theme); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Theme not saved: %v", err), isError: true}
			}
		}
	}
	name := s.theme
	return s, tea.Batch(
		s.refreshSlots(),
		func() tea.Msg { return themeChangedMsg{name: name} },
	)
}

func validateClock(v string) error {
	_, _, err := reminder.ParseClock(strings.TrimSpace(v))
	return err
}

func validateInterval(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return errors.New("interval must be a whole number of minutes")
	}
	return nil
}

func (s settingsModel) showReminderForm() (settingsModel, tea.Cmd) {
	h := s.habits[s.cursor]
	s.editingID = h.ID

	*s.reminderOn = h.ReminderEnabled
	*s.reminderStart = h.ReminderStart
	if *s.reminderStart == "" {
		*s.reminderStart = defaultReminderStart
	}
	*s.reminderEnd = h.ReminderEnd
	if *s.reminderEnd == "" {
		*s.reminderEnd = defaultReminderEnd
	}
	interval := h.ReminderInterval
	if interval <= 0 {
		interval = defaultReminderInterval
	}
	*s.reminderInterval = strconv.Itoa(interval)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Remind me").Value(s.reminderOn),
			huh.NewInput().Title("From (HH:MM)").Value(s.reminderStart).Validate(validateClock),
			huh.NewInput().Title("Until (HH:MM)").Value(s.reminderEnd).Validate(validateClock),
			huh.NewInput().Title("Every (minutes)").Value(s.reminderInterval).Validate(validateInterval),
		).Title("Reminders for "+h.Name),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveReminder()
	}

	return s, cmd
}

func (s settingsModel) saveReminder() tea.Cmd {
	on := *s.reminderOn
	start := strings.TrimSpace(*s.reminderStart)
	end := strings.TrimSpace(*s.reminderEnd)
	interval, _ := strconv.Atoi(strings.TrimSpace(*s.reminderInterval))

	if on {
		if err := reminder.Validate(start, end, interval); err != nil {
			return func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Reminder not saved: %v", err), isError: true}
			}
		}
	}

	s.tracker.UpdateReminder(s.editingID, habit.ReminderPatch{
		Enabled:  &on,
		Start:    &start,
		End:      &end,
		Interval: &interval,
	})
	return tea.Batch(refresh(s.tracker), status("Reminder saved"))
}

func reminderSummary(h habit.Habit) string {
	if !h.ReminderEnabled {
		return mutedStyle.Render("off")
	}
	return highlightStyle.Render(fmt.Sprintf("%s-%s every %dm", h.ReminderStart, h.ReminderEnd, h.ReminderInterval))
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"), "")

	label := lipgloss.NewStyle().Width(24)
	rows = append(rows, fmt.Sprintf("  %s %s", label.Render("Theme"), highlightStyle.Render(s.theme)))
	if s.store != nil {
		rows = append(rows, fmt.Sprintf("  %s %s", label.Render("Database"), mutedStyle.Render(s.store.Path())))
	}
	rows = append(rows, "")

	rows = append(rows, subtitleStyle.Render("  Reminders"))
	for i, h := range s.habits {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := style.Render(fmt.Sprintf("%s%-22s", cursor, h.Name))
		rows = append(rows, fmt.Sprintf("  %s %s", name, reminderSummary(h)))
	}

	if len(s.slots) > 0 {
		rows = append(rows, "", subtitleStyle.Render("  Storage"))
		for _, sl := range s.slots {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-10s %4d writes  %s", sl.Key, sl.Writes, sl.UpdatedAt.Local().Format("2006-01-02 15:04"))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  t: toggle theme  enter: edit reminder"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
