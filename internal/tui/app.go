package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/streaknest/internal/export"
	"github.com/sadopc/streaknest/internal/habit"
	"github.com/sadopc/streaknest/internal/logger"
	"github.com/sadopc/streaknest/internal/store"
	"github.com/sadopc/streaknest/internal/tracker"
)

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	store   *store.Store
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	habits       habitsModel
	achievements achievementsModel
	settings     settingsModel
	toasts       toastModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the root model. The store is only used for the theme slot
// and may be nil, in which case fallbackTheme is used.
func NewApp(t *tracker.Tracker, s *store.Store, fallbackTheme string) App {
	h := help.New()
	h.ShowAll = false

	theme := fallbackTheme
	if s != nil {
		v, err := s.Get(store.KeyTheme)
		switch {
		case err == nil:
			theme = v
		case !errors.Is(err, store.ErrSlotNotFound):
			logger.Warn("read theme", "error", err)
		}
	}
	theme = applyTheme(theme)

	home, _ := os.UserHomeDir()

	return App{
		tracker:      t,
		store:        s,
		activeView:   viewHabits,
		exportDir:    home,
		habits:       newHabitsModel(t),
		achievements: newAchievementsModel(),
		settings:     newSettingsModel(t, s, theme),
		toasts:       newToastModel(),
		help:         h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		refresh(a.tracker),
		a.settings.refreshSlots(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.habits.setSize(a.width, contentHeight)
		a.achievements.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewHabits
			return a, refresh(a.tracker)
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewAchievements
			return a, refresh(a.tracker)
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, tea.Batch(refresh(a.tracker), a.settings.refreshSlots())
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, refresh(a.tracker)
		}

	case habitsDataMsg:
		// Every view renders from the same snapshot.
		a.habits, _ = a.habits.update(msg)
		a.achievements, _ = a.achievements.update(msg)
		a.settings, _ = a.settings.update(msg)
		return a, nil

	case toastMsg:
		return a, a.toasts.push(msg.title, msg.description)

	case toastExpiredMsg:
		a.toasts.expire(msg.id)
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case themeChangedMsg:
		a.status = "Theme: " + msg.name
		a.statusErr = false
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewAchievements:
		a.achievements, cmd = a.achievements.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewHabits:
		return a.habits.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHabits:
		content = a.habits.view()
	case viewAchievements:
		content = a.achievements.view()
	case viewSettings:
		content = a.settings.view()
	}

	if a.toasts.active() {
		content = lipgloss.JoinVertical(lipgloss.Left, content, a.toasts.view(a.width))
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("streaknest")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Persistence failures stay visible until a write succeeds.
	banner := ""
	if err := a.tracker.Err(); err != nil {
		banner = bannerStyle.Render(" ⚠ changes not saved: " + err.Error())
	}

	left := footerStyle.Render(helpView)
	right := banner + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	habits := a.tracker.Habits()
	dir := a.exportDir
	return func() tea.Msg {
		path, err := exportTo(habits, dir, format, time.Now())
		if err != nil {
			logger.Error("export failed", "error", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		logger.Info("exported habits", "path", path, "habits", len(habits))
		return exportDoneMsg{path: path}
	}
}

func exportTo(habits []habit.Habit, dir string, format int, now time.Time) (string, error) {
	dateStr := now.Format(habit.DateLayout)
	if format == 0 {
		path := filepath.Join(dir, fmt.Sprintf("streaknest-export-%s.csv", dateStr))
		return path, export.ToCSV(habits, path)
	}
	path := filepath.Join(dir, fmt.Sprintf("streaknest-export-%s.json", dateStr))
	return path, export.ToJSON(habits, path)
}
