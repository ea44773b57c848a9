package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const toastTTL = 3 * time.Second

type toast struct {
	id          int
	title       string
	description string
}

// toastModel holds achievement notices until their expiry tick arrives.
type toastModel struct {
	queue  []toast
	nextID int
	ttl    time.Duration
}

func newToastModel() toastModel {
	return toastModel{ttl: toastTTL}
}

// push queues a toast and returns the command that expires it.
func (t *toastModel) push(title, description string) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.queue = append(t.queue, toast{id: id, title: title, description: description})
	return tea.Tick(t.ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t *toastModel) expire(id int) {
	for i, q := range t.queue {
		if q.id == id {
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			return
		}
	}
}

func (t toastModel) active() bool {
	return len(t.queue) > 0
}

func (t toastModel) view(width int) string {
	if !t.active() {
		return ""
	}
	var rows []string
	for _, q := range t.queue {
		body := lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Bold(true).Render("🏆 "+q.title),
			mutedStyle.Render(q.description),
		)
		rows = append(rows, toastStyle.Render(body))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Right, rows...))
}
