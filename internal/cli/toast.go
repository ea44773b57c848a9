package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	toastBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2ECC71")).
			Padding(0, 1)
	toastTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ECC71"))
	toastBody  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Toaster prints achievement and reminder notices to a writer. It satisfies
// both tracker.Notifier and reminder.Notifier.
type Toaster struct {
	mu    sync.Mutex
	w     io.Writer
	icon  string
	muted bool
}

func NewToaster(w io.Writer, icon string) *Toaster {
	return &Toaster{w: w, icon: icon}
}

// Mute silences the toaster, e.g. while a full-screen program owns the terminal.
func (t *Toaster) Mute() {
	t.mu.Lock()
	t.muted = true
	t.mu.Unlock()
}

func (t *Toaster) Notify(title, description string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.muted {
		return
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		toastTitle.Render(t.icon+" "+title),
		toastBody.Render(description),
	)
	fmt.Fprintln(t.w, toastBox.Render(body))
}
