package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/streaknest/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// The TUI shows its own toasts.
	if ctx.Toaster != nil {
		ctx.Toaster.Mute()
	}

	p := tea.NewProgram(tui.NewApp(ctx.Tracker, ctx.Store, ctx.Config.Theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
