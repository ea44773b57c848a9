package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"strings"

	"github.com/sadopc/streaknest/internal/config"
	"github.com/sadopc/streaknest/internal/habit"
	"github.com/sadopc/streaknest/internal/logger"
	"github.com/sadopc/streaknest/internal/store"
	"github.com/sadopc/streaknest/internal/tracker"
)

// Context is handed to every command's Run method.
type Context struct {
	Tracker *tracker.Tracker
	Store   *store.Store
	Config  config.AppConfig
	Toaster *Toaster
	Out     io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

// resolve finds a habit by id, then by case-insensitive name.
func (c *Context) resolve(ref string) (habit.Habit, error) {
	h, ok := c.Tracker.Resolve(strings.TrimSpace(ref))
	if !ok {
		return habit.Habit{}, fmt.Errorf("no habit matches %q", ref)
	}
	return h, nil
}

// Username returns the name backups are bound to: the configured name,
// then the stored one, then the OS account name, which is stored for next time.
func (c *Context) Username() (string, error) {
	if c.Config.Username != "" {
		return c.Config.Username, nil
	}
	v, err := c.Store.Get(store.KeyUser)
	switch {
	case err == nil && v != "":
		return v, nil
	case err != nil && !errors.Is(err, store.ErrSlotNotFound):
		return "", fmt.Errorf("read username: %w", err)
	}

	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("no username configured and OS user unknown: %w", err)
	}
	if err := c.Store.Set(store.KeyUser, u.Username); err != nil {
		logger.Warn("remember username", "error", err)
	}
	return u.Username, nil
}

// Theme returns the stored theme, falling back to the configured one.
func (c *Context) Theme() string {
	v, err := c.Store.Get(store.KeyTheme)
	if err != nil {
		if !errors.Is(err, store.ErrSlotNotFound) {
			logger.Warn("read theme", "error", err)
		}
		return c.Config.Theme
	}
	return v
}
