package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sadopc/streaknest/internal/export"
	"github.com/sadopc/streaknest/internal/habit"
	"github.com/sadopc/streaknest/internal/keyring"
	"github.com/sadopc/streaknest/internal/logger"
)

type ExportCmd struct {
	Path   string `arg:"" help:"Destination file." type:"path"`
	Format string `short:"f" help:"Output format (json|csv|backup)." enum:"json,csv,backup" default:"json"`
	PIN    string `name:"pin" help:"4-digit backup PIN (defaults to the PIN stored in the OS keyring)."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	habits := ctx.Tracker.Habits()

	var err error
	switch c.Format {
	case "csv":
		err = export.ToCSV(habits, c.Path)
	case "backup":
		err = c.writeBackup(ctx, habits)
	default:
		err = export.ToJSON(habits, c.Path)
	}
	if err != nil {
		logger.Error("export failed", "format", c.Format, "error", err)
		return err
	}

	logger.Info("exported habits", "format", c.Format, "path", c.Path, "habits", len(habits))
	ctx.printf("Exported %d habit(s) to %s\n", len(habits), c.Path)
	return nil
}

func (c *ExportCmd) writeBackup(ctx *Context, habits []habit.Habit) error {
	pin, err := resolvePIN(c.PIN)
	if err != nil {
		return err
	}
	username, err := ctx.Username()
	if err != nil {
		return err
	}
	return export.WriteBackup(habits, username, pin, c.Path)
}

type ImportCmd struct {
	Path   string `arg:"" help:"File to import." type:"existingfile"`
	Format string `short:"f" help:"Input format (auto|json|backup)." enum:"auto,json,backup" default:"auto"`
	PIN    string `name:"pin" help:"4-digit backup PIN (defaults to the PIN stored in the OS keyring)."`
}

// Run replaces every habit with the file's contents. Nothing changes unless
// the whole file decodes and validates.
func (c *ImportCmd) Run(ctx *Context) error {
	format := c.Format
	if format == "auto" {
		f, err := sniffFormat(c.Path)
		if err != nil {
			return err
		}
		format = f
	}

	var (
		habits []habit.Habit
		err    error
	)
	switch format {
	case "backup":
		habits, err = c.readBackup(ctx)
	default:
		habits, err = export.FromJSON(c.Path)
	}
	if err != nil {
		logger.Warn("import rejected", "path", c.Path, "error", err)
		return importError(err)
	}

	ctx.Tracker.Replace(habits)
	if err := ctx.Tracker.Flush(); err != nil {
		return err
	}
	logger.Info("imported habits", "path", c.Path, "habits", len(habits))
	ctx.printf("Imported %d habit(s) from %s\n", len(habits), c.Path)
	return nil
}

func (c *ImportCmd) readBackup(ctx *Context) ([]habit.Habit, error) {
	pin, err := resolvePIN(c.PIN)
	if err != nil {
		return nil, err
	}
	username, err := ctx.Username()
	if err != nil {
		return nil, err
	}
	return export.ReadBackup(c.Path, username, pin)
}

// sniffFormat tells a plain habit array from a backup envelope.
func sniffFormat(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read import file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		return "backup", nil
	}
	return "json", nil
}

func resolvePIN(flagPIN string) (string, error) {
	pin, err := keyring.ResolvePIN(flagPIN)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", errors.New("no backup PIN: pass --pin or run 'streaknest pin set'")
	}
	return pin, err
}

func importError(err error) error {
	switch {
	case errors.Is(err, export.ErrDecrypt):
		return errors.New("import failed: wrong PIN or corrupt backup")
	case errors.Is(err, export.ErrUserMismatch):
		return errors.New("import failed: backup belongs to a different user")
	case errors.Is(err, export.ErrFormat), errors.Is(err, habit.ErrInvalidHabit):
		return fmt.Errorf("import failed: %w", err)
	}
	return err
}
