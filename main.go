package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sadopc/streaknest/internal/cli"
	"github.com/sadopc/streaknest/internal/config"
	"github.com/sadopc/streaknest/internal/errors"
	"github.com/sadopc/streaknest/internal/logger"
	"github.com/sadopc/streaknest/internal/store"
	"github.com/sadopc/streaknest/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	DB      string `name:"db" help:"SQLite database path (overrides config)." type:"path"`
	Debug   bool   `help:"Enable debug logging."`

	Tui          cli.TuiCmd          `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add          cli.AddCmd          `cmd:"" help:"Add a habit."`
	List         cli.ListCmd         `cmd:"" help:"List habits and today's progress."`
	Track        cli.TrackCmd        `cmd:"" help:"Record one unit of progress for today."`
	Edit         cli.EditCmd         `cmd:"" help:"Rename a habit or change its goal or unit."`
	Delete       cli.DeleteCmd       `cmd:"" help:"Delete a habit."`
	Reset        cli.ResetCmd        `cmd:"" help:"Reset counts and streaks."`
	Achievements cli.AchievementsCmd `cmd:"" help:"Show a habit's achievements."`
	Remind       cli.RemindCmd       `cmd:"" help:"Manage habit reminders."`
	Export       cli.ExportCmd       `cmd:"" help:"Export habits to JSON, CSV or an encrypted backup."`
	Import       cli.ImportCmd       `cmd:"" help:"Replace habits from a JSON export or backup."`
	Pin          cli.PinCmd          `cmd:"" help:"Manage the backup PIN."`
	Theme        cli.ThemeCmd        `cmd:"" help:"Show or set the TUI theme."`
}

func main() {
	configPath, err := config.DefaultPath()
	if err != nil {
		errors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name("streaknest"),
		kong.Description("Daily habit tracker with streaks, achievements and reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0", "config_path": configPath},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.DB != "" {
		cfg.DBPath = CLI.DB
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: cfg.LogDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		errors.Fatal(fmt.Errorf("open database: %w", err))
	}

	toaster := cli.NewToaster(os.Stdout, "🏆")
	tr := tracker.New(s,
		tracker.WithNotifier(toaster),
		tracker.WithDebounce(cfg.SaveDebounce),
	)
	// A failed read leaves the seed set in memory with writes refused, and is
	// reported again by Close.
	if err := tr.Load(); err != nil {
		logger.Warn("starting from seed habits", "error", err)
	}

	runErr := ctx.Run(&cli.Context{
		Tracker: tr,
		Store:   s,
		Config:  cfg,
		Toaster: toaster,
		Out:     os.Stdout,
	})

	if err := tr.Close(); err != nil && runErr == nil {
		runErr = err
	}
	s.Close()

	errors.Fatal(runErr)
}
