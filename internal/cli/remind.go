package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sadopc/streaknest/internal/habit"
	"github.com/sadopc/streaknest/internal/logger"
	"github.com/sadopc/streaknest/internal/reminder"
)

type RemindCmd struct {
	Set   RemindSetCmd `cmd:"" help:"Enable reminders for a habit."`
	Off   RemindOffCmd `cmd:"" help:"Disable reminders for a habit."`
	Watch RemindRunCmd `cmd:"" name:"run" help:"Deliver reminders until interrupted."`
}

type RemindSetCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Start string `help:"First reminder of the day (HH:MM)." default:"08:00"`
	End   string `help:"Last reminder of the day (HH:MM)." default:"20:00"`
	Every int    `help:"Minutes between reminders." default:"60"`
}

func (c *RemindSetCmd) Validate() error {
	return reminder.Validate(c.Start, c.End, c.Every)
}

func (c *RemindSetCmd) Run(ctx *Context) error {
	h, err := ctx.resolve(c.Habit)
	if err != nil {
		return err
	}
	on := true
	ctx.Tracker.UpdateReminder(h.ID, habit.ReminderPatch{
		Enabled:  &on,
		Start:    &c.Start,
		End:      &c.End,
		Interval: &c.Every,
	})
	ctx.printf("Reminders for %s: %s to %s every %d minutes\n", h.Name, c.Start, c.End, c.Every)
	return nil
}

type RemindOffCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *RemindOffCmd) Run(ctx *Context) error {
	h, err := ctx.resolve(c.Habit)
	if err != nil {
		return err
	}
	off := false
	ctx.Tracker.UpdateReminder(h.ID, habit.ReminderPatch{Enabled: &off})
	ctx.printf("Reminders off for %s\n", h.Name)
	return nil
}

type RemindRunCmd struct {
	Refresh time.Duration `help:"How often to re-read reminder settings." default:"1m"`
}

func (c *RemindRunCmd) Validate() error {
	if c.Refresh <= 0 {
		return errors.New("refresh must be positive")
	}
	return nil
}

func (c *RemindRunCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := reminder.NewScheduler(NewToaster(ctx.out(), "⏰"))
	return c.loop(sigCtx, ctx, sched)
}

// loop re-reads the habits slot every Refresh so edits made by other
// invocations are picked up, until ctx is cancelled.
func (c *RemindRunCmd) loop(runCtx context.Context, ctx *Context, sched *reminder.Scheduler) error {
	defer sched.Stop()

	armed := sched.Sync(ctx.Tracker.Habits())
	ctx.printf("Watching %d reminder(s). Press Ctrl+C to stop.\n", armed)

	ticker := time.NewTicker(c.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			ctx.printf("Stopped reminders\n")
			return nil
		case <-ticker.C:
			if err := ctx.Tracker.Load(); err != nil {
				logger.Warn("reload habits for reminders", "error", err)
				continue
			}
			n := sched.Sync(ctx.Tracker.Habits())
			if n != armed {
				logger.Info("reminders rescheduled", "armed", n)
				armed = n
			}
		}
	}
}

func describeReminder(h habit.Habit) string {
	if !h.ReminderEnabled {
		return "off"
	}
	return fmt.Sprintf("%s-%s every %dm", h.ReminderStart, h.ReminderEnd, h.ReminderInterval)
}
