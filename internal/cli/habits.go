package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/streaknest/internal/habit"
	"github.com/sadopc/streaknest/internal/store"
)

type AddCmd struct {
	Name string `arg:"" help:"Habit name."`
	Icon string `short:"i" help:"Icon (circle|droplet|activity|book)." default:"circle"`
}

func (c *AddCmd) Validate() error {
	if habit.ParseIcon(c.Icon) == habit.IconFallback {
		return fmt.Errorf("unknown icon %q", c.Icon)
	}
	return nil
}

func (c *AddCmd) Run(ctx *Context) error {
	h, ok := ctx.Tracker.AddHabit(c.Name, c.Icon)
	if !ok {
		return errors.New("habit name must not be blank")
	}
	ctx.printf("Added habit: %s (ID: %s)\n", h.Name, h.ID)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *Context) error {
	habits := ctx.Tracker.Habits()
	if len(habits) == 0 {
		ctx.printf("No habits yet. Add one with: streaknest add NAME\n")
		return nil
	}

	today := ctx.Tracker.Today()
	for _, h := range habits {
		done := " "
		if h.CountOn(today) >= h.Goal {
			done = "✓"
		}
		ctx.printf("%s %s %-20s %3d/%-3d %-10s streak %-3d %d/%d achievements  reminder %s  [%s]\n",
			done,
			habit.ParseIcon(h.Icon).Glyph(),
			h.Name,
			h.CountOn(today), h.Goal, h.Unit,
			h.Streak,
			h.Unlocked(), len(h.Achievements),
			describeReminder(h),
			h.ID,
		)
	}

	if slot, err := ctx.Store.GetSlot(store.KeyHabits); err == nil {
		ctx.printf("\nLast saved %s (%d writes)\n", slot.UpdatedAt.Local().Format("2006-01-02 15:04"), slot.Writes)
	}
	return nil
}

type TrackCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *TrackCmd) Run(ctx *Context) error {
	h, err := ctx.resolve(c.Habit)
	if err != nil {
		return err
	}
	ctx.Tracker.Increment(h.ID)

	h, _ = ctx.Tracker.Get(h.ID)
	today := ctx.Tracker.Today()
	ctx.printf("%s: %d/%d %s today, streak %d\n", h.Name, h.CountOn(today), h.Goal, h.Unit, h.Streak)
	return nil
}

type EditCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Name  string `help:"New name."`
	Goal  int    `help:"New daily goal."`
	Unit  string `help:"New unit."`
}

func (c *EditCmd) Validate() error {
	if c.Goal < 0 {
		return fmt.Errorf("goal must be positive")
	}
	return nil
}

func (c *EditCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.Name) == "" && c.Goal == 0 && strings.TrimSpace(c.Unit) == "" {
		return errors.New("nothing to change: pass --name, --goal or --unit")
	}
	h, err := ctx.resolve(c.Habit)
	if err != nil {
		return err
	}
	ctx.Tracker.Update(h.ID, c.Name, c.Goal, c.Unit)

	h, _ = ctx.Tracker.Get(h.ID)
	ctx.printf("Updated habit: %s (goal %d %s)\n", h.Name, h.Goal, h.Unit)
	return nil
}

type DeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	h, err := ctx.resolve(c.Habit)
	if err != nil {
		return err
	}
	ctx.Tracker.Delete(h.ID)
	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}

type ResetCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or name."`
	All   bool   `help:"Reset every habit."`
}

func (c *ResetCmd) Validate() error {
	if c.All == (c.Habit != "") {
		return errors.New("pass either a habit or --all")
	}
	return nil
}

func (c *ResetCmd) Run(ctx *Context) error {
	if c.All {
		ctx.Tracker.ResetAllStreaks()
		ctx.printf("Reset all habits\n")
		return nil
	}
	h, err := ctx.resolve(c.Habit)
	if err != nil {
		return err
	}
	ctx.Tracker.ResetCount(h.ID)
	ctx.printf("Reset habit: %s\n", h.Name)
	return nil
}

type AchievementsCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *AchievementsCmd) Run(ctx *Context) error {
	h, err := ctx.resolve(c.Habit)
	if err != nil {
		return err
	}
	ctx.printf("%s: %d/%d unlocked\n", h.Name, h.Unlocked(), len(h.Achievements))
	for _, a := range h.Achievements {
		mark := "☆"
		if a.Achieved {
			mark = "★"
		}
		ctx.printf("  %s %-28s %s\n", mark, a.Title, a.Description)
	}
	return nil
}
