package cli

import (
	"fmt"

	"github.com/sadopc/streaknest/internal/store"
)

type ThemeCmd struct {
	Name string `arg:"" optional:"" help:"Theme to use (dark|light). Prints the current theme when omitted."`
}

func (c *ThemeCmd) Validate() error {
	switch c.Name {
	case "", "dark", "light":
		return nil
	}
	return fmt.Errorf("unknown theme %q (want dark or light)", c.Name)
}

func (c *ThemeCmd) Run(ctx *Context) error {
	if c.Name == "" {
		ctx.printf("%s\n", ctx.Theme())
		return nil
	}
	if err := ctx.Store.Set(store.KeyTheme, c.Name); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	ctx.printf("Theme set to %s\n", c.Name)
	return nil
}
