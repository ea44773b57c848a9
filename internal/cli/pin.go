package cli

import (
	"errors"

	"github.com/sadopc/streaknest/internal/keyring"
)

type PinCmd struct {
	Set   PinSetCmd   `cmd:"" help:"Store the backup PIN in the OS keyring."`
	Clear PinClearCmd `cmd:"" help:"Remove the backup PIN from the OS keyring."`
}

type PinSetCmd struct {
	PIN string `arg:"" name:"pin" help:"4-digit PIN."`
}

func (c *PinSetCmd) Validate() error {
	return keyring.ValidatePIN(c.PIN)
}

func (c *PinSetCmd) Run(ctx *Context) error {
	if err := keyring.SetPIN(c.PIN); err != nil {
		return err
	}
	ctx.printf("✓ Backup PIN stored in OS keyring\n")
	return nil
}

type PinClearCmd struct{}

func (c *PinClearCmd) Run(ctx *Context) error {
	if err := keyring.DeletePIN(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no backup PIN stored in keyring")
		}
		return err
	}
	ctx.printf("✓ Backup PIN removed from OS keyring\n")
	return nil
}
