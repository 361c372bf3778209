package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/trigg3rX/keybrowser/pkg/logging"
)

func TotalCommand() *cli.Command {
	return &cli.Command{
		Name:   "total",
		Usage:  "Print the estimated number of keys",
		Action: printTotal,
	}
}

func printTotal(c *cli.Context) error {
	rt, err := newSession(c, logging.CLIProcess, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := withTimeout(c)
	defer cancel()

	total, err := rt.service.Total(ctx)
	if err != nil {
		return fmt.Errorf("failed to estimate total: %w", err)
	}
	if total == nil {
		fmt.Fprintln(c.App.Writer, "unknown")
		return nil
	}
	fmt.Fprintln(c.App.Writer, *total)
	return nil
}
