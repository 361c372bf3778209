package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"
)

// Set at build time with -ldflags "-X github.com/trigg3rX/keybrowser/cli/cmd.Version=..."
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Display version information",
		Action: displayVersion,
	}
}

func displayVersion(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, "keybrowser")
	fmt.Fprintf(c.App.Writer, "Version:      %s\n", Version)
	fmt.Fprintf(c.App.Writer, "Build Date:   %s\n", BuildDate)
	fmt.Fprintf(c.App.Writer, "Go Version:   %s\n", runtime.Version())
	return nil
}
