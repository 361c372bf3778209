package cmd

import "github.com/urfave/cli/v2"

// NewApp assembles the keybrowser command line.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "keybrowser",
		Usage: "Page through the keys of a Redis deployment",
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			ServeCommand(),
			ScanCommand(),
			TotalCommand(),
			VersionCommand(),
		},
	}
}
