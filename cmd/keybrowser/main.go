package main

import (
	"fmt"
	"os"

	"github.com/trigg3rX/keybrowser/cli/cmd"
)

func main() {
	if err := cmd.NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "keybrowser: %v\n", err)
		os.Exit(1)
	}
}
