// Package main is the entry point for the stagerun CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/stagerun/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
