// Package main is the entry point for the charrefs CLI.
package main

import (
	"os"

	"github.com/jmylchreest/charrefs/cmd/charrefs/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
