// Package main is the entry point for the mech CLI.
package main

import (
	"os"

	"github.com/lakshaymaurya-felt/mechanic/cmd"
)

// Set by -ldflags "-X main.version=..." at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
