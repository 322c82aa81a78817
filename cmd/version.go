package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/mechanic/internal/core"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the Go version and the running OS.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("mech %s (%s) built %s\n", appVersion, appCommit, appDate)
			cmd.Println("go version\t", runtime.Version())
			cmd.Println("os\t\t", core.OSVersionString())
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()
