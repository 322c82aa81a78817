package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/mechanic/internal/status"
	"github.com/lakshaymaurya-felt/mechanic/internal/sysinfo"
)

var (
	statusRefresh int
	statusJSON    bool
	statusOnce    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Monitor system health",
	Long:  "Live dashboard with CPU, memory and fixed-drive usage. Outside a terminal it prints one snapshot.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if statusJSON || statusOnce || !isTerminal(os.Stdout) {
			return runStatusOnce(cmd.Context(), cmd.OutOrStdout(), sysinfo.Collect, statusJSON)
		}

		refresh := time.Duration(statusRefresh) * time.Second
		p := tea.NewProgram(status.NewStatusModel(refresh, sysinfo.Collect), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusRefresh, "refresh", int(status.DefaultRefresh/time.Second), "Refresh interval in seconds")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output metrics as JSON")
	statusCmd.Flags().BoolVar(&statusOnce, "once", false, "Print one snapshot and exit")
}

// runStatusOnce takes a single snapshot and prints it as text or JSON.
func runStatusOnce(ctx context.Context, out io.Writer, collect status.Collector, asJSON bool) error {
	info, err := collect(ctx)
	if err != nil {
		return fmt.Errorf("collecting system info: %w", err)
	}
	if asJSON {
		return encode(out, formatJSON, info)
	}
	fmt.Fprint(out, status.RenderSnapshot(info))
	return nil
}
