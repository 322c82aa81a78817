// Package cmd provides the mech command tree.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lakshaymaurya-felt/mechanic/internal/cleanup"
	"github.com/lakshaymaurya-felt/mechanic/internal/cleanview"
)

var (
	// Global flags
	debug      bool
	configFile string
	parallel   int

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

const rootLongDescription = `Mechanic - reclaim disk space and manage what starts with Windows.

Run without a subcommand in a terminal to open the interactive cleaner:
scan, review each category, toggle what to keep, and clean.`

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mech",
		Short:         "Disk cleanup and startup manager for Windows",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := readConfig(configFile); err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			configureLogger(debug, cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			closeLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) {
				return cmd.Help()
			}
			return runInteractiveCleaner(cmd, newEngine(nil, nil))
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs on stderr")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default <config dir>/mechanic/"+configFileName+")")
	return cmd
}

func init() {
	rootCmd.PersistentFlags().IntVar(&parallel, "parallel", viper.GetInt(scanParallelKey), "Scan phases to run at once")
	bindFlagToConfig(rootCmd.PersistentFlags().Lookup("parallel"), scanParallelKey)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(startupCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and prints any error it returns. An interrupt
// cancels scans and cleans in flight.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// runInteractiveCleaner opens the full-screen cleaner over eng.
func runInteractiveCleaner(cmd *cobra.Command, eng cleanview.Engine) error {
	p := tea.NewProgram(cleanview.New(cmd.Context(), eng), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("cleaner: %w", err)
	}
	if m, ok := final.(cleanview.Model); ok && m.LastClean() != nil {
		cleanview.PrintCleanResult(cmd.OutOrStdout(), *m.LastClean())
	}
	return nil
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// ─── Engine wiring ───────────────────────────────────────────────────────────

// newEngine builds an engine over the default catalog restricted to include
// (all categories when empty) minus exclude.
func newEngine(include, exclude []cleanup.Category) *cleanup.Engine {
	loc := locations()
	catalog := cleanup.FilterCatalog(cleanup.DefaultCatalog(loc), categoryFilter(include, exclude))
	return cleanup.NewEngine(catalog, cleanup.Options{
		Parallel:  viper.GetInt(scanParallelKey),
		MaxDepth:  viper.GetInt(scanMaxDepthKey),
		Protected: loc.ProtectedPaths(),
		Logger:    slog.Default(),
	})
}

func categoryFilter(include, exclude []cleanup.Category) func(cleanup.Category) bool {
	in := func(list []cleanup.Category, c cleanup.Category) bool {
		for _, x := range list {
			if x == c {
				return true
			}
		}
		return false
	}
	return func(c cleanup.Category) bool {
		if len(include) > 0 && !in(include, c) {
			return false
		}
		return !in(exclude, c)
	}
}

// parseCategories turns --category values into categories.
func parseCategories(values []string) ([]cleanup.Category, error) {
	out := make([]cleanup.Category, 0, len(values))
	for _, v := range values {
		c, err := cleanup.ParseCategory(v)
		if err != nil {
			return nil, fmt.Errorf("%w (valid: %s)", err, categoryKeys())
		}
		out = append(out, c)
	}
	return out, nil
}

func categoryKeys() string {
	keys := make([]string, 0, len(cleanup.Categories()))
	for _, c := range cleanup.Categories() {
		keys = append(keys, c.Key())
	}
	return strings.Join(keys, ", ")
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
