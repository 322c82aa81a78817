package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/mechanic/internal/cleanup"
	"github.com/lakshaymaurya-felt/mechanic/internal/cleanview"
	"github.com/lakshaymaurya-felt/mechanic/internal/core"
)

var (
	cleanCategories []string
	cleanSkip       []string
	dryRun          bool
	assumeYes       bool
)

var errNotConfirmed = errors.New("refusing to clean without confirmation; pass --yes to skip the prompt")

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Scan the cleanup locations and delete everything found in the chosen
categories. Files that are locked or vanish mid-clean are skipped and reported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		include, err := parseCategories(cleanCategories)
		if err != nil {
			return err
		}
		exclude, err := parseCategories(cleanSkip)
		if err != nil {
			return err
		}

		opts := cleanOptions{dryRun: dryRun, yes: assumeYes}
		if !opts.yes && !opts.dryRun && !isTerminal(os.Stdin) {
			return errNotConfirmed
		}
		return runClean(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), newEngine(include, exclude), opts)
	},
}

func init() {
	cleanCmd.Flags().StringSliceVarP(&cleanCategories, "category", "c", nil, "Only clean these categories ("+categoryKeys()+")")
	cleanCmd.Flags().StringSliceVar(&cleanSkip, "skip", nil, "Leave these categories alone")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup plan without deleting")
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

type cleanOptions struct {
	dryRun bool
	yes    bool
}

// runClean scans, shows the plan, asks on in unless opts.yes, then cleans.
func runClean(ctx context.Context, in io.Reader, out io.Writer, eng cleanview.Engine, opts cleanOptions) error {
	items := eng.Scan(ctx, func(msg string) { fmt.Fprintln(out, "  "+msg) })
	groups := cleanup.GroupItems(items)

	fmt.Fprintln(out)
	cleanview.PrintGroups(out, groups)
	if len(items) == 0 {
		return nil
	}

	size := core.FormatSize(cleanup.SelectedSize(groups))
	if opts.dryRun {
		fmt.Fprintf(out, "\n  Dry run: %d items (%s) would be deleted.\n", len(items), size)
		return nil
	}

	if !opts.yes {
		ok, err := confirm(in, out, fmt.Sprintf("Delete %d items (%s)?", len(items), size))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "  Clean cancelled")
			return nil
		}
	}

	res := eng.Clean(ctx, items, func(string) {})
	fmt.Fprintln(out)
	cleanview.PrintCleanResult(out, res)
	return ctx.Err()
}

// confirm prints prompt and reads one line from in. Only y or yes accepts.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "\n  %s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
