package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lakshaymaurya-felt/mechanic/internal/cleanup"
	"github.com/lakshaymaurya-felt/mechanic/internal/cleanview"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	scanCategories []string
	scanFormat     string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Report reclaimable space without deleting anything",
	Long: `Scan every cleanup location and report what could be freed, grouped by
category. Locations that are missing or unreadable are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		include, err := parseCategories(scanCategories)
		if err != nil {
			return err
		}
		return runScan(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), newEngine(include, nil), scanFormat)
	},
}

func init() {
	scanCmd.Flags().StringSliceVarP(&scanCategories, "category", "c", nil, "Only scan these categories ("+categoryKeys()+")")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", formatTable, "Output format: table, json or yaml")
}

// skipCounter is implemented by *cleanup.Engine.
type skipCounter interface {
	Skipped() int64
}

// runScan scans with eng and writes the result to out. Progress lines go to
// progress for table output only, so json and yaml stay machine-readable.
func runScan(ctx context.Context, out, progress io.Writer, eng cleanview.Engine, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	report := func(string) {}
	if format == formatTable {
		report = func(msg string) { fmt.Fprintln(progress, "  "+msg) }
	}

	groups := cleanup.GroupItems(eng.Scan(ctx, report))
	if format == formatTable {
		if s, ok := eng.(skipCounter); ok && s.Skipped() > 0 {
			fmt.Fprintf(progress, "  %d entries could not be read\n", s.Skipped())
		}
		cleanview.PrintGroups(out, groups)
		return nil
	}
	return encode(out, format, newScanReport(groups))
}

// ─── Reports ─────────────────────────────────────────────────────────────────

type scanReport struct {
	TotalBytes int64            `json:"total_bytes" yaml:"total_bytes"`
	Items      int              `json:"items" yaml:"items"`
	Categories []categoryReport `json:"categories" yaml:"categories"`
}

type categoryReport struct {
	Category   string       `json:"category" yaml:"category"`
	Label      string       `json:"label" yaml:"label"`
	TotalBytes int64        `json:"total_bytes" yaml:"total_bytes"`
	Items      []itemReport `json:"items" yaml:"items"`
}

type itemReport struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
}

func newScanReport(groups []*cleanup.Group) scanReport {
	r := scanReport{
		TotalBytes: cleanup.TotalSize(groups),
		Categories: make([]categoryReport, 0, len(groups)),
	}
	for _, g := range groups {
		c := categoryReport{
			Category:   g.Category().Key(),
			Label:      g.Title,
			TotalBytes: g.TotalSize(),
			Items:      make([]itemReport, 0, g.Len()),
		}
		for _, it := range g.Items() {
			c.Items = append(c.Items, itemReport{Name: it.Name, Path: it.Path, SizeBytes: it.SizeBytes})
		}
		r.Items += g.Len()
		r.Categories = append(r.Categories, c)
	}
	return r
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (valid: table, json, yaml)", format)
}

// encode writes v as json or yaml.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkFormat(format)
}
