package cleanview

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/lakshaymaurya-felt/mechanic/internal/cleanup"
	"github.com/lakshaymaurya-felt/mechanic/internal/core"
)

// PrintGroups writes a per-category summary table of scan results. Used when
// stdout is not a terminal or the interactive view is not wanted.
func PrintGroups(w io.Writer, groups []*cleanup.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "  Nothing to clean.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Items", "Selected", "Size"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	for _, g := range groups {
		table.Append([]string{
			g.Title,
			fmt.Sprintf("%d", g.Len()),
			fmt.Sprintf("%d", g.SelectedCount()),
			core.FormatSize(g.TotalSize()),
		})
	}

	items := 0
	for _, g := range groups {
		items += g.Len()
	}
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", items),
		fmt.Sprintf("%d", cleanup.SelectedCount(groups)),
		core.FormatSize(cleanup.TotalSize(groups)),
	})
	table.Render()
}

// PrintCleanResult writes the totals of a clean followed by every failure.
func PrintCleanResult(w io.Writer, res cleanup.CleanResult) {
	fmt.Fprintf(w, "  %s\n", cleanSummary(res))
	for _, r := range res.Results {
		if r.Outcome == cleanup.Failed {
			fmt.Fprintf(w, "    failed  %s: %v\n", r.Item.Path, r.Err)
		}
	}
}
