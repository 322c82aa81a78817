package cleanview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/mechanic/internal/cleanup"
	"github.com/lakshaymaurya-felt/mechanic/internal/core"
	"github.com/lakshaymaurya-felt/mechanic/internal/ui"
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Model) renderView() string {
	w := max(m.width, 40)

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")

	switch m.mode {
	case modeScanning:
		s.WriteString("  " + m.spinner.View() + " " + m.status)
	case modeCleaning:
		s.WriteString("  " + m.spinner.View() + " " + m.status + "\n\n")
		s.WriteString("  " + m.bar.ViewAs(m.cleanFraction()))
	default:
		s.WriteString(m.renderBody(w))
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m Model) cleanFraction() float64 {
	if m.cleanTotal == 0 {
		return 0
	}
	return min(float64(m.cleanDone)/float64(m.cleanTotal), 1)
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Render("  " + ui.IconDiamond + " Disk Cleaner")

	summary := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(fmt.Sprintf("  %d items  %s  %s  %d selected (%s)",
			m.tally.items, core.FormatSize(m.tally.totalSize), ui.IconPipe,
			m.tally.selected, core.FormatSize(m.tally.selectedSize)))

	lines := []string{title, summary}
	if r := m.lastClean; r != nil {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorSuccess).
			Render("  "+ui.IconSuccess+" "+cleanSummary(*r)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Width(w - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// cleanSummary renders a result as "Cleaned 15 MiB (2 deleted, 1 skipped, 0 failed)".
func cleanSummary(r cleanup.CleanResult) string {
	return fmt.Sprintf("Cleaned %s (%d deleted, %d skipped, %d failed)",
		core.FormatSize(r.BytesFreed), r.Deleted, r.Skipped, r.Failed)
}

// ─── Body ────────────────────────────────────────────────────────────────────

func (m Model) renderBody(w int) string {
	rows := m.rows()
	if len(rows) == 0 {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Nothing to clean")
	}

	barWidth := 16
	if w > 110 {
		barWidth = 24
	}
	total := m.tally.totalSize

	vh := m.viewportHeight()
	var lines []string
	for i := m.offset; i < len(rows) && i < m.offset+vh; i++ {
		r := rows[i]
		var line string
		if r.item == nil {
			line = m.renderGroup(r.group, total, barWidth)
		} else {
			line = m.renderItem(r.item, w)
		}
		if i == m.cursor {
			cursor := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Render(ui.IconBlock)
			line = " " + cursor + line[2:]
		}
		lines = append(lines, line)
	}

	if len(rows) > vh {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render(fmt.Sprintf("  ── %d/%d rows ──", min(m.offset+vh, len(rows)), len(rows))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGroup(g *cleanup.Group, total int64, barWidth int) string {
	fold := ui.IconFolded
	if m.expanded[g.Category()] {
		fold = ui.IconExpanded
	}

	var pct float64
	if total > 0 {
		pct = float64(g.TotalSize()) / float64(total) * 100
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorCoral).Render(fmt.Sprintf("%-16s", g.Title))
	counts := lipgloss.NewStyle().Foreground(ui.ColorTextDim).
		Render(fmt.Sprintf("%d/%d items", g.SelectedCount(), g.Len()))

	return fmt.Sprintf("  %s %s %s  %s  %10s  %s",
		fold, checkbox(g.IsSelected()), title, ui.GradientBar(pct, barWidth), core.FormatSize(g.TotalSize()), counts)
}

func (m Model) renderItem(it *cleanup.Item, w int) string {
	name := it.Name
	maxName := max(w-30, 12)
	if len([]rune(name)) > maxName {
		name = string([]rune(name)[:maxName-1]) + "…"
	}
	color := ui.ColorText
	if !it.IsSelected() {
		color = ui.ColorMuted
	}
	return fmt.Sprintf("      %s %s  %s",
		checkbox(it.IsSelected()),
		lipgloss.NewStyle().Foreground(color).Render(name),
		lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(core.FormatSize(it.SizeBytes)))
}

func checkbox(on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render(ui.IconChecked)
	}
	return lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(ui.IconUncheck)
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	var parts []string

	if m.mode != modeScanning && m.mode != modeCleaning {
		status := lipgloss.NewStyle().Foreground(ui.ColorText).Render("  " + m.status)
		if m.mode == modeConfirm {
			status = "  " + ui.TagWarningStyle().Render(" "+ui.IconWarning+" "+m.status+" ")
		}
		parts = append(parts, status)
	}

	var bindings []string
	switch m.mode {
	case modeBrowse:
		for _, b := range []struct{ keys, desc string }{
			{"↑↓", "nav"},
			{m.keys.Toggle.Help().Key, m.keys.Toggle.Help().Desc},
			{m.keys.Expand.Help().Key, m.keys.Expand.Help().Desc},
			{m.keys.All.Help().Key + "/" + m.keys.None.Help().Key, "all/none"},
			{m.keys.Clean.Help().Key, m.keys.Clean.Help().Desc},
			{m.keys.Rescan.Help().Key, m.keys.Rescan.Help().Desc},
			{m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc},
		} {
			bindings = append(bindings, b.keys+" "+b.desc)
		}
	case modeConfirm:
		bindings = []string{"y confirm", "any other key cancels"}
	default:
		bindings = []string{"q quit"}
	}

	parts = append(parts, ui.HintBarStyle().Render("  "+strings.Join(bindings, " "+ui.IconPipe+" ")))
	return strings.Join(parts, "\n")
}
