package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/mechanic/internal/core"
	"github.com/lakshaymaurya-felt/mechanic/internal/sysinfo"
	"github.com/lakshaymaurya-felt/mechanic/internal/ui"
)

const (
	mib = 1 << 20
	gib = 1 << 30

	historyWidth = 30
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true)
	accentStyle = lipgloss.NewStyle().Foreground(ui.ColorAccent)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// grade names a health score band.
type grade struct {
	floor int
	label string
	color lipgloss.AdaptiveColor
}

var grades = []grade{
	{90, "EXCELLENT", ui.ColorSuccess},
	{70, "GOOD", ui.ColorWarning},
	{50, "FAIR", ui.ColorCaution},
	{0, "CRITICAL", ui.ColorError},
}

func gradeOf(score int) grade {
	for _, g := range grades {
		if score >= g.floor {
			return g
		}
	}
	return grades[len(grades)-1]
}

// ─── Frame ───────────────────────────────────────────────────────────────────

func (m StatusModel) renderView() string {
	w := max(m.Width, 50)

	body := dimStyle.Render("  Loading...")
	if m.Info != nil {
		body = tabBodies[m.Tab](m, w)
	}

	return strings.Join([]string{m.renderTabs(w), body, m.renderStatusFooter()}, "\n")
}

// tabBodies is indexed by Tab.
var tabBodies = [...]func(StatusModel, int) string{
	TabOverview: StatusModel.renderOverview,
	TabCPU:      StatusModel.renderCPU,
	TabMemory:   StatusModel.renderMemory,
	TabDisk:     StatusModel.renderDisk,
}

func (m StatusModel) renderTabs(w int) string {
	labels := make([]string, len(TabNames))
	for i, name := range TabNames {
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(ui.ColorMuted)
		if Tab(i) == m.Tab {
			style = style.Bold(true).
				Foreground(ui.ColorPrimary).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(ui.ColorPrimary)
		}
		labels[i] = style.Render(fmt.Sprintf("%d·%s", i+1, name))
	}
	rule := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("─", w))
	return lipgloss.JoinHorizontal(lipgloss.Bottom, labels...) + "\n" + rule
}

// ─── Tabs ────────────────────────────────────────────────────────────────────

func (m StatusModel) renderOverview(w int) string {
	info := m.Info
	score := HealthScore(info)
	g := gradeOf(score)
	bw := barWidth(w, 24, 32, 100)

	headline := lipgloss.NewStyle().Bold(true).Foreground(g.color).
		Render(fmt.Sprintf("  %d  %s", score, g.label))

	hardware := cardStyle.BorderForeground(ui.ColorSecondary).
		Render(strings.Join(hardwareLines(info), "\n"))

	gauges := []string{
		gauge("CPU", info.CPUUsage, bw, ""),
		gauge("MEM", info.MemoryUsagePercent, bw,
			formatMB(info.UsedMemoryMB)+" / "+formatMB(info.TotalMemoryMB)),
	}
	if d, ok := fullestDrive(info.Drives); ok {
		gauges = append(gauges, gauge("DSK", d.UsagePercent, bw,
			fmt.Sprintf("%s / %s  (%s)", formatGB(d.UsedGB), formatGB(d.TotalGB), d.Name)))
	}
	usage := cardStyle.BorderForeground(ui.ColorMuted).Render(strings.Join(gauges, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, "", headline, "", hardware, "", usage)
}

func (m StatusModel) renderCPU(w int) string {
	lines := []string{
		"",
		"  " + m.Info.CPUName + fmt.Sprintf(" (%d logical cores)", m.Info.CPUCores),
		"",
		gauge("Usage", m.Info.CPUUsage, barWidth(w, 40, 56, 110), ""),
	}
	return strings.Join(append(lines, history(m.CPUHistory)...), "\n")
}

func (m StatusModel) renderMemory(w int) string {
	info := m.Info
	free := max(info.TotalMemoryMB-info.UsedMemoryMB, 0)
	lines := []string{
		"",
		gauge("Used", info.MemoryUsagePercent, barWidth(w, 40, 56, 110), ""),
		"",
		"  Total  " + formatMB(info.TotalMemoryMB),
		"  Used   " + formatMB(info.UsedMemoryMB),
		"  Free   " + formatMB(free),
	}
	return strings.Join(append(lines, history(m.MemHistory)...), "\n")
}

func (m StatusModel) renderDisk(w int) string {
	if len(m.Info.Drives) == 0 {
		return "\n" + dimStyle.Render("  (no fixed drives)")
	}
	bw := barWidth(w, 36, 48, 110)
	lines := []string{""}
	for _, d := range m.Info.Drives {
		lines = append(lines, gauge(fmt.Sprintf("%-4s", d.Name), d.UsagePercent, bw,
			formatGB(d.FreeGB)+" free of "+formatGB(d.TotalGB)))
	}
	return strings.Join(lines, "\n")
}

func (m StatusModel) renderStatusFooter() string {
	hints := ui.HintBarStyle().Render("  " + strings.Join(
		[]string{"Tab/Shift-Tab switch", "1-4 jump", "r refresh", "q quit"},
		"  "+ui.IconPipe+"  "))
	if m.Err == nil {
		return hints
	}
	return lipgloss.NewStyle().Foreground(ui.ColorError).
		Render("  "+ui.IconError+" "+m.Err.Error()) + "\n" + hints
}

// ─── Plain text ──────────────────────────────────────────────────────────────

func hardwareLines(info *sysinfo.Info) []string {
	rows := [][2]string{
		{"Computer", info.Hostname},
		{"OS", strings.TrimSpace(info.OS + " " + info.OSVersion)},
		{"CPU", info.CPUName},
		{"Cores", fmt.Sprint(info.CPUCores)},
		{"RAM", formatMB(info.TotalMemoryMB)},
		{"Arch", info.Arch},
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("  %-10s %s", r[0], r[1])
	}
	return out
}

// RenderSnapshot formats info as plain text for non-interactive output.
func RenderSnapshot(info *sysinfo.Info) string {
	lines := hardwareLines(info)
	lines = append(lines,
		fmt.Sprintf("  CPU usage  %.1f%%", info.CPUUsage),
		fmt.Sprintf("  Memory     %s / %s (%.1f%%)",
			formatMB(info.UsedMemoryMB), formatMB(info.TotalMemoryMB), info.MemoryUsagePercent))
	for _, d := range info.Drives {
		lines = append(lines, fmt.Sprintf("  Drive %-4s %s / %s (%.1f%%)",
			d.Name, formatGB(d.UsedGB), formatGB(d.TotalGB), d.UsagePercent))
	}
	lines = append(lines, fmt.Sprintf("  Health     %d/100", HealthScore(info)))
	return strings.Join(lines, "\n") + "\n"
}

// ─── Primitives ──────────────────────────────────────────────────────────────

func formatMB(n int64) string { return core.FormatSize(n * mib) }
func formatGB(n int64) string { return core.FormatSize(n * gib) }

// barWidth picks the wide bar once the terminal is wider than breakpoint.
func barWidth(w, narrow, wide, breakpoint int) int {
	if w > breakpoint {
		return wide
	}
	return narrow
}

func fullestDrive(drives []sysinfo.Drive) (sysinfo.Drive, bool) {
	if len(drives) == 0 {
		return sysinfo.Drive{}, false
	}
	best := drives[0]
	for _, d := range drives[1:] {
		if d.UsagePercent > best.UsagePercent {
			best = d
		}
	}
	return best, true
}

// gauge renders "  LABEL  ████░░░░  42.0%  detail".
func gauge(label string, pct float64, width int, detail string) string {
	line := fmt.Sprintf("  %s  %s  %5.1f%%", label, severityBar(pct, width), pct)
	if detail != "" {
		line += "  " + detail
	}
	return line
}

func severityBar(pct float64, width int) string {
	pct = clampPct(pct)
	filled := min(int(pct/100*float64(width)), width)
	return lipgloss.NewStyle().Foreground(ui.SeverityColor(pct)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("░", width-filled))
}

// history renders a labelled sparkline once there are two samples.
func history(data []float64) []string {
	if len(data) < 2 {
		return nil
	}
	return []string{"", accentStyle.Render("  History  ") + sparkline(data, historyWidth)}
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the last width samples scaled to their peak, padded on
// the right with the lowest block.
func sparkline(data []float64, width int) string {
	if len(data) > width {
		data = data[len(data)-width:]
	}
	peak := 1.0
	for _, v := range data {
		peak = max(peak, v)
	}

	top := len(sparkBlocks) - 1
	runes := make([]rune, width)
	for i := range runes {
		runes[i] = sparkBlocks[0]
		if i < len(data) {
			runes[i] = sparkBlocks[max(0, min(int(data[i]/peak*float64(top)), top))]
		}
	}
	return accentStyle.Render(string(runes))
}
