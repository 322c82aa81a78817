// Package ui holds the palette, glyphs and small render helpers shared by the
// interactive views.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	ColorCoral     = lipgloss.AdaptiveColor{Light: "#e11d48", Dark: "#fb7185"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}
	ColorTextDim   = lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorCaution   = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
)

// severity maps a usage floor to its color, highest first.
var severity = []struct {
	floor float64
	color lipgloss.AdaptiveColor
}{
	{90, ColorError},
	{75, ColorCaution},
	{50, ColorWarning},
	{0, ColorSuccess},
}

// SeverityColor returns green through red for a 0-100 usage figure.
func SeverityColor(pct float64) lipgloss.AdaptiveColor {
	for _, s := range severity {
		if pct >= s.floor {
			return s.color
		}
	}
	return ColorSuccess
}

// ─── Glyphs ──────────────────────────────────────────────────────────────────

const (
	IconDiamond  = "◆"
	IconBlock    = "▌"
	IconPipe     = "│"
	IconChecked  = "[x]"
	IconUncheck  = "[ ]"
	IconSuccess  = "✓"
	IconError    = "✗"
	IconWarning  = "⚠"
	IconExpanded = "▾"
	IconFolded   = "▸"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

// HintBarStyle renders key hints in the footer.
func HintBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
}

// TagWarningStyle renders a short inverted badge.
func TagWarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#111827")).
		Background(ColorWarning).
		Bold(true)
}

// GradientBar renders pct (0-100) as a bar of width cells. Bars past the
// halfway mark turn coral.
func GradientBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(pct, 100))
	filled := int(pct / 100 * float64(width))

	color := ColorPrimary
	if pct >= 50 {
		color = ColorCoral
	}
	full := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	empty := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return full + empty
}
