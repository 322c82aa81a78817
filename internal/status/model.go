package status

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/mechanic/internal/sysinfo"
)

// DefaultRefresh is how often the dashboard re-collects when no interval is
// given.
const DefaultRefresh = 5 * time.Second

// historyLen caps the sparkline buffers.
const historyLen = 60

// ─── Tab enumeration ─────────────────────────────────────────────────────────

// Tab identifies one of the dashboard sections.
type Tab int

const (
	TabOverview Tab = iota
	TabCPU
	TabMemory
	TabDisk
)

// TabNames is the display label for each tab.
var TabNames = []string{"Overview", "CPU", "Memory", "Disk"}

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type infoMsg struct {
	info *sysinfo.Info
	err  error
}

// Collector takes one snapshot. sysinfo.Collect is the production collector.
type Collector func(context.Context) (*sysinfo.Info, error)

// ─── Model ───────────────────────────────────────────────────────────────────

// StatusModel is the bubbletea Model for the system dashboard.
type StatusModel struct {
	Info            *sysinfo.Info
	Tab             Tab
	Width           int
	Height          int
	Err             error
	refreshInterval time.Duration
	collect         Collector
	quitting        bool

	// Sparkline ring buffers.
	CPUHistory []float64
	MemHistory []float64
}

// NewStatusModel creates a StatusModel with the given refresh cadence. A nil
// collector uses sysinfo.Collect.
func NewStatusModel(refreshInterval time.Duration, collect Collector) StatusModel {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefresh
	}
	if collect == nil {
		collect = sysinfo.Collect
	}
	return StatusModel{
		Width:           80,
		Height:          24,
		refreshInterval: refreshInterval,
		collect:         collect,
	}
}

func (m StatusModel) doTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m StatusModel) collectInfo() tea.Cmd {
	collect := m.collect
	return func() tea.Msg {
		info, err := collect(context.Background())
		return infoMsg{info: info, err: err}
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m StatusModel) Init() tea.Cmd {
	// The first infoMsg starts the tick loop, so collection and display never
	// overlap.
	return m.collectInfo()
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.Tab = (m.Tab + 1) % Tab(len(TabNames))
		case "shift+tab":
			if m.Tab == 0 {
				m.Tab = Tab(len(TabNames) - 1)
			} else {
				m.Tab--
			}
		case "r":
			return m, m.collectInfo()
		case "1":
			m.Tab = TabOverview
		case "2":
			m.Tab = TabCPU
		case "3":
			m.Tab = TabMemory
		case "4":
			m.Tab = TabDisk
		}
		return m, nil

	case tickMsg:
		return m, m.collectInfo()

	case infoMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, m.doTick()
		}
		m.Err = nil
		m.Info = msg.info
		m.CPUHistory = appendF64(m.CPUHistory, msg.info.CPUUsage, historyLen)
		m.MemHistory = appendF64(m.MemHistory, msg.info.MemoryUsagePercent, historyLen)
		return m, m.doTick()
	}

	return m, nil
}

func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── Health score ────────────────────────────────────────────────────────────

// HealthScore rates the snapshot from 0 to 100. CPU and memory pressure cost
// up to 30 points each. The fullest drive costs up to 40, starting at 70%
// full.
func HealthScore(info *sysinfo.Info) int {
	if info == nil {
		return 0
	}
	score := 100.0
	score -= clampPct(info.CPUUsage) * 0.3
	score -= clampPct(info.MemoryUsagePercent) * 0.3

	var fullest float64
	for _, d := range info.Drives {
		fullest = max(fullest, d.UsagePercent)
	}
	if fullest > 70 {
		score -= (clampPct(fullest) - 70) / 30 * 40
	}
	return int(max(0, min(score, 100)))
}

func clampPct(v float64) float64 {
	return max(0, min(v, 100))
}

// ─── History helpers ─────────────────────────────────────────────────────────

func appendF64(h []float64, v float64, maxLen int) []float64 {
	h = append(h, v)
	if len(h) > maxLen {
		h = h[1:]
	}
	return h
}
