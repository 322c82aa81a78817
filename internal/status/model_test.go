package status

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/mechanic/internal/sysinfo"
)

func sampleInfo() *sysinfo.Info {
	return &sysinfo.Info{
		Hostname:           "desk",
		OS:                 "Microsoft Windows 11 Pro",
		CPUName:            "Test CPU",
		CPUCores:           8,
		CPUUsage:           20,
		TotalMemoryMB:      16384,
		UsedMemoryMB:       8192,
		MemoryUsagePercent: 50,
		Drives:             []sysinfo.Drive{{Name: `C:\`, TotalGB: 500, FreeGB: 100, UsedGB: 400, UsagePercent: 80}},
	}
}

func fixed(info *sysinfo.Info, err error) Collector {
	return func(context.Context) (*sysinfo.Info, error) { return info, err }
}

func update(t *testing.T, m StatusModel, msg tea.Msg) (StatusModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(StatusModel)
	require.True(t, ok)
	return sm, cmd
}

func TestStatusCollects(t *testing.T) {
	m := NewStatusModel(0, fixed(sampleInfo(), nil))
	assert.Equal(t, DefaultRefresh, m.refreshInterval)
	assert.Contains(t, m.View(), "Loading...")

	msg := m.Init()()
	m, cmd := update(t, m, msg)

	require.NotNil(t, m.Info)
	assert.NotNil(t, cmd, "a tick is scheduled")
	assert.Equal(t, []float64{20}, m.CPUHistory)
	assert.Equal(t, []float64{50}, m.MemHistory)

	view := m.View()
	assert.Contains(t, view, "Test CPU")
	assert.Contains(t, view, "desk")
}

func TestStatusCollectError(t *testing.T) {
	m := NewStatusModel(0, fixed(nil, errors.New("wmi unavailable")))
	m, cmd := update(t, m, m.Init()())

	assert.Nil(t, m.Info)
	assert.NotNil(t, cmd)
	assert.ErrorContains(t, m.Err, "wmi unavailable")
	assert.Contains(t, m.View(), "wmi unavailable")
}

func TestStatusTabs(t *testing.T) {
	m := NewStatusModel(0, fixed(sampleInfo(), nil))
	m, _ = update(t, m, m.Init()())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabCPU, m.Tab)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabDisk, m.Tab)
	assert.Contains(t, m.View(), `C:\`)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	assert.Equal(t, TabMemory, m.Tab)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestHealthScore(t *testing.T) {
	assert.Equal(t, 0, HealthScore(nil))
	assert.Equal(t, 100, HealthScore(&sysinfo.Info{}))

	// 100 - 6 - 15 - (80-70)/30*40
	assert.Equal(t, 65, HealthScore(sampleInfo()))

	worst := &sysinfo.Info{CPUUsage: 100, MemoryUsagePercent: 100,
		Drives: []sysinfo.Drive{{UsagePercent: 100}}}
	assert.Equal(t, 0, HealthScore(worst))
}

func TestRenderSnapshot(t *testing.T) {
	out := RenderSnapshot(sampleInfo())

	assert.Contains(t, out, "Test CPU")
	assert.Contains(t, out, "8.0 GiB / 16 GiB")
	assert.Contains(t, out, `Drive C:\`)
	assert.Contains(t, out, "Health     65/100")
}

func TestAppendHistoryCaps(t *testing.T) {
	var h []float64
	for i := 0; i < historyLen+5; i++ {
		h = appendF64(h, float64(i), historyLen)
	}
	assert.Len(t, h, historyLen)
	assert.Equal(t, float64(5), h[0])
}

func TestGradeOf(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "EXCELLENT"},
		{90, "EXCELLENT"},
		{75, "GOOD"},
		{65, "FAIR"},
		{10, "CRITICAL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeOf(tt.score).label, "score %d", tt.score)
	}
}

func TestFullestDrive(t *testing.T) {
	_, ok := fullestDrive(nil)
	assert.False(t, ok)

	d, ok := fullestDrive([]sysinfo.Drive{
		{Name: `C:\`, UsagePercent: 40},
		{Name: `D:\`, UsagePercent: 91},
	})
	require.True(t, ok)
	assert.Equal(t, `D:\`, d.Name)
}

func TestOverviewShowsGrade(t *testing.T) {
	m := NewStatusModel(0, fixed(sampleInfo(), nil))
	m, _ = update(t, m, m.Init()())
	assert.Contains(t, m.View(), "65  FAIR")
}
