// Package cleanview is the interactive cleaner: scan, browse groups, toggle
// selections and clean, with a plain table printer for non-interactive use.
package cleanview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/mechanic/internal/cleanup"
	"github.com/lakshaymaurya-felt/mechanic/internal/core"
	"github.com/lakshaymaurya-felt/mechanic/internal/ui"
)

// Engine is the part of cleanup.Engine the view drives.
type Engine interface {
	Scan(ctx context.Context, progress cleanup.Progress) []*cleanup.Item
	Clean(ctx context.Context, items []*cleanup.Item, progress cleanup.Progress) cleanup.CleanResult
}

// ─── Messages ────────────────────────────────────────────────────────────────

type progressMsg string

type scanDoneMsg struct {
	items []*cleanup.Item
}

type cleanDoneMsg struct {
	result cleanup.CleanResult
}

// ─── Key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Expand  key.Binding
	All     key.Binding
	None    key.Binding
	Clean   key.Binding
	Confirm key.Binding
	Rescan  key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Expand:  key.NewBinding(key.WithKeys("enter", "right", "l", "left", "h"), key.WithHelp("enter", "expand")),
		All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		None:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "none")),
		Clean:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clean")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Rescan:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ─── Selection tally ─────────────────────────────────────────────────────────

// tally keeps the header counters current through selection listeners, so
// the view never re-walks every item on render. It is shared by pointer
// between model copies.
type tally struct {
	items        int
	selected     int
	totalSize    int64
	selectedSize int64
}

func (t *tally) track(it *cleanup.Item) {
	t.items++
	t.totalSize += it.SizeBytes
	if it.IsSelected() {
		t.selected++
		t.selectedSize += it.SizeBytes
	}
	it.OnSelectionChanged(func(it *cleanup.Item) {
		if it.IsSelected() {
			t.selected++
			t.selectedSize += it.SizeBytes
		} else {
			t.selected--
			t.selectedSize -= it.SizeBytes
		}
	})
}

// ─── Model ───────────────────────────────────────────────────────────────────

type mode int

const (
	modeScanning mode = iota
	modeBrowse
	modeConfirm
	modeCleaning
)

// row is one visible line: a group header when item is nil.
type row struct {
	group *cleanup.Group
	item  *cleanup.Item
}

// Model is the bubbletea Model for the interactive cleaner.
type Model struct {
	engine Engine
	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	mode     mode
	keys     keyMap
	spinner  spinner.Model
	bar      progress.Model
	groups   []*cleanup.Group
	expanded map[cleanup.Category]bool
	tally    *tally
	cursor   int
	offset   int
	width    int
	height   int
	status   string
	quitting bool

	cleanTotal int
	cleanDone  int
	lastClean  *cleanup.CleanResult
}

// New returns a cleaner view that starts scanning when the program starts.
func New(ctx context.Context, engine Engine) Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = s.Style.Foreground(ui.ColorPrimary)

	return Model{
		engine:   engine,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan tea.Msg, 64),
		mode:     modeScanning,
		keys:     defaultKeys(),
		spinner:  s,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		expanded: make(map[cleanup.Category]bool),
		tally:    &tally{},
		width:    80,
		height:   24,
		status:   "Ready to scan",
	}
}

// LastClean returns the summary of the most recent clean, if any.
func (m Model) LastClean() *cleanup.CleanResult { return m.lastClean }

// Groups returns the groups from the latest scan.
func (m Model) Groups() []*cleanup.Group { return m.groups }

// ─── Background work ─────────────────────────────────────────────────────────

// run starts fn on its own goroutine and returns a command yielding the first
// event. Progress lines and the final message travel over m.events; every
// handled progressMsg re-arms listen.
func (m Model) run(fn func(report cleanup.Progress) tea.Msg) tea.Cmd {
	ctx, ch := m.ctx, m.events
	send := func(msg tea.Msg) {
		select {
		case ch <- msg:
		case <-ctx.Done():
		}
	}
	return func() tea.Msg {
		go func() {
			send(fn(func(line string) { send(progressMsg(line)) }))
		}()
		return m.listen()()
	}
}

func (m Model) listen() tea.Cmd {
	ctx, ch := m.ctx, m.events
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) scan() tea.Cmd {
	eng, ctx := m.engine, m.ctx
	return m.run(func(report cleanup.Progress) tea.Msg {
		return scanDoneMsg{items: eng.Scan(ctx, report)}
	})
}

func (m Model) clean(items []*cleanup.Item) tea.Cmd {
	eng, ctx := m.engine, m.ctx
	return m.run(func(report cleanup.Progress) tea.Msg {
		return cleanDoneMsg{result: eng.Clean(ctx, items, report)}
	})
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scan())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(msg.Width-10, 60))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		if bar, ok := next.(progress.Model); ok {
			m.bar = bar
		}
		return m, cmd

	case progressMsg:
		m.status = string(msg)
		if m.mode == modeCleaning {
			m.cleanDone++
		}
		return m, m.listen()

	case scanDoneMsg:
		m.setItems(msg.items)
		m.mode = modeBrowse
		m.status = fmt.Sprintf("Found %d items (%s)", m.tally.items, core.FormatSize(m.tally.totalSize))
		return m, nil

	case cleanDoneMsg:
		res := msg.result
		m.lastClean = &res
		m.mode = modeScanning
		m.status = "Rescanning..."
		return m, m.scan()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── Key handling ────────────────────────────────────────────────────────────

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.mode == modeConfirm && msg.String() == "esc" {
			m.mode = modeBrowse
			m.status = "Clean cancelled"
			return m, nil
		}
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}

	switch m.mode {
	case modeScanning, modeCleaning:
		return m, nil

	case modeConfirm:
		if key.Matches(msg, m.keys.Confirm) {
			items := cleanup.SelectedItems(m.groups)
			m.mode = modeCleaning
			m.cleanTotal = len(items)
			m.cleanDone = 0
			m.status = "Cleaning..."
			return m, m.clean(items)
		}
		m.mode = modeBrowse
		m.status = "Clean cancelled"
		return m, nil
	}

	rows := m.rows()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(rows) {
			r := rows[m.cursor]
			if r.item == nil {
				r.group.SetSelected(!r.group.IsSelected())
			} else {
				r.item.SetSelected(!r.item.IsSelected())
			}
		}

	case key.Matches(msg, m.keys.Expand):
		if m.cursor < len(rows) {
			cat := rows[m.cursor].group.Category()
			m.expanded[cat] = !m.expanded[cat]
			m.cursor = m.headerIndex(cat)
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.All):
		cleanup.SelectAll(m.groups, true)

	case key.Matches(msg, m.keys.None):
		cleanup.SelectAll(m.groups, false)

	case key.Matches(msg, m.keys.Clean):
		if m.tally.selected == 0 {
			m.status = "No items selected for cleanup"
			return m, nil
		}
		m.mode = modeConfirm
		m.status = fmt.Sprintf("Delete %d items (%s)? y to confirm",
			m.tally.selected, core.FormatSize(m.tally.selectedSize))

	case key.Matches(msg, m.keys.Rescan):
		m.mode = modeScanning
		m.status = "Scanning..."
		return m, m.scan()
	}

	return m, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m *Model) setItems(items []*cleanup.Item) {
	t := &tally{}
	groups := cleanup.GroupItems(items)
	for _, g := range groups {
		for _, it := range g.Items() {
			t.track(it)
		}
		g.OnItemAdded(t.track)
	}
	m.groups = groups
	m.tally = t
	m.cursor = 0
	m.offset = 0
}

// rows flattens groups into headers plus the items of expanded groups.
func (m Model) rows() []row {
	var out []row
	for _, g := range m.groups {
		out = append(out, row{group: g})
		if m.expanded[g.Category()] {
			for _, it := range g.Items() {
				out = append(out, row{group: g, item: it})
			}
		}
	}
	return out
}

func (m Model) headerIndex(cat cleanup.Category) int {
	for i, r := range m.rows() {
		if r.item == nil && r.group.Category() == cat {
			return i
		}
	}
	return 0
}

func (m *Model) ensureVisible() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m Model) viewportHeight() int {
	return max(m.height-8, 1) // header (4) + footer (3) + padding
}
