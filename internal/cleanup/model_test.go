package cleanup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory(t *testing.T) {
	t.Run("labels and keys", func(t *testing.T) {
		assert.Equal(t, "Browser Cache", BrowserCache.String())
		assert.Equal(t, "browser", BrowserCache.Key())
		assert.Equal(t, "Category(99)", Category(99).String())
		assert.Len(t, Categories(), 7)
	})

	t.Run("parse", func(t *testing.T) {
		tests := []struct {
			in   string
			want Category
		}{
			{"temp", TemporaryFiles},
			{"Recycle Bin", RecycleBin},
			{"  THUMBNAILS ", ThumbnailCache},
			{"memory dumps", MemoryDumps},
		}
		for _, tt := range tests {
			got, err := ParseCategory(tt.in)
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got, tt.in)
		}

		_, err := ParseCategory("cookies")
		assert.Error(t, err)
	})

	t.Run("text marshaling", func(t *testing.T) {
		b, err := WindowsLogs.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "logs", string(b))

		_, err = Category(-1).MarshalText()
		assert.Error(t, err)
	})
}

func TestNewItem(t *testing.T) {
	it := NewItem("n", "d", "/p", -5, ErrorReports)

	assert.True(t, it.IsSelected())
	assert.Equal(t, int64(0), it.SizeBytes)
	assert.Equal(t, ErrorReports, it.Category())
}

func TestItemSelectionListeners(t *testing.T) {
	it := NewItem("n", "d", "/p", 1, TemporaryFiles)

	var calls int
	unsubscribe := it.OnSelectionChanged(func(*Item) { calls++ })

	it.SetSelected(true) // unchanged
	assert.Equal(t, 0, calls)

	it.SetSelected(false)
	assert.Equal(t, 1, calls)

	unsubscribe()
	it.SetSelected(true)
	assert.Equal(t, 1, calls)
}

func newTestGroup(n int, selected ...bool) *Group {
	g := NewGroup(TemporaryFiles)
	for i := 0; i < n; i++ {
		it := NewItem("f", "", "/f", int64(i+1), TemporaryFiles)
		if i < len(selected) {
			it.SetSelected(selected[i])
		}
		g.Add(it)
	}
	return g
}

func TestGroupCascade(t *testing.T) {
	t.Run("new group is selected and titled", func(t *testing.T) {
		g := NewGroup(BrowserCache)
		assert.True(t, g.IsSelected())
		assert.Equal(t, "Browser Cache", g.Title)
	})

	t.Run("true from mixed state selects every member", func(t *testing.T) {
		g := newTestGroup(4, true, false, false, true)
		require.True(t, g.IsSelected())

		g.SetSelected(true)

		assert.Equal(t, 4, g.SelectedCount())
	})

	t.Run("false deselects every member", func(t *testing.T) {
		g := newTestGroup(3)
		g.SetSelected(false)

		assert.False(t, g.IsSelected())
		assert.Equal(t, 0, g.SelectedCount())
	})

	t.Run("empty group updates its own flag", func(t *testing.T) {
		g := NewGroup(WindowsLogs)
		g.SetSelected(false)
		assert.False(t, g.IsSelected())
		g.SetSelected(true)
		assert.True(t, g.IsSelected())
	})

	t.Run("item toggles never rewrite the group flag", func(t *testing.T) {
		g := newTestGroup(2)
		for _, it := range g.Items() {
			it.SetSelected(false)
		}
		assert.True(t, g.IsSelected())
	})

	t.Run("members added later keep their own state", func(t *testing.T) {
		g := newTestGroup(1)
		g.SetSelected(false)

		late := NewItem("late", "", "/late", 1, TemporaryFiles)
		g.Add(late)

		assert.True(t, late.IsSelected())
		assert.False(t, g.IsSelected())
	})

	t.Run("listeners", func(t *testing.T) {
		g := newTestGroup(2)
		var groupCalls, itemCalls, added int
		g.OnSelectionChanged(func(*Group) { groupCalls++ })
		g.OnItemAdded(func(*Item) { added++ })
		for _, it := range g.Items() {
			it.OnSelectionChanged(func(*Item) { itemCalls++ })
		}

		g.SetSelected(true)
		assert.Equal(t, 0, groupCalls)
		assert.Equal(t, 0, itemCalls)

		g.SetSelected(false)
		assert.Equal(t, 1, groupCalls)
		assert.Equal(t, 2, itemCalls)

		g.Add(NewItem("x", "", "/x", 1, TemporaryFiles))
		assert.Equal(t, 1, added)
	})
}

func TestGroupAggregates(t *testing.T) {
	items := []*Item{
		NewItem("a", "", "/a", 10, TemporaryFiles),
		NewItem("b", "", "/b", 20, BrowserCache),
		NewItem("c", "", "/c", 30, TemporaryFiles),
		NewItem("d", "", "/d", 40, RecycleBin),
	}
	items[2].SetSelected(false)

	groups := GroupItems(items)
	require.Len(t, groups, 3)
	assert.Equal(t, TemporaryFiles, groups[0].Category())
	assert.Equal(t, BrowserCache, groups[1].Category())
	assert.Equal(t, RecycleBin, groups[2].Category())
	assert.Equal(t, []*Item{items[0], items[2]}, groups[0].Items())

	assert.Equal(t, int64(100), TotalSize(groups))
	assert.Equal(t, 3, SelectedCount(groups))
	assert.Equal(t, int64(70), SelectedSize(groups))
	assert.Equal(t, []*Item{items[0], items[1], items[3]}, SelectedItems(groups))

	SelectAll(groups, false)
	assert.Equal(t, 0, SelectedCount(groups))
	assert.Empty(t, SelectedItems(groups))

	SelectAll(groups, true)
	assert.Equal(t, 4, SelectedCount(groups))
}

func TestGroupItemsCopy(t *testing.T) {
	g := newTestGroup(2)
	out := g.Items()
	out[0] = nil

	assert.NotNil(t, g.Items()[0])
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, int64(3), g.TotalSize())
}
