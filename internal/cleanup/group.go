package cleanup

// Group is an ordered set of items sharing one category, with a group-level
// selection flag.
//
// The flag cascades one way. Writing it assigns the same value to every
// member present at write time. Toggling a member never rewrites the flag,
// so it reflects the last group-level command rather than the members.
type Group struct {
	Title    string
	category Category
	items    []*Item
	selected bool

	selection listeners[*Group]
	added     listeners[*Item]
}

// NewGroup returns an empty, selected group titled after its category.
func NewGroup(category Category) *Group {
	return &Group{
		Title:    category.String(),
		category: category,
		selected: true,
	}
}

// Category returns the category shared by the group's members.
func (g *Group) Category() Category { return g.category }

// Items returns the members in insertion order. The slice is a copy; the
// items are not.
func (g *Group) Items() []*Item {
	return append([]*Item(nil), g.items...)
}

// Len returns the number of members.
func (g *Group) Len() int { return len(g.items) }

// Add appends item and notifies OnItemAdded listeners. The item keeps its
// own selection state.
func (g *Group) Add(item *Item) {
	g.items = append(g.items, item)
	g.added.notify(item)
}

// IsSelected returns the flag set by the last group-level write.
func (g *Group) IsSelected() bool { return g.selected }

// SetSelected sets the group flag and assigns v to every current member
// before returning, even when the flag already equals v. Group listeners run
// when the flag changes; item listeners run for each member that changes.
func (g *Group) SetSelected(v bool) {
	changed := g.selected != v
	g.selected = v
	for _, it := range g.items {
		it.SetSelected(v)
	}
	if changed {
		g.selection.notify(g)
	}
}

// OnSelectionChanged registers fn to run after the group flag flips.
func (g *Group) OnSelectionChanged(fn func(*Group)) (unsubscribe func()) {
	return g.selection.add(fn)
}

// OnItemAdded registers fn to run after a member is appended.
func (g *Group) OnItemAdded(fn func(*Item)) (unsubscribe func()) {
	return g.added.add(fn)
}

// TotalSize sums the recorded sizes of all members.
func (g *Group) TotalSize() int64 {
	var total int64
	for _, it := range g.items {
		total += it.SizeBytes
	}
	return total
}

// SelectedCount counts members that are selected.
func (g *Group) SelectedCount() int {
	n := 0
	for _, it := range g.items {
		if it.selected {
			n++
		}
	}
	return n
}

// SelectedSize sums the sizes of selected members.
func (g *Group) SelectedSize() int64 {
	var total int64
	for _, it := range g.items {
		if it.selected {
			total += it.SizeBytes
		}
	}
	return total
}

// ─── Aggregation over groups ─────────────────────────────────────────────────

// GroupItems builds one group per distinct category, ordered by the first
// appearance of each category in items. Item order is preserved.
func GroupItems(items []*Item) []*Group {
	var groups []*Group
	index := make(map[Category]*Group)
	for _, it := range items {
		g, ok := index[it.category]
		if !ok {
			g = NewGroup(it.category)
			index[it.category] = g
			groups = append(groups, g)
		}
		g.Add(it)
	}
	return groups
}

// TotalSize sums every item size across groups.
func TotalSize(groups []*Group) int64 {
	var total int64
	for _, g := range groups {
		total += g.TotalSize()
	}
	return total
}

// SelectedCount counts selected items across groups.
func SelectedCount(groups []*Group) int {
	n := 0
	for _, g := range groups {
		n += g.SelectedCount()
	}
	return n
}

// SelectedSize sums selected item sizes across groups.
func SelectedSize(groups []*Group) int64 {
	var total int64
	for _, g := range groups {
		total += g.SelectedSize()
	}
	return total
}

// SelectedItems snapshots the selected items across groups, in group order.
func SelectedItems(groups []*Group) []*Item {
	var out []*Item
	for _, g := range groups {
		for _, it := range g.items {
			if it.selected {
				out = append(out, it)
			}
		}
	}
	return out
}

// SelectAll issues a group-level write of v on every group.
func SelectAll(groups []*Group, v bool) {
	for _, g := range groups {
		g.SetSelected(v)
	}
}
