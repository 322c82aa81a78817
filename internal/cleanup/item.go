package cleanup

// Item is one reclaimable unit: a single file, or an aggregate such as the
// Recycle Bin that is deleted as a whole directory.
//
// New items are selected. Doing nothing and pressing clean removes
// everything found; callers that want opt-in behavior deselect first.
type Item struct {
	Name        string
	Description string
	Path        string
	SizeBytes   int64

	category  Category
	selected  bool
	listeners listeners[*Item]
}

// NewItem returns a selected item. Negative sizes are clamped to zero.
func NewItem(name, description, path string, size int64, category Category) *Item {
	if size < 0 {
		size = 0
	}
	return &Item{
		Name:        name,
		Description: description,
		Path:        path,
		SizeBytes:   size,
		category:    category,
		selected:    true,
	}
}

// Category returns the item's category.
func (i *Item) Category() Category { return i.category }

// IsSelected reports whether the item is marked for cleaning.
func (i *Item) IsSelected() bool { return i.selected }

// SetSelected marks or unmarks the item. Listeners run only on change.
// It does not touch the owning group's flag.
func (i *Item) SetSelected(v bool) {
	if i.selected == v {
		return
	}
	i.selected = v
	i.listeners.notify(i)
}

// OnSelectionChanged registers fn to run after the item's selection flips.
// The returned func removes the registration.
func (i *Item) OnSelectionChanged(fn func(*Item)) (unsubscribe func()) {
	return i.listeners.add(fn)
}

// listeners is a small ordered registry of callbacks. It is not safe for
// concurrent use; the model is mutated by one operation at a time.
type listeners[T any] struct {
	next int
	fns  []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

func (l *listeners[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	id := l.next
	l.next++
	l.fns = append(l.fns, listener[T]{id: id, fn: fn})
	return func() {
		for i, e := range l.fns {
			if e.id == id {
				l.fns = append(l.fns[:i], l.fns[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners[T]) notify(v T) {
	for _, e := range append([]listener[T](nil), l.fns...) {
		e.fn(v)
	}
}
