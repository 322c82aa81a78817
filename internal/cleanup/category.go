// Package cleanup discovers reclaimable files across the cleaner's locations,
// groups them by category for selection, and deletes the selected subset on a
// best-effort basis.
package cleanup

import (
	"fmt"
	"strings"
)

// Category classifies what kind of artifact an item is. It is fixed when the
// item is created.
type Category int

const (
	TemporaryFiles Category = iota
	RecycleBin
	BrowserCache
	ThumbnailCache
	ErrorReports
	WindowsLogs
	MemoryDumps
)

var categoryInfo = []struct {
	key   string
	label string
}{
	TemporaryFiles: {"temp", "Temporary Files"},
	RecycleBin:     {"recycle", "Recycle Bin"},
	BrowserCache:   {"browser", "Browser Cache"},
	ThumbnailCache: {"thumbnails", "Thumbnail Cache"},
	ErrorReports:   {"errors", "Error Reports"},
	WindowsLogs:    {"logs", "Windows Logs"},
	MemoryDumps:    {"dumps", "Memory Dumps"},
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categoryInfo))
	for i := range categoryInfo {
		out[i] = Category(i)
	}
	return out
}

func (c Category) valid() bool {
	return c >= 0 && int(c) < len(categoryInfo)
}

// String returns the display label, e.g. "Browser Cache".
func (c Category) String() string {
	if !c.valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryInfo[c].label
}

// Key returns the short command-line name, e.g. "browser".
func (c Category) Key() string {
	if !c.valid() {
		return ""
	}
	return categoryInfo[c].key
}

// MarshalText encodes the category by its key so reports stay readable.
func (c Category) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.Key()), nil
}

// ParseCategory accepts a key ("browser") or a label ("Browser Cache"),
// ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, info := range categoryInfo {
		if want == info.key || want == strings.ToLower(info.label) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
