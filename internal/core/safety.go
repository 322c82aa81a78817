package core

import (
	"path/filepath"
	"strings"
)

// IsProtectedPath reports whether path names one of the protected locations
// itself. Comparison is on cleaned paths and ignores case, since Windows
// paths are case-insensitive. Paths nested below a protected location are
// not protected.
func IsProtectedPath(path string, protected []string) bool {
	if path == "" {
		return false
	}
	key := normalize(path)
	for _, p := range protected {
		if p == "" {
			continue
		}
		if normalize(p) == key {
			return true
		}
	}
	return false
}

// SamePath reports whether a and b name the same location, ignoring case and
// trailing separators.
func SamePath(a, b string) bool {
	return normalize(a) == normalize(b)
}

func normalize(p string) string {
	c := filepath.Clean(p)
	if len(c) > 1 {
		c = strings.TrimRight(c, `\/`)
		if c == "" {
			c = string(filepath.Separator)
		}
	}
	return strings.ToLower(c)
}
