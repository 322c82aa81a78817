//go:build !windows

package cleanup

import (
	"io/fs"
	"os"
)

// isReparsePoint reports whether path is a symlink.
func isReparsePoint(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}
