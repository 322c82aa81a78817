//go:build windows

package cleanup

import "syscall"

// isReparsePoint reports whether path is a junction or symlink
// (FILE_ATTRIBUTE_REPARSE_POINT).
func isReparsePoint(path string) bool {
	pathp, err := syscall.UTF16PtrFromString(longPath(path))
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(pathp)
	if err != nil {
		return false
	}
	const fileAttributeReparsePoint = 0x0400
	return attrs&fileAttributeReparsePoint != 0
}
