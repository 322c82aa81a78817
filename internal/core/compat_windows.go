//go:build windows

package core

import "golang.org/x/sys/windows"

// OSVersionString returns the running Windows release, e.g.
// "Windows 11 (Build 22621)". RtlGetNtVersionNumbers needs no compatibility
// manifest, unlike GetVersionEx.
func OSVersionString() string {
	major, minor, build := windows.RtlGetNtVersionNumbers()
	return WindowsRelease(major, minor, build&0xFFFF)
}
