//go:build windows

package sysinfo

import (
	"context"
	"errors"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

type win32Processor struct {
	Name string
}

// processorName reads the marketing name from WMI, e.g.
// "Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz".
func processorName(context.Context) (string, error) {
	var dst []win32Processor
	if err := wmi.Query("SELECT Name FROM Win32_Processor", &dst); err != nil {
		return "", err
	}
	if len(dst) == 0 {
		return "", errors.New("no Win32_Processor instances")
	}
	return dst[0].Name, nil
}

// isFixedDrive reports whether the volume at mountpoint is a local hard disk.
func isFixedDrive(mountpoint string) bool {
	root := mountpoint
	if len(root) == 2 && root[1] == ':' {
		root += `\`
	}
	p, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return false
	}
	return windows.GetDriveType(p) == windows.DRIVE_FIXED
}
