//go:build !windows

package sysinfo

import (
	"context"
	"errors"
)

func processorName(context.Context) (string, error) {
	return "", errors.New("processor name needs WMI")
}

// isFixedDrive accepts every partition; gopsutil already leaves out pseudo
// filesystems when asked for physical partitions only.
func isFixedDrive(string) bool { return true }
