//go:build !windows

package core

import (
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// OSVersionString returns the platform name and version reported by the host,
// e.g. "ubuntu 24.04". It returns "" when the host cannot be queried.
func OSVersionString() string {
	platform, _, version, err := host.PlatformInformation()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(platform + " " + version)
}
