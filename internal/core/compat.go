package core

import "fmt"

// win11Build is the first Windows 11 build; both releases report NT 10.0.
const win11Build = 22000

var ntReleases = []struct {
	major, minor uint32
	name         string
}{
	{6, 3, "Windows 8.1"},
	{6, 2, "Windows 8"},
	{6, 1, "Windows 7"},
}

// WindowsRelease names an NT version triple, falling back to "Windows M.m"
// for versions it does not know.
func WindowsRelease(major, minor, build uint32) string {
	name := fmt.Sprintf("Windows %d.%d", major, minor)
	if major == 10 {
		name = "Windows 10"
		if build >= win11Build {
			name = "Windows 11"
		}
	}
	for _, r := range ntReleases {
		if r.major == major && r.minor == minor {
			name = r.name
		}
	}
	return fmt.Sprintf("%s (Build %d)", name, build)
}
