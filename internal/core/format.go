package core

import (
	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count in binary units ("15 MiB"). Negative counts
// render as zero.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
