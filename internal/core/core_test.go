package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"kibibytes", 1536, "1.5 KiB"},
		{"mebibytes", 15 << 20, "15 MiB"},
		{"negative clamps", -10, "0 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.bytes))
		})
	}
}

func TestIsProtectedPath(t *testing.T) {
	root := t.TempDir()
	win := filepath.Join(root, "Windows")
	protected := []string{win, filepath.Join(win, "System32"), ""}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"exact", win, true},
		{"case-insensitive", filepath.Join(root, "WINDOWS"), true},
		{"trailing separator", win + string(filepath.Separator), true},
		{"nested child is not protected", filepath.Join(win, "Temp", "x.tmp"), false},
		{"unrelated", filepath.Join(root, "Other"), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProtectedPath(tt.path, protected))
		})
	}
}

func TestSamePath(t *testing.T) {
	assert.True(t, SamePath("/a/b/", "/A/b"))
	assert.True(t, SamePath("/a/./b", "/a/b"))
	assert.False(t, SamePath("/a/b", "/a/c"))
}

func TestWindowsRelease(t *testing.T) {
	tests := []struct {
		major, minor, build uint32
		want                string
	}{
		{10, 0, 22631, "Windows 11 (Build 22631)"},
		{10, 0, 19045, "Windows 10 (Build 19045)"},
		{6, 3, 9600, "Windows 8.1 (Build 9600)"},
		{6, 1, 7601, "Windows 7 (Build 7601)"},
		{5, 1, 2600, "Windows 5.1 (Build 2600)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowsRelease(tt.major, tt.minor, tt.build))
		})
	}
}
