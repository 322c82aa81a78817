package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// DefaultMaxDepth bounds recursion when a scanner is built with depth <= 0.
const DefaultMaxDepth = 64

// Scanner walks directory trees and turns regular files into items. Entries
// it cannot read are skipped and counted rather than reported as errors.
// A Scanner may be shared by concurrent scans.
type Scanner struct {
	maxDepth int
	logger   *slog.Logger
	skipped  atomic.Int64
}

// NewScanner creates a scanner that descends at most maxDepth levels below
// each root. A nil logger uses slog.Default.
func NewScanner(maxDepth int, logger *slog.Logger) *Scanner {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{maxDepth: maxDepth, logger: logger}
}

// Skipped returns how many entries were skipped so far because they could
// not be read, or sat beyond the depth bound.
func (s *Scanner) Skipped() int64 {
	return s.skipped.Load()
}

// ScanDir returns one item per regular file under root, named
// "{displayName} - {file name}". A root that is missing, unreadable, or not
// a directory yields nothing.
func (s *Scanner) ScanDir(ctx context.Context, root, displayName string, category Category) []*Item {
	root, ok := s.dirRoot(root)
	if !ok {
		return nil
	}

	var items []*Item
	s.walk(ctx, root, 0, func(path string, info fs.FileInfo) {
		items = append(items, NewItem(
			fmt.Sprintf("%s - %s", displayName, info.Name()),
			path,
			path,
			info.Size(),
			category,
		))
	})
	return items
}

// DirSize sums the sizes of regular files under root with the same skipping
// rules as ScanDir. A missing root has size zero.
func (s *Scanner) DirSize(ctx context.Context, root string) int64 {
	root, ok := s.dirRoot(root)
	if !ok {
		return 0
	}

	var total int64
	s.walk(ctx, root, 0, func(_ string, info fs.FileInfo) {
		total += info.Size()
	})
	return total
}

// ScanFile returns an item for a single regular file, or nil when path is
// missing or is not a regular file.
func (s *Scanner) ScanFile(path, displayName string, category Category) *Item {
	path = absPath(path)
	info, err := os.Lstat(longPath(path))
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	return NewItem(fmt.Sprintf("%s - %s", displayName, info.Name()), path, path, info.Size(), category)
}

func (s *Scanner) dirRoot(root string) (string, bool) {
	if root == "" {
		return "", false
	}
	root = absPath(root)
	info, err := os.Stat(longPath(root))
	if err != nil || !info.IsDir() {
		return "", false
	}
	return root, true
}

// walk visits regular files below dir in directory-listing order. It never
// follows reparse points (junctions, symlinks), so cycles cannot form.
func (s *Scanner) walk(ctx context.Context, dir string, depth int, visit func(string, fs.FileInfo)) {
	if ctx.Err() != nil {
		return
	}

	// ReadDir returns whatever it managed to read alongside the error.
	entries, err := os.ReadDir(longPath(dir))
	if err != nil {
		s.skip(dir, err)
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		if e.IsDir() {
			if depth+1 > s.maxDepth {
				s.skip(path, errDepth)
				continue
			}
			if isReparsePoint(path) {
				continue
			}
			s.walk(ctx, path, depth+1, visit)
			continue
		}

		if !e.Type().IsRegular() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			// Vanished or locked since the listing; nothing to report.
			s.skip(path, err)
			continue
		}
		visit(path, info)
	}
}

var errDepth = errors.New("exceeds max depth")

func (s *Scanner) skip(path string, err error) {
	s.skipped.Add(1)
	s.logger.Debug("skipping entry", "path", path, "error", err)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// longPath adds the \\?\ prefix for paths exceeding MAX_PATH on Windows.
func longPath(path string) string {
	if filepath.Separator == '\\' && len(path) >= 260 && !strings.HasPrefix(path, `\\?\`) {
		return `\\?\` + filepath.Clean(path)
	}
	return path
}
