package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lakshaymaurya-felt/mechanic/internal/core"
)

// DefaultParallel is the number of catalog phases scanned at once when
// Options.Parallel is not set.
const DefaultParallel = 4

var (
	// ErrNotExist marks an item whose path was already gone at clean time.
	ErrNotExist = errors.New("path does not exist")

	// ErrProtectedPath marks an item whose path is a protected system location.
	ErrProtectedPath = errors.New("path is protected")

	// ErrEmptyPath marks an item without a path.
	ErrEmptyPath = errors.New("item has no path")
)

// Progress receives human-readable status lines. It may be nil.
type Progress func(msg string)

// FileSystem is the subset of os used for deletion.
type FileSystem interface {
	Lstat(name string) (fs.FileInfo, error)
	Remove(name string) error
	RemoveAll(name string) error
}

type osFS struct{}

func (osFS) Lstat(name string) (fs.FileInfo, error) { return os.Lstat(longPath(name)) }
func (osFS) Remove(name string) error                { return os.Remove(longPath(name)) }
func (osFS) RemoveAll(name string) error             { return os.RemoveAll(longPath(name)) }

// Options tunes an Engine. The zero value is usable.
type Options struct {
	Parallel  int
	MaxDepth  int
	Protected []string
	FS        FileSystem
	Logger    *slog.Logger
}

// Engine scans a catalog for reclaimable items and deletes selections. It
// holds no state between calls, so each Scan reflects the disk as it is.
type Engine struct {
	catalog   []Phase
	parallel  int
	protected []string
	fs        FileSystem
	scanner   *Scanner
	logger    *slog.Logger
}

// NewEngine returns an engine over catalog.
func NewEngine(catalog []Phase, opts Options) *Engine {
	if opts.Parallel <= 0 {
		opts.Parallel = DefaultParallel
	}
	if opts.FS == nil {
		opts.FS = osFS{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		catalog:   catalog,
		parallel:  opts.Parallel,
		protected: opts.Protected,
		fs:        opts.FS,
		scanner:   NewScanner(opts.MaxDepth, opts.Logger),
		logger:    opts.Logger,
	}
}

// Skipped returns how many entries scans have skipped so far.
func (e *Engine) Skipped() int64 { return e.scanner.Skipped() }

// ─── Scan ────────────────────────────────────────────────────────────────────

// Scan enumerates every catalog location and returns the items found, in
// catalog order. Locations that are missing or unreadable contribute nothing.
// Each phase reports its message once before it starts.
func (e *Engine) Scan(ctx context.Context, progress Progress) []*Item {
	report := e.reporter(progress)
	slots := make([][]*Item, len(e.catalog))

	var g errgroup.Group
	g.SetLimit(e.parallel)
	for i, phase := range e.catalog {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			report(phase.Message)
			slots[i] = e.scanPhase(ctx, phase)
			return nil
		})
	}
	_ = g.Wait()

	var items []*Item
	for _, s := range slots {
		items = append(items, s...)
	}
	e.logger.Debug("scan finished", "items", len(items), "skipped", e.scanner.Skipped())
	return items
}

// TotalCleanupSize re-scans the catalog and sums the sizes found.
func (e *Engine) TotalCleanupSize(ctx context.Context) int64 {
	var total int64
	for _, it := range e.Scan(ctx, nil) {
		total += it.SizeBytes
	}
	return total
}

func (e *Engine) scanPhase(ctx context.Context, phase Phase) []*Item {
	var items []*Item
	for _, t := range phase.Targets {
		if ctx.Err() != nil {
			break
		}
		switch t.Kind {
		case KindDirectory:
			items = append(items, e.scanner.ScanDir(ctx, t.Root, t.Name, t.Category)...)
		case KindProfiles:
			items = append(items, e.scanProfiles(ctx, t)...)
		case KindAggregate:
			if size := e.scanner.DirSize(ctx, t.Root); size > 0 {
				items = append(items, NewItem(t.Name, t.Description, absPath(t.Root), size, t.Category))
			}
		case KindFile:
			if it := e.scanner.ScanFile(t.Root, t.Name, t.Category); it != nil {
				items = append(items, it)
			}
		}
	}
	return items
}

// scanProfiles scans t.Subdir inside every profile directory under t.Root.
func (e *Engine) scanProfiles(ctx context.Context, t Target) []*Item {
	entries, err := os.ReadDir(longPath(t.Root))
	if err != nil {
		e.logger.Debug("no profiles", "root", t.Root, "error", err)
		return nil
	}

	var items []*Item
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		profile := filepath.Join(t.Root, entry.Name())
		if isReparsePoint(profile) {
			continue
		}
		items = append(items, e.scanner.ScanDir(ctx, filepath.Join(profile, t.Subdir), t.Name, t.Category)...)
	}
	return items
}

// ─── Clean ───────────────────────────────────────────────────────────────────

// Outcome is the per-item result of a clean.
type Outcome int

const (
	Deleted Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ItemResult records what happened to one selected item. Err is nil for
// Deleted, a sentinel or ctx error for Skipped, and the delete error for
// Failed.
type ItemResult struct {
	Item    *Item
	Outcome Outcome
	Err     error
}

// CleanResult summarizes a clean.
type CleanResult struct {
	BytesFreed int64
	Deleted    int
	Skipped    int
	Failed     int
	Results    []ItemResult
}

func (r *CleanResult) record(it *Item, o Outcome, err error) {
	switch o {
	case Deleted:
		r.Deleted++
		r.BytesFreed += it.SizeBytes
	case Skipped:
		r.Skipped++
	case Failed:
		r.Failed++
	}
	r.Results = append(r.Results, ItemResult{Item: it, Outcome: o, Err: err})
}

// Clean deletes the items that are selected at call time, one attempt each,
// and never stops at the first failure. Files are removed; directories are
// removed recursively. BytesFreed counts only items actually deleted, so
// cleaning the same items twice frees nothing the second time. Once ctx is
// cancelled the remaining items are reported Skipped.
func (e *Engine) Clean(ctx context.Context, items []*Item, progress Progress) CleanResult {
	report := e.reporter(progress)

	var selected []*Item
	for _, it := range items {
		if it != nil && it.IsSelected() {
			selected = append(selected, it)
		}
	}

	res := CleanResult{Results: make([]ItemResult, 0, len(selected))}
	for _, it := range selected {
		if err := ctx.Err(); err != nil {
			res.record(it, Skipped, err)
			continue
		}
		report("Cleaning: " + it.Name)
		o, err := e.remove(it)
		if o == Failed {
			e.logger.Debug("delete failed", "path", it.Path, "error", err)
		}
		res.record(it, o, err)
	}

	e.logger.Debug("clean finished",
		"deleted", res.Deleted, "skipped", res.Skipped, "failed", res.Failed, "freed", res.BytesFreed)
	return res
}

func (e *Engine) remove(it *Item) (Outcome, error) {
	if it.Path == "" {
		return Skipped, ErrEmptyPath
	}
	if core.IsProtectedPath(it.Path, e.protected) {
		return Skipped, ErrProtectedPath
	}

	info, err := e.fs.Lstat(it.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Skipped, ErrNotExist
	}
	if err != nil {
		return Failed, goerr.Wrap(err, "failed to stat item", goerr.V("path", it.Path))
	}

	if info.IsDir() {
		err = e.fs.RemoveAll(it.Path)
	} else {
		err = e.fs.Remove(it.Path)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Skipped, ErrNotExist
	case err != nil:
		return Failed, goerr.Wrap(err, "failed to delete item", goerr.V("path", it.Path))
	}
	return Deleted, nil
}

// reporter serializes calls into progress, which may be hit from several
// scan phases at once.
func (e *Engine) reporter(progress Progress) Progress {
	if progress == nil {
		return func(string) {}
	}
	var mu sync.Mutex
	return func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		progress(msg)
	}
}
