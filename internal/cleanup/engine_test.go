package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mb = 1 << 20

func dirPhase(msg, name, root string, cat Category) Phase {
	return Phase{Message: msg, Targets: []Target{{Name: name, Root: root, Category: cat}}}
}

// failingFS deletes through the real filesystem except for paths in fail.
type failingFS struct {
	osFS
	fail map[string]bool
}

func (f failingFS) Remove(name string) error {
	if f.fail[name] {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrPermission}
	}
	return f.osFS.Remove(name)
}

func TestEngineScanAndClean(t *testing.T) {
	temp := t.TempDir()
	browser := t.TempDir()
	writeFile(t, filepath.Join(temp, "big.tmp"), 10*mb)
	writeFile(t, filepath.Join(temp, "sub", "mid.tmp"), 5*mb)
	writeFile(t, filepath.Join(browser, "cache_0"), 2*mb)

	e := NewEngine([]Phase{
		dirPhase("Scanning temp...", "Temp", temp, TemporaryFiles),
		dirPhase("Scanning browsers...", "Chrome Cache", browser, BrowserCache),
	}, Options{})
	ctx := context.Background()

	items := e.Scan(ctx, nil)
	require.Len(t, items, 3)
	assert.Equal(t, int64(17*mb), e.TotalCleanupSize(ctx))

	groups := GroupItems(items)
	require.Len(t, groups, 2)
	assert.Equal(t, int64(17*mb), TotalSize(groups))
	groups[1].SetSelected(false)

	res := e.Clean(ctx, items, nil)
	assert.Equal(t, int64(15*mb), res.BytesFreed)
	assert.Equal(t, 2, res.Deleted)
	assert.Zero(t, res.Failed)
	assert.Len(t, res.Results, 2)

	left := e.Scan(ctx, nil)
	require.Len(t, left, 1)
	assert.Equal(t, BrowserCache, left[0].Category())
	assert.Equal(t, "Chrome Cache - cache_0", left[0].Name)
}

func TestEngineScanKeepsCatalogOrder(t *testing.T) {
	var phases []Phase
	var want []string
	for i := 0; i < 8; i++ {
		root := t.TempDir()
		name := string(rune('a' + i))
		writeFile(t, filepath.Join(root, name), int64(i+1))
		phases = append(phases, dirPhase("phase "+name, "P", root, Categories()[i%len(Categories())]))
		want = append(want, "P - "+name)
	}

	items := NewEngine(phases, Options{Parallel: 8}).Scan(context.Background(), nil)

	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, it.Name)
	}
	assert.Equal(t, want, got)
}

func TestEngineProgress(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(a, "one"), 1)
	writeFile(t, filepath.Join(b, "two"), 1)

	e := NewEngine([]Phase{
		dirPhase("Scanning Windows Temp files...", "Windows Temp Files", a, TemporaryFiles),
		dirPhase("Scanning Windows logs...", "Windows Logs", b, WindowsLogs),
	}, Options{Parallel: 1})

	var mu sync.Mutex
	var got []string
	sink := func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
	}

	items := e.Scan(context.Background(), sink)
	e.Clean(context.Background(), items, sink)

	assert.Equal(t, []string{
		"Scanning Windows Temp files...",
		"Scanning Windows logs...",
		"Cleaning: Windows Temp Files - one",
		"Cleaning: Windows Logs - two",
	}, got)
}

func TestEngineRecycleBinAggregate(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "$Recycle.Bin")
	phase := Phase{Message: "Scanning Recycle Bin...", Targets: []Target{{
		Name: "Recycle Bin", Description: "Empty Recycle Bin",
		Root: bin, Category: RecycleBin, Kind: KindAggregate,
	}}}
	e := NewEngine([]Phase{phase}, Options{})
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(bin, 0o755))
	assert.Empty(t, e.Scan(ctx, nil), "an empty bin is not reported")

	writeFile(t, filepath.Join(bin, "S-1-5-21", "$RABC.txt"), 300)
	writeFile(t, filepath.Join(bin, "S-1-5-21", "$IABC.txt"), 44)

	items := e.Scan(ctx, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "Recycle Bin", items[0].Name)
	assert.Equal(t, "Empty Recycle Bin", items[0].Description)
	assert.Equal(t, int64(344), items[0].SizeBytes)

	res := e.Clean(ctx, items, nil)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, int64(344), res.BytesFreed)
	assert.NoDirExists(t, bin)
}

func TestEngineProfiles(t *testing.T) {
	profiles := t.TempDir()
	writeFile(t, filepath.Join(profiles, "abc.default", "cache2", "entries", "E1"), 10)
	writeFile(t, filepath.Join(profiles, "def.work", "cache2", "E2"), 20)
	writeFile(t, filepath.Join(profiles, "def.work", "places.sqlite"), 99)
	require.NoError(t, os.MkdirAll(filepath.Join(profiles, "empty.profile"), 0o755))
	writeFile(t, filepath.Join(profiles, "profiles.ini"), 5)

	e := NewEngine([]Phase{{Message: "Scanning Browser caches...", Targets: []Target{{
		Name: "Firefox Cache", Root: profiles, Subdir: "cache2", Category: BrowserCache, Kind: KindProfiles,
	}}}}, Options{})

	items := e.Scan(context.Background(), nil)
	assert.Equal(t, []string{"Firefox Cache - E1", "Firefox Cache - E2"}, names(items))
}

func TestEngineSingleFileTarget(t *testing.T) {
	dir := t.TempDir()
	dump := filepath.Join(dir, "MEMORY.DMP")

	e := NewEngine([]Phase{{Message: "Scanning Memory dumps...", Targets: []Target{
		{Name: "Memory Dumps", Root: filepath.Join(dir, "Minidump"), Category: MemoryDumps},
		{Name: "Memory Dumps", Root: dump, Category: MemoryDumps, Kind: KindFile},
	}}}, Options{})
	ctx := context.Background()

	assert.Empty(t, e.Scan(ctx, nil))

	writeFile(t, dump, 1024)
	writeFile(t, filepath.Join(dir, "Minidump", "101425-01.dmp"), 256)

	items := e.Scan(ctx, nil)
	assert.Equal(t, []string{"Memory Dumps - 101425-01.dmp", "Memory Dumps - MEMORY.DMP"}, names(items))
}

func TestEngineCleanTwice(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), 7)
	e := NewEngine([]Phase{dirPhase("m", "T", dir, TemporaryFiles)}, Options{})
	ctx := context.Background()

	items := e.Scan(ctx, nil)
	first := e.Clean(ctx, items, nil)
	second := e.Clean(ctx, items, nil)

	assert.Equal(t, int64(7), first.BytesFreed)
	assert.Zero(t, second.BytesFreed)
	assert.Equal(t, 1, second.Skipped)
	assert.ErrorIs(t, second.Results[0].Err, ErrNotExist)
}

func TestEngineCleanOutcomes(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok")
	locked := filepath.Join(dir, "locked")
	protected := filepath.Join(dir, "System32")
	writeFile(t, ok, 1)
	writeFile(t, locked, 2)
	require.NoError(t, os.MkdirAll(protected, 0o755))

	e := NewEngine(nil, Options{
		Protected: []string{protected},
		FS:        failingFS{fail: map[string]bool{locked: true}},
	})

	items := []*Item{
		NewItem("locked", "", locked, 2, TemporaryFiles),
		NewItem("ok", "", ok, 1, TemporaryFiles),
		NewItem("empty", "", "", 3, TemporaryFiles),
		NewItem("protected", "", protected, 4, WindowsLogs),
		NewItem("unselected", "", filepath.Join(dir, "x"), 5, TemporaryFiles),
	}
	items[4].SetSelected(false)

	res := e.Clean(context.Background(), items, nil)

	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, int64(1), res.BytesFreed)
	require.Len(t, res.Results, 4)

	assert.Equal(t, Failed, res.Results[0].Outcome)
	assert.ErrorIs(t, res.Results[0].Err, fs.ErrPermission)
	assert.Equal(t, Deleted, res.Results[1].Outcome)
	assert.ErrorIs(t, res.Results[2].Err, ErrEmptyPath)
	assert.ErrorIs(t, res.Results[3].Err, ErrProtectedPath)

	assert.FileExists(t, locked)
	assert.NoFileExists(t, ok)
	assert.DirExists(t, protected)
}

func TestEngineCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), 1)
	e := NewEngine([]Phase{dirPhase("m", "T", dir, TemporaryFiles)}, Options{})

	items := e.Scan(context.Background(), nil)
	require.Len(t, items, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, e.Scan(ctx, nil))

	res := e.Clean(ctx, items, nil)
	assert.Equal(t, 1, res.Skipped)
	assert.True(t, errors.Is(res.Results[0].Err, context.Canceled))
	assert.FileExists(t, filepath.Join(dir, "a"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "deleted", Deleted.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "failed", Failed.String())
}
