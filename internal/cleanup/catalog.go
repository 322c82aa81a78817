package cleanup

import (
	"path/filepath"

	"github.com/lakshaymaurya-felt/mechanic/internal/config"
	"github.com/lakshaymaurya-felt/mechanic/internal/core"
)

// TargetKind selects how a target's root is turned into items.
type TargetKind int

const (
	// KindDirectory scans every regular file under Root.
	KindDirectory TargetKind = iota

	// KindProfiles treats each directory directly under Root as a profile and
	// scans Subdir inside each one.
	KindProfiles

	// KindAggregate reports Root as a single item sized by its contents and
	// deleted as one unit.
	KindAggregate

	// KindFile reports Root itself when it is a regular file.
	KindFile
)

// Target is one catalog entry: where to look, what to call it, and which
// category its items belong to.
type Target struct {
	Name     string
	Root     string
	Subdir   string
	Category Category
	Kind     TargetKind

	// Description is used for aggregate items only; file items are described
	// by their path.
	Description string
}

// Phase is a unit of scanning with one progress message. Phases do not
// depend on each other and may run concurrently.
type Phase struct {
	Message string
	Targets []Target
}

// DefaultCatalog returns the Windows cleanup locations in scan order.
// Targets whose base location is unknown are left out, and a directory root
// already claimed by an earlier target is not scanned again.
func DefaultCatalog(loc config.Locations) []Phase {
	local := loc.LocalAppData
	win := loc.WindowsDir

	phases := []Phase{
		{"Scanning Windows Temp files...", []Target{
			{Name: "Windows Temp Files", Root: loc.Temp, Category: TemporaryFiles},
		}},
		{"Scanning User Temp files...", []Target{
			{Name: "User Temp Files", Root: under(local, "Temp"), Category: TemporaryFiles},
		}},
		{"Scanning Prefetch files...", []Target{
			{Name: "Windows Prefetch", Root: under(win, "Prefetch"), Category: TemporaryFiles},
		}},
		{"Scanning Recycle Bin...", []Target{
			{Name: "Recycle Bin", Description: "Empty Recycle Bin", Root: under(loc.SystemDrive, "$Recycle.Bin"), Category: RecycleBin, Kind: KindAggregate},
		}},
		{"Scanning Browser caches...", []Target{
			{Name: "Chrome Cache", Root: under(local, "Google", "Chrome", "User Data", "Default", "Cache"), Category: BrowserCache},
			{Name: "Edge Cache", Root: under(local, "Microsoft", "Edge", "User Data", "Default", "Cache"), Category: BrowserCache},
			{Name: "Brave Cache", Root: under(local, "BraveSoftware", "Brave-Browser", "User Data", "Default", "Cache"), Category: BrowserCache},
			{Name: "Firefox Cache", Root: under(local, "Mozilla", "Firefox", "Profiles"), Subdir: "cache2", Category: BrowserCache, Kind: KindProfiles},
		}},
		{"Scanning Thumbnail cache...", []Target{
			{Name: "Thumbnail Cache", Root: under(local, "Microsoft", "Windows", "Explorer"), Category: ThumbnailCache},
		}},
		{"Scanning Error reports...", []Target{
			{Name: "Error Reports", Root: under(loc.ProgramData, "Microsoft", "Windows", "WER", "ReportQueue"), Category: ErrorReports},
		}},
		{"Scanning Windows logs...", []Target{
			{Name: "Windows Logs", Root: under(win, "Logs"), Category: WindowsLogs},
		}},
		{"Scanning Memory dumps...", []Target{
			{Name: "Memory Dumps", Root: under(win, "Minidump"), Category: MemoryDumps},
			{Name: "Memory Dumps", Root: under(win, "MEMORY.DMP"), Category: MemoryDumps, Kind: KindFile},
		}},
	}

	return dedupe(phases)
}

// under joins elem onto base, or returns "" when base is unknown.
func under(base string, elem ...string) string {
	if base == "" {
		return ""
	}
	return filepath.Join(append([]string{base}, elem...)...)
}

// dedupe drops targets without a root and repeated roots. %TEMP% usually
// resolves to %LOCALAPPDATA%\Temp, which would double-count every file.
// Phases left without targets are dropped.
func dedupe(phases []Phase) []Phase {
	var seen []string
	claimed := func(root string) bool {
		for _, s := range seen {
			if core.SamePath(s, root) {
				return true
			}
		}
		seen = append(seen, root)
		return false
	}

	out := make([]Phase, 0, len(phases))
	for _, p := range phases {
		var kept []Target
		for _, t := range p.Targets {
			if t.Root == "" || claimed(t.Root) {
				continue
			}
			kept = append(kept, t)
		}
		if len(kept) > 0 {
			out = append(out, Phase{Message: p.Message, Targets: kept})
		}
	}
	return out
}

// FilterCatalog keeps the targets whose category passes keep. Phases left
// without targets are dropped.
func FilterCatalog(phases []Phase, keep func(Category) bool) []Phase {
	out := make([]Phase, 0, len(phases))
	for _, p := range phases {
		var kept []Target
		for _, t := range p.Targets {
			if keep(t.Category) {
				kept = append(kept, t)
			}
		}
		if len(kept) > 0 {
			out = append(out, Phase{Message: p.Message, Targets: kept})
		}
	}
	return out
}
