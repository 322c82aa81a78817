// Package startup lists and edits the programs that run at user logon: values
// under the user's Run key and files in the user's Startup folder.
package startup

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrToggleUnsupported is returned when enabling or disabling a
// startup-folder item. Only registry entries can be toggled in place.
var ErrToggleUnsupported = errors.New("toggle is not supported for startup folder items")

// Type says where an item lives and which mutation path applies to it.
type Type string

const (
	TypeRegistry Type = "Registry (User)"
	TypeFolder   Type = "Startup Folder"
)

// Item is one startup entry.
type Item struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	IsEnabled bool   `json:"enabled" yaml:"enabled"`
	Type      Type   `json:"type" yaml:"type"`
	CanModify bool   `json:"can_modify" yaml:"can_modify"`
}

// Inventory reads and mutates startup entries. It caches nothing: List always
// reflects the registry and folder as they are now.
type Inventory struct {
	reg    Registry
	runKey string
	folder string
	logger *slog.Logger
}

// NewInventory returns an inventory over the Run key at runKey (relative to
// the user hive) and the startup folder. Either source may be empty to
// disable it. A nil logger uses slog.Default.
func NewInventory(reg Registry, runKey, folder string, logger *slog.Logger) *Inventory {
	if reg == nil {
		reg = NewUserRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Inventory{reg: reg, runKey: runKey, folder: folder, logger: logger}
}

// ─── List ────────────────────────────────────────────────────────────────────

// List returns registry entries followed by startup-folder entries. Sources
// that cannot be read contribute nothing.
func (inv *Inventory) List() []Item {
	return append(inv.listRegistry(), inv.listFolder()...)
}

// Find returns the listed item whose name matches, ignoring case. Registry
// entries win over folder entries with the same name.
func (inv *Inventory) Find(name string) (Item, bool) {
	for _, it := range inv.List() {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return Item{}, false
}

func (inv *Inventory) listRegistry() []Item {
	if inv.runKey == "" {
		return nil
	}
	key, err := inv.reg.Open(inv.runKey, false)
	if err != nil {
		if !errors.Is(err, ErrUnsupported) && !errors.Is(err, ErrNotExist) {
			inv.logger.Debug("cannot open run key", "key", inv.runKey, "error", err)
		}
		return nil
	}
	defer key.Close()

	names, err := key.ValueNames()
	if err != nil {
		inv.logger.Debug("cannot list run key", "key", inv.runKey, "error", err)
	}

	items := make([]Item, 0, len(names))
	for _, name := range names {
		path, err := key.GetString(name)
		if err != nil {
			// Non-string values are still startup entries; they just have no
			// command line we can show.
			path = ""
		}
		items = append(items, Item{
			Name:      name,
			Path:      path,
			IsEnabled: true,
			Type:      TypeRegistry,
			CanModify: true,
		})
	}
	return items
}

func (inv *Inventory) listFolder() []Item {
	if inv.folder == "" {
		return nil
	}
	entries, err := os.ReadDir(inv.folder)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			inv.logger.Debug("cannot read startup folder", "folder", inv.folder, "error", err)
		}
		return nil
	}

	var items []Item
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.EqualFold(e.Name(), "desktop.ini") {
			continue
		}
		name := e.Name()
		items = append(items, Item{
			Name:      strings.TrimSuffix(name, filepath.Ext(name)),
			Path:      filepath.Join(inv.folder, name),
			IsEnabled: true,
			Type:      TypeFolder,
			CanModify: true,
		})
	}
	return items
}

// ─── Mutations ───────────────────────────────────────────────────────────────

// Toggle enables or disables a registry item. Enabling writes item.Path under
// item.Name, creating the Run key if needed; disabling deletes the value and
// succeeds if it is already gone. Folder items are left untouched and yield
// ErrToggleUnsupported.
func (inv *Inventory) Toggle(item Item, enable bool) error {
	switch item.Type {
	case TypeRegistry:
	case TypeFolder:
		return goerr.Wrap(ErrToggleUnsupported, "cannot toggle startup item", goerr.V("name", item.Name))
	default:
		return goerr.New("unknown startup item type", goerr.V("name", item.Name), goerr.V("type", item.Type))
	}
	if item.Name == "" {
		return goerr.New("startup item has no name")
	}

	key, err := inv.reg.Open(inv.runKey, enable)
	if err != nil {
		if !enable && errors.Is(err, ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to open run key", goerr.V("key", inv.runKey))
	}
	defer key.Close()

	if enable {
		if err := key.SetString(item.Name, item.Path); err != nil {
			return goerr.Wrap(err, "failed to enable startup item", goerr.V("name", item.Name))
		}
		return nil
	}

	if err := key.DeleteValue(item.Name); err != nil && !errors.Is(err, ErrNotExist) {
		return goerr.Wrap(err, "failed to disable startup item", goerr.V("name", item.Name))
	}
	return nil
}

// Delete removes an item for good: the Run value for registry items, the
// file for folder items. It is best effort. Failures are logged and
// swallowed; callers re-list to see what actually happened.
func (inv *Inventory) Delete(item Item) {
	switch item.Type {
	case TypeRegistry:
		inv.deleteValue(item)
	case TypeFolder:
		if item.Path == "" {
			return
		}
		if err := os.Remove(item.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			inv.logger.Warn("failed to delete startup file", "path", item.Path, "error", err)
		}
	}
}

func (inv *Inventory) deleteValue(item Item) {
	key, err := inv.reg.Open(inv.runKey, false)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			inv.logger.Warn("failed to open run key", "key", inv.runKey, "error", err)
		}
		return
	}
	defer key.Close()

	if err := key.DeleteValue(item.Name); err != nil && !errors.Is(err, ErrNotExist) {
		inv.logger.Warn("failed to delete startup value", "name", item.Name, "error", err)
	}
}
