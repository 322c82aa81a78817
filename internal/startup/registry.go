package startup

import "errors"

var (
	// ErrUnsupported is returned by registries on platforms without one.
	ErrUnsupported = errors.New("registry is not available on this platform")

	// ErrNotExist is returned when a key or value is missing.
	ErrNotExist = errors.New("registry key or value does not exist")
)

// Registry opens keys under the current user's hive by path.
type Registry interface {
	// Open opens the key at path for reading and writing. With create set a
	// missing key is created; otherwise it fails with ErrNotExist.
	Open(path string, create bool) (Key, error)
}

// Key is an open registry key holding string values.
type Key interface {
	ValueNames() ([]string, error)
	GetString(name string) (string, error)
	SetString(name, value string) error
	// DeleteValue fails with ErrNotExist when name is absent.
	DeleteValue(name string) error
	Close() error
}
