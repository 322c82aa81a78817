//go:build !windows

package startup

// NewUserRegistry returns a Registry whose Open always fails with
// ErrUnsupported. The inventory then lists startup-folder entries only.
func NewUserRegistry() Registry { return noRegistry{} }

type noRegistry struct{}

func (noRegistry) Open(string, bool) (Key, error) { return nil, ErrUnsupported }
