//go:build windows

package startup

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

// NewUserRegistry returns a Registry backed by HKEY_CURRENT_USER.
func NewUserRegistry() Registry { return userRegistry{} }

type userRegistry struct{}

const keyAccess = registry.QUERY_VALUE | registry.SET_VALUE

func (userRegistry) Open(path string, create bool) (Key, error) {
	var (
		k   registry.Key
		err error
	)
	if create {
		k, _, err = registry.CreateKey(registry.CURRENT_USER, path, keyAccess)
	} else {
		k, err = registry.OpenKey(registry.CURRENT_USER, path, keyAccess)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return userKey{k}, nil
}

type userKey struct {
	k registry.Key
}

func (u userKey) ValueNames() ([]string, error) {
	names, err := u.k.ReadValueNames(-1)
	return names, mapErr(err)
}

// GetString reads REG_SZ and REG_EXPAND_SZ values without expanding them.
func (u userKey) GetString(name string) (string, error) {
	val, _, err := u.k.GetStringValue(name)
	if err != nil {
		return "", mapErr(err)
	}
	return val, nil
}

func (u userKey) SetString(name, value string) error {
	return mapErr(u.k.SetStringValue(name, value))
}

func (u userKey) DeleteValue(name string) error {
	return mapErr(u.k.DeleteValue(name))
}

func (u userKey) Close() error { return u.k.Close() }

func mapErr(err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return ErrNotExist
	}
	return err
}
