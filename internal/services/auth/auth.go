package auth

import (
	"errors"

	"nathanbeddoewebdev/reseed/internal/util"
)

// ServiceName is the keychain service under which credentials are stored.
const ServiceName = "reseed"

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(key string, token string) error
	GetToken(key string) (string, error)
	DeleteToken(key string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeKey normalizes a keychain key for consistent lookup.
func NormalizeKey(key string) string {
	return util.NormalizeKey(key)
}
