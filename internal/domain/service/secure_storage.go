// Package service defines the domain-level contracts implemented by the
// infrastructure layer.
package service

import (
	"context"
	"errors"
)

// ErrItemNotFound is returned by SecureStorage.Get when no value is
// stored under the requested key.
var ErrItemNotFound = errors.New("secure storage: item not found")

// AuthStorageKey is the key under which the persisted auth record lives.
// The value is a JSON document {"user": object|null, "access": string,
// "refresh": string}.
const AuthStorageKey = "ciquest_auth_v1"

// SecureStorage is the on-device secret store the session layer
// persists to. All operations are fallible; callers that cache through
// it treat failures as "absent" rather than propagating them.
type SecureStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
