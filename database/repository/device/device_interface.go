package deviceRepo

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written or was cleared.
var ErrNotFound = errors.New("device key not found")

// ErrCorruptRecord is returned when a persisted session record cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt session record")

// Well-known keys. They are scoped to the device, never to a user, except the
// platform permission which carries the user id as a suffix.
const (
	KeyToken          = "token"
	KeyUser           = "user"
	KeyPushDismissed  = "push:dismissed"
	keyPushPermission = "push:permission:"
)

// PermissionKey returns the key holding the platform permission for userID.
func PermissionKey(userID string) string {
	return keyPushPermission + userID
}

// DeviceRepository is a persisted key/value holder for device state.
type DeviceRepository interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
