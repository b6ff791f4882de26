package models

import "encoding/json"

// PermissionState is the device/user scoped push permission.
type PermissionState string

const (
	PermissionUnknown PermissionState = "unknown"
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// ParsePermission maps a persisted value back onto the enumeration.
func ParsePermission(raw string) PermissionState {
	switch PermissionState(raw) {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return PermissionState(raw)
	}
	return PermissionUnknown
}

// PushKeys are the client keys of a push subscription, base64url encoded.
type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscription identifies a device's push delivery endpoint. It is opaque to
// the client apart from serialization.
type PushSubscription struct {
	Endpoint string   `json:"endpoint"`
	Keys     PushKeys `json:"keys"`
}

// PushSubscriptionRequest is what the backend receives on registration. The
// subscription is carried as the exact bytes produced by serialization.
type PushSubscriptionRequest struct {
	UserID       string          `json:"userId"`
	Subscription json.RawMessage `json:"subscription"`
}
