package push

import (
	"crypto/ecdh"
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeApplicationServerKey converts the base64url application server key
// into its raw form: a 65-byte uncompressed P-256 point. Padding is optional.
func DecodeApplicationServerKey(encoded string) ([]byte, error) {
	encoded = strings.TrimRight(strings.TrimSpace(encoded), "=")
	if encoded == "" {
		return nil, fmt.Errorf("application server key is empty")
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("application server key is not base64url: %w", err)
	}
	if _, err := ecdh.P256().NewPublicKey(raw); err != nil {
		return nil, fmt.Errorf("application server key is not a P-256 public key: %w", err)
	}
	return raw, nil
}
