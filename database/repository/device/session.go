package deviceRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"creatorhub/models"
)

// SaveSessionRecord persists the token and the user record it was issued for.
// The token is written last so a crash between the two writes never leaves a
// token without its user.
func SaveSessionRecord(ctx context.Context, repo DeviceRepository, token string, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user record: %w", err)
	}
	if err := repo.Set(ctx, KeyUser, string(data)); err != nil {
		return err
	}
	return repo.Set(ctx, KeyToken, token)
}

// LoadSessionRecord returns the persisted token and user record.
func LoadSessionRecord(ctx context.Context, repo DeviceRepository) (string, *models.User, error) {
	token, err := repo.Get(ctx, KeyToken)
	if err != nil {
		return "", nil, err
	}
	raw, err := repo.Get(ctx, KeyUser)
	if err != nil {
		return "", nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return token, &user, nil
}

// ClearSessionRecord removes the token and user record.
func ClearSessionRecord(ctx context.Context, repo DeviceRepository) error {
	return repo.Delete(ctx, KeyToken, KeyUser)
}

// PushDismissed reports whether the push prompt was dismissed on this device.
func PushDismissed(ctx context.Context, repo DeviceRepository) (bool, error) {
	v, err := repo.Get(ctx, KeyPushDismissed)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	dismissed, _ := strconv.ParseBool(v)
	return dismissed, nil
}

// SetPushDismissed persists the push prompt dismissal flag.
func SetPushDismissed(ctx context.Context, repo DeviceRepository, dismissed bool) error {
	return repo.Set(ctx, KeyPushDismissed, strconv.FormatBool(dismissed))
}
