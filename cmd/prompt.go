package cmd

import (
	"context"
	"errors"
	"fmt"

	"creatorhub/models"
	"creatorhub/services/push"

	"github.com/charmbracelet/huh"
)

// promptForString displays an interactive input and returns the user's answer.
func promptForString(title string, secret bool) (string, error) {
	var value string
	input := huh.NewInput().
		Title(title).
		Value(&value)
	if secret {
		input = input.EchoMode(huh.EchoModePassword)
	}

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	if value == "" {
		return "", fmt.Errorf("value is required")
	}
	return value, nil
}

// confirmPrompter asks the push permission question in the terminal. Aborting
// the form leaves the permission undecided.
var confirmPrompter = push.PrompterFunc(func(ctx context.Context) (models.PermissionState, error) {
	allow := true
	confirm := huh.NewConfirm().
		Title("Allow creatorhub to send push notifications to this device?").
		Affirmative("Allow").
		Negative("Block").
		Value(&allow)

	if err := huh.NewForm(huh.NewGroup(confirm)).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return models.PermissionDefault, nil
		}
		return models.PermissionDefault, fmt.Errorf("prompt failed: %w", err)
	}
	if allow {
		return models.PermissionGranted, nil
	}
	return models.PermissionDenied, nil
})
