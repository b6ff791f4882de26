package push

import (
	"context"

	"creatorhub/models"
)

// Platform is the device's push capability: permission storage, the background
// delivery agent and the push service subscription.
type Platform interface {
	// Supported reports whether the device has a notification capability at all.
	Supported() bool
	// Permission returns the platform's current answer for userID.
	Permission(ctx context.Context, userID string) (models.PermissionState, error)
	// RequestPermission asks the user through p and persists the answer.
	RequestPermission(ctx context.Context, userID string, p Prompter) (models.PermissionState, error)
	// AgentReady blocks until the background delivery agent can accept pushes.
	AgentReady(ctx context.Context) error
	// CanSubscribe reports whether the device can create push subscriptions.
	CanSubscribe() bool
	// Subscribe creates a subscription bound to the raw application server key.
	Subscribe(ctx context.Context, applicationServerKey []byte) (*models.PushSubscription, error)
}

// Prompter asks the user whether push notifications may be shown. Returning
// PermissionDefault means the prompt was closed without an answer.
type Prompter interface {
	Ask(ctx context.Context) (models.PermissionState, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context) (models.PermissionState, error)

func (f PrompterFunc) Ask(ctx context.Context) (models.PermissionState, error) {
	return f(ctx)
}

// Answer is a Prompter that returns a decision the user already made, e.g. a
// button press carried by an HTTP request.
type Answer models.PermissionState

func (a Answer) Ask(context.Context) (models.PermissionState, error) {
	return models.PermissionState(a), nil
}
