package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"creatorhub/models"
)

// SavePushSubscription registers a serialized subscription for userID. The
// backend upserts by user, so repeated calls do not duplicate registrations.
func (c *Client) SavePushSubscription(ctx context.Context, userID string, subscription json.RawMessage) error {
	req := models.PushSubscriptionRequest{
		UserID:       userID,
		Subscription: subscription,
	}
	return c.do(ctx, http.MethodPost, "/users/pushSubscription", req, nil)
}
