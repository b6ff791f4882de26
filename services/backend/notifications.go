package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"creatorhub/models"
)

// ListNotifications returns the current notifications for userID.
func (c *Client) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var list []models.Notification
	path := "/notifications?userId=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateNotification stores a notification synthesized on the client.
func (c *Client) CreateNotification(ctx context.Context, n models.Notification) error {
	return c.do(ctx, http.MethodPost, "/notifications", n, nil)
}

// MarkNotificationRead flags a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/notifications/%s/read", url.PathEscape(id))
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}

// ClearNotifications removes every notification of userID.
func (c *Client) ClearNotifications(ctx context.Context, userID string) error {
	path := "/notifications?userId=" + url.QueryEscape(userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
