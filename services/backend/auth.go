package backend

import (
	"context"
	"net/http"

	"creatorhub/models"
)

type federatedRequest struct {
	Code string `json:"code"`
}

// Login exchanges email and password for a token and user record. It never
// carries the current token, so a failed re-login cannot expire the live session.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doAnonymous(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginWithFederatedCode exchanges an external authorization code for a token.
func (c *Client) LoginWithFederatedCode(ctx context.Context, code string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doAnonymous(ctx, http.MethodPost, "/auth/federated", federatedRequest{Code: code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout asks the backend to invalidate the current token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
