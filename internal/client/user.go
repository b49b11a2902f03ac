package client

import (
	"context"

	"github.com/Iggy502/booking-web-sub000/internal/entity"
)

// Login authenticates a user and returns a bearer token.
// The token is automatically stored in the client for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var result LoginResponse
	if err := c.post(ctx, "/auth/login", &LoginRequest{Email: email, Password: password}, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Refresh exchanges the current token for a fresh one
func (c *Client) Refresh(ctx context.Context) (string, error) {
	var result LoginResponse
	if err := c.post(ctx, "/auth/refresh", nil, &result); err != nil {
		return "", err
	}
	c.SetToken(result.Token)
	return result.Token, nil
}

// CurrentUser returns the authenticated user's profile
func (c *Client) CurrentUser(ctx context.Context) (*entity.User, error) {
	var result entity.User
	if err := c.get(ctx, "/users/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserById returns a user's public profile
func (c *Client) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := c.get(ctx, "/users/"+id, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
