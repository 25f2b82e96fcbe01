package client

import (
	"context"
	"net/http"
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type Session struct {
	Token string         `json:"token"`
	User  Profile `json:"user"`
}

type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

type userResponse struct {
	User User `json:"user"`
}

// Register creates an account and keeps the returned token for later calls.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &session); err != nil {
		return Session{}, err
	}
	c.SetToken(session.Token)
	return session, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &session); err != nil {
		return Session{}, err
	}
	c.SetToken(session.Token)
	return session, nil
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var resp userResponse
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &resp)
	return resp.User, err
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (User, error) {
	var resp userResponse
	err := c.do(ctx, http.MethodPatch, "/auth/update-profile", nil, in, &resp)
	return resp.User, err
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPatch, "/auth/change-password", nil, body, nil)
}

// DeleteAccount removes the caller's account and orders and drops the token.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/auth/delete-account", nil, nil, nil); err != nil {
		return err
	}
	c.Logout()
	return nil
}
