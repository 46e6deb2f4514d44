package adapthttp

import (
	"context"
	"net/http"

	"devsocial/internal/domain"
)

// Me verifies the current token and returns the authoritative user record.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, "auth.me", http.MethodGet, []string{"auth", "me"}, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.do(ctx, "auth.login", http.MethodPost, []string{"auth", "login"}, nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and returns its token and user record.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	if req.Skills == nil {
		req.Skills = []string{}
	}
	var res domain.AuthResult
	if err := c.do(ctx, "auth.register", http.MethodPost, []string{"auth", "register"}, nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
