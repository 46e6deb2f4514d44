package adapthttp

import (
	"context"
	"net/http"
	"net/url"

	"devsocial/internal/domain"
)

// UserByUsername loads a public profile by its routing key.
func (c *Client) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, "users.get", http.MethodGet, []string{"users", "username", username}, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SearchUsers matches query against usernames, names and skills.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	var users []domain.User
	err := c.do(ctx, "users.search", http.MethodGet, []string{"search", "users"}, url.Values{"q": {query}}, nil, &users)
	return users, err
}

// ToggleFollow flips the follow edge to userID. The server decides the
// direction.
func (c *Client) ToggleFollow(ctx context.Context, userID string) (*domain.FollowResult, error) {
	var res domain.FollowResult
	if err := c.do(ctx, "users.follow", http.MethodPost, []string{"users", userID, "follow"}, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// IsFollowing reports whether the viewer follows userID.
func (c *Client) IsFollowing(ctx context.Context, userID string) (bool, error) {
	var res struct {
		IsFollowing bool `json:"is_following"`
	}
	if err := c.do(ctx, "users.is_following", http.MethodGet, []string{"users", userID, "is-following"}, nil, nil, &res); err != nil {
		return false, err
	}
	return res.IsFollowing, nil
}

// UpdateProfile saves the viewer's editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Skills == nil {
		update.Skills = []string{}
	}
	var u domain.User
	if err := c.do(ctx, "users.update_profile", http.MethodPut, []string{"users", "profile"}, nil, update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
