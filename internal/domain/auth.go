// Package domain contains the core client-side entities and the ports the
// application layer talks through.
package domain

import (
	"context"
	"time"
)

// User is the projection of an account returned by the remote service.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	FullName       string    `json:"full_name"`
	Bio            string    `json:"bio"`
	Skills         []string  `json:"skills"`
	Avatar         string    `json:"avatar"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	PostsCount     int       `json:"posts_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Clone returns a deep copy so holders never share the Skills slice.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Skills = append([]string(nil), u.Skills...)
	return &c
}

// AuthResult is the response of a successful login or registration.
type AuthResult struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
	User      *User  `json:"user"`
}

// LoginRequest carries the credentials for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries the fields for POST /auth/register.
type RegisterRequest struct {
	Username string   `json:"username" validate:"required"`
	Email    string   `json:"email" validate:"required"`
	Password string   `json:"password" validate:"required"`
	FullName string   `json:"full_name" validate:"required"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
}

// ProfileUpdate carries the editable profile fields for PUT /users/profile.
type ProfileUpdate struct {
	FullName string   `json:"full_name" validate:"required"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
}

// CredentialStore is the port for the persisted session: a bearer token and
// a cached user record. Both keys are written and cleared together.
type CredentialStore interface {
	// Token returns the persisted token, or "" when none is stored.
	Token(ctx context.Context) (string, error)
	// User returns the cached user record, or nil when none is stored.
	User(ctx context.Context) (*User, error)
	// Save persists token and user together.
	Save(ctx context.Context, token string, user *User) error
	// SaveUser overwrites the cached user record, leaving the token untouched.
	SaveUser(ctx context.Context, user *User) error
	// Clear removes both keys.
	Clear(ctx context.Context) error
}

// AuthAPI is the port for the remote authentication endpoints.
type AuthAPI interface {
	Me(ctx context.Context) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
}

// UserAPI is the port for the remote user and follow-graph endpoints.
type UserAPI interface {
	UserByUsername(ctx context.Context, username string) (*User, error)
	SearchUsers(ctx context.Context, query string) ([]User, error)
	ToggleFollow(ctx context.Context, userID string) (*FollowResult, error)
	IsFollowing(ctx context.Context, userID string) (bool, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)
}

// FollowStatus is the state declared by the server after a follow toggle.
type FollowStatus string

// Follow toggle outcomes.
const (
	StatusFollowed   FollowStatus = "followed"
	StatusUnfollowed FollowStatus = "unfollowed"
)

// FollowResult is the response of POST /users/{id}/follow.
type FollowResult struct {
	Status FollowStatus `json:"status"`
}

// Following reports whether the viewer follows the target after the toggle.
func (r FollowResult) Following() bool { return r.Status == StatusFollowed }
