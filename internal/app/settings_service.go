package app

import (
	"context"
	"strings"

	"devsocial/internal/domain"
)

// ProfileEditor saves profile settings and routes the server's answer
// through SessionManager.UpdateUser so the session's cached user stays
// current.
type ProfileEditor struct {
	viewState
	users   domain.UserAPI
	session *SessionManager
}

// NewProfileEditor creates a settings form backed by users and session.
func NewProfileEditor(users domain.UserAPI, session *SessionManager, opts ...ViewOption) *ProfileEditor {
	e := &ProfileEditor{users: users, session: session}
	e.init(opts)
	return e
}

// Save sends the update and, on success, replaces the session user.
// Blank FullName is rejected locally. A second Save while one is in flight
// returns ErrMutationInFlight.
func (e *ProfileEditor) Save(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	if e.session.Snapshot().State != StateAuthenticated {
		return nil, domain.ErrNotAuthenticated
	}
	update.FullName = strings.TrimSpace(update.FullName)
	update.Bio = strings.TrimSpace(update.Bio)
	if err := domain.Validate(update); err != nil {
		return nil, err
	}
	if update.Skills == nil {
		update.Skills = []string{}
	}

	// The session write happens outside the view lock; only the guard and
	// the closed check are shared with other views.
	user, err := mutate(ctx, &e.viewState, mutation[*domain.User]{
		op:      "update_profile",
		key:     "profile",
		failMsg: "Failed to update profile",
		call: func(ctx context.Context) (*domain.User, error) {
			return e.users.UpdateProfile(ctx, update)
		},
		apply: func(*domain.User) error { return nil },
	})
	if err != nil {
		return nil, err
	}
	if err := e.session.UpdateUser(ctx, user); err != nil {
		e.log.Error("failed to store updated profile", "error", err)
		e.notify.Error("Failed to update profile")
		return nil, err
	}
	e.notify.Success("Profile updated!")
	return user.Clone(), nil
}
