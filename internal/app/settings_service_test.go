package app

import (
	"context"
	"errors"
	"testing"

	"devsocial/internal/adapter/memory"
	"devsocial/internal/domain"
)

func loggedIn(t *testing.T) (*SessionManager, *memory.Store) {
	t.Helper()
	store := memory.New()
	m := NewSessionManager(store, &mockAuthAPI{
		loginFn: func(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
			return &domain.AuthResult{Token: "tok", User: &domain.User{ID: "u1", FullName: "Alice", Skills: []string{"go"}}}, nil
		},
	})
	if _, err := m.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return m, store
}

func TestProfileEditor_SaveRoutesThroughSession(t *testing.T) {
	session, store := loggedIn(t)
	notifier := &recordingNotifier{}
	users := &mockUserAPI{
		updateProfileFn: func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
			return &domain.User{ID: "u1", FullName: update.FullName, Bio: update.Bio, Skills: update.Skills}, nil
		},
	}
	e := NewProfileEditor(users, session, WithNotifier(notifier))

	skills := domain.AddSkill([]string{"go"}, " rust ")
	user, err := e.Save(context.Background(), domain.ProfileUpdate{FullName: " Alice B ", Bio: "hi", Skills: skills})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.FullName != "Alice B" {
		t.Errorf("expected trimmed name, got %q", user.FullName)
	}
	if got := session.CurrentUser(); got.FullName != "Alice B" || len(got.Skills) != 2 {
		t.Errorf("expected session user updated, got %+v", got)
	}
	stored, _ := store.User(context.Background())
	if stored.Bio != "hi" {
		t.Errorf("expected stored user updated, got %+v", stored)
	}
	if session.Snapshot().State != StateAuthenticated {
		t.Error("expected state unchanged")
	}
	if got := notifier.Successes(); len(got) != 1 || got[0] != "Profile updated!" {
		t.Errorf("unexpected messages %v", got)
	}
}

func TestProfileEditor_FailureKeepsSessionUser(t *testing.T) {
	session, _ := loggedIn(t)
	users := &mockUserAPI{
		updateProfileFn: func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
			return nil, &domain.APIError{Op: "update profile", Kind: domain.KindServer, Status: 500}
		},
	}
	e := NewProfileEditor(users, session)

	if _, err := e.Save(context.Background(), domain.ProfileUpdate{FullName: "New"}); err == nil {
		t.Fatal("expected error")
	}
	if session.CurrentUser().FullName != "Alice" {
		t.Errorf("expected session user unchanged, got %q", session.CurrentUser().FullName)
	}
}

func TestProfileEditor_RequiresSessionAndName(t *testing.T) {
	users := &mockUserAPI{}
	anon := NewSessionManager(memory.New(), &mockAuthAPI{})
	if _, err := NewProfileEditor(users, anon).Save(context.Background(), domain.ProfileUpdate{FullName: "x"}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}

	session, _ := loggedIn(t)
	var verr *domain.ValidationError
	if _, err := NewProfileEditor(users, session).Save(context.Background(), domain.ProfileUpdate{FullName: "  "}); !errors.As(err, &verr) {
		t.Errorf("expected validation error, got %v", err)
	}
}
