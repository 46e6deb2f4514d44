package app

import (
	"context"
	"errors"
	"testing"

	"devsocial/internal/domain"
)

type staticViewer struct{ user *domain.User }

func (v staticViewer) CurrentUser() *domain.User { return v.user.Clone() }

func profileAPIs(following bool, followers int) (*mockUserAPI, *mockPostAPI) {
	users := &mockUserAPI{
		userByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: "u2", Username: username, FollowersCount: followers, PostsCount: 2}, nil
		},
		isFollowingFn: func(ctx context.Context, userID string) (bool, error) { return following, nil },
	}
	posts := &mockPostAPI{
		userPostsFn: func(ctx context.Context, userID string) ([]domain.Post, error) {
			return []domain.Post{{ID: "p1", UserID: userID}, {ID: "p2", UserID: userID}}, nil
		},
		deletePostFn: func(ctx context.Context, id string) error { return nil },
	}
	return users, posts
}

func TestProfileView_Load(t *testing.T) {
	users, posts := profileAPIs(true, 5)
	v := NewProfileView(users, posts, staticViewer{&domain.User{ID: "u1"}})

	if err := v.Load(context.Background(), "bob"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.Profile().Username != "bob" || v.Own() || !v.Following() {
		t.Errorf("unexpected profile state: %+v own=%v following=%v", v.Profile(), v.Own(), v.Following())
	}
	if v.Posts().Len() != 2 {
		t.Errorf("expected 2 posts, got %d", v.Posts().Len())
	}
}

func TestProfileView_LoadOwnSkipsFollowCheck(t *testing.T) {
	users, posts := profileAPIs(true, 5)
	users.isFollowingFn = func(ctx context.Context, userID string) (bool, error) {
		t.Error("follow state should not be checked on own profile")
		return false, nil
	}
	v := NewProfileView(users, posts, staticViewer{&domain.User{ID: "u2"}})

	if err := v.Load(context.Background(), "me"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !v.Own() {
		t.Error("expected own profile")
	}
	if _, err := v.ToggleFollow(context.Background()); !errors.Is(err, ErrOwnProfile) {
		t.Errorf("expected ErrOwnProfile, got %v", err)
	}
}

func TestProfileView_ToggleFollow(t *testing.T) {
	tests := []struct {
		name          string
		heldFollowing bool
		status        domain.FollowStatus
		wantFollowing bool
		wantFollowers int
	}{
		{"follow", false, domain.StatusFollowed, true, 6},
		{"unfollow", true, domain.StatusUnfollowed, false, 4},
		{"server already followed", true, domain.StatusFollowed, true, 5},
		{"server already unfollowed", false, domain.StatusUnfollowed, false, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, posts := profileAPIs(tt.heldFollowing, 5)
			users.toggleFollowFn = func(ctx context.Context, userID string) (*domain.FollowResult, error) {
				if userID != "u2" {
					t.Errorf("expected u2, got %s", userID)
				}
				return &domain.FollowResult{Status: tt.status}, nil
			}
			v := NewProfileView(users, posts, staticViewer{&domain.User{ID: "u1"}})
			if err := v.Load(context.Background(), "bob"); err != nil {
				t.Fatalf("load: %v", err)
			}

			if _, err := v.ToggleFollow(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if v.Following() != tt.wantFollowing {
				t.Errorf("expected following=%v, got %v", tt.wantFollowing, v.Following())
			}
			if got := v.Profile().FollowersCount; got != tt.wantFollowers {
				t.Errorf("expected %d followers, got %d", tt.wantFollowers, got)
			}
		})
	}
}

func TestProfileView_ToggleFollowFailure(t *testing.T) {
	users, posts := profileAPIs(false, 5)
	users.toggleFollowFn = func(ctx context.Context, userID string) (*domain.FollowResult, error) {
		return nil, &domain.APIError{Op: "toggle follow", Kind: domain.KindInvalid, Status: 400, Message: "Cannot follow yourself"}
	}
	notifier := &recordingNotifier{}
	v := NewProfileView(users, posts, staticViewer{&domain.User{ID: "u1"}}, WithNotifier(notifier))
	if err := v.Load(context.Background(), "bob"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := v.ToggleFollow(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if v.Following() || v.Profile().FollowersCount != 5 {
		t.Error("expected follow state unchanged")
	}
	if got := notifier.Errors(); len(got) != 1 || got[0] != "Cannot follow yourself" {
		t.Errorf("unexpected messages %v", got)
	}
}

func TestProfileView_DeleteOwnPostDecrementsCount(t *testing.T) {
	users, posts := profileAPIs(false, 0)
	v := NewProfileView(users, posts, staticViewer{&domain.User{ID: "u2"}})
	if err := v.Load(context.Background(), "me"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := v.DeletePost(context.Background(), "p1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := v.Profile().PostsCount; got != 1 {
		t.Errorf("expected posts count 1, got %d", got)
	}
	if v.Posts().Len() != 1 {
		t.Errorf("expected 1 post left, got %d", v.Posts().Len())
	}
}

func TestProfileView_LoadFailure(t *testing.T) {
	users, posts := profileAPIs(false, 0)
	users.userByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
		return nil, &domain.APIError{Op: "get user", Kind: domain.KindNotFound, Status: 404, Message: "User not found"}
	}
	notifier := &recordingNotifier{}
	v := NewProfileView(users, posts, staticViewer{}, WithNotifier(notifier))

	if err := v.Load(context.Background(), "ghost"); domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
	if v.Profile() != nil {
		t.Error("expected no profile held")
	}
	if got := notifier.Errors(); len(got) != 1 || got[0] != "User not found" {
		t.Errorf("unexpected messages %v", got)
	}
}
