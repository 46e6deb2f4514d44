package app

import (
	"context"
	"errors"

	"devsocial/internal/domain"
)

// ErrOwnProfile is returned when following oneself is attempted.
var ErrOwnProfile = errors.New("cannot follow your own profile")

// Viewer exposes the signed-in user to views that need it.
type Viewer interface {
	CurrentUser() *domain.User
}

// ProfileView shows a user's profile, the viewer's follow state toward them
// and their posts.
type ProfileView struct {
	viewState
	users     domain.UserAPI
	viewer    Viewer
	posts     *PostList
	profile   *domain.User
	following bool
	own       bool
}

// NewProfileView creates an empty profile view. Options apply to the
// embedded post list as well.
func NewProfileView(users domain.UserAPI, posts domain.PostAPI, viewer Viewer, opts ...ViewOption) *ProfileView {
	p := &ProfileView{
		users:  users,
		viewer: viewer,
		posts:  NewPostList(posts, opts...),
	}
	p.init(opts)
	p.posts.onDelete = p.postRemoved
	return p
}

// Load fetches the profile by username, the user's posts and, for other
// users' profiles, the follow state. A failed follow-state check only logs.
func (p *ProfileView) Load(ctx context.Context, username string) error {
	if p.Closed() {
		return domain.ErrViewClosed
	}
	user, err := p.users.UserByUsername(ctx, username)
	if err != nil {
		return p.loadFailed(username, err)
	}
	posts, err := p.posts.api.UserPosts(ctx, user.ID)
	if err != nil {
		return p.loadFailed(username, err)
	}

	own := false
	if me := p.viewer.CurrentUser(); me != nil && me.ID == user.ID {
		own = true
	}
	following := false
	if !own {
		following, err = p.users.IsFollowing(ctx, user.ID)
		if err != nil {
			p.log.Warn("failed to check follow state", "user_id", user.ID, "error", err)
			following = false
		}
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return domain.ErrViewClosed
	}
	p.profile = user.Clone()
	p.following = following
	p.own = own
	p.mu.Unlock()

	p.posts.Replace(posts)
	return nil
}

func (p *ProfileView) loadFailed(username string, err error) error {
	p.log.Warn("failed to load profile", "username", username, "error", err)
	if !p.Closed() {
		p.notify.Error(domain.UserMessage(err, "Failed to load profile"))
	}
	return err
}

// Profile returns a copy of the held profile.
func (p *ProfileView) Profile() *domain.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile.Clone()
}

// Following reports the viewer's follow state toward the profile.
func (p *ProfileView) Following() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.following
}

// Own reports whether the profile belongs to the viewer.
func (p *ProfileView) Own() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.own
}

// Posts is the profile's post list.
func (p *ProfileView) Posts() *PostList { return p.posts }

// ToggleFollow asks the server to flip the follow state. The server's
// status becomes the held state, and FollowersCount moves by one only when
// that status differs from what was held.
func (p *ProfileView) ToggleFollow(ctx context.Context) (*domain.FollowResult, error) {
	p.mu.Lock()
	if p.profile == nil {
		p.mu.Unlock()
		return nil, domain.ErrNotFoundLocally
	}
	if p.own {
		p.mu.Unlock()
		return nil, ErrOwnProfile
	}
	id := p.profile.ID
	p.mu.Unlock()

	res, err := mutate(ctx, &p.viewState, mutation[*domain.FollowResult]{
		op:      "follow",
		key:     userKey(id),
		failMsg: "Failed to update follow status",
		call: func(ctx context.Context) (*domain.FollowResult, error) {
			return p.users.ToggleFollow(ctx, id)
		},
		apply: func(res *domain.FollowResult) error {
			if p.profile == nil || p.profile.ID != id {
				return nil
			}
			now := res.Following()
			switch {
			case now && !p.following:
				p.profile.FollowersCount++
			case !now && p.following && p.profile.FollowersCount > 0:
				p.profile.FollowersCount--
			}
			p.following = now
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if res.Following() {
		p.notify.Success("Following!")
	} else {
		p.notify.Success("Unfollowed")
	}
	return res, nil
}

// DeletePost deletes one of the profile's posts. On the viewer's own
// profile PostsCount is decremented with the removal.
func (p *ProfileView) DeletePost(ctx context.Context, id string) error {
	return p.posts.Delete(ctx, id)
}

// ToggleLike flips the like on one of the profile's posts.
func (p *ProfileView) ToggleLike(ctx context.Context, id string) (*domain.LikeResult, error) {
	return p.posts.ToggleLike(ctx, id)
}

// Close unmounts the profile and its post list.
func (p *ProfileView) Close() {
	p.viewState.Close()
	p.posts.Close()
}

// postRemoved runs with the post list's lock held.
func (p *ProfileView) postRemoved(domain.Post) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.own && p.profile != nil && p.profile.PostsCount > 0 {
		p.profile.PostsCount--
	}
}
