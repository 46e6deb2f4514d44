package app

import (
	"context"
	"slices"

	"devsocial/internal/domain"
)

// PostList is a view holding an ordered list of posts: a feed, an explore
// result or a profile's posts. Each list keeps its own copies; toggling a
// like here does not touch any other view unless both share a PostHub.
type PostList struct {
	viewState
	api   domain.PostAPI
	posts []domain.Post
	link  hubLink

	// onDelete runs with mu held after a post is removed.
	onDelete func(domain.Post)
}

// NewPostList creates an empty list view.
func NewPostList(api domain.PostAPI, opts ...ViewOption) *PostList {
	l := &PostList{api: api}
	l.init(opts)
	l.link = l.joinHub(l.applyRemote)
	return l
}

// Load replaces the list with the result of fetch. On failure the list is
// left as it was.
func (l *PostList) Load(ctx context.Context, fetch func(context.Context) ([]domain.Post, error)) error {
	err := load(ctx, &l.viewState, fetch, func(posts []domain.Post) {
		l.posts = clonePosts(posts)
	})
	if err != nil && err != domain.ErrViewClosed && !l.Closed() {
		l.log.Warn("failed to load posts", "error", err)
		l.notify.Error(domain.UserMessage(err, "Failed to load posts"))
	}
	return err
}

// Replace swaps the held posts for posts.
func (l *PostList) Replace(posts []domain.Post) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posts = clonePosts(posts)
}

// Prepend puts p at the head of the list, as after creating a post.
func (l *PostList) Prepend(p domain.Post) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.posts = append([]domain.Post{p.Clone()}, l.posts...)
}

// Posts returns a copy of the held posts in order.
func (l *PostList) Posts() []domain.Post {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clonePosts(l.posts)
}

// Post returns a copy of the held post with id.
func (l *PostList) Post(id string) (domain.Post, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.posts[i].Clone(), true
	}
	return domain.Post{}, false
}

// Len returns the number of held posts.
func (l *PostList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posts)
}

// ToggleLike asks the server to flip the like on post id and merges the
// server's status and count into the held copy. While a like or delete for
// id is in flight further triggers return ErrMutationInFlight.
func (l *PostList) ToggleLike(ctx context.Context, id string) (*domain.LikeResult, error) {
	if _, ok := l.Post(id); !ok {
		return nil, domain.ErrNotFoundLocally
	}
	res, err := mutate(ctx, &l.viewState, mutation[*domain.LikeResult]{
		op:      "like",
		key:     postKey(id),
		failMsg: "Failed to like post",
		call: func(ctx context.Context) (*domain.LikeResult, error) {
			return l.api.ToggleLike(ctx, id)
		},
		apply: func(res *domain.LikeResult) error {
			// The post may have left the list while the request ran.
			if i := l.indexLocked(id); i >= 0 {
				res.Apply(&l.posts[i])
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	l.link.publish(id, *res)
	return res, nil
}

// Delete removes post id on the server and then from the list.
func (l *PostList) Delete(ctx context.Context, id string) error {
	if _, ok := l.Post(id); !ok {
		return domain.ErrNotFoundLocally
	}
	_, err := mutate(ctx, &l.viewState, mutation[struct{}]{
		op:      "delete_post",
		key:     postKey(id),
		failMsg: "Failed to delete post",
		call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, l.api.DeletePost(ctx, id)
		},
		apply: func(struct{}) error {
			i := l.indexLocked(id)
			if i < 0 {
				return nil
			}
			removed := l.posts[i]
			l.posts = slices.Delete(l.posts, i, i+1)
			if l.onDelete != nil {
				l.onDelete(removed)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	l.notify.Success("Post deleted")
	return nil
}

// Close unmounts the view and leaves the hub.
func (l *PostList) Close() {
	l.viewState.Close()
	l.link.leave()
}

func (l *PostList) applyRemote(id string, res domain.LikeResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if i := l.indexLocked(id); i >= 0 {
		res.Apply(&l.posts[i])
	}
}

func (l *PostList) indexLocked(id string) int {
	return slices.IndexFunc(l.posts, func(p domain.Post) bool { return p.ID == id })
}

func clonePosts(in []domain.Post) []domain.Post {
	out := make([]domain.Post, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
