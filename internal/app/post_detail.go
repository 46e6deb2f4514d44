package app

import (
	"context"
	"strings"

	"devsocial/internal/domain"
)

// PostDetail is the single-post view with its comment thread.
type PostDetail struct {
	viewState
	api      domain.PostAPI
	post     *domain.Post
	comments []domain.Comment
	link     hubLink
}

// NewPostDetail creates an empty detail view.
func NewPostDetail(api domain.PostAPI, opts ...ViewOption) *PostDetail {
	d := &PostDetail{api: api}
	d.init(opts)
	d.link = d.joinHub(d.applyRemote)
	return d
}

// Load fetches post id and its comments. A failed post fetch leaves the view
// unchanged; a failed comment fetch only logs and shows the post with an
// empty thread.
func (d *PostDetail) Load(ctx context.Context, id string) error {
	if d.Closed() {
		return domain.ErrViewClosed
	}
	post, err := d.api.GetPost(ctx, id)
	if err != nil {
		d.log.Warn("failed to load post", "post_id", id, "error", err)
		if !d.Closed() {
			d.notify.Error(domain.UserMessage(err, "Failed to load post"))
		}
		return err
	}
	comments, err := d.api.Comments(ctx, id)
	if err != nil {
		d.log.Warn("failed to load comments", "post_id", id, "error", err)
		comments = nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return domain.ErrViewClosed
	}
	p := post.Clone()
	d.post = &p
	d.comments = append([]domain.Comment(nil), comments...)
	return nil
}

// Post returns a copy of the held post.
func (d *PostDetail) Post() (domain.Post, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.post == nil {
		return domain.Post{}, false
	}
	return d.post.Clone(), true
}

// Comments returns a copy of the thread in order.
func (d *PostDetail) Comments() []domain.Comment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Comment(nil), d.comments...)
}

// ToggleLike flips the like on the held post.
func (d *PostDetail) ToggleLike(ctx context.Context) (*domain.LikeResult, error) {
	id, err := d.heldID()
	if err != nil {
		return nil, err
	}
	res, err := mutate(ctx, &d.viewState, mutation[*domain.LikeResult]{
		op:      "like",
		key:     postKey(id),
		failMsg: "Failed to like post",
		call: func(ctx context.Context) (*domain.LikeResult, error) {
			return d.api.ToggleLike(ctx, id)
		},
		apply: func(res *domain.LikeResult) error {
			if d.post != nil && d.post.ID == id {
				res.Apply(d.post)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	d.link.publish(id, *res)
	return res, nil
}

// AddComment posts content to the held post. Blank content is rejected
// without a request. On success the comment is appended and CommentsCount is
// incremented in the same step.
func (d *PostDetail) AddComment(ctx context.Context, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &domain.ValidationError{Fields: []string{"content"}}
	}
	id, err := d.heldID()
	if err != nil {
		return nil, err
	}
	c, err := mutate(ctx, &d.viewState, mutation[*domain.Comment]{
		op:      "comment",
		key:     commentsKey(id),
		failMsg: "Failed to add comment",
		call: func(ctx context.Context) (*domain.Comment, error) {
			return d.api.AddComment(ctx, id, content)
		},
		apply: func(c *domain.Comment) error {
			if d.post == nil || d.post.ID != id {
				return nil
			}
			d.comments = append(d.comments, *c)
			d.post.CommentsCount++
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	d.notify.Success("Comment added!")
	return c, nil
}

// Delete removes the held post on the server and clears the view.
func (d *PostDetail) Delete(ctx context.Context) error {
	id, err := d.heldID()
	if err != nil {
		return err
	}
	_, err = mutate(ctx, &d.viewState, mutation[struct{}]{
		op:      "delete_post",
		key:     postKey(id),
		failMsg: "Failed to delete post",
		call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, d.api.DeletePost(ctx, id)
		},
		apply: func(struct{}) error {
			d.post = nil
			d.comments = nil
			return nil
		},
	})
	if err != nil {
		return err
	}
	d.notify.Success("Post deleted")
	return nil
}

// Close unmounts the view and leaves the hub.
func (d *PostDetail) Close() {
	d.viewState.Close()
	d.link.leave()
}

func (d *PostDetail) heldID() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.post == nil {
		return "", domain.ErrNotFoundLocally
	}
	return d.post.ID, nil
}

func (d *PostDetail) applyRemote(id string, res domain.LikeResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed && d.post != nil && d.post.ID == id {
		res.Apply(d.post)
	}
}
