package adapthttp

import (
	"context"
	"net/http"
	"net/url"

	"devsocial/internal/domain"
)

// Feed returns the personalized, follow-graph feed.
func (c *Client) Feed(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := c.do(ctx, "posts.feed", http.MethodGet, []string{"posts", "feed"}, nil, nil, &posts)
	return posts, err
}

// ListPosts returns the unfiltered global post list.
func (c *Client) ListPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	var posts []domain.Post
	err := c.do(ctx, "posts.list", http.MethodGet, []string{"posts"}, limitQuery(limit), nil, &posts)
	return posts, err
}

// UserPosts returns the posts authored by userID.
func (c *Client) UserPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	var posts []domain.Post
	err := c.do(ctx, "posts.by_user", http.MethodGet, []string{"users", userID, "posts"}, nil, nil, &posts)
	return posts, err
}

// SearchPosts runs a full-text search over content, hashtags and code.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]domain.Post, error) {
	var posts []domain.Post
	err := c.do(ctx, "posts.search", http.MethodGet, []string{"search", "posts"}, url.Values{"q": {query}}, nil, &posts)
	return posts, err
}

// HashtagPosts returns posts tagged with tag.
func (c *Client) HashtagPosts(ctx context.Context, tag string) ([]domain.Post, error) {
	var posts []domain.Post
	err := c.do(ctx, "posts.by_hashtag", http.MethodGet, []string{"hashtags", tag, "posts"}, nil, nil, &posts)
	return posts, err
}

// Trending returns the most used hashtags.
func (c *Client) Trending(ctx context.Context, limit int) ([]domain.TrendingTag, error) {
	var tags []domain.TrendingTag
	err := c.do(ctx, "posts.trending", http.MethodGet, []string{"trending", "hashtags"}, limitQuery(limit), nil, &tags)
	return tags, err
}

// GetPost loads a single post.
func (c *Client) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	if err := c.do(ctx, "posts.get", http.MethodGet, []string{"posts", id}, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, np domain.NewPost) (*domain.Post, error) {
	if np.Hashtags == nil {
		np.Hashtags = []string{}
	}
	var p domain.Post
	if err := c.do(ctx, "posts.create", http.MethodPost, []string{"posts"}, nil, np, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost deletes a post owned by the viewer.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, "posts.delete", http.MethodDelete, []string{"posts", id}, nil, nil, nil)
}

// ToggleLike flips the viewer's like on a post. The server decides the
// direction and returns the resulting count.
func (c *Client) ToggleLike(ctx context.Context, id string) (*domain.LikeResult, error) {
	var res domain.LikeResult
	if err := c.do(ctx, "posts.like", http.MethodPost, []string{"posts", id, "like"}, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Comments lists the comments of a post in creation order.
func (c *Client) Comments(ctx context.Context, postID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := c.do(ctx, "comments.list", http.MethodGet, []string{"posts", postID, "comments"}, nil, nil, &comments)
	return comments, err
}

// AddComment posts a comment and returns the stored record.
func (c *Client) AddComment(ctx context.Context, postID, content string) (*domain.Comment, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	var cm domain.Comment
	if err := c.do(ctx, "comments.add", http.MethodPost, []string{"posts", postID, "comments"}, nil, body, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}
