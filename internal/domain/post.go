package domain

import (
	"context"
	"io"
	"time"
)

// Post is a single post as rendered in a feed, a profile, or a detail view.
// IsLiked and LikesCount only ever change together, from one LikeResult.
type Post struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	UserAvatar    string    `json:"user_avatar"`
	Content       string    `json:"content"`
	CodeSnippet   string    `json:"code_snippet,omitempty"`
	Language      string    `json:"language,omitempty"`
	MediaURL      string    `json:"media_url,omitempty"`
	MediaType     string    `json:"media_type,omitempty"`
	Hashtags      []string  `json:"hashtags"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	SharesCount   int       `json:"shares_count"`
	IsLiked       bool      `json:"is_liked"`
	CreatedAt     time.Time `json:"created_at"`
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	p.Hashtags = append([]string(nil), p.Hashtags...)
	return p
}

// Comment is append-only from the client's point of view.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	UserAvatar string    `json:"user_avatar"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikeStatus is the state declared by the server after a like toggle.
type LikeStatus string

// Like toggle outcomes.
const (
	StatusLiked   LikeStatus = "liked"
	StatusUnliked LikeStatus = "unliked"
)

// LikeResult is the response of POST /posts/{id}/like.
type LikeResult struct {
	Status     LikeStatus `json:"status"`
	LikesCount int        `json:"likes_count"`
}

// Apply merges the result into p. It is the only place IsLiked and
// LikesCount are written after a post has been loaded.
func (r LikeResult) Apply(p *Post) {
	p.IsLiked = r.Status == StatusLiked
	p.LikesCount = r.LikesCount
}

// NewPost is the payload for POST /posts.
type NewPost struct {
	Content     string   `json:"content" validate:"required"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	Language    string   `json:"language,omitempty"`
	MediaURL    string   `json:"media_url,omitempty"`
	MediaType   string   `json:"media_type,omitempty"`
	Hashtags    []string `json:"hashtags"`
}

// TrendingTag is one row of GET /trending/hashtags.
type TrendingTag struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// PostAPI is the port for the remote post endpoints.
type PostAPI interface {
	Feed(ctx context.Context) ([]Post, error)
	ListPosts(ctx context.Context, limit int) ([]Post, error)
	UserPosts(ctx context.Context, userID string) ([]Post, error)
	SearchPosts(ctx context.Context, query string) ([]Post, error)
	HashtagPosts(ctx context.Context, tag string) ([]Post, error)
	Trending(ctx context.Context, limit int) ([]TrendingTag, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	CreatePost(ctx context.Context, p NewPost) (*Post, error)
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string) (*LikeResult, error)
	Comments(ctx context.Context, postID string) ([]Comment, error)
	AddComment(ctx context.Context, postID, content string) (*Comment, error)
}

// Upload is the response of POST /upload.
type Upload struct {
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
	Filename  string `json:"filename"`
}

// MediaAPI is the port for the opaque media upload operation.
type MediaAPI interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*Upload, error)
}
