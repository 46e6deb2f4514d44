package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"devsocial/internal/domain"
)

// DefaultGlobalLimit is the page size requested from the global listing when
// the personalized feed falls back.
const DefaultGlobalLimit = 50

// FeedPolicy decides when the personalized feed falls back to the global
// listing.
type FeedPolicy int

// Feed fallback policies.
const (
	// FallbackAlways falls back on any personalized-feed error.
	FallbackAlways FeedPolicy = iota
	// FallbackEmptyOnly falls back only when the personalized feed is
	// missing (not found) or empty. Other errors are surfaced.
	FallbackEmptyOnly
	// FallbackNever surfaces every personalized-feed error.
	FallbackNever
)

func (p FeedPolicy) String() string {
	switch p {
	case FallbackEmptyOnly:
		return "empty-only"
	case FallbackNever:
		return "never"
	default:
		return "always"
	}
}

// ParseFeedPolicy parses the configuration spelling of a policy.
func ParseFeedPolicy(s string) (FeedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return FallbackAlways, nil
	case "empty-only", "empty_only":
		return FallbackEmptyOnly, nil
	case "never":
		return FallbackNever, nil
	default:
		return FallbackAlways, fmt.Errorf("unknown feed fallback policy %q", s)
	}
}

// FeedSource records where an assembled feed came from.
type FeedSource int

// Feed sources.
const (
	SourcePersonalized FeedSource = iota
	SourceGlobal
)

func (s FeedSource) String() string {
	if s == SourceGlobal {
		return "global"
	}
	return "personalized"
}

// FeedResult is an assembled feed. PersonalizedErr is set when the result
// came from the global listing because the personalized feed failed.
type FeedResult struct {
	Posts           []domain.Post
	Source          FeedSource
	PersonalizedErr error
}

// FeedAssembler builds the home feed from the personalized feed and, per
// policy, the global listing.
type FeedAssembler struct {
	api    domain.PostAPI
	policy FeedPolicy
	limit  int
	log    *slog.Logger
}

// NewFeedAssembler creates an assembler. A limit <= 0 uses
// DefaultGlobalLimit.
func NewFeedAssembler(api domain.PostAPI, policy FeedPolicy, limit int, log *slog.Logger) *FeedAssembler {
	if limit <= 0 {
		limit = DefaultGlobalLimit
	}
	if log == nil {
		log = slog.Default()
	}
	return &FeedAssembler{api: api, policy: policy, limit: limit, log: log}
}

// Assemble fetches the personalized feed and falls back to the global
// listing when the policy allows. If both fail the error wraps
// ErrFeedUnavailable and both causes.
func (a *FeedAssembler) Assemble(ctx context.Context) (*FeedResult, error) {
	posts, err := a.api.Feed(ctx)
	if err == nil && !(a.policy == FallbackEmptyOnly && len(posts) == 0) {
		return &FeedResult{Posts: posts, Source: SourcePersonalized}, nil
	}
	if err != nil && !a.fallsBackOn(err) {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedUnavailable, err)
	}

	if err != nil {
		a.log.Info("personalized feed failed, using global listing", "policy", a.policy, "error", err)
	} else {
		a.log.Debug("personalized feed empty, using global listing")
	}

	global, gerr := a.api.ListPosts(ctx, a.limit)
	if gerr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedUnavailable, errors.Join(err, gerr))
	}
	return &FeedResult{Posts: global, Source: SourceGlobal, PersonalizedErr: err}, nil
}

func (a *FeedAssembler) fallsBackOn(err error) bool {
	switch a.policy {
	case FallbackAlways:
		return true
	case FallbackEmptyOnly:
		return domain.KindOf(err) == domain.KindNotFound
	default:
		return false
	}
}

// FeedView is the home feed: a PostList loaded through a FeedAssembler that
// also accepts newly created posts.
type FeedView struct {
	*PostList
	feed   *FeedAssembler
	source FeedSource
}

// NewFeedView creates a feed view.
func NewFeedView(api domain.PostAPI, feed *FeedAssembler, opts ...ViewOption) *FeedView {
	return &FeedView{PostList: NewPostList(api, opts...), feed: feed}
}

// Load assembles the feed and replaces the held posts. On failure the held
// posts are left as they were, which for a fresh view is the empty state.
func (f *FeedView) Load(ctx context.Context) (*FeedResult, error) {
	if f.Closed() {
		return nil, domain.ErrViewClosed
	}
	res, err := f.feed.Assemble(ctx)
	if err != nil {
		f.log.Warn("failed to load feed", "error", err)
		if !f.Closed() {
			f.notify.Error("Failed to load feed")
		}
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, domain.ErrViewClosed
	}
	f.posts = clonePosts(res.Posts)
	f.source = res.Source
	return res, nil
}

// Refresh reloads the feed.
func (f *FeedView) Refresh(ctx context.Context) (*FeedResult, error) {
	return f.Load(ctx)
}

// Source reports where the held posts came from.
func (f *FeedView) Source() FeedSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source
}

// Create publishes a new post and prepends the server's copy to the feed.
func (f *FeedView) Create(ctx context.Context, np domain.NewPost) (*domain.Post, error) {
	np.Content = strings.TrimSpace(np.Content)
	if err := domain.Validate(np); err != nil {
		return nil, err
	}
	if np.Hashtags == nil {
		np.Hashtags = []string{}
	}
	post, err := mutate(ctx, &f.viewState, mutation[*domain.Post]{
		op:      "create_post",
		key:     "new-post",
		failMsg: "Failed to create post",
		call: func(ctx context.Context) (*domain.Post, error) {
			return f.api.CreatePost(ctx, np)
		},
		apply: func(p *domain.Post) error {
			f.posts = append([]domain.Post{p.Clone()}, f.posts...)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	f.notify.Success("Post created!")
	return post, nil
}
