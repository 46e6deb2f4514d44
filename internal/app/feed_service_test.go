package app

import (
	"context"
	"errors"
	"testing"

	"devsocial/internal/domain"
)

var (
	errNotFound = &domain.APIError{Op: "feed", Kind: domain.KindNotFound, Status: 404}
	errOutage   = &domain.APIError{Op: "feed", Kind: domain.KindServer, Status: 503}
)

func feedAPI(feed func() ([]domain.Post, error), global func() ([]domain.Post, error)) *mockPostAPI {
	return &mockPostAPI{
		feedFn: func(ctx context.Context) ([]domain.Post, error) { return feed() },
		listPostsFn: func(ctx context.Context, limit int) ([]domain.Post, error) {
			if global == nil {
				return nil, errNotMocked
			}
			return global()
		},
	}
}

func TestFeedAssembler_Policies(t *testing.T) {
	personal := []domain.Post{{ID: "mine"}}
	global := []domain.Post{{ID: "g1"}, {ID: "g2"}}
	okGlobal := func() ([]domain.Post, error) { return global, nil }

	tests := []struct {
		name       string
		policy     FeedPolicy
		feed       func() ([]domain.Post, error)
		wantSource FeedSource
		wantIDs    []string
		wantErr    bool
	}{
		{"always personalized ok", FallbackAlways, func() ([]domain.Post, error) { return personal, nil }, SourcePersonalized, []string{"mine"}, false},
		{"always on outage", FallbackAlways, func() ([]domain.Post, error) { return nil, errOutage }, SourceGlobal, []string{"g1", "g2"}, false},
		{"always keeps empty personalized", FallbackAlways, func() ([]domain.Post, error) { return []domain.Post{}, nil }, SourcePersonalized, nil, false},
		{"empty-only on empty", FallbackEmptyOnly, func() ([]domain.Post, error) { return []domain.Post{}, nil }, SourceGlobal, []string{"g1", "g2"}, false},
		{"empty-only on not found", FallbackEmptyOnly, func() ([]domain.Post, error) { return nil, errNotFound }, SourceGlobal, []string{"g1", "g2"}, false},
		{"empty-only surfaces outage", FallbackEmptyOnly, func() ([]domain.Post, error) { return nil, errOutage }, SourcePersonalized, nil, true},
		{"never surfaces not found", FallbackNever, func() ([]domain.Post, error) { return nil, errNotFound }, SourcePersonalized, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewFeedAssembler(feedAPI(tt.feed, okGlobal), tt.policy, 0, nil)
			res, err := a.Assemble(context.Background())
			if tt.wantErr {
				if !errors.Is(err, domain.ErrFeedUnavailable) {
					t.Fatalf("expected ErrFeedUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Source != tt.wantSource {
				t.Errorf("expected source %s, got %s", tt.wantSource, res.Source)
			}
			if len(res.Posts) != len(tt.wantIDs) {
				t.Fatalf("expected %d posts, got %d", len(tt.wantIDs), len(res.Posts))
			}
			for i, id := range tt.wantIDs {
				if res.Posts[i].ID != id {
					t.Errorf("post %d: expected %s, got %s", i, id, res.Posts[i].ID)
				}
			}
		})
	}
}

func TestFeedAssembler_RecordsPersonalizedError(t *testing.T) {
	a := NewFeedAssembler(feedAPI(
		func() ([]domain.Post, error) { return nil, errOutage },
		func() ([]domain.Post, error) { return []domain.Post{{ID: "g1"}}, nil },
	), FallbackAlways, 0, nil)

	res, err := a.Assemble(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if domain.KindOf(res.PersonalizedErr) != domain.KindServer {
		t.Errorf("expected masked outage to be recorded, got %v", res.PersonalizedErr)
	}
}

func TestFeedAssembler_BothFail(t *testing.T) {
	globalErr := &domain.APIError{Op: "list posts", Kind: domain.KindTransport}
	a := NewFeedAssembler(feedAPI(
		func() ([]domain.Post, error) { return nil, errOutage },
		func() ([]domain.Post, error) { return nil, globalErr },
	), FallbackAlways, 0, nil)

	res, err := a.Assemble(context.Background())
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	if !errors.Is(err, domain.ErrFeedUnavailable) || !errors.Is(err, errOutage) || !errors.Is(err, globalErr) {
		t.Errorf("expected both causes wrapped, got %v", err)
	}
}

func TestFeedAssembler_GlobalLimit(t *testing.T) {
	var got int
	api := &mockPostAPI{
		feedFn: func(ctx context.Context) ([]domain.Post, error) { return nil, errOutage },
		listPostsFn: func(ctx context.Context, limit int) ([]domain.Post, error) {
			got = limit
			return nil, nil
		},
	}
	if _, err := NewFeedAssembler(api, FallbackAlways, 0, nil).Assemble(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != DefaultGlobalLimit {
		t.Errorf("expected limit %d, got %d", DefaultGlobalLimit, got)
	}
}

func TestParseFeedPolicy(t *testing.T) {
	tests := map[string]FeedPolicy{
		"":           FallbackAlways,
		"always":     FallbackAlways,
		"Empty-Only": FallbackEmptyOnly,
		"never":      FallbackNever,
	}
	for in, want := range tests {
		got, err := ParseFeedPolicy(in)
		if err != nil {
			t.Errorf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Errorf("%q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseFeedPolicy("sometimes"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestFeedView_LoadFailureShowsErrorState(t *testing.T) {
	notifier := &recordingNotifier{}
	api := feedAPI(
		func() ([]domain.Post, error) { return nil, errOutage },
		func() ([]domain.Post, error) { return nil, errOutage },
	)
	v := NewFeedView(api, NewFeedAssembler(api, FallbackAlways, 0, nil), WithNotifier(notifier))

	if _, err := v.Load(context.Background()); err == nil {
		t.Fatal("expected error state, not a silent empty list")
	}
	if len(notifier.Errors()) != 1 {
		t.Errorf("expected one error message, got %v", notifier.Errors())
	}
	if v.Len() != 0 {
		t.Errorf("expected empty view, got %d posts", v.Len())
	}
}

func TestFeedView_LoadAndRefresh(t *testing.T) {
	round := 0
	api := feedAPI(func() ([]domain.Post, error) {
		round++
		if round == 1 {
			return []domain.Post{{ID: "a"}}, nil
		}
		return []domain.Post{{ID: "b"}, {ID: "c"}}, nil
	}, nil)
	v := NewFeedView(api, NewFeedAssembler(api, FallbackAlways, 0, nil))

	if _, err := v.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if v.Len() != 1 || v.Source() != SourcePersonalized {
		t.Fatalf("unexpected first load: %d posts from %s", v.Len(), v.Source())
	}
	if _, err := v.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if v.Len() != 2 {
		t.Errorf("expected refresh to replace the list, got %d posts", v.Len())
	}
}

func TestFeedView_CreatePrepends(t *testing.T) {
	var sent domain.NewPost
	api := &mockPostAPI{
		createPostFn: func(ctx context.Context, p domain.NewPost) (*domain.Post, error) {
			sent = p
			return &domain.Post{ID: "new", Content: p.Content}, nil
		},
	}
	v := NewFeedView(api, NewFeedAssembler(api, FallbackAlways, 0, nil))
	v.Replace(samplePosts())

	post, err := v.Create(context.Background(), domain.NewPost{Content: "  hello  "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sent.Content != "hello" || sent.Hashtags == nil {
		t.Errorf("unexpected payload %+v", sent)
	}
	if post.ID != "new" {
		t.Errorf("expected new, got %s", post.ID)
	}
	if got := v.Posts(); len(got) != 3 || got[0].ID != "new" {
		t.Errorf("expected created post first, got %+v", got)
	}
}

func TestFeedView_CreateRejectsBlank(t *testing.T) {
	called := false
	api := &mockPostAPI{
		createPostFn: func(ctx context.Context, p domain.NewPost) (*domain.Post, error) {
			called = true
			return nil, nil
		},
	}
	v := NewFeedView(api, NewFeedAssembler(api, FallbackAlways, 0, nil))

	_, err := v.Create(context.Background(), domain.NewPost{Content: "   "})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error, got %v", err)
	}
	if called {
		t.Error("expected no request for blank content")
	}
}
