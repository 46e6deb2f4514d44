package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"devsocial/internal/domain"
)

var errNotMocked = errors.New("not mocked")

type mockAuthAPI struct {
	meFn       func(ctx context.Context) (*domain.User, error)
	loginFn    func(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error)
	registerFn func(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error)

	mu    sync.Mutex
	calls int
}

func (m *mockAuthAPI) count() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockAuthAPI) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockAuthAPI) Me(ctx context.Context) (*domain.User, error) {
	m.count()
	if m.meFn != nil {
		return m.meFn(ctx)
	}
	return nil, errNotMocked
}

func (m *mockAuthAPI) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	m.count()
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return nil, errNotMocked
}

func (m *mockAuthAPI) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	m.count()
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, errNotMocked
}

type mockUserAPI struct {
	userByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	searchUsersFn    func(ctx context.Context, query string) ([]domain.User, error)
	toggleFollowFn   func(ctx context.Context, userID string) (*domain.FollowResult, error)
	isFollowingFn    func(ctx context.Context, userID string) (bool, error)
	updateProfileFn  func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error)
}

func (m *mockUserAPI) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.userByUsernameFn != nil {
		return m.userByUsernameFn(ctx, username)
	}
	return nil, errNotMocked
}

func (m *mockUserAPI) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	if m.searchUsersFn != nil {
		return m.searchUsersFn(ctx, query)
	}
	return nil, errNotMocked
}

func (m *mockUserAPI) ToggleFollow(ctx context.Context, userID string) (*domain.FollowResult, error) {
	if m.toggleFollowFn != nil {
		return m.toggleFollowFn(ctx, userID)
	}
	return nil, errNotMocked
}

func (m *mockUserAPI) IsFollowing(ctx context.Context, userID string) (bool, error) {
	if m.isFollowingFn != nil {
		return m.isFollowingFn(ctx, userID)
	}
	return false, errNotMocked
}

func (m *mockUserAPI) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, update)
	}
	return nil, errNotMocked
}

type mockPostAPI struct {
	feedFn         func(ctx context.Context) ([]domain.Post, error)
	listPostsFn    func(ctx context.Context, limit int) ([]domain.Post, error)
	userPostsFn    func(ctx context.Context, userID string) ([]domain.Post, error)
	getPostFn      func(ctx context.Context, id string) (*domain.Post, error)
	createPostFn   func(ctx context.Context, p domain.NewPost) (*domain.Post, error)
	deletePostFn   func(ctx context.Context, id string) error
	toggleLikeFn   func(ctx context.Context, id string) (*domain.LikeResult, error)
	commentsFn     func(ctx context.Context, postID string) ([]domain.Comment, error)
	addCommentFn   func(ctx context.Context, postID, content string) (*domain.Comment, error)
	searchPostsFn  func(ctx context.Context, query string) ([]domain.Post, error)
	hashtagPostsFn func(ctx context.Context, tag string) ([]domain.Post, error)
	trendingFn     func(ctx context.Context, limit int) ([]domain.TrendingTag, error)
}

func (m *mockPostAPI) Feed(ctx context.Context) ([]domain.Post, error) {
	if m.feedFn != nil {
		return m.feedFn(ctx)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) ListPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	if m.listPostsFn != nil {
		return m.listPostsFn(ctx, limit)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) UserPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	if m.userPostsFn != nil {
		return m.userPostsFn(ctx, userID)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) SearchPosts(ctx context.Context, query string) ([]domain.Post, error) {
	if m.searchPostsFn != nil {
		return m.searchPostsFn(ctx, query)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) HashtagPosts(ctx context.Context, tag string) ([]domain.Post, error) {
	if m.hashtagPostsFn != nil {
		return m.hashtagPostsFn(ctx, tag)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) Trending(ctx context.Context, limit int) ([]domain.TrendingTag, error) {
	if m.trendingFn != nil {
		return m.trendingFn(ctx, limit)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	if m.getPostFn != nil {
		return m.getPostFn(ctx, id)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) CreatePost(ctx context.Context, p domain.NewPost) (*domain.Post, error) {
	if m.createPostFn != nil {
		return m.createPostFn(ctx, p)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) DeletePost(ctx context.Context, id string) error {
	if m.deletePostFn != nil {
		return m.deletePostFn(ctx, id)
	}
	return errNotMocked
}

func (m *mockPostAPI) ToggleLike(ctx context.Context, id string) (*domain.LikeResult, error) {
	if m.toggleLikeFn != nil {
		return m.toggleLikeFn(ctx, id)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) Comments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if m.commentsFn != nil {
		return m.commentsFn(ctx, postID)
	}
	return nil, errNotMocked
}

func (m *mockPostAPI) AddComment(ctx context.Context, postID, content string) (*domain.Comment, error) {
	if m.addCommentFn != nil {
		return m.addCommentFn(ctx, postID, content)
	}
	return nil, errNotMocked
}

type mockNotificationAPI struct {
	notificationsFn func(ctx context.Context) ([]domain.Notification, error)
	unreadCountFn   func(ctx context.Context) (int, error)
	markReadFn      func(ctx context.Context) error
}

func (m *mockNotificationAPI) Notifications(ctx context.Context) ([]domain.Notification, error) {
	if m.notificationsFn != nil {
		return m.notificationsFn(ctx)
	}
	return nil, errNotMocked
}

func (m *mockNotificationAPI) UnreadCount(ctx context.Context) (int, error) {
	if m.unreadCountFn != nil {
		return m.unreadCountFn(ctx)
	}
	return 0, errNotMocked
}

func (m *mockNotificationAPI) MarkRead(ctx context.Context) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx)
	}
	return errNotMocked
}

type mockMediaAPI struct {
	uploadFn func(ctx context.Context, filename string, r io.Reader) (*domain.Upload, error)
}

func (m *mockMediaAPI) Upload(ctx context.Context, filename string, r io.Reader) (*domain.Upload, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, filename, r)
	}
	return nil, errNotMocked
}

// recordingNotifier collects user-visible messages.
type recordingNotifier struct {
	mu        sync.Mutex
	errors    []string
	successes []string
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

func (n *recordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

// recordingMetrics counts observations by op.
type recordingMetrics struct {
	mu        sync.Mutex
	mutations map[string]int
	failures  map[string]int
	polls     int
	pollErrs  int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{mutations: map[string]int{}, failures: map[string]int{}}
}

func (m *recordingMetrics) ObserveMutation(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations[op]++
	if err != nil {
		m.failures[op]++
	}
}

func (m *recordingMetrics) ObservePoll(count int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
	if err != nil {
		m.pollErrs++
	}
}

func samplePosts() []domain.Post {
	return []domain.Post{
		{ID: "p1", UserID: "u1", Username: "alice", Content: "first", Hashtags: []string{"go"}, LikesCount: 3},
		{ID: "p2", UserID: "u2", Username: "bob", Content: "second", LikesCount: 0, IsLiked: false},
	}
}

type mockAIAPI struct {
	explainCodeFn     func(ctx context.Context, req domain.CodeRequest) (string, error)
	detectBugsFn      func(ctx context.Context, req domain.CodeRequest) (string, error)
	careerGuidanceFn  func(ctx context.Context, req domain.CareerRequest) (string, error)
	generateCaptionFn func(ctx context.Context, req domain.CaptionRequest) (*domain.Caption, error)
}

func (m *mockAIAPI) ExplainCode(ctx context.Context, req domain.CodeRequest) (string, error) {
	if m.explainCodeFn != nil {
		return m.explainCodeFn(ctx, req)
	}
	return "", errNotMocked
}

func (m *mockAIAPI) DetectBugs(ctx context.Context, req domain.CodeRequest) (string, error) {
	if m.detectBugsFn != nil {
		return m.detectBugsFn(ctx, req)
	}
	return "", errNotMocked
}

func (m *mockAIAPI) CareerGuidance(ctx context.Context, req domain.CareerRequest) (string, error) {
	if m.careerGuidanceFn != nil {
		return m.careerGuidanceFn(ctx, req)
	}
	return "", errNotMocked
}

func (m *mockAIAPI) GenerateCaption(ctx context.Context, req domain.CaptionRequest) (*domain.Caption, error) {
	if m.generateCaptionFn != nil {
		return m.generateCaptionFn(ctx, req)
	}
	return nil, errNotMocked
}
