// Package fakeapi is an in-memory stand-in for the remote social service.
// It speaks the same REST dialect the client expects and supports fault
// injection, so the client can be exercised end to end without a backend.
package fakeapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"devsocial/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type account struct {
	user     domain.User
	password []byte
}

type fault struct {
	status int
	detail string
	times  int // <= 0 means until Reset
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithTokenTTL sets how long issued tokens live.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server holds all state in memory behind one mutex.
type Server struct {
	now      func() time.Time
	tokenTTL time.Duration
	log      *slog.Logger
	router   chi.Router

	mu            sync.Mutex
	accounts      map[string]*account // by user id
	tokens        map[string]session
	posts         map[string]*domain.Post
	order         []string // post ids, newest first
	likes         map[string]map[string]bool
	comments      map[string][]domain.Comment
	follows       map[string]map[string]bool // follower -> followee
	notifications []domain.Notification
	uploads       map[string][]byte

	faults map[string]*fault
	holds  map[string]chan struct{}
	hits   map[string]int
}

type session struct {
	userID  string
	expires time.Time
}

// New creates an empty server.
func New(opts ...Option) *Server {
	s := &Server{
		now:      time.Now,
		tokenTTL: 7 * 24 * time.Hour,
		log:      slog.Default(),
		accounts: make(map[string]*account),
		tokens:   make(map[string]session),
		posts:    make(map[string]*domain.Post),
		likes:    make(map[string]map[string]bool),
		comments: make(map[string][]domain.Comment),
		follows:  make(map[string]map[string]bool),
		uploads:  make(map[string][]byte),
		faults:   make(map[string]*fault),
		holds:    make(map[string]chan struct{}),
		hits:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

// Handler returns the root handler. The API is mounted under /api.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.injectFaults)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/users/username/{username}", s.handleUserByUsername)
		r.Get("/users/{userID}/posts", s.withOptionalUser(s.handleUserPosts))
		r.Get("/posts", s.withOptionalUser(s.handleListPosts))
		r.Get("/posts/{postID}", s.withOptionalUser(s.handleGetPost))
		r.Get("/posts/{postID}/comments", s.handleListComments)
		r.Get("/search/posts", s.withOptionalUser(s.handleSearchPosts))
		r.Get("/search/users", s.handleSearchUsers)
		r.Get("/hashtags/{tag}/posts", s.withOptionalUser(s.handleHashtagPosts))
		r.Get("/trending/hashtags", s.handleTrending)
		r.Get("/uploads/{name}", s.handleGetUpload)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/auth/me", s.handleMe)
			r.Put("/users/profile", s.handleUpdateProfile)
			r.Post("/users/{userID}/follow", s.handleFollow)
			r.Get("/users/{userID}/is-following", s.handleIsFollowing)
			r.Get("/posts/feed", s.handleFeed)
			r.Post("/posts", s.handleCreatePost)
			r.Delete("/posts/{postID}", s.handleDeletePost)
			r.Post("/posts/{postID}/like", s.handleLike)
			r.Post("/posts/{postID}/comments", s.handleAddComment)
			r.Get("/notifications", s.handleNotifications)
			r.Get("/notifications/unread-count", s.handleUnreadCount)
			r.Post("/notifications/mark-read", s.handleMarkRead)
			r.Post("/upload", s.handleUpload)
			r.Post("/ai/explain-code", s.handleExplainCode)
			r.Post("/ai/detect-bugs", s.handleDetectBugs)
			r.Post("/ai/career-guidance", s.handleCareerGuidance)
			r.Post("/ai/generate-caption", s.handleGenerateCaption)
		})
	})

	s.router = r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("fakeapi request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", s.now().Sub(start),
		)
	})
}

// Fail makes the next times requests to method+path (path relative to
// /api, e.g. "/posts/feed") answer status with detail. times <= 0 fails
// until Reset.
func (s *Server) Fail(method, path string, status int, detail string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = &fault{status: status, detail: detail, times: times}
}

// Hold blocks requests to method+path until the returned release is called.
func (s *Server) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[method+" "+path] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, method+" "+path)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Reset removes all injected faults.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]*fault)
}

// Hits returns how many requests reached method+path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + trimAPI(r.URL.Path)

		s.mu.Lock()
		s.hits[key]++
		hold := s.holds[key]
		f := s.faults[key]
		var status int
		var detail string
		if f != nil {
			status, detail = f.status, f.detail
			if f.times > 0 {
				f.times--
				if f.times == 0 {
					delete(s.faults, key)
				}
			}
		}
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeDetail(w, status, detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func userFrom(ctx context.Context) *account {
	a, _ := ctx.Value(ctxKey{}).(*account)
	return a
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, detail := s.authenticate(r)
		if a == nil {
			writeDetail(w, http.StatusUnauthorized, detail)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, a)))
	})
}

func (s *Server) withOptionalUser(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a, _ := s.authenticate(r); a != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, a))
		}
		h(w, r)
	}
}

func (s *Server) authenticate(r *http.Request) (*account, string) {
	token, ok := bearer(r)
	if !ok {
		return nil, "Not authenticated"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.tokens[token]
	if !ok {
		return nil, "Invalid token"
	}
	if !s.now().Before(sess.expires) {
		return nil, "Token expired"
	}
	a := s.accounts[sess.userID]
	if a == nil {
		return nil, "User not found"
	}
	return a, ""
}
