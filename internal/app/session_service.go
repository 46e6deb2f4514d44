// Package app holds the client-side application services: the session
// lifecycle, the views that hold local copies of remote entities, and the
// notification badge poller.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"devsocial/internal/domain"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrMalformedAuthResult indicates a login or register response without a
	// token or user record.
	ErrMalformedAuthResult = errors.New("auth response missing token or user")
	// ErrTokenExpired indicates the persisted token was expired before any
	// network check was made.
	ErrTokenExpired = errors.New("persisted token expired")
)

// State is the authentication state of the session.
type State int

// Session states. Verifying is only entered at startup, when persisted
// credentials exist and have not yet been confirmed by the server.
const (
	StateUnauthenticated State = iota
	StateVerifying
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Gate is what a protected surface should do for the current state.
type Gate int

// Gate decisions.
const (
	GateBlock Gate = iota
	GateRedirectLogin
	GateRender
)

func (g Gate) String() string {
	switch g {
	case GateRedirectLogin:
		return "redirect_login"
	case GateRender:
		return "render"
	default:
		return "block"
	}
}

// Session is a point-in-time snapshot of the session.
type Session struct {
	State State
	User  *domain.User
}

// Gate maps the snapshot state to a gating decision.
func (s Session) Gate() Gate {
	switch s.State {
	case StateAuthenticated:
		return GateRender
	case StateVerifying:
		return GateBlock
	default:
		return GateRedirectLogin
	}
}

// TokenChecker inspects a token locally, without a network call.
type TokenChecker interface {
	Expired(ctx context.Context, token string) bool
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithTokenChecker enables the local expiry check at startup.
func WithTokenChecker(tc TokenChecker) SessionOption {
	return func(m *SessionManager) { m.tokens = tc }
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(m *SessionManager) { m.log = l }
}

// SessionManager owns the authentication state and the persisted
// credentials. It is the single writer of the credential store.
type SessionManager struct {
	store  domain.CredentialStore
	api    domain.AuthAPI
	tokens TokenChecker
	log    *slog.Logger

	verify singleflight.Group

	mu    sync.RWMutex
	state State
	user  *domain.User
	// epoch is bumped by every login, register and logout. A verification
	// that started in an older epoch does not touch state or storage.
	epoch   uint64
	subs    map[int]func(Session)
	nextSub int
}

// NewSessionManager creates a session manager in the Unauthenticated state.
// Call Start to restore persisted credentials.
func NewSessionManager(store domain.CredentialStore, api domain.AuthAPI, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		store: store,
		api:   api,
		log:   slog.Default(),
		subs:  make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start restores the persisted session. With no persisted token or user it
// settles in Unauthenticated. Otherwise the cached user is exposed while
// Verifying and the token is confirmed against the server.
func (m *SessionManager) Start(ctx context.Context) (Session, error) {
	token, err := m.store.Token(ctx)
	if err != nil {
		m.log.Error("failed to read persisted token", "error", err)
		m.transition(m.currentEpoch(), StateUnauthenticated, nil)
		return m.Snapshot(), fmt.Errorf("read token: %w", err)
	}
	user, err := m.store.User(ctx)
	if err != nil {
		m.log.Error("failed to read cached user", "error", err)
		m.transition(m.currentEpoch(), StateUnauthenticated, nil)
		return m.Snapshot(), fmt.Errorf("read user: %w", err)
	}
	if token == "" || user == nil {
		m.transition(m.currentEpoch(), StateUnauthenticated, nil)
		return m.Snapshot(), nil
	}

	m.transition(m.currentEpoch(), StateVerifying, user)
	return m.Verify(ctx)
}

// Verify confirms the persisted token with GET /auth/me. Concurrent calls
// share one request. On success the returned user replaces the cached one;
// on any failure both persisted keys are cleared.
//
// The shared request is detached from ctx: a caller that gives up returns
// ctx.Err() while the check still completes, and cancellation alone never
// clears the credentials.
func (m *SessionManager) Verify(ctx context.Context) (Session, error) {
	ch := m.verify.DoChan("verify", func() (any, error) {
		return nil, m.doVerify(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return m.Snapshot(), res.Err
	case <-ctx.Done():
		return m.Snapshot(), ctx.Err()
	}
}

func (m *SessionManager) doVerify(ctx context.Context) error {
	epoch := m.currentEpoch()

	token, err := m.store.Token(ctx)
	if err != nil {
		return m.fail(ctx, epoch, fmt.Errorf("read token: %w", err))
	}
	if token == "" {
		return m.fail(ctx, epoch, domain.ErrNoCredentials)
	}
	if m.tokens != nil && m.tokens.Expired(ctx, token) {
		m.log.Info("persisted token expired, skipping verification")
		return m.fail(ctx, epoch, ErrTokenExpired)
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		return m.fail(ctx, epoch, err)
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.log.Debug("stale verification discarded")
		return nil
	}
	if err := m.store.SaveUser(ctx, user); err != nil {
		m.mu.Unlock()
		m.log.Error("failed to persist verified user", "error", err)
		return m.fail(ctx, epoch, fmt.Errorf("save user: %w", err))
	}
	m.state, m.user = StateAuthenticated, user.Clone()
	snap := m.snapshotLocked()
	subs := m.subscribersLocked()
	m.mu.Unlock()

	m.log.Info("session verified", "username", user.Username)
	publish(subs, snap)
	return nil
}

// fail clears the persisted credentials and drops to Unauthenticated, unless
// a login or logout happened since epoch.
func (m *SessionManager) fail(ctx context.Context, epoch uint64, cause error) error {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.log.Debug("stale verification failure discarded", "error", cause)
		return cause
	}
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error("failed to clear credentials", "error", err)
	}
	m.state, m.user = StateUnauthenticated, nil
	snap := m.snapshotLocked()
	subs := m.subscribersLocked()
	m.mu.Unlock()

	m.log.Info("session verification failed", "error", cause)
	publish(subs, snap)
	return cause
}

// Login authenticates with email and password. On success the token and
// user are persisted together and the state becomes Authenticated. On
// failure nothing changes.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	req := domain.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	res, err := m.api.Login(ctx, req)
	if err != nil {
		m.log.Warn("login failed", "error", err)
		return nil, err
	}
	return m.establish(ctx, res)
}

// Register creates an account and establishes a session exactly like Login.
func (m *SessionManager) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	if req.Skills == nil {
		req.Skills = []string{}
	}
	res, err := m.api.Register(ctx, req)
	if err != nil {
		m.log.Warn("registration failed", "error", err)
		return nil, err
	}
	return m.establish(ctx, res)
}

func (m *SessionManager) establish(ctx context.Context, res *domain.AuthResult) (*domain.User, error) {
	if res == nil || res.Token == "" || res.User == nil {
		return nil, ErrMalformedAuthResult
	}

	m.mu.Lock()
	if err := m.store.Save(ctx, res.Token, res.User); err != nil {
		m.mu.Unlock()
		m.log.Error("failed to persist credentials", "error", err)
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	m.epoch++
	m.state, m.user = StateAuthenticated, res.User.Clone()
	snap := m.snapshotLocked()
	subs := m.subscribersLocked()
	m.mu.Unlock()

	m.log.Info("session established", "username", res.User.Username)
	publish(subs, snap)
	return res.User.Clone(), nil
}

// Logout clears the persisted credentials and the in-memory user. It makes
// no network call. The state becomes Unauthenticated even if clearing the
// store fails; the store error is returned.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	err := m.store.Clear(ctx)
	m.epoch++
	m.state, m.user = StateUnauthenticated, nil
	snap := m.snapshotLocked()
	subs := m.subscribersLocked()
	m.mu.Unlock()

	if err != nil {
		m.log.Error("failed to clear credentials", "error", err)
		err = fmt.Errorf("clear credentials: %w", err)
	} else {
		m.log.Info("logged out")
	}
	publish(subs, snap)
	return err
}

// UpdateUser replaces the cached user in memory and in storage. It does not
// change the authentication state.
func (m *SessionManager) UpdateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("update user: nil user")
	}
	m.mu.Lock()
	if err := m.store.SaveUser(ctx, user); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("save user: %w", err)
	}
	m.user = user.Clone()
	snap := m.snapshotLocked()
	subs := m.subscribersLocked()
	m.mu.Unlock()

	publish(subs, snap)
	return nil
}

// Snapshot returns the current state and a copy of the user.
func (m *SessionManager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// CurrentUser returns a copy of the current user, or nil.
func (m *SessionManager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Clone()
}

// Gate returns the gating decision for the current state.
func (m *SessionManager) Gate() Gate {
	return m.Snapshot().Gate()
}

// Subscribe registers fn to be called after every state or user change.
// The returned function unsubscribes.
func (m *SessionManager) Subscribe(fn func(Session)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *SessionManager) transition(epoch uint64, state State, user *domain.User) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	m.state, m.user = state, user.Clone()
	snap := m.snapshotLocked()
	subs := m.subscribersLocked()
	m.mu.Unlock()
	publish(subs, snap)
}

func (m *SessionManager) currentEpoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch
}

func (m *SessionManager) snapshotLocked() Session {
	return Session{State: m.state, User: m.user.Clone()}
}

func (m *SessionManager) subscribersLocked() []func(Session) {
	out := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		out = append(out, fn)
	}
	return out
}

func publish(subs []func(Session), s Session) {
	for _, fn := range subs {
		fn(Session{State: s.State, User: s.User.Clone()})
	}
}
