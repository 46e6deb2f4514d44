package app

import (
	"context"
	"log/slog"
	"sync"

	"devsocial/internal/domain"
)

// viewState is embedded by every view. It owns the view's lock, the
// per-entity in-flight guard and the closed flag.
//
// Lock order: an owning view's mu may be taken while its post list's mu is
// held, never the other way round.
type viewState struct {
	mu       sync.Mutex
	closed   bool
	inflight map[string]struct{}

	notify  domain.Notifier
	metrics domain.Metrics
	log     *slog.Logger
	hub     *PostHub
}

// ViewOption configures a view.
type ViewOption func(*viewState)

// WithNotifier sets where user-visible messages go.
func WithNotifier(n domain.Notifier) ViewOption {
	return func(v *viewState) { v.notify = n }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m domain.Metrics) ViewOption {
	return func(v *viewState) { v.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ViewOption {
	return func(v *viewState) { v.log = l }
}

// WithHub subscribes the view to like patches published by other views.
func WithHub(h *PostHub) ViewOption {
	return func(v *viewState) { v.hub = h }
}

// init sets defaults and applies opts. It must run before the view is
// shared.
func (v *viewState) init(opts []ViewOption) {
	v.inflight = make(map[string]struct{})
	v.notify = domain.NopNotifier{}
	v.metrics = domain.NopMetrics{}
	v.log = slog.Default()
	for _, opt := range opts {
		opt(v)
	}
}

// Close marks the view as unmounted. Responses that arrive afterwards are
// discarded.
func (v *viewState) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Closed reports whether Close has been called.
func (v *viewState) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// InFlight reports whether a mutation guarded by key is running.
func (v *viewState) InFlight(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.inflight[key]
	return ok
}

func (v *viewState) acquire(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.ErrViewClosed
	}
	if _, busy := v.inflight[key]; busy {
		return domain.ErrMutationInFlight
	}
	v.inflight[key] = struct{}{}
	return nil
}

func (v *viewState) release(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.inflight, key)
}

// mutation describes one remote mutation against a view-local copy.
type mutation[T any] struct {
	op      string // metrics/log name, e.g. "like"
	key     string // guard key, e.g. "post:<id>"
	failMsg string // fallback user-visible message
	call    func(context.Context) (T, error)
	// apply patches the local copy. It runs with v.mu held, only on success
	// and only if the view is still open. It must either fully apply or
	// return an error before changing anything.
	apply func(T) error
}

// mutate runs m under the per-key guard. A repeat trigger for a key that is
// in flight returns ErrMutationInFlight without calling the server. On
// failure the local copy is left untouched and the error is surfaced once;
// there is no retry.
func mutate[T any](ctx context.Context, v *viewState, m mutation[T]) (T, error) {
	var zero T
	if err := v.acquire(m.key); err != nil {
		if err == domain.ErrMutationInFlight {
			v.log.Debug("duplicate trigger ignored", "op", m.op, "key", m.key)
		}
		return zero, err
	}
	defer v.release(m.key)

	res, err := m.call(ctx)
	v.metrics.ObserveMutation(m.op, err)
	if err != nil {
		v.log.Warn("mutation failed", "op", m.op, "key", m.key, "error", err)
		if !v.Closed() {
			v.notify.Error(domain.UserMessage(err, m.failMsg))
		}
		return zero, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		v.log.Debug("response discarded for closed view", "op", m.op, "key", m.key)
		return zero, domain.ErrViewClosed
	}
	if err := m.apply(res); err != nil {
		return zero, err
	}
	return res, nil
}

// load runs a fetch for a view and hands the result to assign with v.mu
// held, unless the view was closed while the fetch was running.
func load[T any](ctx context.Context, v *viewState, fetch func(context.Context) (T, error), assign func(T)) error {
	if v.Closed() {
		return domain.ErrViewClosed
	}
	res, err := fetch(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.ErrViewClosed
	}
	assign(res)
	return nil
}

func postKey(id string) string     { return "post:" + id }
func userKey(id string) string     { return "user:" + id }
func commentsKey(id string) string { return "comments:" + id }
