package app

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"devsocial/internal/domain"
)

// DefaultPollInterval is the badge refresh period.
const DefaultPollInterval = 30 * time.Second

// PollerOption configures a BadgePoller.
type PollerOption func(*BadgePoller)

// WithInterval overrides the poll interval. Non-positive values are ignored.
func WithInterval(d time.Duration) PollerOption {
	return func(p *BadgePoller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithPollerLogger sets the logger.
func WithPollerLogger(l *slog.Logger) PollerOption {
	return func(p *BadgePoller) { p.log = l }
}

// WithPollerMetrics sets the metrics recorder.
func WithPollerMetrics(m domain.Metrics) PollerOption {
	return func(p *BadgePoller) { p.metrics = m }
}

// BadgePoller keeps the unread-notification count fresh by polling at a
// fixed interval while it is running. Failed ticks are logged and skipped;
// there is no backoff and the previous count is kept.
type BadgePoller struct {
	api      domain.NotificationAPI
	interval time.Duration
	log      *slog.Logger
	metrics  domain.Metrics

	mu       sync.Mutex
	count    int
	onChange []func(int)
	running  bool
}

// NewBadgePoller creates a stopped poller.
func NewBadgePoller(api domain.NotificationAPI, opts ...PollerOption) *BadgePoller {
	p := &BadgePoller{
		api:      api,
		interval: DefaultPollInterval,
		log:      slog.Default(),
		metrics:  domain.NopMetrics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the configured poll period.
func (p *BadgePoller) Interval() time.Duration { return p.interval }

// Start polls once immediately and then every interval until the returned
// stop function is called or ctx is done. stop waits for the loop to exit
// and is safe to call more than once. Starting a running poller returns a
// no-op stop.
func (p *BadgePoller) Start(ctx context.Context) (stop func()) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return func() {}
	}
	p.running = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
		})
	}
}

// Run polls until ctx is done.
func (p *BadgePoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll fetches the unread count once.
func (p *BadgePoller) Poll(ctx context.Context) {
	n, err := p.api.UnreadCount(ctx)
	p.metrics.ObservePoll(n, err)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warn("failed to fetch unread count", "error", err)
		}
		return
	}
	p.set(n)
}

// Count returns the last fetched unread count.
func (p *BadgePoller) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Reset sets the count to zero, as after marking everything read.
func (p *BadgePoller) Reset() { p.set(0) }

// OnChange registers fn to be called whenever the count changes.
func (p *BadgePoller) OnChange(fn func(int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

func (p *BadgePoller) set(n int) {
	p.mu.Lock()
	if p.count == n {
		p.mu.Unlock()
		return
	}
	p.count = n
	fns := slices.Clone(p.onChange)
	p.mu.Unlock()
	for _, fn := range fns {
		fn(n)
	}
}
