// Package metrics implements the Metrics port with Prometheus collectors.
package metrics

import (
	"net/http"

	"devsocial/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the client's collectors on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	mutations  *prometheus.CounterVec
	polls      *prometheus.CounterVec
	unread     prometheus.Gauge
	lastPollOK prometheus.Gauge
}

// Ensure interfaces are met.
var _ domain.Metrics = (*Recorder)(nil)

// New creates a recorder with a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devsocial_mutations_total",
			Help: "Remote mutations by operation and result",
		}, []string{"op", "result", "kind"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devsocial_badge_polls_total",
			Help: "Unread-count polls by result",
		}, []string{"result"}),
		unread: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "devsocial_unread_notifications",
			Help: "Unread notification count from the last successful poll",
		}),
		lastPollOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "devsocial_badge_last_poll_success_timestamp_seconds",
			Help: "Unix time of the last successful unread-count poll",
		}),
	}
	r.registry.MustRegister(r.mutations, r.polls, r.unread, r.lastPollOK)
	return r
}

// ObserveMutation counts one mutation outcome.
func (r *Recorder) ObserveMutation(op string, err error) {
	if err != nil {
		r.mutations.WithLabelValues(op, "error", domain.KindOf(err).String()).Inc()
		return
	}
	r.mutations.WithLabelValues(op, "ok", "").Inc()
}

// ObservePoll counts one poll and, on success, records the count.
func (r *Recorder) ObservePoll(count int, err error) {
	if err != nil {
		r.polls.WithLabelValues("error").Inc()
		return
	}
	r.polls.WithLabelValues("ok").Inc()
	r.unread.Set(float64(count))
	r.lastPollOK.SetToCurrentTime()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
