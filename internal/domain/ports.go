package domain

// Notifier surfaces transient, user-visible messages (a toast in a UI, a
// line on stderr in the CLI).
type Notifier interface {
	Error(msg string)
	Success(msg string)
}

// Metrics records client-side outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveMutation(op string, err error)
	ObservePoll(count int, err error)
}

// NopNotifier discards every message.
type NopNotifier struct{}

func (NopNotifier) Error(string)   {}
func (NopNotifier) Success(string) {}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) ObserveMutation(string, error) {}
func (NopMetrics) ObservePoll(int, error)        {}
