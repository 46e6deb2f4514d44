package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotAuthenticated is returned by operations that need a session when
	// none is established.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoCredentials is returned when no token is persisted.
	ErrNoCredentials = errors.New("no persisted credentials")
	// ErrMutationInFlight is returned when a mutation for the same entity is
	// already running in the same view. The trigger is ignored.
	ErrMutationInFlight = errors.New("mutation already in flight")
	// ErrViewClosed is returned when a response arrives after its view was
	// closed. The response is discarded.
	ErrViewClosed = errors.New("view closed")
	// ErrFeedUnavailable is returned when neither the personalized nor the
	// global feed could be loaded.
	ErrFeedUnavailable = errors.New("feed unavailable")
	// ErrNotFoundLocally is returned when an entity id is not held by the view.
	ErrNotFoundLocally = errors.New("entity not held by view")
)

// ErrorKind classifies a failed remote operation.
type ErrorKind int

// Error kinds. KindTransport means no HTTP response was received at all.
const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalid
	KindConflict
	KindServer
)

// String returns the lower-case kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// KindForStatus maps an HTTP status code to an ErrorKind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindInvalid
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// APIError describes a failed call to the remote service.
type APIError struct {
	Op      string
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of err, or KindUnknown if err is not an
// APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// UserMessage returns the server-provided message carried by err, or
// fallback when there is none.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return fallback
}
