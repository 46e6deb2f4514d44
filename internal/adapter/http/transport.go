package adapthttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"devsocial/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// withBearer is the pre-send hook. The token is read from the store on every
// request; when the store holds none the Authorization header is omitted.
func withBearer(store domain.CredentialStore, next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		token, err := store.Token(r.Context())
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		if token == "" {
			return next.RoundTrip(r)
		}
		t := &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   next,
		}
		return t.RoundTrip(r)
	})
}

func withRequestID(next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(RequestIDHeader) != "" {
			return next.RoundTrip(r)
		}
		r2 := r.Clone(r.Context())
		r2.Header.Set(RequestIDHeader, uuid.NewString())
		return next.RoundTrip(r2)
	})
}

// withLogging logs one line per request. Tokens are never logged.
func withLogging(log *slog.Logger, next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(r)
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		}
		if err != nil {
			log.Warn("request failed", append(attrs, "error", err)...)
			return nil, err
		}
		// resp.Request is the request as finally sent, after the inner
		// hooks added their headers.
		sent := r
		if resp.Request != nil {
			sent = resp.Request
		}
		attrs = append(attrs,
			"status", resp.StatusCode,
			"request_id", sent.Header.Get(RequestIDHeader),
			"token_present", sent.Header.Get("Authorization") != "",
		)
		log.Debug("request", attrs...)
		return resp, nil
	})
}
