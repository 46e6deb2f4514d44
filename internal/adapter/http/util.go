package adapthttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"devsocial/internal/domain"
)

var (
	errMissingHost  = errors.New("base url must include scheme and host")
	errEmptySegment = errors.New("empty path segment")
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

func (c *Client) do(ctx context.Context, op, method string, path []string, query url.Values, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &domain.APIError{Op: op, Kind: domain.KindUnknown, Err: fmt.Errorf("encode request: %w", err)}
		}
		rdr = bytes.NewReader(b)
	}

	segs, err := escapeSegments(path)
	if err != nil {
		return &domain.APIError{Op: op, Kind: domain.KindInvalid, Err: err}
	}
	u := c.base.JoinPath(segs...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return &domain.APIError{Op: op, Kind: domain.KindUnknown, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(op, req, out)
}

func (c *Client) send(op string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.APIError{Op: op, Kind: domain.KindTransport, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.APIError{Op: op, Kind: domain.KindUnknown, Status: resp.StatusCode, Err: fmt.Errorf("invalid json: %w", err)}
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError, lifting the
// server's "detail" field into Message when present.
func decodeError(op string, resp *http.Response) error {
	apiErr := &domain.APIError{
		Op:     op,
		Kind:   domain.KindForStatus(resp.StatusCode),
		Status: resp.StatusCode,
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		apiErr.Err = err
		return apiErr
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil && len(payload.Detail) > 0 {
		apiErr.Message = detailMessage(payload.Detail)
	}
	if apiErr.Message == "" {
		apiErr.Err = errors.New(http.StatusText(resp.StatusCode))
	}
	return apiErr
}

// detailMessage handles both the string form and the list-of-objects form
// (request validation failures) of "detail".
func detailMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

// escapeSegments escapes each element so ids and usernames stay a single
// path segment. JoinPath treats its arguments as escaped and cleans dot
// segments, so "." is escaped as well.
func escapeSegments(path []string) ([]string, error) {
	out := make([]string, len(path))
	for i, p := range path {
		if p == "" {
			return nil, errEmptySegment
		}
		e := url.PathEscape(p)
		if strings.Trim(e, ".") == "" {
			e = strings.ReplaceAll(e, ".", "%2E")
		}
		out[i] = e
	}
	return out, nil
}
