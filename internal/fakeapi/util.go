package fakeapi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail answers in the {"detail": "..."} error shape.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeMissing answers 422 with a validation list naming the empty fields.
func writeMissing(w http.ResponseWriter, fields ...string) {
	type item struct {
		Loc  []string `json:"loc"`
		Msg  string   `json:"msg"`
		Type string   `json:"type"`
	}
	out := make([]item, 0, len(fields))
	for _, f := range fields {
		out = append(out, item{Loc: []string{"body", f}, Msg: "Field required", Type: "missing"})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": out})
}

func parseJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func trimAPI(path string) string {
	if p, ok := strings.CutPrefix(path, "/api"); ok {
		return p
	}
	return path
}

// issueToken returns a JWT-shaped token carrying user_id and exp. The
// signature part is random; the server authenticates by lookup.
func issueToken(userID string, exp time.Time) string {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, _ := json.Marshal(map[string]any{"user_id": userID, "exp": exp.Unix()})
	return header + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte(uuid.NewString()))
}
