package fakeapi

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"devsocial/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	limit := intQuery(r, "limit", 50)
	s.mu.Lock()
	out := []domain.Notification{}
	for _, n := range s.notifications {
		if n.UserID == me.user.ID {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	s.mu.Lock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == me.user.ID && !n.Read {
			count++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].UserID == me.user.ID {
			s.notifications[i].Read = true
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeMissing(w, "file")
		return
	}
	defer file.Close()

	ct := header.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	if !allowedUploadTypes[ct] {
		writeDetail(w, http.StatusBadRequest, "File type not allowed")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "File too large")
		return
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	s.mu.Lock()
	s.uploads[name] = data
	s.mu.Unlock()

	mediaType := "video"
	if strings.HasPrefix(ct, "image/") {
		mediaType = "image"
	}
	writeJSON(w, http.StatusOK, domain.Upload{URL: "/api/uploads/" + name, MediaType: mediaType, Filename: name})
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	data, ok := s.uploads[name]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	_, _ = w.Write(data)
}
