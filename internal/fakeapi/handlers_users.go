package fakeapi

import (
	"net/http"
	"slices"
	"strings"

	"devsocial/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleUserByUsername(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "username")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Username == name {
			u := a.user.Clone()
			u.Email = ""
			writeJSON(w, http.StatusOK, u)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "User not found")
}

// handleSearchUsers matches q case-insensitively against username, full
// name and skills, ordered by username.
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		writeMissing(w, "q")
		return
	}
	limit := intQuery(r, "limit", defaultPageSize)

	s.mu.Lock()
	out := make([]domain.User, 0)
	for _, a := range s.accounts {
		u := a.user
		match := strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.FullName), q) ||
			slices.ContainsFunc(u.Skills, func(sk string) bool { return strings.Contains(strings.ToLower(sk), q) })
		if match {
			c := u.Clone()
			c.Email = ""
			out = append(out, *c)
		}
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b domain.User) int { return strings.Compare(a.Username, b.Username) })
	if len(out) > limit {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.ProfileUpdate
	if err := parseJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	a := userFrom(r.Context())

	s.mu.Lock()
	if strings.TrimSpace(req.FullName) != "" {
		a.user.FullName = req.FullName
	}
	a.user.Bio = req.Bio
	if req.Skills != nil {
		a.user.Skills = append([]string(nil), req.Skills...)
	}
	u := a.user.Clone()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "userID")
	me := userFrom(r.Context())
	if target == me.user.ID {
		writeDetail(w, http.StatusBadRequest, "Cannot follow yourself")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	other := s.accounts[target]
	if other == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if s.follows[me.user.ID][target] {
		delete(s.follows[me.user.ID], target)
		me.user.FollowingCount--
		other.user.FollowersCount--
		writeJSON(w, http.StatusOK, domain.FollowResult{Status: domain.StatusUnfollowed})
		return
	}
	if s.follows[me.user.ID] == nil {
		s.follows[me.user.ID] = make(map[string]bool)
	}
	s.follows[me.user.ID][target] = true
	me.user.FollowingCount++
	other.user.FollowersCount++
	s.notifyLocked(target, domain.NotifyFollow, me, "")
	writeJSON(w, http.StatusOK, domain.FollowResult{Status: domain.StatusFollowed})
}

func (s *Server) handleIsFollowing(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "userID")
	me := userFrom(r.Context())
	s.mu.Lock()
	following := s.follows[me.user.ID][target]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"is_following": following})
}

// notifyLocked records a notification for userID caused by from.
func (s *Server) notifyLocked(userID string, typ domain.NotificationType, from *account, postID string) {
	if userID == from.user.ID {
		return
	}
	n := domain.Notification{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         typ,
		FromUserID:   from.user.ID,
		FromUsername: from.user.Username,
		PostID:       postID,
		CreatedAt:    s.now().UTC(),
	}
	s.notifications = append([]domain.Notification{n}, s.notifications...)
}
