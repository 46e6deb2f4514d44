package fakeapi

import (
	"net/http"
	"slices"
	"sort"
	"strings"

	"devsocial/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const defaultPageSize = 20

// viewLocked returns a copy of p as seen by viewer (may be nil).
func (s *Server) viewLocked(p *domain.Post, viewer *account) domain.Post {
	out := p.Clone()
	out.IsLiked = viewer != nil && s.likes[p.ID][viewer.user.ID]
	return out
}

// listLocked returns up to limit posts, newest first, matching keep.
func (s *Server) listLocked(viewer *account, limit int, keep func(*domain.Post) bool) []domain.Post {
	out := []domain.Post{}
	for _, id := range s.order {
		p := s.posts[id]
		if keep != nil && !keep(p) {
			continue
		}
		out = append(out, s.viewLocked(p, viewer))
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *Server) writeList(w http.ResponseWriter, r *http.Request, keep func(*domain.Post) bool) {
	viewer := userFrom(r.Context())
	limit := intQuery(r, "limit", defaultPageSize)
	s.mu.Lock()
	out := s.listLocked(viewer, limit, keep)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	s.writeList(w, r, nil)
}

// handleFeed returns posts by followed users and the viewer's own posts. A
// viewer who follows nobody gets a 404, as the real backend answers.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	s.mu.Lock()
	following := len(s.follows[me.user.ID])
	s.mu.Unlock()
	if following == 0 {
		writeDetail(w, http.StatusNotFound, "Not following anyone")
		return
	}
	s.writeList(w, r, func(p *domain.Post) bool {
		return p.UserID == me.user.ID || s.follows[me.user.ID][p.UserID]
	})
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.writeList(w, r, func(p *domain.Post) bool { return p.UserID == userID })
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		writeMissing(w, "q")
		return
	}
	s.writeList(w, r, func(p *domain.Post) bool {
		return strings.Contains(strings.ToLower(p.Content), q) || strings.Contains(strings.ToLower(p.CodeSnippet), q)
	})
}

func (s *Server) handleHashtagPosts(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimPrefix(chi.URLParam(r, "tag"), "#")
	s.writeList(w, r, func(p *domain.Post) bool {
		return slices.ContainsFunc(p.Hashtags, func(h string) bool { return strings.EqualFold(h, tag) })
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 10)
	counts := map[string]int{}
	s.mu.Lock()
	for _, p := range s.posts {
		for _, h := range p.Hashtags {
			counts[h]++
		}
	}
	s.mu.Unlock()

	out := make([]domain.TrendingTag, 0, len(counts))
	for h, c := range counts {
		out = append(out, domain.TrendingTag{Hashtag: h, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Hashtag < out[j].Hashtag
	})
	if len(out) > limit {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "postID")
	viewer := userFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.posts[id]
	if p == nil {
		writeDetail(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, s.viewLocked(p, viewer))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req domain.NewPost
	if err := parseJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeMissing(w, "content")
		return
	}
	me := userFrom(r.Context())

	s.mu.Lock()
	hashtags := req.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	p := &domain.Post{
		ID:          uuid.NewString(),
		UserID:      me.user.ID,
		Username:    me.user.Username,
		UserAvatar:  me.user.Avatar,
		Content:     req.Content,
		CodeSnippet: req.CodeSnippet,
		Language:    req.Language,
		MediaURL:    req.MediaURL,
		MediaType:   req.MediaType,
		Hashtags:    append([]string(nil), hashtags...),
		CreatedAt:   s.now().UTC(),
	}
	s.posts[p.ID] = p
	s.order = append([]string{p.ID}, s.order...)
	me.user.PostsCount++
	out := s.viewLocked(p, me)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "postID")
	me := userFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.posts[id]
	if p == nil {
		writeDetail(w, http.StatusNotFound, "Post not found")
		return
	}
	if p.UserID != me.user.ID {
		writeDetail(w, http.StatusForbidden, "Not authorized to delete this post")
		return
	}
	delete(s.posts, id)
	delete(s.likes, id)
	delete(s.comments, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	me.user.PostsCount--
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "postID")
	me := userFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.posts[id]
	if p == nil {
		writeDetail(w, http.StatusNotFound, "Post not found")
		return
	}
	if s.likes[id][me.user.ID] {
		delete(s.likes[id], me.user.ID)
		p.LikesCount--
		writeJSON(w, http.StatusOK, domain.LikeResult{Status: domain.StatusUnliked, LikesCount: p.LikesCount})
		return
	}
	if s.likes[id] == nil {
		s.likes[id] = make(map[string]bool)
	}
	s.likes[id][me.user.ID] = true
	p.LikesCount++
	s.notifyLocked(p.UserID, domain.NotifyLike, me, id)
	writeJSON(w, http.StatusOK, domain.LikeResult{Status: domain.StatusLiked, LikesCount: p.LikesCount})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "postID")
	s.mu.Lock()
	out := append([]domain.Comment{}, s.comments[id]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeMissing(w, "content")
		return
	}
	id := chi.URLParam(r, "postID")
	me := userFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.posts[id]
	if p == nil {
		writeDetail(w, http.StatusNotFound, "Post not found")
		return
	}
	c := domain.Comment{
		ID:         uuid.NewString(),
		PostID:     id,
		UserID:     me.user.ID,
		Username:   me.user.Username,
		UserAvatar: me.user.Avatar,
		Content:    req.Content,
		CreatedAt:  s.now().UTC(),
	}
	s.comments[id] = append(s.comments[id], c)
	p.CommentsCount++
	s.notifyLocked(p.UserID, domain.NotifyComment, me, id)
	writeJSON(w, http.StatusOK, c)
}
