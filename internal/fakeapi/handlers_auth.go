package fakeapi

import (
	"net/http"
	"strings"

	"devsocial/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := parseJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	var missing []string
	for name, v := range map[string]string{"username": req.Username, "email": req.Email, "password": req.Password, "full_name": req.FullName} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.mu.Lock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, req.Email) || a.user.Username == req.Username {
			s.mu.Unlock()
			writeDetail(w, http.StatusBadRequest, "User with this email or username already exists")
			return
		}
	}
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	a := &account{
		user: domain.User{
			ID:        uuid.NewString(),
			Username:  req.Username,
			Email:     req.Email,
			FullName:  req.FullName,
			Bio:       req.Bio,
			Skills:    skills,
			CreatedAt: s.now().UTC(),
		},
		password: hash,
	}
	s.accounts[a.user.ID] = a
	token := s.issueLocked(a.user.ID)
	u := a.user.Clone()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := parseJSON(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	var found *account
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, req.Email) {
			found = a
			break
		}
	}
	s.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.password, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.mu.Lock()
	token := s.issueLocked(found.user.ID)
	u := found.user.Clone()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: u})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	a := userFrom(r.Context())
	s.mu.Lock()
	u := a.user.Clone()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) issueLocked(userID string) string {
	exp := s.now().Add(s.tokenTTL)
	token := issueToken(userID, exp)
	s.tokens[token] = session{userID: userID, expires: exp}
	return token
}

// Revoke invalidates every token issued to the user with email, as a
// server-side logout or password reset would.
func (s *Server) Revoke(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok, sess := range s.tokens {
		if a := s.accounts[sess.userID]; a != nil && strings.EqualFold(a.user.Email, email) {
			delete(s.tokens, tok)
		}
	}
}
