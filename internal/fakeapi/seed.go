package fakeapi

import (
	"errors"
	"strings"

	"devsocial/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicateUser is returned by AddUser when the username or email is
// taken.
var ErrDuplicateUser = errors.New("user already exists")

// AddUser creates an account directly, bypassing HTTP.
func (s *Server) AddUser(username, email, password, fullName string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Username == username || strings.EqualFold(a.user.Email, email) {
			return domain.User{}, ErrDuplicateUser
		}
	}
	a := &account{
		user: domain.User{
			ID:        uuid.NewString(),
			Username:  username,
			Email:     email,
			FullName:  fullName,
			Skills:    []string{},
			CreatedAt: s.now().UTC(),
		},
		password: hash,
	}
	s.accounts[a.user.ID] = a
	return *a.user.Clone(), nil
}

// AddPost publishes a post as userID, bypassing HTTP.
func (s *Server) AddPost(userID, content string, hashtags ...string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[userID]
	if a == nil {
		return domain.Post{}, errors.New("unknown user " + userID)
	}
	p := &domain.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  a.user.Username,
		Content:   content,
		Hashtags:  append([]string{}, hashtags...),
		CreatedAt: s.now().UTC(),
	}
	s.posts[p.ID] = p
	s.order = append([]string{p.ID}, s.order...)
	a.user.PostsCount++
	return p.Clone(), nil
}

// SeedDemo adds a few users and posts for local development. Every demo
// account uses the password "devsocial".
func (s *Server) SeedDemo() error {
	type demo struct {
		username, name string
		posts          [][]string
	}
	demos := []demo{
		{"ada", "Ada Lovelace", [][]string{{"Notes on the analytical engine", "history"}, {"First program, no compiler", "history", "programming"}}},
		{"linus", "Linus T", [][]string{{"Talk is cheap. Show me the code.", "linux", "programming"}}},
		{"grace", "Grace Hopper", [][]string{{"Found a moth in the relay", "debugging"}}},
	}
	for _, d := range demos {
		u, err := s.AddUser(d.username, d.username+"@example.com", "devsocial", d.name)
		if err != nil {
			return err
		}
		for _, p := range d.posts {
			if _, err := s.AddPost(u.ID, p[0], p[1:]...); err != nil {
				return err
			}
		}
	}
	return nil
}
