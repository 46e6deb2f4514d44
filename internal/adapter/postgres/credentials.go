package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"devsocial/internal/domain"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// CredentialStore keeps one profile's session in the credentials table.
type CredentialStore struct {
	db      *DB
	profile string
}

// NewCredentialStore scopes a store to profile. An empty profile is stored
// as "default".
func NewCredentialStore(db *DB, profile string) *CredentialStore {
	if profile == "" {
		profile = "default"
	}
	return &CredentialStore{db: db, profile: profile}
}

// Ensure interfaces are met.
var _ domain.CredentialStore = (*CredentialStore)(nil)

// Token returns the stored token, or "" when none is stored.
func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	v, err := s.get(ctx, keyToken)
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return v, nil
}

// User returns the cached user, or nil when none is stored.
func (s *CredentialStore) User(ctx context.Context) (*domain.User, error) {
	v, err := s.get(ctx, keyUser)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if v == "" {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// Save writes token and user in one transaction.
func (s *CredentialStore) Save(ctx context.Context, token string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.put(ctx, tx, keyToken, token); err != nil {
			return err
		}
		return s.put(ctx, tx, keyUser, string(raw))
	})
}

// SaveUser overwrites the cached user.
func (s *CredentialStore) SaveUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.put(ctx, tx, keyUser, string(raw))
	})
}

// Clear deletes both keys for the profile.
func (s *CredentialStore) Clear(ctx context.Context) error {
	_, err := s.db.sql.ExecContext(ctx,
		"DELETE FROM credentials WHERE profile = $1",
		s.profile,
	)
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) get(ctx context.Context, name string) (string, error) {
	var v string
	err := s.db.sql.QueryRowContext(ctx,
		"SELECT value FROM credentials WHERE profile = $1 AND name = $2",
		s.profile, name,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func (s *CredentialStore) put(ctx context.Context, tx *sql.Tx, name, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO credentials (profile, name, value, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile, name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		s.profile, name, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

func (s *CredentialStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
