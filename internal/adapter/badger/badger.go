// Package badger implements the credential store on an embedded BadgerDB,
// the CLI's default persistent storage.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"devsocial/internal/domain"

	"github.com/dgraph-io/badger/v4"
)

var (
	keyToken = []byte("session/token")
	keyUser  = []byte("session/user")
)

// Config configures the database.
type Config struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string
	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool
	// Logger receives badger's own log lines. Nil silences them.
	Logger *slog.Logger
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is a credential store backed by BadgerDB.
type Store struct {
	db *badger.DB
}

// Ensure interfaces are met.
var _ domain.CredentialStore = (*Store)(nil)

// Open opens or creates the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o700); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(!cfg.InMemory).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the stored token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.get(keyToken)
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return string(raw), nil
}

// User returns the cached user, or nil when none is stored.
func (s *Store) User(ctx context.Context) (*domain.User, error) {
	raw, err := s.get(keyUser)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// Save writes token and user in one transaction.
func (s *Store) Save(ctx context.Context, token string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyToken, []byte(token)); err != nil {
			return err
		}
		return txn.Set(keyUser, raw)
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// SaveUser overwrites the cached user.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyUser, raw)
	})
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Clear deletes both keys in one transaction.
func (s *Store) Clear(ctx context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(keyToken); err != nil {
			return err
		}
		return txn.Delete(keyUser)
	})
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *Store) get(key []byte) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	return out, err
}
