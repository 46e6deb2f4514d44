// Package sealed wraps a credential store so the bearer token is encrypted
// at rest with a key derived from a passphrase.
package sealed

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"devsocial/internal/domain"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	prefix   = "sealed:v1:"
	saltLen  = 16
	nonceLen = 24
	keyLen   = 32

	// scrypt parameters; N=2^15 takes tens of milliseconds per derivation.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	// ErrNoPassphrase is returned by New when the passphrase is empty.
	ErrNoPassphrase = errors.New("sealed store: empty passphrase")
	// ErrDecrypt is returned when a stored token cannot be opened, usually
	// because the passphrase changed.
	ErrDecrypt = errors.New("sealed store: cannot decrypt token")
)

// Store encrypts the token before handing it to the wrapped store. The user
// record is stored as is.
type Store struct {
	inner      domain.CredentialStore
	passphrase []byte
	rand       io.Reader

	mu   sync.Mutex
	keys map[string]*[keyLen]byte
}

// Ensure interfaces are met.
var _ domain.CredentialStore = (*Store)(nil)

// New wraps inner.
func New(inner domain.CredentialStore, passphrase string) (*Store, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	return &Store{
		inner:      inner,
		passphrase: []byte(passphrase),
		rand:       rand.Reader,
		keys:       make(map[string]*[keyLen]byte),
	}, nil
}

// Token opens the stored token. A token written without sealing is returned
// unchanged so an existing session survives turning encryption on.
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.inner.Token(ctx)
	if err != nil || raw == "" {
		return raw, err
	}
	if !strings.HasPrefix(raw, prefix) {
		return raw, nil
	}
	return s.open(strings.TrimPrefix(raw, prefix))
}

// User passes through.
func (s *Store) User(ctx context.Context) (*domain.User, error) {
	return s.inner.User(ctx)
}

// Save seals token and saves it with user.
func (s *Store) Save(ctx context.Context, token string, user *domain.User) error {
	sealed, err := s.seal(token)
	if err != nil {
		return err
	}
	return s.inner.Save(ctx, sealed, user)
}

// SaveUser passes through.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	return s.inner.SaveUser(ctx, user)
}

// Clear passes through.
func (s *Store) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

func (s *Store) seal(token string) (string, error) {
	var salt [saltLen]byte
	var nonce [nonceLen]byte
	if _, err := io.ReadFull(s.rand, salt[:]); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	if _, err := io.ReadFull(s.rand, nonce[:]); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	key, err := s.key(salt[:])
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, saltLen+nonceLen+len(token)+secretbox.Overhead)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, []byte(token), &nonce, key)
	return prefix + base64.RawURLEncoding.EncodeToString(out), nil
}

func (s *Store) open(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < saltLen+nonceLen+secretbox.Overhead {
		return "", ErrDecrypt
	}
	salt := raw[:saltLen]
	var nonce [nonceLen]byte
	copy(nonce[:], raw[saltLen:saltLen+nonceLen])

	key, err := s.key(salt)
	if err != nil {
		return "", err
	}
	plain, ok := secretbox.Open(nil, raw[saltLen+nonceLen:], &nonce, key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// key derives, and caches per salt, the box key.
func (s *Store) key(salt []byte) (*[keyLen]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.keys[string(salt)]; ok {
		return k, nil
	}
	dk, err := scrypt.Key(s.passphrase, salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	var k [keyLen]byte
	copy(k[:], dk)
	s.keys[string(salt)] = &k
	return &k, nil
}
