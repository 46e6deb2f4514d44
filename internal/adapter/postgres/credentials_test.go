package postgres

import (
	"context"
	"os"
	"testing"

	"devsocial/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to the database named by DEVSOCIAL_TEST_DATABASE_URL
// or skips the test.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("DEVSOCIAL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("DEVSOCIAL_TEST_DATABASE_URL not set")
	}
	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s := NewCredentialStore(db, t.Name())
	t.Cleanup(func() { _ = s.Clear(ctx) })

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, s.Save(ctx, "tok", &domain.User{ID: "u1", Username: "alice", Skills: []string{"go"}}))
	require.NoError(t, s.SaveUser(ctx, &domain.User{ID: "u1", Username: "alice", Bio: "hi"}))

	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	user, err = s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi", user.Bio)

	require.NoError(t, s.Clear(ctx))
	token, _ = s.Token(ctx)
	user, _ = s.User(ctx)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestCredentialStore_ProfilesAreIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	a := NewCredentialStore(db, t.Name()+"-a")
	b := NewCredentialStore(db, t.Name()+"-b")
	t.Cleanup(func() {
		_ = a.Clear(ctx)
		_ = b.Clear(ctx)
	})

	require.NoError(t, a.Save(ctx, "tok-a", &domain.User{ID: "ua"}))
	require.NoError(t, b.Clear(ctx))

	token, err := a.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)
}

func TestNewCredentialStore_DefaultProfile(t *testing.T) {
	s := NewCredentialStore(&DB{}, "")
	assert.Equal(t, "default", s.profile)
}
