package badger

import (
	"context"
	"testing"

	"devsocial/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Empty(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestStore_SaveAndClear(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok", &domain.User{ID: "u1", Username: "alice", Skills: []string{"go"}}))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	user, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, []string{"go"}, user.Skills)

	require.NoError(t, s.SaveUser(ctx, &domain.User{ID: "u1", Username: "alice", Bio: "hi"}))
	token, _ = s.Token(ctx)
	user, _ = s.User(ctx)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "hi", user.Bio)

	require.NoError(t, s.Clear(ctx))
	token, _ = s.Token(ctx)
	user, _ = s.User(ctx)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestStore_ClearWhenEmpty(t *testing.T) {
	s := openInMemory(t)
	assert.NoError(t, s.Clear(context.Background()))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "tok", &domain.User{ID: "u1"}))
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}
