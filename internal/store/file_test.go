package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-lister/internal/store"
	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

func testRecord() *domain.TokenRecord {
	return &domain.TokenRecord{
		AccessToken:           "v^1.1#i^1#test-access",
		RefreshToken:          "v^1.1#i^1#test-refresh",
		ExpiresIn:             7200,
		RefreshTokenExpiresIn: 47304000,
		TokenType:             "User Access Token",
		ObtainedAt:            time.Now().Unix(),
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := store.NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))

	want := testRecord()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_LoadAbsent(t *testing.T) {
	t.Parallel()

	s := store.NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))

	rec, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFileStore_LoadMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := store.NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing token file")
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := store.NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))

	first := testRecord()
	require.NoError(t, s.Save(ctx, first))

	second := testRecord()
	second.AccessToken = "rotated-access"
	second.RefreshToken = "rotated-refresh"
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rotated-access", got.AccessToken)
	assert.Equal(t, "rotated-refresh", got.RefreshToken)
}

func TestFileStore_SaveCreatesParentDir(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", "dir", "tokens.json")
	s := store.NewFileStore(path)

	require.NoError(t, s.Save(ctx, testRecord()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := store.NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, s.Save(ctx, testRecord()))

	require.NoError(t, s.Delete(ctx))

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Deleting again is not an error.
	require.NoError(t, s.Delete(ctx))
}
