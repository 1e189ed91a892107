package cas_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/cas"
	"go.trai.ch/buildsched/internal/core/domain"
)

func TestStore_WriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	hash, err := store.WriteData(ctx, []byte("hello world"))
	require.NoError(t, err)

	exists, err := store.DoesDataExist(ctx, hash)
	require.NoError(t, err)
	require.True(t, exists)

	data, err := store.ReadData(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), data)
}

func TestStore_ReadMissingBlob(t *testing.T) {
	ctx := context.Background()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	_, err = store.ReadData(ctx, domain.HashBytes([]byte("never written")))
	require.ErrorIs(t, err, domain.ErrBlobMissing)
}

func TestStore_AssociationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	keyHash := domain.HashBytes([]byte("key"))
	contentHash := domain.HashBytes([]byte("content"))

	_, found, err := store.ResolveAssociation(ctx, keyHash, "out/a.o")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.RegisterAssociation(ctx, keyHash, "out/a.o", contentHash, false))

	resolved, found, err := store.ResolveAssociation(ctx, keyHash, "out/a.o")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, contentHash, resolved)
}

func TestStore_AssociationConflict(t *testing.T) {
	ctx := context.Background()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	keyHash := domain.HashBytes([]byte("key"))
	first := domain.HashBytes([]byte("first"))
	second := domain.HashBytes([]byte("second"))

	require.NoError(t, store.RegisterAssociation(ctx, keyHash, "out/a.o", first, false))
	err = store.RegisterAssociation(ctx, keyHash, "out/a.o", second, false)
	require.ErrorIs(t, err, domain.ErrAssociationConflict)

	// A nondeterministic output tolerates the mismatch and overwrites.
	require.NoError(t, store.RegisterAssociation(ctx, keyHash, "out/a.o", second, true))
	resolved, found, err := store.ResolveAssociation(ctx, keyHash, "out/a.o")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, second, resolved)
}

func TestStore_DisabledTransformKeyHashRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	cfgStr := "out/libfoo.a#deadbeef"
	keyHash := domain.HashBytes([]byte("deps"))

	_, found, err := store.RetrieveDisabledTransformKeyHash(ctx, cfgStr)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.RegisterDisabledTransformKeyHash(ctx, cfgStr, keyHash))

	resolved, found, err := store.RetrieveDisabledTransformKeyHash(ctx, cfgStr)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, keyHash, resolved)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	store1, err := cas.NewStore(dir)
	require.NoError(t, err)
	hash, err := store1.WriteData(ctx, []byte("persisted"))
	require.NoError(t, err)

	store2, err := cas.NewStore(dir)
	require.NoError(t, err)
	data, err := store2.ReadData(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, []byte("persisted"), data)
}
