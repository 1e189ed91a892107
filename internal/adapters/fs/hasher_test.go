package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/fs"
	"go.trai.ch/buildsched/internal/core/domain"
)

func TestHasher_ComputeFileHash(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	hasher := fs.NewHasher()
	hash, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	require.Equal(t, domain.HashBytes([]byte("content")), hash)
}

func TestHasher_ComputeFileHash_ChangesWithContent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	hasher := fs.NewHasher()
	first, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("different"), 0o600))
	second, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestHasher_ComputeFileHash_MissingFile(t *testing.T) {
	hasher := fs.NewHasher()
	_, err := hasher.ComputeFileHash(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestHasher_ComputeBytesHash(t *testing.T) {
	hasher := fs.NewHasher()
	require.Equal(t, domain.HashBytes([]byte("abc")), hasher.ComputeBytesHash([]byte("abc")))
	require.NotEqual(t, hasher.ComputeBytesHash([]byte("abc")), hasher.ComputeBytesHash([]byte("abd")))
}
