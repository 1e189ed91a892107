package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/config"
	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const sampleManifest = `
transforms:
  - name: compile_texture
    type: texture_compile
    substrate: local
    inputs:
      - kind: source_file
        path: "[src]/art/rock.png"
    outputs:
      - path: "[build]/art/rock.dds"
        flags: [replicate]
    config:
      cmd: "echo done"
`

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func TestLoader_Load_ParsesManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ManifestName), []byte(sampleManifest), 0o600))

	manifest, err := newLoader(t).Load(dir)
	require.NoError(t, err)
	require.Len(t, manifest.Transforms, 1)

	x := manifest.Transforms[0]
	require.Equal(t, "compile_texture", x.Name)
	require.Equal(t, "local", x.Substrate)
	require.Len(t, x.Inputs, 1)
	require.Equal(t, "source_file", x.Inputs[0].Kind)
	require.Len(t, x.Outputs, 1)
	require.Equal(t, []string{"replicate"}, x.Outputs[0].Flags)
	require.Equal(t, "echo done", x.Config["cmd"])
}

func TestLoader_Load_WalksUpToFindManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.ManifestName), []byte(sampleManifest), 0o600))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	manifest, err := newLoader(t).Load(nested)
	require.NoError(t, err)
	require.Len(t, manifest.Transforms, 1)
}

func TestLoader_Load_NotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := newLoader(t).Load(dir)
	require.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestLoader_Load_EmptyManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ManifestName), []byte("transforms: []\n"), 0o600))

	_, err := newLoader(t).Load(dir)
	require.ErrorIs(t, err, domain.ErrEmptyManifest)
}
