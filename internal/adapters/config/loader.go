// Package config provides the configuration loader for buildsched.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ManifestName is the filename a Loader looks for, starting at the
// given working directory and walking up toward the filesystem root.
const ManifestName = "buildsched.yaml"

// Loader implements ports.ConfigLoader by reading a single YAML
// manifest into ports.BuildManifest. Transform bodies are not
// interpreted here; the app layer turns each ports.TransformSpec into
// a runnable domain.BuildTransform.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds buildsched.yaml starting at cwd and walking up through
// parent directories, then parses it into a ports.BuildManifest.
func (l *Loader) Load(cwd string) (*ports.BuildManifest, error) {
	manifestPath, err := l.findManifest(cwd)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- manifestPath is discovered by findManifest, not attacker-controlled
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "read manifest "+manifestPath)
	}

	var manifest ports.BuildManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, zerr.Wrap(err, "parse manifest "+manifestPath)
	}

	if len(manifest.Transforms) == 0 {
		return nil, zerr.With(domain.ErrEmptyManifest, "path", manifestPath)
	}

	l.Logger.Info("loaded manifest " + manifestPath)
	return &manifest, nil
}

func (l *Loader) findManifest(cwd string) (string, error) {
	dir := cwd
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", zerr.With(domain.ErrManifestNotFound, "cwd", cwd)
}
