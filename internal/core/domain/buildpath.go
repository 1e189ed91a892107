package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// PathPrefix is a virtual root sentinel, such as "[build]" or "[src]", that
// roots a BuildPath in one of the build system's well-known trees.
type PathPrefix string

const (
	// PrefixBuild roots generated/intermediate build outputs.
	PrefixBuild PathPrefix = "[build]"
	// PrefixSrc roots checked-in source assets.
	PrefixSrc PathPrefix = "[src]"
	// PrefixContent roots shipped, packaged content.
	PrefixContent PathPrefix = "[content]"
)

var knownPrefixes = map[PathPrefix]string{
	PrefixBuild:   "build",
	PrefixSrc:     "src",
	PrefixContent: "content",
}

// rootResolver maps a PathPrefix to an absolute filesystem directory.
// Callers install one via SetRootResolver; a nil resolver makes
// AbsolutePath fall back to the prefix's bare directory name under the
// process working directory, which is enough for unit tests that never
// touch disk.
type rootResolver func(PathPrefix) (string, bool)

var globalRootResolver rootResolver

// SetRootResolver installs the function used to translate a PathPrefix into
// an absolute filesystem root. It replaces any previously installed
// resolver and is not safe to call concurrently with AbsolutePath.
func SetRootResolver(r func(PathPrefix) (string, bool)) {
	globalRootResolver = r
}

// BuildPath is an absolute virtual path beginning with a known prefix
// sentinel, e.g. "[build]/levels/x.pak".
type BuildPath struct {
	prefix PathPrefix
	rel    string // forward-slash separated, no leading slash
}

// NewBuildPath constructs a BuildPath from a prefix and a relative,
// forward-slash path under it.
func NewBuildPath(prefix PathPrefix, rel string) BuildPath {
	return BuildPath{
		prefix: prefix,
		rel:    strings.TrimPrefix(filepath.ToSlash(rel), "/"),
	}
}

// ParseBuildPath parses a prefixed path string such as "[build]/a/b.bin"
// into its prefix and relative components.
func ParseBuildPath(prefixed string) (BuildPath, error) {
	for prefix := range knownPrefixes {
		p := string(prefix)
		if strings.HasPrefix(prefixed, p) {
			rel := strings.TrimPrefix(prefixed[len(p):], "/")
			return NewBuildPath(prefix, rel), nil
		}
	}
	return BuildPath{}, zerr.With(zerr.New("path has no known prefix"), "path", prefixed)
}

// Prefixed returns the normalized prefixed form, e.g. "[build]/a/b.bin".
// Equality of BuildPath is defined by equality of this form.
func (p BuildPath) Prefixed() string {
	return string(p.prefix) + "/" + p.rel
}

// String satisfies fmt.Stringer.
func (p BuildPath) String() string {
	return p.Prefixed()
}

// Equal reports whether two BuildPaths have the same prefixed form.
func (p BuildPath) Equal(other BuildPath) bool {
	return p.Prefixed() == other.Prefixed()
}

// Prefix returns the path's root sentinel.
func (p BuildPath) Prefix() PathPrefix {
	return p.prefix
}

// AbsolutePath converts the virtual path to an absolute filesystem path
// using the installed root resolver, falling back to a bare relative
// directory named after the prefix when none is installed.
func (p BuildPath) AbsolutePath() string {
	if globalRootResolver != nil {
		if root, ok := globalRootResolver(p.prefix); ok {
			return filepath.Join(root, filepath.FromSlash(p.rel))
		}
	}
	dir := knownPrefixes[p.prefix]
	if dir == "" {
		dir = strings.Trim(string(p.prefix), "[]")
	}
	return filepath.Join(dir, filepath.FromSlash(p.rel))
}

// BuildFile pairs a BuildPath with a DataHash. A zero hash denotes a path
// whose content is not yet pinned.
type BuildFile struct {
	Path BuildPath
	Hash DataHash
}

// IsPinned reports whether the file carries a non-zero content hash.
func (f BuildFile) IsPinned() bool {
	return f.Hash.IsValid()
}
