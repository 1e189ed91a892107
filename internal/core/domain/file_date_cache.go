package domain

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

// FileDateCache caches file modification timestamps (spec §C3). It is the
// scheduler's default timestamp oracle when no source-asset-view is
// populated for a build.
type FileDateCache struct {
	mu    sync.Mutex
	times map[string]time.Time
}

// NewFileDateCache creates an empty cache.
func NewFileDateCache() *FileDateCache {
	return &FileDateCache{times: make(map[string]time.Time)}
}

// GetTimestamp returns the modification time of path, reading through to
// disk and caching the result on first access.
func (c *FileDateCache) GetTimestamp(path string) (time.Time, error) {
	c.mu.Lock()
	if ts, ok := c.times[path]; ok {
		c.mu.Unlock()
		return ts, nil
	}
	c.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, "failed to stat file for timestamp"), "path", path)
	}

	ts := info.ModTime()
	c.mu.Lock()
	c.times[path] = ts
	c.mu.Unlock()
	return ts, nil
}

// GetTimestamps is a batched form of GetTimestamp. It returns a map keyed
// by the input paths; a path that fails to stat is simply omitted rather
// than aborting the whole batch, since callers treat a missing entry the
// same way a missing-source diagnosis does.
func (c *FileDateCache) GetTimestamps(paths []string) map[string]time.Time {
	out := make(map[string]time.Time, len(paths))
	for _, p := range paths {
		if ts, err := c.GetTimestamp(p); err == nil {
			out[p] = ts
		}
	}
	return out
}

// Invalidate drops a cached entry, forcing the next GetTimestamp to read
// through to disk again, e.g. after a file's mtime changed mid-run.
func (c *FileDateCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.times, path)
}

// WildcardFileTimesHash computes a combined hash over the sorted
// modification times of every file matching a "dir/*.ext" pattern. This is
// the deterministic stand-in for a wildcard dependency's content hash
// (spec §4.5's UpdateInputFileTimestamps): two builds see the same hash
// as long as the same set of files exists with the same mtimes, regardless
// of enumeration order.
func (c *FileDateCache) WildcardFileTimesHash(pattern string) (DataHash, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return ZeroHash, zerr.With(zerr.Wrap(err, "failed to glob wildcard dependency"), "pattern", pattern)
	}
	sort.Strings(matches)

	stamps := make([]int64, 0, len(matches))
	for _, m := range matches {
		ts, err := c.GetTimestamp(m)
		if err != nil {
			return ZeroHash, err
		}
		stamps = append(stamps, ts.UnixNano())
	}
	return hashInt64s(stamps), nil
}
