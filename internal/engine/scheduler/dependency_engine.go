package scheduler

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/buildsched/internal/core/domain"
)

// isWildcardDep reports whether a discovered-dependency path names a
// directory wildcard rather than a concrete file (spec §4.6 classification).
func isWildcardDep(path string) bool {
	return strings.Contains(path, "*.")
}

// updateInputFileTimestamps fills in every path-only entry of d with a
// timestamp, a wildcard file-times hash, or a missing marker (spec §4.5).
func (s *Scheduler) updateInputFileTimestamps(d *domain.SimpleDependency) {
	for _, key := range d.PathOnlyKeys() {
		path := d.Inputs[key].Path
		if isWildcardDep(path) {
			h, err := s.fileDates.WildcardFileTimesHash(path)
			if err != nil {
				d.AddMissingInputFile(key, path)
				continue
			}
			d.SetInputFilenameAndHash(key, path, h)
			continue
		}
		ts, err := s.timestampForPlainPath(path)
		if err != nil {
			d.AddMissingInputFile(key, path)
			continue
		}
		d.SetInputFilenameAndTimeStamp(key, path, ts)
	}
}

// resolveFinalDepHash walks the association chain rooted at x's
// pre-evaluate dependency record (spec §4.5 ResolveFinalDepHash).
// resolved is false when the chain breaks (a level was never registered),
// meaning x must be (re-)evaluated.
func (s *Scheduler) resolveFinalDepHash(ctx context.Context, x *domain.BuildTransform) (domain.DataHash, bool, error) {
	first, _ := x.FirstOutput()
	firstPrefixed := first.Prefixed()

	curDeps := x.PreEvalDeps.Clone()
	depth := 0

	for {
		depJSON, err := curDeps.CanonicalJSON()
		if err != nil {
			return domain.ZeroHash, false, err
		}
		keyHash := domain.HashBytes(depJSON)
		depPath := fmt.Sprintf("%s.%d.d", firstPrefixed, depth)

		contentHash, found, err := s.store.ResolveAssociation(ctx, keyHash, depPath)
		if err != nil {
			return domain.ZeroHash, false, err
		}
		if !found {
			return domain.ZeroHash, false, nil
		}
		if contentHash == keyHash {
			return keyHash, true, nil
		}

		nextBytes, err := s.store.ReadData(ctx, contentHash)
		if err != nil {
			return domain.ZeroHash, false, err
		}
		nextDeps, err := domain.ParseSimpleDependency(nextBytes)
		if err != nil {
			return domain.ZeroHash, false, err
		}
		s.updateInputFileTimestamps(nextDeps)
		curDeps = nextDeps
		depth++
	}
}

// checkDependencies decides whether x may be skipped (spec §4.5). When
// requiresEvaluation is false, finalDepHash is the key under which every
// declared output is already registered and retrievable.
func (s *Scheduler) checkDependencies(ctx context.Context, x *domain.BuildTransform) (requiresEvaluation bool, finalDepHash domain.DataHash, err error) {
	hash, resolved, err := s.resolveFinalDepHash(ctx, x)
	if err != nil {
		return true, domain.ZeroHash, err
	}
	if !resolved {
		return true, domain.ZeroHash, nil
	}

	for _, out := range x.Outputs() {
		_, found, err := s.store.ResolveAssociation(ctx, hash, out.Path.Prefixed())
		if err != nil {
			return true, domain.ZeroHash, err
		}
		if !found {
			return true, domain.ZeroHash, nil
		}
	}

	return false, hash, nil
}

// registerDependencies commits the discovered-dependency chain for a
// successfully evaluated transform and returns its finalDepHash (spec
// §4.6).
func (s *Scheduler) registerDependencies(ctx context.Context, x *domain.BuildTransform) (domain.DataHash, error) {
	first, _ := x.FirstOutput()
	firstPrefixed := first.Prefixed()

	curDeps := x.PreEvalDeps.Clone()
	discovered := x.DiscoveredDependencies()

	depIdx := 0
	depth := 0

	for {
		beforeJSON, err := curDeps.CanonicalJSON()
		if err != nil {
			return domain.ZeroHash, err
		}
		keyHash := domain.HashBytes(beforeJSON)

		added := make(map[string]string)
		for depIdx < len(discovered) && discovered[depIdx].DepthLevel == depth {
			d := discovered[depIdx]
			key := fmt.Sprintf("discoveredDep-%d", depIdx)
			curDeps.SetInputFilename(key, d.Path)
			added[key] = d.Path
			depIdx++
		}

		noTSJSON, err := curDeps.CanonicalJSON()
		if err != nil {
			return domain.ZeroHash, err
		}
		contentHash, err := s.store.WriteData(ctx, noTSJSON)
		if err != nil {
			return domain.ZeroHash, err
		}

		for key, path := range added {
			if isWildcardDep(path) {
				h, err := s.fileDates.WildcardFileTimesHash(path)
				if err != nil {
					curDeps.AddMissingInputFile(key, path)
					continue
				}
				curDeps.SetInputFilenameAndHash(key, path, h)
				continue
			}
			ts, err := s.timestampForPlainPath(path)
			if err != nil {
				curDeps.AddMissingInputFile(key, path)
				continue
			}
			curDeps.SetInputFilenameAndTimeStamp(key, path, ts)
		}

		depPath := fmt.Sprintf("%s.%d.d", firstPrefixed, depth)
		if err := s.store.RegisterAssociation(ctx, keyHash, depPath, contentHash, false); err != nil {
			return domain.ZeroHash, err
		}

		depth++
		if len(added) == 0 {
			break
		}
	}

	finalJSON, err := curDeps.CanonicalJSON()
	if err != nil {
		return domain.ZeroHash, err
	}
	return domain.HashBytes(finalJSON), nil
}
