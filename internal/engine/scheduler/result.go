package scheduler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	farmOutputBeginMarker = "[ Farm Output - BEGIN ]"
	maxOutputMarker       = "[FarmAgent] Output exceeded max output size"
)

var contentHashLineRe = regexp.MustCompile(`Content Hash: '([^']*)' \[([0-9a-fA-F]+)\]`)

// parsedLog is the scan result of a transform's captured log, per the
// grammar in spec §6.3.
type parsedLog struct {
	warnings      []string
	errors        []string
	contentHashes map[string]domain.DataHash
	truncated     bool
}

// parseJobOutput scans captured job output for ERROR:/WARN:/Content Hash
// lines (spec §4.7, §6.3). It truncates its search window to the text
// following the last Farm Output BEGIN marker, if present, so retried-job
// noise from earlier attempts is never misread as this attempt's errors.
func parseJobOutput(log string) parsedLog {
	if idx := strings.LastIndex(log, farmOutputBeginMarker); idx >= 0 {
		log = log[idx:]
	}
	if strings.Contains(log, maxOutputMarker) {
		return parsedLog{truncated: true}
	}

	result := parsedLog{contentHashes: make(map[string]domain.DataHash)}
	for _, line := range strings.Split(log, "\n") {
		switch {
		case strings.HasPrefix(line, "ERROR:"):
			result.errors = append(result.errors, strings.TrimSpace(strings.TrimPrefix(line, "ERROR:")))
		case strings.HasPrefix(line, "WARN:"):
			result.warnings = append(result.warnings, strings.TrimSpace(strings.TrimPrefix(line, "WARN:")))
		default:
			if m := contentHashLineRe.FindStringSubmatch(line); m != nil {
				if h, err := domain.DataHashFromText(m[2]); err == nil {
					result.contentHashes[m[1]] = h
				}
			}
		}
	}
	return result
}

// onBuildTransformOutputsUpdated finalizes a successful evaluation (spec
// §4.4 OnBuildTransformOutputsUpdated).
func (s *Scheduler) onBuildTransformOutputsUpdated(ctx context.Context, x *domain.BuildTransform, info *TransformInfo) error {
	if len(x.Errors()) > 0 {
		return zerr.With(zerr.New("transform reported success with errors already recorded"), "transform", mustFirstOutput(x))
	}

	for _, out := range x.Outputs() {
		if _, ok := x.GetOutputContentHash(out.Path.Prefixed()); !ok {
			x.AddError(fmt.Sprintf("declared output %s has no registered content hash after evaluation", out.Path.Prefixed()))
			s.onBuildTransformFailed(ctx, x, domain.StatusFailed)
			return nil
		}
	}

	parsed := parseJobOutput(info.CapturedLog.String())
	if parsed.truncated {
		x.AddError(domain.ErrMaxOutputExceeded.Error())
		s.onBuildTransformFailed(ctx, x, domain.StatusFailed)
		return nil
	}
	for path, hash := range parsed.contentHashes {
		exists, err := s.store.DoesDataExist(ctx, hash)
		if err != nil {
			return err
		}
		if !exists {
			x.AddError(zerr.With(domain.ErrBlobMissing, "path", path).Error())
		}
	}
	for _, w := range parsed.warnings {
		s.logger.Warn(w)
	}
	for _, e := range parsed.errors {
		x.AddError(e)
	}
	if len(x.Errors()) > 0 {
		s.onBuildTransformFailed(ctx, x, domain.StatusFailed)
		return nil
	}

	finalDepHash, err := s.registerDependencies(ctx, x)
	if err != nil {
		return err
	}

	for _, out := range x.Outputs() {
		hash, _ := x.GetOutputContentHash(out.Path.Prefixed())
		s.updatedOutputs[out.Path.Prefixed()] = true

		allowMismatch := out.Flags.Has(domain.FlagNondeterministic)
		if err := s.store.RegisterAssociation(ctx, finalDepHash, out.Path.Prefixed(), hash, allowMismatch); err != nil {
			if !allowMismatch {
				return err
			}
			s.logger.Warn(fmt.Sprintf("association conflict on nondeterministic output %s: %v", out.Path.Prefixed(), err))
		}
	}

	s.writeEvaluationSideFiles(ctx, x, finalDepHash, info)

	info.Status = domain.StatusOutputsUpdated
	x.MarkOutputsUpdated()
	s.completionOrdinal++
	info.CompletionOrder = s.completionOrdinal

	if !s.cfg.NoReplicate {
		s.replicateOutputs(ctx, x)
	}

	return nil
}

// writeEvaluationSideFiles writes <firstOutput>.log and <firstOutput>.assetd
// (spec §6.1). Association errors on these side files are warnings only.
func (s *Scheduler) writeEvaluationSideFiles(ctx context.Context, x *domain.BuildTransform, finalDepHash domain.DataHash, info *TransformInfo) {
	first := mustFirstOutput(x)

	logHash, err := s.store.WriteData(ctx, info.CapturedLog.Bytes())
	if err == nil {
		if err := s.store.RegisterAssociation(ctx, finalDepHash, first+".log", logHash, true); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to register log association for %s: %v", first, err))
		}
	} else {
		s.logger.Warn(fmt.Sprintf("failed to write captured log for %s: %v", first, err))
	}

	assetdHash, err := s.store.WriteData(ctx, []byte("{}"))
	if err == nil {
		if err := s.store.RegisterAssociation(ctx, finalDepHash, first+".assetd", assetdHash, true); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to register assetd association for %s: %v", first, err))
		}
	}
}

// onBuildTransformFailed finalizes a failed or input-unavailable
// transform (spec §4.4 OnBuildTransformFailed).
func (s *Scheduler) onBuildTransformFailed(ctx context.Context, x *domain.BuildTransform, status domain.Status) {
	for _, out := range x.Outputs() {
		s.failedOutputs[out.Path.Prefixed()] = true
	}

	info := s.transformInfo[x]
	info.Status = status

	parsed := parseJobOutput(info.CapturedLog.String())
	for _, e := range parsed.errors {
		x.AddError(e)
	}
	if len(x.Errors()) == 0 {
		x.AddError(domain.ErrFailureWithoutMessage.Error())
	}

	first := mustFirstOutput(x)
	postEvalDeps := s.buildPostEvaluateDeps(x)
	if depJSON, err := postEvalDeps.CanonicalJSON(); err == nil {
		if _, err := s.store.WriteData(ctx, depJSON); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to write post-evaluation deps for %s: %v", first, err))
		}
	}
	if logHash, err := s.store.WriteData(ctx, info.CapturedLog.Bytes()); err == nil {
		if err := s.store.RegisterAssociation(ctx, logHash, first+".log", logHash, true); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to register log association for %s: %v", first, err))
		}
	}

	for _, out := range x.Outputs() {
		if out.Flags.Has(domain.FlagOutputOnFailure) {
			if hash, ok := x.GetOutputContentHash(out.Path.Prefixed()); ok {
				_ = s.content.Register(out.Path.Prefixed(), hash)
			}
		}
	}

	s.completionOrdinal++
	info.CompletionOrder = s.completionOrdinal
	s.buildStatus = BuildStatusErrorOccurred
}

// buildPostEvaluateDeps seeds a dependency record for the forensic .d
// side file written on failure: the pre-evaluate deps plus discovered
// deps with best-effort current timestamps (spec §4.4 step 3).
func (s *Scheduler) buildPostEvaluateDeps(x *domain.BuildTransform) *domain.SimpleDependency {
	deps := x.PreEvalDeps.Clone()
	for i, d := range x.DiscoveredDependencies() {
		key := fmt.Sprintf("discoveredDep-%d", i)
		if ts, err := s.timestampForPlainPath(d.Path); err == nil {
			deps.SetInputFilenameAndTimeStamp(key, d.Path, ts)
		} else {
			deps.AddMissingInputFile(key, d.Path)
		}
	}
	return deps
}
