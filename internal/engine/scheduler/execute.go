package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/zerr"
)

// executeTransform dispatches x to its first-evaluation or resume path
// depending on its current status (spec §4.3).
func (s *Scheduler) executeTransform(ctx context.Context, x *domain.BuildTransform) error {
	info, ok := s.transformInfo[x]
	if !ok {
		return zerr.New("transform scheduled without a transformInfo record")
	}

	switch info.Status {
	case domain.StatusWaitingInputs:
		return s.executeFirst(ctx, x, info)
	case domain.StatusResumeNeeded:
		return s.executeResume(ctx, x, info)
	default:
		return zerr.With(zerr.New("transform scheduled in unexpected status"), "status", string(info.Status))
	}
}

// populateInputContentHashes resolves the content hash of every
// non-source input from the ContentHashCollection (spec §4.3 step 2).
func (s *Scheduler) populateInputContentHashes(x *domain.BuildTransform) (map[string]domain.DataHash, error) {
	out := make(map[string]domain.DataHash)
	for _, in := range x.Inputs() {
		if in.Kind != domain.KindHashedResource {
			continue
		}
		hash, ok := s.content.Lookup(in.Path.Prefixed())
		if !ok {
			return nil, zerr.With(domain.ErrMissingInputContentHash, "path", in.Path.Prefixed())
		}
		out[in.Path.Prefixed()] = hash
	}
	return out, nil
}

// seedPreEvaluateDependencies fills x.PreEvalDeps with numbered input and
// output entries (spec §4.3 step 3).
func (s *Scheduler) seedPreEvaluateDependencies(x *domain.BuildTransform, inputHashes map[string]domain.DataHash) error {
	for i, in := range x.Inputs() {
		key := fmt.Sprintf("xformInput-%d", i)
		switch in.Kind {
		case domain.KindSourceFile:
			ts, err := s.timestampFor(in.Path)
			if err != nil {
				return zerr.With(domain.ErrMissingSourceInput, "path", in.Path.Prefixed())
			}
			x.PreEvalDeps.SetInputFilenameAndTimeStamp(key, in.Path.Prefixed(), ts)
		case domain.KindHashedResource:
			hash, ok := inputHashes[in.Path.Prefixed()]
			if !ok {
				return zerr.With(domain.ErrMissingInputContentHash, "path", in.Path.Prefixed())
			}
			x.PreEvalDeps.SetInputFilenameAndHash(key, in.Path.Prefixed(), hash)
		}
	}
	for i, out := range x.Outputs() {
		key := fmt.Sprintf("xformOutput-%d", i)
		x.PreEvalDeps.SetInputFilename(key, out.Path.Prefixed())
	}
	return nil
}

// executeFirst implements spec §4.3(a): the first-evaluation path.
func (s *Scheduler) executeFirst(ctx context.Context, x *domain.BuildTransform, info *TransformInfo) error {
	inputHashes, err := s.populateInputContentHashes(x)
	if err != nil {
		x.AddError(err.Error())
		s.onBuildTransformFailed(ctx, x, domain.StatusWaitingInputs)
		return nil
	}

	if err := s.seedPreEvaluateDependencies(x, inputHashes); err != nil {
		x.AddError(err.Error())
		s.onBuildTransformFailed(ctx, x, domain.StatusWaitingInputs)
		return nil
	}

	first, _ := x.FirstOutput()
	if s.cfg.shouldDisable(first.Prefixed()) {
		x.EvalMode = domain.EvalDisabled
	}

	run, reason, finalDepHash, err := s.decideRunOrSkip(ctx, x, first.Prefixed())
	if err == nil && !run && s.cfg.shouldForceValidate(first.Prefixed()) {
		run, reason, finalDepHash = true, "Validate forced re-evaluation", domain.ZeroHash
	}
	if err != nil {
		return err
	}

	if !run {
		s.completeSkippedTransform(ctx, x, info, finalDepHash)
		if !s.cfg.NoReplicate {
			s.replicateOutputs(ctx, x)
		}
		return nil
	}

	s.logger.Info(fmt.Sprintf("evaluating %s: %s", first.Prefixed(), reason))

	info.StartEvalTime = time.Now()
	s.startOrdinal++
	info.StartOrder = s.startOrdinal

	status, evalErr := s.invokeEvaluate(ctx, x)
	info.EndEvalTime = time.Now()

	return s.dispatchEvaluationResult(ctx, x, info, status, evalErr)
}

// invokeEvaluate wraps x.Evaluate with the catch-all safety net required
// by spec §5/§9.4: any panic becomes kFailed with a recorded message
// instead of an unhandled crash of the scheduling loop (the Go analogue
// of the source's typed/NDI/std/catch-all exception handlers, per
// DESIGN.md's note on §9.4).
func (s *Scheduler) invokeEvaluate(ctx context.Context, x *domain.BuildTransform) (status domain.Status, err error) {
	s.currentTransform = x
	defer func() { s.currentTransform = nil }()
	defer func() {
		if r := recover(); r != nil {
			status = domain.StatusFailed
			err = zerr.With(zerr.New("transform panicked during evaluation"), "recovered", fmt.Sprintf("%v", r))
		}
	}()
	return x.Evaluate(withSchedulerContext(ctx, s))
}

// invokeResume is invokeEvaluate's counterpart for ResumeEvaluation.
func (s *Scheduler) invokeResume(ctx context.Context, x *domain.BuildTransform, item domain.ResumeItem) (status domain.Status, err error) {
	s.currentTransform = x
	defer func() { s.currentTransform = nil }()
	defer func() {
		if r := recover(); r != nil {
			status = domain.StatusFailed
			err = zerr.With(zerr.New("transform panicked during resume"), "recovered", fmt.Sprintf("%v", r))
		}
	}()
	return x.ResumeEvaluation(withSchedulerContext(ctx, s), item)
}

// dispatchEvaluationResult routes the outcome of an Evaluate/Resume call
// to the appropriate result handler (spec §4.3 steps 5/6, §4.4).
func (s *Scheduler) dispatchEvaluationResult(ctx context.Context, x *domain.BuildTransform, info *TransformInfo, status domain.Status, err error) error {
	if err != nil {
		x.AddError(err.Error())
		status = domain.StatusFailed
	}

	switch status {
	case domain.StatusOutputsUpdated:
		return s.onBuildTransformOutputsUpdated(ctx, x, info)
	case domain.StatusResumeNeeded:
		info.Status = domain.StatusResumeNeeded
		return nil
	default:
		if len(x.Errors()) == 0 {
			x.AddError(fmt.Sprintf("transform ended in unexpected status %q with no error recorded", status))
		}
		s.onBuildTransformFailed(ctx, x, domain.StatusFailed)
		return nil
	}
}

// decideRunOrSkip implements the evaluation-mode decision table of spec
// §4.3 step 4.
func (s *Scheduler) decideRunOrSkip(ctx context.Context, x *domain.BuildTransform, firstPrefixed string) (run bool, reason string, finalDepHash domain.DataHash, err error) {
	if x.DepMode == domain.IgnoreDependency {
		x.PreEvalDeps.SetConfigPair("__buildID", s.buildID)
		return true, "Ignore Deps", domain.ZeroHash, nil
	}

	switch x.EvalMode {
	case domain.EvalForced:
		return true, "Forced update", domain.ZeroHash, nil

	case domain.EvalDisabled:
		cfgStr, cerr := x.GetOutputConfigString()
		if cerr != nil {
			return true, "Disabled mode, no config string", domain.ZeroHash, nil
		}
		hash, found, serr := s.store.RetrieveDisabledTransformKeyHash(ctx, cfgStr)
		if serr != nil {
			return false, "", domain.ZeroHash, serr
		}
		if found {
			return false, "", hash, nil
		}
		fallthrough

	default: // EvalNormal (and EvalDisabled falling through)
		requires, hash, cerr := s.checkDependencies(ctx, x)
		if cerr != nil {
			return false, "", domain.ZeroHash, cerr
		}
		if !requires {
			return false, "", hash, nil
		}
		return true, "Dependency check requires evaluation", domain.ZeroHash, nil
	}
}

// completeSkippedTransform implements spec §4.3 step 6: resolves each
// output's content hash through finalDepHash, registers it, and marks the
// transform updated without ever calling Evaluate.
func (s *Scheduler) completeSkippedTransform(ctx context.Context, x *domain.BuildTransform, info *TransformInfo, finalDepHash domain.DataHash) {
	for _, out := range x.Outputs() {
		hash, found, err := s.store.ResolveAssociation(ctx, finalDepHash, out.Path.Prefixed())
		if err != nil || !found {
			continue
		}
		_ = s.content.Register(out.Path.Prefixed(), hash)
		x.SetOutputContentHash(out.Path.Prefixed(), hash)
		s.updatedOutputs[out.Path.Prefixed()] = true
	}
	if x.EvalMode == domain.EvalDisabled {
		if cfgStr, err := x.GetOutputConfigString(); err == nil {
			_ = s.store.RegisterDisabledTransformKeyHash(ctx, cfgStr, finalDepHash)
		}
	}
	info.Status = domain.StatusOutputsUpdated
	s.completionOrdinal++
	info.CompletionOrder = s.completionOrdinal
}

// executeResume implements spec §4.3(b): symmetric to executeFirst but
// invoking ResumeEvaluation with the transform's pending resume item.
func (s *Scheduler) executeResume(ctx context.Context, x *domain.BuildTransform, info *TransformInfo) error {
	if info.ResumeItem == nil {
		return zerr.With(domain.ErrUnknownWaitItem, "transform", mustFirstOutput(x))
	}
	item := *info.ResumeItem
	info.ResumeItem = nil

	info.StartResumeTime = time.Now()
	status, err := s.invokeResume(ctx, x, item)
	info.EndResumeTime = time.Now()

	return s.dispatchEvaluationResult(ctx, x, info, status, err)
}

func mustFirstOutput(x *domain.BuildTransform) string {
	first, ok := x.FirstOutput()
	if !ok {
		return "<no output>"
	}
	return first.Prefixed()
}
