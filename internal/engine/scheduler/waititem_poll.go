package scheduler

import (
	"context"
	"fmt"

	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
)

// schedulerCtxKey is the context key a transform's Evaluate/ResumeEvaluation
// closure uses to reach back into the scheduler that is driving it, so it
// can call the Register*WaitItem family below (spec §4.1).
type schedulerCtxKey struct{}

func withSchedulerContext(ctx context.Context, s *Scheduler) context.Context {
	return context.WithValue(ctx, schedulerCtxKey{}, s)
}

// SchedulerFromContext recovers the Scheduler currently evaluating the
// calling transform. Only valid from inside an Evaluate/ResumeEvaluation
// call invoked by that scheduler.
func SchedulerFromContext(ctx context.Context) (*Scheduler, bool) {
	s, ok := ctx.Value(schedulerCtxKey{}).(*Scheduler)
	return s, ok
}

// registerWait appends a wait item owned by s.currentTransform to the list
// selected by kind, and returns its sequence id (spec §4.1/§4.8).
func (s *Scheduler) registerWait(kind domain.WaitKind, configure func(*domain.WaitItem)) uint64 {
	item := domain.WaitItem{
		Kind:        kind,
		Seq:         s.seq.Next(),
		OwnerOutput: mustFirstOutput(s.currentTransform),
	}
	configure(&item)

	switch kind {
	case domain.WaitFarm:
		s.waitFarm = append(s.waitFarm, item)
	case domain.WaitThreadPool:
		s.waitThreadPool = append(s.waitThreadPool, item)
	case domain.WaitTransform:
		s.waitTransform = append(s.waitTransform, item)
	case domain.WaitSnDbs:
		s.waitSnDbs = append(s.waitSnDbs, item)
	}
	return item.Seq
}

// RegisterFarmWaitItem attaches a wait record for an already-submitted
// farm job to the currently executing transform. Most transform closures
// should call SubmitFarmJob instead, which submits and registers in one
// step; this entry point exists for closures that manage submission and
// retry bookkeeping themselves.
func (s *Scheduler) RegisterFarmWaitItem(jobID string, retriesLeft int, resubmit domain.FarmResubmitSpec) uint64 {
	return s.registerWait(domain.WaitFarm, func(i *domain.WaitItem) {
		i.FarmJobID = jobID
		i.FarmRetriesLeft = retriesLeft
		i.FarmResubmit = resubmit
	})
}

// SubmitFarmJob submits spec to the Farm substrate and registers a wait
// item for the result, retrying up to retries times on job failure before
// the owning transform is failed (spec §4.8 scenario S4).
func (s *Scheduler) SubmitFarmJob(ctx context.Context, spec ports.FarmJobSpec, retries int) (uint64, error) {
	jobID, err := s.farm.Submit(ctx, spec)
	if err != nil {
		return 0, err
	}
	if jobID == "" {
		return 0, domain.ErrInvalidFarmJobID
	}
	resubmit := domain.FarmResubmitSpec{Command: spec.Command, Args: spec.Args, Env: spec.Env, InputHashes: spec.InputHashes}
	return s.RegisterFarmWaitItem(jobID, retries, resubmit), nil
}

// RegisterThreadPoolWaitItem attaches a wait record for a thread-pool task
// already submitted by the caller.
func (s *Scheduler) RegisterThreadPoolWaitItem(taskID string) uint64 {
	return s.registerWait(domain.WaitThreadPool, func(i *domain.WaitItem) {
		i.ThreadPoolTask = taskID
	})
}

// RegisterTransformPoolWaitItem suspends the current transform until the
// transform producing awaitedFirstOutput has reached any terminal or
// non-terminal recorded state (spec §4.8's transform-wait rule).
func (s *Scheduler) RegisterTransformPoolWaitItem(awaitedFirstOutput string) uint64 {
	return s.registerWait(domain.WaitTransform, func(i *domain.WaitItem) {
		i.WaitsOnOutput = awaitedFirstOutput
	})
}

// RegisterSnDbsWaitItem attaches a wait record for an already-submitted
// SN-DBS compiler job.
func (s *Scheduler) RegisterSnDbsWaitItem(jobID string) uint64 {
	return s.registerWait(domain.WaitSnDbs, func(i *domain.WaitItem) {
		i.SnDbsJobID = jobID
	})
}

// resumeTransform hands item to the transform that owns owner and queues
// it for re-scheduling on the next loop iteration.
func (s *Scheduler) resumeTransform(owner string, item domain.ResumeItem) error {
	x, ok := s.outputToXform[owner]
	if !ok {
		return zerr.With(domain.ErrUnknownWaitItem, "owner", owner)
	}
	info, ok := s.transformInfo[x]
	if !ok {
		return zerr.With(domain.ErrUnknownWaitItem, "owner", owner)
	}
	if info.ResumeItem != nil {
		return zerr.With(domain.ErrAlreadyResumed, "owner", owner)
	}
	info.ResumeItem = &item
	info.Status = domain.StatusResumeNeeded
	s.newXforms = append(s.newXforms, x)
	return nil
}

// failWaitingTransform fails the transform that owns a wait item directly,
// bypassing ResumeEvaluation, for the case where the substrate itself gave
// up (farm retries exhausted, resubmission error).
func (s *Scheduler) failWaitingTransform(ctx context.Context, owner string, msg string) {
	x, ok := s.outputToXform[owner]
	if !ok {
		return
	}
	x.AddError(msg)
	s.onBuildTransformFailed(ctx, x, domain.StatusFailed)
}

// wakeUpWaitingTransforms polls every wait list once (spec §4.8): each
// list is snapshotted and cleared before processing; still-pending items
// are appended back in their original order, and a resubmitted farm job
// is put at the front of the farm list.
func (s *Scheduler) wakeUpWaitingTransforms(ctx context.Context) error {
	if err := s.pollFarm(ctx); err != nil {
		return err
	}
	if err := s.pollThreadPool(ctx); err != nil {
		return err
	}
	s.pollTransformWaits()
	if err := s.pollSnDbs(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) pollFarm(ctx context.Context) error {
	snapshot := s.waitFarm
	s.waitFarm = nil

	for _, item := range snapshot {
		result, done, err := s.farm.Poll(ctx, item.FarmJobID)
		if err != nil {
			return err
		}
		if !done {
			s.waitFarm = append(s.waitFarm, item)
			continue
		}

		if !result.Succeeded {
			if item.FarmRetriesLeft <= 0 {
				s.failWaitingTransform(ctx, item.OwnerOutput, "Farm job failed: "+result.Message)
				continue
			}

			newJobID, serr := s.farm.Submit(ctx, ports.FarmJobSpec{
				Command:     item.FarmResubmit.Command,
				Args:        item.FarmResubmit.Args,
				Env:         item.FarmResubmit.Env,
				InputHashes: item.FarmResubmit.InputHashes,
			})
			if serr != nil || newJobID == "" {
				s.failWaitingTransform(ctx, item.OwnerOutput, "Farm job failed: retry submission failed")
				continue
			}

			s.logger.Warn(fmt.Sprintf("farm job for %s failed, retrying (%d attempts left)", item.OwnerOutput, item.FarmRetriesLeft))
			retried := item
			retried.FarmJobID = newJobID
			retried.FarmRetriesLeft--
			retried.Seq = s.seq.Next()
			s.waitFarm = append([]domain.WaitItem{retried}, s.waitFarm...)
			continue
		}

		ri := domain.ResumeItem{Kind: domain.WaitFarm, Seq: item.Seq, Succeeded: true, RawOutput: result.Output}
		if err := s.resumeTransform(item.OwnerOutput, ri); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) pollThreadPool(ctx context.Context) error {
	snapshot := s.waitThreadPool
	s.waitThreadPool = nil

	for _, item := range snapshot {
		result, done, err := s.threadPool.Poll(ctx, item.ThreadPoolTask)
		if err != nil {
			return err
		}
		if !done {
			s.waitThreadPool = append(s.waitThreadPool, item)
			continue
		}

		ri := domain.ResumeItem{
			Kind:      domain.WaitThreadPool,
			Seq:       item.Seq,
			Succeeded: result.Succeeded,
			Message:   result.Message,
			RawOutput: result.Output,
		}
		if err := s.resumeTransform(item.OwnerOutput, ri); err != nil {
			return err
		}
	}
	return nil
}

// pollTransformWaits satisfies a transform-on-transform wait as soon as
// the awaited transform has any transformInfo entry at all, regardless of
// its status (spec §4.8).
func (s *Scheduler) pollTransformWaits() {
	snapshot := s.waitTransform
	s.waitTransform = nil

	for _, item := range snapshot {
		target, ok := s.outputToXform[item.WaitsOnOutput]
		if !ok {
			s.waitTransform = append(s.waitTransform, item)
			continue
		}
		if _, hasInfo := s.transformInfo[target]; !hasInfo {
			s.waitTransform = append(s.waitTransform, item)
			continue
		}

		ri := domain.ResumeItem{Kind: domain.WaitTransform, Seq: item.Seq, Succeeded: true}
		if err := s.resumeTransform(item.OwnerOutput, ri); err != nil {
			s.logger.Warn(fmt.Sprintf("transform wait resume failed: %v", err))
		}
	}
}

func (s *Scheduler) pollSnDbs(ctx context.Context) error {
	snapshot := s.waitSnDbs
	s.waitSnDbs = nil

	for _, item := range snapshot {
		result, done, err := s.sndbs.Poll(ctx, item.SnDbsJobID)
		if err != nil {
			return err
		}
		if !done {
			s.waitSnDbs = append(s.waitSnDbs, item)
			continue
		}

		if x, ok := s.outputToXform[item.OwnerOutput]; ok {
			if info, ok := s.transformInfo[x]; ok {
				info.CapturedLog.WriteString(formatSnDbsBanner(result))
			}
		}

		ri := domain.ResumeItem{
			Kind:      domain.WaitSnDbs,
			Seq:       item.Seq,
			Succeeded: result.Succeeded,
			Message:   result.Message,
			RawOutput: result.Output,
		}
		if err := s.resumeTransform(item.OwnerOutput, ri); err != nil {
			return err
		}
	}
	return nil
}

// formatSnDbsBanner renders an SN-DBS job's diagnostics as a log banner.
// Host/Where/timing fields tolerate blank values per §9.7: a job's status
// can legitimately report before the distributor has filled them in, and
// a blank field is never treated as a failure to parse.
func formatSnDbsBanner(result ports.SnDbsJobResult) string {
	host := result.Host
	if host == "" {
		host = "unknown"
	}
	where := result.Where
	if where == "" {
		where = "unknown"
	}

	banner := fmt.Sprintf("[ SN-DBS Job - host=%s where=%s ]\n", host, where)
	if !result.StartedAt.IsZero() && !result.EndedAt.IsZero() {
		banner += fmt.Sprintf("duration: %s\n", result.EndedAt.Sub(result.StartedAt))
	}
	banner += result.Output
	if !result.Succeeded && result.Message != "" {
		banner += "\n" + result.Message
	}
	return banner
}
