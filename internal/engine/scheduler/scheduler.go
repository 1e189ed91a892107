// Package scheduler implements the content-addressed build scheduler: the
// wait/resume state machine that drives a DAG of BuildTransforms across
// the thread-pool, farm, and SN-DBS execution substrates.
package scheduler

import (
	"bytes"
	"context"
	"sync"
	"time"

	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
)

// BuildStatus is the scheduler's global outcome (spec §3.3).
type BuildStatus string

const (
	// BuildStatusOK indicates every transform reached a terminal,
	// non-failing state.
	BuildStatusOK BuildStatus = "OK"
	// BuildStatusErrorOccurred indicates at least one transform failed or
	// the loop stalled.
	BuildStatusErrorOccurred BuildStatus = "ErrorOccurred"
)

// pollBackoff is the idle sleep between wait-list poll attempts (spec §5
// backpressure, §4.2).
const pollBackoff = 500 * time.Millisecond

// TransformInfo is the scheduler's private bookkeeping record for one
// transform (spec §3.3's transformInfo).
type TransformInfo struct {
	Status domain.Status

	StartOrder      int
	CompletionOrder int

	StartEvalTime, EndEvalTime     time.Time
	StartResumeTime, EndResumeTime time.Time

	CapturedLog *bytes.Buffer

	WaitItem   *domain.WaitItem
	ResumeItem *domain.ResumeItem

	UsingSourceAssetView bool
	FarmExecutionTime    time.Duration
}

// Scheduler owns the transform DAG and drives the §4.2 scheduling loop.
// It is not safe for concurrent use: its scheduling model is single
// threaded cooperative (spec §5), and it starts no goroutines of its own.
type Scheduler struct {
	store      ports.DataStore
	hasher     ports.Hasher
	resolver   ports.InputResolver
	threadPool ports.ThreadPool
	farm       ports.Farm
	sndbs      ports.SnDbs
	logger     ports.Logger
	telemetry  ports.Telemetry

	fileDates *domain.FileDateCache
	content   *domain.ContentHashCollection
	seq       *domain.WaitItemSeq

	cfg BuildSchedulerConfig

	mu sync.Mutex

	xforms       []*domain.BuildTransform
	uniqueXforms []*domain.BuildTransform

	outputToXform map[string]*domain.BuildTransform
	transformCtxs map[*domain.BuildTransform]map[string]struct{}

	schedulable []*domain.BuildTransform
	newXforms   []*domain.BuildTransform

	updatedOutputs map[string]bool
	failedOutputs  map[string]bool

	transformInfo map[*domain.BuildTransform]*TransformInfo

	waitFarm       []domain.WaitItem
	waitThreadPool []domain.WaitItem
	waitTransform  []domain.WaitItem
	waitSnDbs      []domain.WaitItem

	currentTransform *domain.BuildTransform

	startOrdinal      int
	completionOrdinal int
	buildStatus       BuildStatus
	buildID           string

	// sourceAssetView, when set, supplies kSourceFile timestamps from a
	// pre-populated snapshot instead of stat-ing the filesystem (spec
	// §4.3 step (a)1).
	sourceAssetView map[string]time.Time
}

// SetSourceAssetView installs a timestamp snapshot keyed by prefixed
// source path. Passing nil reverts to reading the filesystem directly.
func (s *Scheduler) SetSourceAssetView(view map[string]time.Time) {
	s.sourceAssetView = view
}

// timestampFor resolves a source file's modification time, preferring the
// source-asset-view snapshot when one is installed.
func (s *Scheduler) timestampFor(path domain.BuildPath) (time.Time, error) {
	if s.sourceAssetView != nil {
		if ts, ok := s.sourceAssetView[path.Prefixed()]; ok {
			return ts, nil
		}
	}
	return s.fileDates.GetTimestamp(path.AbsolutePath())
}

// timestampForPlainPath resolves a timestamp for a bare (non-BuildPath)
// filesystem path, as used by discovered dependencies which are recorded
// as opaque strings rather than BuildPath values.
func (s *Scheduler) timestampForPlainPath(path string) (time.Time, error) {
	if s.sourceAssetView != nil {
		if ts, ok := s.sourceAssetView[path]; ok {
			return ts, nil
		}
	}
	return s.fileDates.GetTimestamp(path)
}

// NewScheduler constructs an idle scheduler bound to its backing ports.
func NewScheduler(
	store ports.DataStore,
	hasher ports.Hasher,
	resolver ports.InputResolver,
	threadPool ports.ThreadPool,
	farm ports.Farm,
	sndbs ports.SnDbs,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Scheduler {
	return &Scheduler{
		store:         store,
		hasher:        hasher,
		resolver:      resolver,
		threadPool:    threadPool,
		farm:          farm,
		sndbs:         sndbs,
		logger:        logger,
		telemetry:     telemetry,
		fileDates:     domain.NewFileDateCache(),
		content:       domain.NewContentHashCollection(),
		seq:           domain.NewWaitItemSeq(),
		outputToXform: make(map[string]*domain.BuildTransform),
		transformCtxs: make(map[*domain.BuildTransform]map[string]struct{}),
		updatedOutputs: make(map[string]bool),
		failedOutputs:  make(map[string]bool),
		transformInfo:  make(map[*domain.BuildTransform]*TransformInfo),
		buildStatus:    BuildStatusOK,
	}
}

// Configure installs the scheduler's run configuration before Evaluate is
// first called (spec §6.6).
func (s *Scheduler) Configure(cfg BuildSchedulerConfig) {
	s.cfg = cfg
}

// SetBuildID sets the id mixed into IgnoreDependency-mode pre-evaluate
// deps so their key hash is unique per build (spec §3.2).
func (s *Scheduler) SetBuildID(id string) {
	s.buildID = id
}

// AddBuildTransform takes ownership of x and tags it with contexts. It
// returns false when x collapses into an already-registered transform
// sharing the same first output, after merging contexts and upgrading the
// evaluation mode per the §4.1 merge table. It aborts (panics, per the
// programmer-error class of spec §7 kind 1) when the existing transform's
// output set differs from x's.
func (s *Scheduler) AddBuildTransform(x *domain.BuildTransform, contexts []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.xforms = append(s.xforms, x)

	first, ok := x.FirstOutput()
	if !ok {
		panic(zerr.New("build transform has no outputs"))
	}
	key := first.Prefixed()

	if existing, dup := s.outputToXform[key]; dup {
		if !sameOutputSet(existing, x) {
			panic(zerr.With(domain.ErrDuplicateOutput, "path", key))
		}
		existing.EvalMode = domain.MergeEvaluationMode(existing.EvalMode, x.EvalMode)
		s.mergeContexts(existing, contexts)
		return false
	}

	s.outputToXform[key] = x
	s.uniqueXforms = append(s.uniqueXforms, x)
	s.mergeContexts(x, contexts)

	s.transformInfo[x] = &TransformInfo{Status: domain.StatusWaitingInputs, CapturedLog: &bytes.Buffer{}}
	s.newXforms = append(s.newXforms, x)

	return true
}

func sameOutputSet(a, b *domain.BuildTransform) bool {
	ao, bo := a.Outputs(), b.Outputs()
	if len(ao) != len(bo) {
		return false
	}
	for i := range ao {
		if ao[i].Path.Prefixed() != bo[i].Path.Prefixed() {
			return false
		}
	}
	return true
}

func (s *Scheduler) mergeContexts(x *domain.BuildTransform, contexts []string) {
	set, ok := s.transformCtxs[x]
	if !ok {
		set = make(map[string]struct{})
		s.transformCtxs[x] = set
	}
	for _, c := range contexts {
		set[c] = struct{}{}
		x.AddContext(c)
	}
}

// GetTransformInfo returns the scheduler's bookkeeping record for x.
func (s *Scheduler) GetTransformInfo(x *domain.BuildTransform) (*TransformInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.transformInfo[x]
	return info, ok
}

// GetContextTransforms returns every transform tagged with ctx.
func (s *Scheduler) GetContextTransforms(ctx string) []*domain.BuildTransform {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.BuildTransform
	for x, set := range s.transformCtxs {
		if _, ok := set[ctx]; ok {
			out = append(out, x)
		}
	}
	return out
}

// GetAssetContexts returns the asset contexts tagging x.
func (s *Scheduler) GetAssetContexts(x *domain.BuildTransform) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.transformCtxs[x]
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// anyWaiting reports whether any of the four wait lists holds an item.
func (s *Scheduler) anyWaiting() bool {
	return len(s.waitFarm) > 0 || len(s.waitThreadPool) > 0 || len(s.waitTransform) > 0 || len(s.waitSnDbs) > 0
}

// Evaluate drives the scheduling loop to completion (spec §4.2). It is
// idempotent once buildStatus has left BuildStatusOK: a second call
// returns the previous status without doing further work.
func (s *Scheduler) Evaluate(ctx context.Context) (BuildStatus, error) {
	if s.buildStatus != BuildStatusOK {
		return s.buildStatus, nil
	}

	for len(s.schedulable) > 0 || len(s.newXforms) > 0 || s.anyWaiting() {
		s.schedulable = append(s.schedulable, s.newXforms...)
		s.newXforms = nil

		progress := false
		snapshot := s.schedulable
		s.schedulable = nil

		for _, x := range snapshot {
			advanced, err := s.tryAdvance(ctx, x)
			if err != nil {
				return s.buildStatus, err
			}
			if advanced {
				progress = true
			} else {
				s.schedulable = append(s.schedulable, x)
			}
		}

		if err := s.wakeUpWaitingTransforms(ctx); err != nil {
			return s.buildStatus, err
		}

		if !progress && len(s.newXforms) == 0 && s.anyWaiting() {
			select {
			case <-ctx.Done():
				return s.buildStatus, ctx.Err()
			case <-time.After(pollBackoff):
			}
			continue
		}

		if !progress && len(s.schedulable) > 0 && len(s.newXforms) == 0 && !s.anyWaiting() {
			s.diagnoseStall(ctx)
			s.buildStatus = BuildStatusErrorOccurred
			break
		}
	}

	if err := s.store.CommitChanges(ctx); err != nil {
		return s.buildStatus, zerr.Wrap(err, "failed to commit data store changes")
	}

	s.pushContextsToParents()

	return s.buildStatus, nil
}

// tryAdvance attempts to move x past its current pending state: fails it
// for dependent-input-failure or missing-source-input, or executes it
// once all non-source inputs are ready. Returns advanced=true when x left
// the schedulable set this iteration (executed or failed).
func (s *Scheduler) tryAdvance(ctx context.Context, x *domain.BuildTransform) (bool, error) {
	if path, failed := s.firstFailedDependency(x); failed {
		x.AddError("Dependent input files failed: " + path)
		s.onBuildTransformFailed(ctx, x, domain.StatusWaitingInputs)
		return true, nil
	}

	if path, missing := s.firstMissingSourceInput(x); missing {
		x.AddError("Source file input is missing: " + path)
		s.onBuildTransformFailed(ctx, x, domain.StatusWaitingInputs)
		return true, nil
	}

	if !s.allNonSourceInputsReady(x) {
		return false, nil
	}

	if err := s.executeTransform(ctx, x); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Scheduler) firstFailedDependency(x *domain.BuildTransform) (string, bool) {
	for _, in := range x.Inputs() {
		p := in.Path.Prefixed()
		if s.failedOutputs[p] {
			return p, true
		}
	}
	return "", false
}

func (s *Scheduler) firstMissingSourceInput(x *domain.BuildTransform) (string, bool) {
	for _, in := range x.Inputs() {
		if in.Kind != domain.KindSourceFile {
			continue
		}
		if _, err := s.fileDates.GetTimestamp(in.Path.AbsolutePath()); err != nil {
			return in.Path.Prefixed(), true
		}
	}
	return "", false
}

func (s *Scheduler) allNonSourceInputsReady(x *domain.BuildTransform) bool {
	for _, in := range x.Inputs() {
		if in.Kind == domain.KindSourceFile {
			continue
		}
		if !s.updatedOutputs[in.Path.Prefixed()] {
			return false
		}
	}
	return true
}

// diagnoseStall assigns a failure reason to every still-schedulable
// transform when the loop can no longer make progress (spec §7 kind 5).
func (s *Scheduler) diagnoseStall(ctx context.Context) {
	for _, x := range s.schedulable {
		reason := s.diagnoseReason(x)
		x.AddError(reason)
		s.onBuildTransformFailed(ctx, x, domain.StatusWaitingInputs)
	}
	s.schedulable = nil
}

// diagnoseReason classifies why x never became schedulable, in priority
// order: missing-source, unprovided, pending, failed (spec §4.2, §7.5).
func (s *Scheduler) diagnoseReason(x *domain.BuildTransform) string {
	if path, missing := s.firstMissingSourceInput(x); missing {
		return "Stalled: source file input is missing: " + path
	}
	for _, in := range x.Inputs() {
		if in.Kind == domain.KindSourceFile {
			continue
		}
		p := in.Path.Prefixed()
		if _, ok := s.outputToXform[p]; !ok {
			return "Stalled: input is unprovided by any transform: " + p
		}
	}
	for _, in := range x.Inputs() {
		if in.Kind == domain.KindSourceFile {
			continue
		}
		p := in.Path.Prefixed()
		if !s.updatedOutputs[p] && !s.failedOutputs[p] {
			return "Stalled: input's producing transform never completed: " + p
		}
	}
	for _, in := range x.Inputs() {
		if in.Kind == domain.KindSourceFile {
			continue
		}
		p := in.Path.Prefixed()
		if s.failedOutputs[p] {
			return "Stalled: dependent input failed: " + p
		}
	}
	return zerr.New("stalled for an unknown reason").Error()
}
