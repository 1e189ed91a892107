package domain

import "fmt"

// WaitKind discriminates the four substrates a transform can suspend on
// (spec §4.8/§9.2).
type WaitKind int

const (
	// WaitFarm is a remote Farm job submission.
	WaitFarm WaitKind = iota
	// WaitThreadPool is a local thread-pool task.
	WaitThreadPool
	// WaitTransform is a dependency on another transform's completion.
	WaitTransform
	// WaitSnDbs is a remote SN-DBS compiler-job submission.
	WaitSnDbs
)

// String renders a WaitKind for logging.
func (k WaitKind) String() string {
	switch k {
	case WaitFarm:
		return "farm"
	case WaitThreadPool:
		return "thread_pool"
	case WaitTransform:
		return "transform"
	case WaitSnDbs:
		return "sn_dbs"
	default:
		return fmt.Sprintf("wait_kind(%d)", int(k))
	}
}

// WaitItem is the tagged union a suspended transform is parked behind
// (spec §C6). Exactly one of the Farm/ThreadPool/Transform/SnDbs fields is
// meaningful, selected by Kind. Seq is a monotonically increasing id
// assigned at creation; the ResumeItem produced when the item completes
// carries the same Seq.
type WaitItem struct {
	Kind WaitKind
	Seq  uint64

	// OwnerOutput is the first-output path of the transform waiting on
	// this item, used to look the transform back up when it completes.
	OwnerOutput string

	FarmJobID      string
	ThreadPoolTask string
	WaitsOnOutput  string // first-output path of the transform being waited on
	SnDbsJobID     string

	// FarmRetriesLeft and FarmResubmit support the farm substrate's retry
	// behavior (spec §4.8 scenario S4): a job that fails with retries
	// remaining is resubmitted at the front of the farm wait list instead
	// of failing the owning transform.
	FarmRetriesLeft int
	FarmResubmit    FarmResubmitSpec
}

// FarmResubmitSpec carries enough of a farm job's original request to
// resubmit it on failure, without the domain package importing ports.
type FarmResubmitSpec struct {
	Command     string
	Args        []string
	Env         map[string]string
	InputHashes []string
}

// ResumeItem carries whatever payload a completed wait item produced back
// into BuildTransform.ResumeEvaluation.
type ResumeItem struct {
	Kind WaitKind
	Seq  uint64

	// Succeeded is false if the underlying job/task failed; Message then
	// carries the failure detail.
	Succeeded bool
	Message   string

	// RawOutput is the completed job's or task's output text. The
	// scheduler's log scan for "Content Hash:" lines reads the transform's
	// captured log, not this field; only SN-DBS output is also copied into
	// that log, inside the job banner.
	RawOutput string
}

// WaitItemSeq is the monotonic id source for WaitItem.Seq. The scheduler
// owns exactly one instance for the lifetime of a build; ids from it
// order resume records across all four wait lists.
type WaitItemSeq struct {
	next uint64
}

// NewWaitItemSeq returns a fresh sequence counter.
func NewWaitItemSeq() *WaitItemSeq {
	return &WaitItemSeq{}
}

// Next returns the next monotonically increasing sequence value.
func (s *WaitItemSeq) Next() uint64 {
	s.next++
	return s.next
}
