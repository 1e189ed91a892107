package ports

import "context"

// FarmJobSpec describes a unit of work submitted to the remote Farm
// substrate (spec §4.8, §5).
type FarmJobSpec struct {
	Command string
	Args    []string
	Env     map[string]string
	// InputHashes lists content hashes the farm must materialize before
	// running Command.
	InputHashes []string
}

// FarmJobResult is the terminal state of a farm job once it completes.
type FarmJobResult struct {
	Succeeded bool
	// Output is the job's captured log text. The scheduler hands it to the
	// owning transform as ResumeItem.RawOutput; it is not added to the
	// transform's captured log.
	Output  string
	Message string
}

// Farm is the remote job-submission substrate port. Submit is
// non-blocking: the caller registers a WaitItem against the returned job
// id and later polls Poll for completion (spec §4.8).
//
//go:generate go run go.uber.org/mock/mockgen -source=farm.go -destination=mocks/mock_farm.go -package=mocks
type Farm interface {
	// Submit enqueues a job and returns its id. An empty/invalid id
	// indicates ErrInvalidFarmJobID.
	Submit(ctx context.Context, spec FarmJobSpec) (jobID string, err error)
	// Poll returns the result for jobID if it has finished, or ok=false
	// if it is still running.
	Poll(ctx context.Context, jobID string) (result FarmJobResult, ok bool, err error)
}
