package ports

import (
	"context"
	"time"
)

// SnDbsJobSpec describes a compiler job submitted to the SN-DBS
// distributed compilation substrate (spec §4.8, §9.7).
type SnDbsJobSpec struct {
	Toolchain string
	Command   string
	Args      []string
	// AllowBlankFields tolerates the SN-DBS job-status API returning
	// partially empty fields mid-job, per the Open Question resolved in
	// DESIGN.md (spec §9.7).
	AllowBlankFields bool
}

// SnDbsJobResult is the terminal state of an SN-DBS job. Host, Where, and
// the timing fields mirror the SN-DBS status API's per-job diagnostics;
// any of them may arrive blank mid-rollout of a job (the Open Question
// resolved in DESIGN.md, spec §9.7), so callers must tolerate zero values
// rather than treating them as errors.
type SnDbsJobResult struct {
	Succeeded bool
	Output    string
	Message   string

	Host      string
	Where     string
	StartedAt time.Time
	EndedAt   time.Time
}

// SnDbs is the distributed-compiler-job submission substrate port
// (spec §4.8). Shape mirrors Farm; it is a separate port because the two
// substrates have independent polling cadences and failure semantics.
//
//go:generate go run go.uber.org/mock/mockgen -source=sndbs.go -destination=mocks/mock_sndbs.go -package=mocks
type SnDbs interface {
	Submit(ctx context.Context, spec SnDbsJobSpec) (jobID string, err error)
	Poll(ctx context.Context, jobID string) (result SnDbsJobResult, ok bool, err error)
}
