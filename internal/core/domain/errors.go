package domain

import "go.trai.ch/zerr"

// Sentinel errors for the scheduler core. Each is wrapped with zerr.With to
// attach the offending path, transform, or hash before it surfaces to a
// caller.
var (
	// ErrDuplicateOutput is returned when two transforms declare the same
	// first output but disagree on their full output set.
	ErrDuplicateOutput = zerr.New("duplicate output with mismatched output set")

	// ErrHashMismatch is returned by ContentHashCollection when a path is
	// registered twice with two different content hashes.
	ErrHashMismatch = zerr.New("content hash mismatch for already-registered path")

	// ErrTransformNotFound is returned when a lookup by first-output path fails.
	ErrTransformNotFound = zerr.New("transform not found")

	// ErrNicknameNotFound is returned by GetInput/GetOutput when no entry
	// carries the requested nickname.
	ErrNicknameNotFound = zerr.New("no input or output with that nickname")

	// ErrOutputsAlreadyUpdated is returned when a mutator is called on a
	// transform after hasUpdatedOutputs has been set.
	ErrOutputsAlreadyUpdated = zerr.New("transform outputs already updated, cannot mutate")

	// ErrMissingSourceInput is returned when a kSourceFile input does not
	// exist on disk at scheduling time.
	ErrMissingSourceInput = zerr.New("source file input is missing")

	// ErrDependentInputFailed is the failure reason text attached to a
	// transform whose input was produced by an already-failed transform.
	ErrDependentInputFailed = zerr.New("dependent input files failed")

	// ErrMissingInputContentHash is returned when PopulateInputContentHashes
	// cannot resolve one of a transform's hashed-resource inputs.
	ErrMissingInputContentHash = zerr.New("missing content hash for hashed resource input")

	// ErrAssociationConflict is returned when registering an association
	// conflicts with a previously stored value for the same key/path.
	ErrAssociationConflict = zerr.New("association conflict")

	// ErrOutputMissingAfterEvaluate is returned when a declared output has
	// no registered content hash after a transform claims kOutputsUpdated.
	ErrOutputMissingAfterEvaluate = zerr.New("declared output missing content hash after evaluation")

	// ErrFailureWithoutMessage is raised when a transform reaches kFailed
	// with an empty error list, which is an invariant violation.
	ErrFailureWithoutMessage = zerr.New("failed transform has no recorded error message")

	// ErrBlobMissing is returned when a parsed "Content Hash:" log line
	// references data that DoesDataExist reports as absent, and by a
	// DataStore's ReadData when no blob is stored under the hash.
	ErrBlobMissing = zerr.New("parsed content hash does not exist in data store")

	// ErrMaxOutputExceeded is the single fatal error produced when job
	// output was truncated by the farm agent.
	ErrMaxOutputExceeded = zerr.New("job output exceeded maximum size and was truncated")

	// ErrStalled names the state in which the loop made no progress, has
	// no new transforms, and no wait list is active. Evaluate does not
	// return it: a stall fails each remaining transform with a "Stalled:"
	// reason and sets BuildStatusErrorOccurred.
	ErrStalled = zerr.New("scheduler stalled: no progress, no pending work, no active waits")

	// ErrInvalidFarmJobID is returned when a farm submission yields the
	// sentinel invalid job id.
	ErrInvalidFarmJobID = zerr.New("farm returned invalid job id")

	// ErrAlreadyResumed is raised if a transform already marked
	// kResumeNeeded is handed a second resume item before the first
	// resolves, which the scheduler never allows but guards defensively.
	ErrAlreadyResumed = zerr.New("transform already has a pending resume item")

	// ErrUnknownWaitItem is returned when a poller cannot find a resume
	// target for a wait item it believes it dequeued.
	ErrUnknownWaitItem = zerr.New("wait item has no matching waiting transform")

	// ErrManifestNotFound is returned when no build manifest file can be
	// located from the working directory up to the filesystem root.
	ErrManifestNotFound = zerr.New("no build manifest found")

	// ErrEmptyManifest is returned when a build manifest parses cleanly
	// but declares zero transforms.
	ErrEmptyManifest = zerr.New("build manifest declares no transforms")
)
