package scheduler

import "strings"

// BuildSchedulerConfig is the scheduler's run configuration (spec §6.6).
type BuildSchedulerConfig struct {
	// Validate forces re-evaluation of transforms whose first output's
	// prefixed path contains any of ValidateOutputs as a substring.
	Validate        bool
	ValidateOutputs []string

	// OnlyExecuteOutputs, when non-empty, restricts execution: any
	// transform whose first output doesn't match one of these substrings
	// is switched to Disabled evaluation mode.
	OnlyExecuteOutputs []string

	NoReplicate       bool
	ReplicateManifest bool
	Local             bool

	TracingEnabled bool
}

// matchesAny reports whether path contains any of needles as a substring.
func matchesAny(path string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(path, n) {
			return true
		}
	}
	return false
}

// shouldForceValidate reports whether cfg.Validate selects path for
// forced re-evaluation.
func (cfg BuildSchedulerConfig) shouldForceValidate(path string) bool {
	return cfg.Validate && matchesAny(path, cfg.ValidateOutputs)
}

// shouldDisable reports whether cfg.OnlyExecuteOutputs excludes path.
func (cfg BuildSchedulerConfig) shouldDisable(path string) bool {
	if len(cfg.OnlyExecuteOutputs) == 0 {
		return false
	}
	return !matchesAny(path, cfg.OnlyExecuteOutputs)
}
