package ports

import "go.trai.ch/buildsched/internal/core/domain"

// TransformSpec is the declarative, YAML-loadable description of one
// BuildTransform before it is bound to a concrete Evaluate closure (spec
// §6.6 BuildSchedulerConfig).
type TransformSpec struct {
	Name       string            `yaml:"name"`
	TypeName   string            `yaml:"type"`
	Inputs     []InputSpec       `yaml:"inputs"`
	Outputs    []OutputSpec      `yaml:"outputs"`
	Config     map[string]string `yaml:"config,omitempty"`
	EvalMode   string            `yaml:"eval_mode,omitempty"`   // normal|disabled|forced
	DepMode    string            `yaml:"dep_mode,omitempty"`    // checked|ignore
	Substrate  string            `yaml:"substrate,omitempty"`   // local|thread_pool|farm|sn_dbs
}

// InputSpec declares one transform input in the manifest.
type InputSpec struct {
	Kind     string `yaml:"kind"` // source_file|hashed_resource
	Path     string `yaml:"path"`
	Nickname string `yaml:"nickname,omitempty"`
}

// OutputSpec declares one transform output in the manifest.
type OutputSpec struct {
	Path     string   `yaml:"path"`
	Flags    []string `yaml:"flags,omitempty"` // replicate|nondeterministic|manifest|output_on_failure
	Nickname string   `yaml:"nickname,omitempty"`
}

// BuildManifest is the top-level decoded form of a buildsched.yaml file.
type BuildManifest struct {
	Transforms []TransformSpec `yaml:"transforms"`
}

// ConfigLoader loads a build manifest from a working directory (spec
// §6.6).
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	Load(cwd string) (*BuildManifest, error)
}

// ResolveFlags converts the YAML flag name list into an OutputFlag mask.
func ResolveFlags(names []string) domain.OutputFlag {
	var flags domain.OutputFlag
	for _, n := range names {
		switch n {
		case "replicate":
			flags |= domain.FlagReplicate
		case "nondeterministic":
			flags |= domain.FlagNondeterministic
		case "manifest":
			flags |= domain.FlagIncludeInManifest
		case "output_on_failure":
			flags |= domain.FlagOutputOnFailure
		}
	}
	return flags
}
