package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// InputEntry is one dependency-record input. Exactly one of Timestamp,
// ContentHash or Missing is meaningful at any time; which one is set
// encodes whether the input is a kSourceFile (timestamp), a
// kHashedResource (content hash), or a path that could not be found
// (missing) — spec §3.2.
type InputEntry struct {
	Path        string `json:"path"`
	TimestampNS int64  `json:"timestamp_ns,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
	Missing     bool   `json:"missing,omitempty"`
}

// isPathOnly reports whether none of the three concrete forms have been
// filled in yet — the shape RegisterDependencies writes before resolving
// a discovered dependency to a timestamp, hash, or missing marker.
func (e InputEntry) isPathOnly() bool {
	return e.TimestampNS == 0 && e.ContentHash == "" && !e.Missing
}

// SimpleDependency is the structured, serializable dependency record
// described in spec §3.2/C2: an ordered-by-key set of inputs, an ordered
// list of output paths, and free-form string config pairs used to build
// the Disabled-mode short-circuit key (spec §6.2).
//
// encoding/json always emits map keys in sorted order, which is what gives
// this type its P2 determinism guarantee: hash(json(v)) is stable across
// insertion order.
type SimpleDependency struct {
	Inputs  map[string]InputEntry `json:"inputs"`
	Outputs []string              `json:"outputs"`
	Config  map[string]string     `json:"config,omitempty"`
}

// NewSimpleDependency returns an empty, ready-to-use dependency record.
func NewSimpleDependency() *SimpleDependency {
	return &SimpleDependency{
		Inputs: make(map[string]InputEntry),
	}
}

// SetInputFilename records the bare path for a dependency key without yet
// committing to a timestamp, hash, or missing marker.
func (d *SimpleDependency) SetInputFilename(key, path string) {
	d.Inputs[key] = InputEntry{Path: path}
}

// SetInputFilenameAndTimeStamp records a source-file input identified by
// path and modification time.
func (d *SimpleDependency) SetInputFilenameAndTimeStamp(key, path string, ts time.Time) {
	d.Inputs[key] = InputEntry{Path: path, TimestampNS: ts.UnixNano()}
}

// SetInputFilenameAndHash records a hashed-resource input identified by
// path and content hash (or a wildcard's combined file-times hash).
func (d *SimpleDependency) SetInputFilenameAndHash(key, path string, hash DataHash) {
	d.Inputs[key] = InputEntry{Path: path, ContentHash: hash.AsText()}
}

// AddMissingInputFile records a dependency key whose path could not be
// resolved to a timestamp or hash at all.
func (d *SimpleDependency) AddMissingInputFile(key, path string) {
	d.Inputs[key] = InputEntry{Path: path, Missing: true}
}

// AddOutput appends a declared output path.
func (d *SimpleDependency) AddOutput(path string) {
	d.Outputs = append(d.Outputs, path)
}

// SetConfigPair records a string or int config entry. Integers are
// formatted with %d by the caller before being passed in; the record
// itself only ever stores strings, matching the wire/json form.
func (d *SimpleDependency) SetConfigPair(key, value string) {
	if d.Config == nil {
		d.Config = make(map[string]string)
	}
	d.Config[key] = value
}

// GetConfigPairs returns "key=value" strings sorted by key, used to build
// the Disabled-mode outputConfigString (spec §6.2).
func (d *SimpleDependency) GetConfigPairs() []string {
	keys := make([]string, 0, len(d.Config))
	for k := range d.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+d.Config[k])
	}
	return pairs
}

// PathOnlyKeys returns the dependency keys whose entry has not yet been
// resolved to a timestamp, hash, or missing marker — the set
// UpdateInputFileTimestamps must fill in (spec §4.5).
func (d *SimpleDependency) PathOnlyKeys() []string {
	keys := make([]string, 0)
	for k, v := range d.Inputs {
		if v.isPathOnly() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy so callers can mutate a working copy while
// ResolveFinalDepHash walks the association chain.
func (d *SimpleDependency) Clone() *SimpleDependency {
	clone := &SimpleDependency{
		Inputs:  make(map[string]InputEntry, len(d.Inputs)),
		Outputs: append([]string(nil), d.Outputs...),
	}
	for k, v := range d.Inputs {
		clone.Inputs[k] = v
	}
	if d.Config != nil {
		clone.Config = make(map[string]string, len(d.Config))
		for k, v := range d.Config {
			clone.Config[k] = v
		}
	}
	return clone
}

// CanonicalJSON marshals the record deterministically (sorted map keys,
// stable field order) for hashing and round-trip persistence (spec P2/P3).
func (d *SimpleDependency) CanonicalJSON() ([]byte, error) {
	return json.Marshal(d)
}

// ParseSimpleDependency parses a record written by CanonicalJSON.
func ParseSimpleDependency(data []byte) (*SimpleDependency, error) {
	dep := NewSimpleDependency()
	if err := json.Unmarshal(data, dep); err != nil {
		return nil, err
	}
	if dep.Inputs == nil {
		dep.Inputs = make(map[string]InputEntry)
	}
	return dep, nil
}
