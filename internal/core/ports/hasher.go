package ports

import "go.trai.ch/buildsched/internal/core/domain"

// Hasher computes content hashes for files and arbitrary byte payloads
// (spec §4.5/§4.6).
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash hashes the content of a file on disk.
	ComputeFileHash(path string) (domain.DataHash, error)
	// ComputeBytesHash hashes an in-memory payload.
	ComputeBytesHash(data []byte) domain.DataHash
}

// InputResolver expands wildcard/glob input patterns into concrete file
// paths (spec §4.5's wildcard dependency handling).
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type InputResolver interface {
	ResolveInputs(patterns []string, root string) ([]string, error)
}
