package fs

import (
	"os"

	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes content hashes for files and in-memory byte slices
// (spec §3.1's DataHash, backing the Hasher port).
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash hashes a file's content with domain.HashBytes.
func (h *Hasher) ComputeFileHash(path string) (domain.DataHash, error) {
	//nolint:gosec // path is controlled by the caller (scheduler-resolved input)
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ZeroHash, zerr.Wrap(err, "failed to read file for hashing")
	}
	return domain.HashBytes(data), nil
}

// ComputeBytesHash hashes an in-memory buffer.
func (h *Hasher) ComputeBytesHash(data []byte) domain.DataHash {
	return domain.HashBytes(data)
}
