// Package cas implements the content-addressed blob and association store
// that backs the scheduler's DataStore port.
package cas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// associationRecord is the on-disk shape of one (keyHash, path) -> contentHash
// triple (spec Glossary "Association").
type associationRecord struct {
	ContentHash string `json:"content_hash"`
}

// Store implements ports.DataStore using one file per blob and one file
// per association/disabled-key record, sharded by hashed filename, in the
// teacher's file-per-record style.
type Store struct {
	mu sync.Mutex

	blobDir        string
	assocDir       string
	disabledDir    string
	pendingUploads []domain.DataHash
}

// NewStore creates a DataStore rooted at path, creating its subdirectories
// if they do not already exist.
func NewStore(path string) (*Store, error) {
	cleanPath := filepath.Clean(path)
	s := &Store{
		blobDir:     filepath.Join(cleanPath, "blobs"),
		assocDir:    filepath.Join(cleanPath, "assoc"),
		disabledDir: filepath.Join(cleanPath, "disabled"),
	}
	for _, dir := range []string{s.blobDir, s.assocDir, s.disabledDir} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, zerr.Wrap(err, "failed to create data store directory")
		}
	}
	return s, nil
}

func (s *Store) blobPath(hash domain.DataHash) string {
	text := hash.AsText()
	return filepath.Join(s.blobDir, text[:2], text+".blob")
}

func keyFor(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) assocPath(keyHash domain.DataHash, path string) string {
	k := keyFor(keyHash.AsText(), path)
	return filepath.Join(s.assocDir, k[:2], k+".json")
}

func (s *Store) disabledPath(cfgStr string) string {
	k := keyFor(cfgStr)
	return filepath.Join(s.disabledDir, k[:2], k+".json")
}

// WriteData stores data under its content hash and returns the hash.
func (s *Store) WriteData(_ context.Context, data []byte) (domain.DataHash, error) {
	hash := domain.HashBytes(data)
	path := s.blobPath(hash)

	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return domain.ZeroHash, zerr.Wrap(err, "failed to create blob shard directory")
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return domain.ZeroHash, zerr.Wrap(err, "failed to write blob")
	}
	return hash, nil
}

// ReadData retrieves the bytes previously stored under hash.
func (s *Store) ReadData(_ context.Context, hash domain.DataHash) ([]byte, error) {
	//nolint:gosec // path is built from a validated content hash
	data, err := os.ReadFile(s.blobPath(hash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrBlobMissing, "hash", hash.AsText())
		}
		return nil, zerr.Wrap(err, "failed to read blob")
	}
	return data, nil
}

// DoesDataExist reports whether hash names a stored blob. A blob that is
// present is also queued for upload, as ScheduleUpload does.
func (s *Store) DoesDataExist(_ context.Context, hash domain.DataHash) (bool, error) {
	_, err := os.Stat(s.blobPath(hash))
	if err == nil {
		s.mu.Lock()
		s.pendingUploads = append(s.pendingUploads, hash)
		s.mu.Unlock()
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, zerr.Wrap(err, "failed to stat blob")
}

// RegisterAssociation records the (keyHash, path) -> contentHash triple.
// When an association already exists for (keyHash, path) with a different
// contentHash, this is an ErrAssociationConflict unless allowMismatch is
// set (nondeterministic outputs, spec §4.4), in which case the existing
// record is overwritten.
func (s *Store) RegisterAssociation(_ context.Context, keyHash domain.DataHash, path string, contentHash domain.DataHash, allowMismatch bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := s.assocPath(keyHash, path)
	//nolint:gosec // path is built from hashed, trusted components
	if existing, err := os.ReadFile(file); err == nil {
		var rec associationRecord
		if err := json.Unmarshal(existing, &rec); err == nil && rec.ContentHash != contentHash.AsText() && !allowMismatch {
			return zerr.With(domain.ErrAssociationConflict, "path", path, "key_hash", keyHash.AsText())
		}
	}

	rec := associationRecord{ContentHash: contentHash.AsText()}
	data, err := json.Marshal(rec)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal association record")
	}
	if err := os.MkdirAll(filepath.Dir(file), dirPerm); err != nil {
		return zerr.Wrap(err, "failed to create association shard directory")
	}
	return os.WriteFile(file, data, filePerm)
}

// ResolveAssociation looks up a previously registered (keyHash, path)
// triple.
func (s *Store) ResolveAssociation(_ context.Context, keyHash domain.DataHash, path string) (domain.DataHash, bool, error) {
	//nolint:gosec // path is built from hashed, trusted components
	data, err := os.ReadFile(s.assocPath(keyHash, path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ZeroHash, false, nil
		}
		return domain.ZeroHash, false, zerr.Wrap(err, "failed to read association record")
	}

	var rec associationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.ZeroHash, false, zerr.Wrap(err, "failed to unmarshal association record")
	}
	hash, err := domain.DataHashFromText(rec.ContentHash)
	if err != nil {
		return domain.ZeroHash, false, err
	}
	return hash, true, nil
}

// RetrieveDisabledTransformKeyHash looks up the key hash last registered
// for a kDisabled transform's config string (spec §4.3 step 4).
func (s *Store) RetrieveDisabledTransformKeyHash(_ context.Context, cfgStr string) (domain.DataHash, bool, error) {
	data, err := os.ReadFile(s.disabledPath(cfgStr))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ZeroHash, false, nil
		}
		return domain.ZeroHash, false, zerr.Wrap(err, "failed to read disabled transform record")
	}
	var rec associationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.ZeroHash, false, zerr.Wrap(err, "failed to unmarshal disabled transform record")
	}
	hash, err := domain.DataHashFromText(rec.ContentHash)
	if err != nil {
		return domain.ZeroHash, false, err
	}
	return hash, true, nil
}

// RegisterDisabledTransformKeyHash records the key hash of a kDisabled
// transform's last known outputs, keyed by its config string.
func (s *Store) RegisterDisabledTransformKeyHash(_ context.Context, cfgStr string, keyHash domain.DataHash) error {
	rec := associationRecord{ContentHash: keyHash.AsText()}
	data, err := json.Marshal(rec)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal disabled transform record")
	}
	file := s.disabledPath(cfgStr)
	if err := os.MkdirAll(filepath.Dir(file), dirPerm); err != nil {
		return zerr.Wrap(err, "failed to create disabled transform shard directory")
	}
	return os.WriteFile(file, data, filePerm)
}

// CommitChanges is a no-op for the local filesystem store: every write
// above is already durable once it returns. It exists so substrates that
// buffer writes (e.g. a remote object store) share the same interface.
func (s *Store) CommitChanges(_ context.Context) error {
	return nil
}

// ScheduleUpload queues hash for asynchronous replication to a remote
// cache. The local store has nowhere to upload to, so the handle resolves
// immediately; a networked DataStore would hand back a future tied to the
// in-flight transfer.
func (s *Store) ScheduleUpload(_ context.Context, hash domain.DataHash) (ports.UploadHandle, error) {
	s.mu.Lock()
	s.pendingUploads = append(s.pendingUploads, hash)
	s.mu.Unlock()
	return noopUpload{}, nil
}

type noopUpload struct{}

func (noopUpload) Wait(context.Context) error { return nil }
