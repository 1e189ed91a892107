package ports

import (
	"context"

	"go.trai.ch/buildsched/internal/core/domain"
)

// DataStore is the content-addressed storage port (spec §C7/§5, §GLOSSARY).
// It backs blob storage (content hash -> bytes) and the association store:
// triples (keyHash, path, contentHash) retrievable by (keyHash, path), which
// ResolveFinalDepHash/RegisterDependencies chain across recursion depths.
//
//go:generate go run go.uber.org/mock/mockgen -source=datastore.go -destination=mocks/mock_datastore.go -package=mocks
type DataStore interface {
	// WriteData stores bytes under their content hash and returns it.
	WriteData(ctx context.Context, data []byte) (domain.DataHash, error)
	// ReadData retrieves previously stored bytes by content hash.
	ReadData(ctx context.Context, hash domain.DataHash) ([]byte, error)
	// DoesDataExist reports whether a content hash is present without
	// reading its payload. As a side effect it registers the blob for
	// asynchronous upload (spec §4.7 ParseJobOutput).
	DoesDataExist(ctx context.Context, hash domain.DataHash) (bool, error)

	// RegisterAssociation records the triple (keyHash, path, contentHash).
	// A second registration of the same (keyHash, path) with a different
	// contentHash is an association conflict (spec §4.5/§7 kind 4); it is
	// fatal unless allowMismatch is set, in which case it is tolerated and
	// the new contentHash replaces the stored one.
	RegisterAssociation(ctx context.Context, keyHash domain.DataHash, path string, contentHash domain.DataHash, allowMismatch bool) error
	// ResolveAssociation looks up the contentHash registered for
	// (keyHash, path).
	ResolveAssociation(ctx context.Context, keyHash domain.DataHash, path string) (contentHash domain.DataHash, found bool, err error)

	// RetrieveDisabledTransformKeyHash looks up the key hash previously
	// stored for a Disabled-mode transform's outputConfigString (spec
	// §6.2).
	RetrieveDisabledTransformKeyHash(ctx context.Context, cfgStr string) (domain.DataHash, bool, error)
	// RegisterDisabledTransformKeyHash stores the outputConfigString ->
	// keyHash mapping consulted by the above.
	RegisterDisabledTransformKeyHash(ctx context.Context, cfgStr string, keyHash domain.DataHash) error

	// CommitChanges durably flushes buffered writes. Some implementations
	// (e.g. an in-memory store) treat this as a no-op.
	CommitChanges(ctx context.Context) error

	// ScheduleUpload asynchronously pushes a blob to a remote cache tier.
	// Implementations that have no remote tier return a no-op handle.
	ScheduleUpload(ctx context.Context, hash domain.DataHash) (UploadHandle, error)
}

// UploadHandle lets a caller wait on an asynchronous upload started by
// DataStore.ScheduleUpload.
type UploadHandle interface {
	Wait(ctx context.Context) error
}
