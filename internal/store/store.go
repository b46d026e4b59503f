package store

import (
	"context"

	"github.com/classledger/attendance/internal/domain"
)

// Store defines the interface for the local session metadata cache.
// It is deliberately injectable so the composer can run against an
// in-memory fake in tests. Records have no TTL and are never deleted;
// metadata for a nonexistent ledger id is simply never surfaced.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetMetadata retrieves the metadata for a session id, or nil when absent
	GetMetadata(ctx context.Context, id uint64) (*domain.SessionMetadata, error)

	// GetAllMetadata retrieves every metadata record keyed by session id,
	// used by the composer to batch-join against ledger facts in one pass
	GetAllMetadata(ctx context.Context) (map[uint64]domain.SessionMetadata, error)

	// UpsertMetadata merges the non-nil fields of patch into the record for
	// id, creating it if absent. The merge is atomic per key.
	UpsertMetadata(ctx context.Context, id uint64, patch domain.SessionMetadata) error
}
