package store

import (
	"context"

	"github.com/cardkeep/cardkeep/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/snapshot_repository_mock.go -package=mock

// SnapshotRepository persists the collection snapshot locally so an
// offline session starts from the last known state. Implementations
// must tolerate an empty database (first run) by returning an empty
// snapshot from Load.
type SnapshotRepository interface {
	// Load reads the persisted snapshot. A missing or empty database
	// yields an empty snapshot, not an error.
	Load(ctx context.Context) (models.CollectionSnapshot, error)

	// Save replaces the persisted snapshot with snap atomically.
	Save(ctx context.Context, snap models.CollectionSnapshot) error

	// Close releases the underlying database handle.
	Close() error
}
