// internal/repository/interfaces.go
package repository

import (
	"context"
	"time"

	"camera-service/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the requested row does not exist
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }

// SnapshotRepository defines snapshot data access operations
type SnapshotRepository interface {
	// CRUD operations
	Create(ctx context.Context, snapshot *model.Snapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Snapshot, error)
	Update(ctx context.Context, snapshot *model.Snapshot) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.SnapshotStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, before time.Time) ([]string, error)

	// Listing and reporting
	List(ctx context.Context, filter *model.SnapshotListFilter) ([]*model.Snapshot, int, error)
	GetStats(ctx context.Context) (*SnapshotStats, error)
}

// SnapshotStats represents snapshot statistics
type SnapshotStats struct {
	Total      int                          `json:"total"`
	TotalBytes int64                        `json:"total_bytes"`
	ByStatus   map[model.SnapshotStatus]int `json:"by_status"`
}
