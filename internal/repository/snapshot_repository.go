// internal/repository/snapshot_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"camera-service/internal/database"
	"camera-service/internal/model"
)

// snapshotRepository implements SnapshotRepository interface
type snapshotRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *database.DB, logger *zap.Logger) SnapshotRepository {
	return &snapshotRepository{
		db:     db,
		logger: logger,
	}
}

const snapshotColumns = `id, file_name, file_path, declared_size, bytes_written,
	   chunks, retries, max_response_us, max_byte_gap_us, elapsed_ms,
	   eof_marker, status, error_info, created_at, updated_at`

// Create creates a new snapshot record
func (r *snapshotRepository) Create(ctx context.Context, snapshot *model.Snapshot) error {
	query := `
		INSERT INTO snapshots (
			id, file_name, file_path, declared_size, bytes_written,
			chunks, retries, max_response_us, max_byte_gap_us, elapsed_ms,
			eof_marker, status, error_info
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID, snapshot.FileName, snapshot.FilePath, snapshot.DeclaredSize,
		snapshot.BytesWritten, snapshot.Chunks, snapshot.Retries,
		snapshot.MaxResponse, snapshot.MaxByteGap, snapshot.ElapsedMS,
		snapshot.EOFMarker, snapshot.Status, snapshot.ErrorInfo,
	)

	if err != nil {
		r.logger.Error("Failed to create snapshot", zap.Error(err), zap.String("id", snapshot.ID.String()))
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	r.logger.Info("Snapshot record created", zap.String("id", snapshot.ID.String()))
	return nil
}

func (r *snapshotRepository) scanSnapshot(row interface {
	Scan(dest ...interface{}) error
}) (*model.Snapshot, error) {
	snapshot := &model.Snapshot{}
	err := row.Scan(
		&snapshot.ID, &snapshot.FileName, &snapshot.FilePath, &snapshot.DeclaredSize,
		&snapshot.BytesWritten, &snapshot.Chunks, &snapshot.Retries,
		&snapshot.MaxResponse, &snapshot.MaxByteGap, &snapshot.ElapsedMS,
		&snapshot.EOFMarker, &snapshot.Status, &snapshot.ErrorInfo,
		&snapshot.CreatedAt, &snapshot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// GetByID retrieves a snapshot by its UUID
func (r *snapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE id = $1`

	snapshot, err := r.scanSnapshot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get snapshot", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}

// Update updates an existing snapshot record
func (r *snapshotRepository) Update(ctx context.Context, snapshot *model.Snapshot) error {
	query := `
		UPDATE snapshots SET
			file_name = $2, file_path = $3, declared_size = $4,
			bytes_written = $5, chunks = $6, retries = $7,
			max_response_us = $8, max_byte_gap_us = $9, elapsed_ms = $10,
			eof_marker = $11, status = $12, error_info = $13,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		snapshot.ID, snapshot.FileName, snapshot.FilePath, snapshot.DeclaredSize,
		snapshot.BytesWritten, snapshot.Chunks, snapshot.Retries,
		snapshot.MaxResponse, snapshot.MaxByteGap, snapshot.ElapsedMS,
		snapshot.EOFMarker, snapshot.Status, snapshot.ErrorInfo,
	)
	if err != nil {
		r.logger.Error("Failed to update snapshot", zap.Error(err), zap.String("id", snapshot.ID.String()))
		return fmt.Errorf("failed to update snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus updates only the snapshot status
func (r *snapshotRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SnapshotStatus) error {
	query := `UPDATE snapshots SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to update snapshot status", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("failed to update snapshot status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a snapshot record
func (r *snapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete snapshot", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ErrNotFound
	}

	r.logger.Info("Snapshot deleted", zap.String("id", id.String()))
	return nil
}

// DeleteOlderThan removes records created before the cutoff and returns the
// file paths of the removed rows so the caller can reap the images.
func (r *snapshotRepository) DeleteOlderThan(ctx context.Context, before time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`DELETE FROM snapshots WHERE created_at < $1 RETURNING file_path`, before)
	if err != nil {
		r.logger.Error("Failed to delete old snapshots", zap.Error(err))
		return nil, fmt.Errorf("failed to delete old snapshots: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return paths, fmt.Errorf("failed to scan deleted snapshot: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return paths, fmt.Errorf("failed to iterate deleted snapshots: %w", err)
	}

	if len(paths) > 0 {
		r.logger.Info("Old snapshots deleted", zap.Int("count", len(paths)))
	}
	return paths, nil
}

// List returns snapshots matching the filter plus the total count
func (r *snapshotRepository) List(ctx context.Context, filter *model.SnapshotListFilter) ([]*model.Snapshot, int, error) {
	where := ""
	args := []interface{}{}
	if filter != nil && filter.Status != "" {
		where = "WHERE status = $1"
		args = append(args, filter.Status)
	}

	countQuery := "SELECT COUNT(*) FROM snapshots " + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count snapshots: %w", err)
	}

	limit := 50
	offset := 0
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		if filter.Offset > 0 {
			offset = filter.Offset
		}
	}

	query := fmt.Sprintf(
		"SELECT %s FROM snapshots %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		snapshotColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list snapshots", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*model.Snapshot{}
	for rows.Next() {
		snapshot, err := r.scanSnapshot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, total, nil
}

// GetStats returns aggregate snapshot statistics
func (r *snapshotRepository) GetStats(ctx context.Context) (*SnapshotStats, error) {
	stats := &SnapshotStats{
		ByStatus: make(map[model.SnapshotStatus]int),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(bytes_written), 0) FROM snapshots GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status model.SnapshotStatus
		var count int
		var bytes int64
		if err := rows.Scan(&status, &count, &bytes); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot stats: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
		stats.TotalBytes += bytes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot stats: %w", err)
	}

	return stats, nil
}
