package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/logger"
	"github.com/classledger/attendance/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL-backed metadata store
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the metadata schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schema.SessionMetadata{}); err != nil {
		return fmt.Errorf("failed to migrate session metadata schema: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// GetMetadata retrieves the metadata for a session id, or nil when absent
func (s *pgStore) GetMetadata(ctx context.Context, id uint64) (*domain.SessionMetadata, error) {
	var row schema.SessionMetadata
	err := s.db.WithContext(ctx).
		Where("session_id = ?", SessionKey(id)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get metadata for session %d: %v", domain.ErrStorageUnavailable, id, err)
	}

	metadata := MetadataFromRow(row)
	return &metadata, nil
}

// GetAllMetadata retrieves every metadata record keyed by session id
func (s *pgStore) GetAllMetadata(ctx context.Context) (map[uint64]domain.SessionMetadata, error) {
	var rows []schema.SessionMetadata
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list metadata: %v", domain.ErrStorageUnavailable, err)
	}

	all := make(map[uint64]domain.SessionMetadata, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseUint(row.SessionID, 10, 64)
		if err != nil {
			logger.Warn("skipping metadata row with non-numeric session id",
				zap.String("session_id", row.SessionID))
			continue
		}
		all[id] = MetadataFromRow(row)
	}
	return all, nil
}

// UpsertMetadata merges the non-nil fields of patch into the record for id.
// The merge runs as a single INSERT ... ON CONFLICT DO UPDATE statement, so
// concurrent upserts on the same key cannot interleave.
func (s *pgStore) UpsertMetadata(ctx context.Context, id uint64, patch domain.SessionMetadata) error {
	row := RowFromMetadata(id, patch)

	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}
	if assignments := patchAssignments(patch); len(assignments) > 0 {
		conflict.DoNothing = false
		conflict.DoUpdates = clause.Assignments(assignments)
	}

	if err := s.db.WithContext(ctx).Clauses(conflict).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: failed to upsert metadata for session %d: %v", domain.ErrStorageUnavailable, id, err)
	}
	return nil
}

// SessionKey encodes a ledger session id as the store's string key
func SessionKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// MetadataFromRow converts a stored row into the domain type
func MetadataFromRow(row schema.SessionMetadata) domain.SessionMetadata {
	return domain.SessionMetadata{
		StartDate:       row.StartDate,
		StartTime:       row.StartTime,
		DurationMinutes: row.DurationMinutes,
		Location:        row.Location,
		Description:     row.Description,
		Creator:         row.Creator,
		LastTxHash:      row.LastTxHash,
	}
}

// RowFromMetadata converts a domain patch into a row for insertion
func RowFromMetadata(id uint64, m domain.SessionMetadata) schema.SessionMetadata {
	return schema.SessionMetadata{
		SessionID:       SessionKey(id),
		StartDate:       m.StartDate,
		StartTime:       m.StartTime,
		DurationMinutes: m.DurationMinutes,
		Location:        m.Location,
		Description:     m.Description,
		Creator:         m.Creator,
		LastTxHash:      m.LastTxHash,
	}
}

// patchAssignments maps the non-nil patch fields to their columns. Fields
// absent from the patch are left untouched on conflict.
func patchAssignments(patch domain.SessionMetadata) map[string]interface{} {
	assignments := make(map[string]interface{})
	if patch.StartDate != nil {
		assignments["start_date"] = *patch.StartDate
	}
	if patch.StartTime != nil {
		assignments["start_time"] = *patch.StartTime
	}
	if patch.DurationMinutes != nil {
		assignments["duration_minutes"] = *patch.DurationMinutes
	}
	if patch.Location != nil {
		assignments["location"] = *patch.Location
	}
	if patch.Description != nil {
		assignments["description"] = *patch.Description
	}
	if patch.Creator != nil {
		assignments["creator"] = *patch.Creator
	}
	if patch.LastTxHash != nil {
		assignments["last_tx_hash"] = *patch.LastTxHash
	}
	return assignments
}
