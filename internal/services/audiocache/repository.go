package audiocache

import (
	"context"
	"errors"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEntryNotFound is returned when no cache row exists for a key
var ErrEntryNotFound = errors.New("cached audio not found")

// repository implements Repository on gorm/sqlite
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new cached-audio repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetByKey retrieves a cache entry by its composite key
func (r *repository) GetByKey(ctx context.Context, sourceHash, language string, unitIndex int) (*models.CachedAudio, error) {
	var entry models.CachedAudio
	err := r.db.WithContext(ctx).
		Where("source_hash = ? AND language = ? AND unit_index = ?", sourceHash, language, unitIndex).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	return &entry, nil
}

// Upsert writes a cache entry, replacing payload and expiry on key conflict.
// Concurrent producers of the same unit write identical payloads, so
// last-write-wins is safe.
func (r *repository) Upsert(ctx context.Context, entry *models.CachedAudio) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_hash"}, {Name: "language"}, {Name: "unit_index"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
		}).
		Create(entry).Error
}

// DeleteExpired removes every entry past its retention window
func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.CachedAudio{})

	return result.RowsAffected, result.Error
}
