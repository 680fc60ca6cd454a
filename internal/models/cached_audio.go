package models

import (
	"time"

	"gorm.io/gorm"
)

// CachedAudio is a persisted result-cache entry for one produced unit of
// dubbed audio. Keyed by (source hash, target language, unit index) so that
// sessions sharing the same video and language reuse each other's output.
type CachedAudio struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SourceHash string `gorm:"size:40;not null;uniqueIndex:idx_cached_audio_key" json:"source_hash"`
	Language   string `gorm:"size:16;not null;uniqueIndex:idx_cached_audio_key" json:"language"`
	UnitIndex  int    `gorm:"not null;uniqueIndex:idx_cached_audio_key" json:"unit_index"`

	// Original URL kept for debugging; lookups go through SourceHash only
	SourceURL string `json:"source_url"`

	Payload   []byte    `gorm:"type:blob" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// TableName specifies the table name for GORM
func (CachedAudio) TableName() string {
	return "cached_audio"
}

// BeforeCreate hook to set timestamps
func (c *CachedAudio) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// Expired reports whether the entry's retention window has lapsed
func (c *CachedAudio) Expired() bool {
	return time.Now().After(c.ExpiresAt)
}
