package audiocache

import (
	"context"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
)

// Service is the result cache consulted before producing any unit and
// populated after. Entries are keyed by (source, language, unit index) so
// separate sessions over the same video and language share output. Entries
// are never invalidated on read; retention is TTL only.
type Service interface {
	// Get returns cached audio for a unit, or false on miss/expiry
	Get(ctx context.Context, sourceURL, language string, unitIndex int) ([]byte, bool)

	// Put stores produced audio with the given retention window
	Put(ctx context.Context, sourceURL, language string, unitIndex int, payload []byte, ttl time.Duration) error

	// PurgeExpired removes lapsed entries from the persistent tier
	PurgeExpired(ctx context.Context) (int64, error)
}

// Repository defines persistent storage for cache entries
type Repository interface {
	GetByKey(ctx context.Context, sourceHash, language string, unitIndex int) (*models.CachedAudio, error)
	Upsert(ctx context.Context, entry *models.CachedAudio) error
	DeleteExpired(ctx context.Context) (int64, error)
}
