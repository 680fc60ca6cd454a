package audiocache

import (
	"context"
	"log"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/cache"
)

// service implements Service with a memory tier over an optional persistent
// repository. The repository may be nil when no database is configured; the
// cache then only lives as long as the process.
type service struct {
	memory    cache.Cache
	repo      Repository
	memoryTTL time.Duration
}

// NewService creates a new result cache service
func NewService(memory cache.Cache, repo Repository, memoryTTL time.Duration) Service {
	if memoryTTL <= 0 {
		memoryTTL = 30 * time.Minute
	}
	return &service{
		memory:    memory,
		repo:      repo,
		memoryTTL: memoryTTL,
	}
}

// Get checks the memory tier, then the persistent tier. A persistent hit is
// promoted into memory. Expired persistent rows count as misses; the reaper
// deletes them later.
func (s *service) Get(ctx context.Context, sourceURL, language string, unitIndex int) ([]byte, bool) {
	key := Key(sourceURL, language, unitIndex)

	if payload, ok := s.memory.Get(ctx, key); ok {
		return payload, true
	}

	if s.repo == nil {
		return nil, false
	}

	entry, err := s.repo.GetByKey(ctx, SourceHash(sourceURL), language, unitIndex)
	if err != nil {
		if err != ErrEntryNotFound {
			log.Printf("[ERROR] Cache lookup failed for %s: %v", key, err)
		}
		return nil, false
	}
	if entry.Expired() {
		return nil, false
	}

	if err := s.memory.Set(ctx, key, entry.Payload, s.memoryTTL); err != nil {
		log.Printf("[ERROR] Failed to promote cache entry %s: %v", key, err)
	}
	return entry.Payload, true
}

// Put writes to both tiers
func (s *service) Put(ctx context.Context, sourceURL, language string, unitIndex int, payload []byte, ttl time.Duration) error {
	key := Key(sourceURL, language, unitIndex)

	memTTL := s.memoryTTL
	if ttl < memTTL {
		memTTL = ttl
	}
	if err := s.memory.Set(ctx, key, payload, memTTL); err != nil {
		return err
	}

	if s.repo == nil {
		return nil
	}

	return s.repo.Upsert(ctx, &models.CachedAudio{
		SourceHash: SourceHash(sourceURL),
		Language:   language,
		UnitIndex:  unitIndex,
		SourceURL:  sourceURL,
		Payload:    payload,
		ExpiresAt:  time.Now().Add(ttl),
	})
}

// PurgeExpired removes lapsed rows from the persistent tier
func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	return s.repo.DeleteExpired(ctx)
}
