package audiocache

import (
	"context"
	"testing"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository for exercising the persistent tier
type fakeRepo struct {
	entries map[string]*models.CachedAudio
	gets    int
}

func repoKey(hash, lang string, index int) string {
	return Key("", lang, index) + hash
}

func (f *fakeRepo) GetByKey(ctx context.Context, sourceHash, language string, unitIndex int) (*models.CachedAudio, error) {
	f.gets++
	entry, ok := f.entries[repoKey(sourceHash, language, unitIndex)]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, entry *models.CachedAudio) error {
	if f.entries == nil {
		f.entries = make(map[string]*models.CachedAudio)
	}
	f.entries[repoKey(entry.SourceHash, entry.Language, entry.UnitIndex)] = entry
	return nil
}

func (f *fakeRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	for k, e := range f.entries {
		if e.Expired() {
			delete(f.entries, k)
			n++
		}
	}
	return n, nil
}

func newMemory(t *testing.T) cache.Cache {
	t.Helper()
	mem := cache.NewMemoryCache(4)
	t.Cleanup(mem.Stop)
	return mem
}

func TestKeyIsStablePerSourceLanguageAndUnit(t *testing.T) {
	a := Key("http://example.com/v", "es", 3)
	b := Key("http://example.com/v", "es", 3)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, Key("http://example.com/v", "fr", 3))
	assert.NotEqual(t, a, Key("http://example.com/v", "es", 4))
	assert.NotEqual(t, a, Key("http://example.com/other", "es", 3))
}

func TestPutThenGetBothTiers(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(newMemory(t), repo, time.Hour)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "http://example.com/v", "es", 0, []byte("audio"), time.Hour))

	got, ok := svc.Get(ctx, "http://example.com/v", "es", 0)
	require.True(t, ok)
	assert.Equal(t, []byte("audio"), got)
	assert.Equal(t, 0, repo.gets, "hot entry must be served from memory")
}

func TestGetPromotesPersistentHit(t *testing.T) {
	repo := &fakeRepo{}
	require.NoError(t, repo.Upsert(context.Background(), &models.CachedAudio{
		SourceHash: SourceHash("http://example.com/v"),
		Language:   "es",
		UnitIndex:  2,
		Payload:    []byte("persisted"),
		ExpiresAt:  time.Now().Add(time.Hour),
	}))

	svc := NewService(newMemory(t), repo, time.Hour)
	ctx := context.Background()

	got, ok := svc.Get(ctx, "http://example.com/v", "es", 2)
	require.True(t, ok)
	assert.Equal(t, []byte("persisted"), got)
	require.Equal(t, 1, repo.gets)

	// Promoted: the second read stays in memory
	_, ok = svc.Get(ctx, "http://example.com/v", "es", 2)
	require.True(t, ok)
	assert.Equal(t, 1, repo.gets)
}

func TestExpiredPersistentEntryIsMiss(t *testing.T) {
	repo := &fakeRepo{}
	require.NoError(t, repo.Upsert(context.Background(), &models.CachedAudio{
		SourceHash: SourceHash("http://example.com/v"),
		Language:   "es",
		UnitIndex:  0,
		Payload:    []byte("stale"),
		ExpiresAt:  time.Now().Add(-time.Minute),
	}))

	svc := NewService(newMemory(t), repo, time.Hour)

	_, ok := svc.Get(context.Background(), "http://example.com/v", "es", 0)
	assert.False(t, ok)
}

func TestNilRepositoryIsMemoryOnly(t *testing.T) {
	svc := NewService(newMemory(t), nil, time.Hour)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "http://example.com/v", "es", 0, []byte("audio"), time.Hour))

	got, ok := svc.Get(ctx, "http://example.com/v", "es", 0)
	require.True(t, ok)
	assert.Equal(t, []byte("audio"), got)

	purged, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestPurgeExpiredDelegates(t *testing.T) {
	repo := &fakeRepo{}
	require.NoError(t, repo.Upsert(context.Background(), &models.CachedAudio{
		SourceHash: SourceHash("http://example.com/v"),
		Language:   "es",
		UnitIndex:  0,
		Payload:    []byte("stale"),
		ExpiresAt:  time.Now().Add(-time.Minute),
	}))

	svc := NewService(newMemory(t), repo, time.Hour)

	purged, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
