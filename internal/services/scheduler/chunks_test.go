package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/dubbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDubber settles jobs instantly and records created job spans
type fakeDubber struct {
	mu       sync.Mutex
	created  int
	spans    [][2]float64
	failJobs bool
}

func (f *fakeDubber) CreateJob(ctx context.Context, sourceURL, sourceLang, targetLang string, startSec, endSec float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	f.spans = append(f.spans, [2]float64{startSec, endSec})
	return fmt.Sprintf("job-%d", f.created), nil
}

func (f *fakeDubber) PollJob(ctx context.Context, jobID string) (dubbing.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failJobs {
		return dubbing.JobStatusFailed, nil
	}
	return dubbing.JobStatusDubbed, nil
}

func (f *fakeDubber) FetchAudio(ctx context.Context, jobID, targetLang string) ([]byte, error) {
	return []byte("dub:" + jobID), nil
}

func (f *fakeDubber) jobCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func newChunkScheduler(t *testing.T, provider dubbing.Service) *ChunkScheduler {
	t.Helper()
	return NewChunkScheduler(provider, newTestCache(t), ChunkOptions{
		ChunkDuration: 30 * time.Second,
		Lookahead:     1,
		PollInterval:  time.Millisecond,
		MaxAttempts:   3,
		DubTTL:        time.Hour,
	})
}

func TestRequestChunksNearMapsTimeToWindow(t *testing.T) {
	provider := &fakeDubber{}
	cs := newChunkScheduler(t, provider)

	current, lookahead, err := cs.RequestChunksNear(context.Background(),
		"sess-1", "http://example.com/v", "en", "es", 65)
	require.NoError(t, err)
	cs.Wait()

	assert.Equal(t, 2, current.Index)
	assert.Equal(t, 60.0, current.StartTime)
	assert.Equal(t, 90.0, current.EndTime)
	require.Len(t, lookahead, 1)
	assert.Equal(t, 3, lookahead[0].Index)

	// Provider jobs carry the chunk spans
	assert.Contains(t, provider.spans, [2]float64{60, 90})
	assert.Contains(t, provider.spans, [2]float64{90, 120})
}

func TestRequestChunksNearNegativeTime(t *testing.T) {
	cs := newChunkScheduler(t, &fakeDubber{})

	_, _, err := cs.RequestChunksNear(context.Background(),
		"sess-1", "http://example.com/v", "en", "es", -1)
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestChunkProductionIsIdempotent(t *testing.T) {
	provider := &fakeDubber{}
	cs := newChunkScheduler(t, provider)

	for i := 0; i < 5; i++ {
		_, _, err := cs.RequestChunksNear(context.Background(),
			"sess-1", "http://example.com/v", "en", "es", 0)
		require.NoError(t, err)
	}
	cs.Wait()

	// Chunk 0 and the look-ahead chunk 1, one job each
	assert.Equal(t, 2, provider.jobCount())

	audio, ready := cs.ChunkAudio("sess-1", 0)
	require.True(t, ready)
	assert.True(t, bytes.HasPrefix(audio, []byte("dub:job-")))
}

func TestChunkAudioNotReady(t *testing.T) {
	cs := newChunkScheduler(t, &fakeDubber{})

	_, ready := cs.ChunkAudio("unknown", 0)
	assert.False(t, ready)
}

func TestFailedChunkNeedsManualRetry(t *testing.T) {
	provider := &fakeDubber{failJobs: true}
	cs := newChunkScheduler(t, provider)

	_, _, err := cs.RequestChunksNear(context.Background(),
		"sess-1", "http://example.com/v", "en", "es", 0)
	require.NoError(t, err)
	cs.Wait()

	current, _, err := cs.RequestChunksNear(context.Background(),
		"sess-1", "http://example.com/v", "en", "es", 0)
	require.NoError(t, err)
	assert.Equal(t, models.ChunkStatusFailed, current.Status)
	assert.NotEmpty(t, current.Error)

	jobsBefore := provider.jobCount()

	provider.mu.Lock()
	provider.failJobs = false
	provider.mu.Unlock()

	_, err = cs.RetryChunk(context.Background(), "sess-1", 0)
	require.NoError(t, err)
	cs.Wait()

	assert.Greater(t, provider.jobCount(), jobsBefore)
	_, ready := cs.ChunkAudio("sess-1", 0)
	assert.True(t, ready)
}

func TestForgetDropsSessionChunks(t *testing.T) {
	cs := newChunkScheduler(t, &fakeDubber{})

	_, _, err := cs.RequestChunksNear(context.Background(),
		"sess-1", "http://example.com/v", "en", "es", 0)
	require.NoError(t, err)
	cs.Wait()

	cs.Forget("sess-1")
	_, ready := cs.ChunkAudio("sess-1", 0)
	assert.False(t, ready)

	_, err = cs.RetryChunk(context.Background(), "sess-1", 0)
	assert.ErrorIs(t, err, ErrUnitNotFound)
}
