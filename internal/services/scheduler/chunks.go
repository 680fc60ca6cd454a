package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/audiocache"
	"github.com/killallgit/dubber-api/internal/services/dubbing"
	"github.com/killallgit/dubber-api/internal/services/segments"
)

// ChunkOptions tunes the fixed-window dubbing variant
type ChunkOptions struct {
	ChunkDuration time.Duration
	Lookahead     int
	PollInterval  time.Duration
	MaxAttempts   int
	// Retention window for whole-chunk dubs, longer than segment audio
	DubTTL time.Duration
}

// ChunkStatus is the snapshot returned for one fixed-window chunk
type ChunkStatus struct {
	Index     int                `json:"index"`
	StartTime float64            `json:"start_time"`
	EndTime   float64            `json:"end_time"`
	Status    models.ChunkStatus `json:"status"`
	HasAudio  bool               `json:"has_audio"`
	Error     string             `json:"error,omitempty"`
}

// chunkRun is the per-session chunk table. Chunk state is never shared
// across sessions; only the result cache is.
type chunkRun struct {
	sourceURL  string
	sourceLang string
	targetLang string
	chunks     map[int]*models.TimeChunk
	inFlight   map[int]struct{}
}

// ChunkScheduler drives the time-boxed variant of the pipeline: fixed-size
// windows of the timeline are dubbed as whole units by the remote provider,
// with the same look-ahead, dedup, and cache discipline as the segment path.
type ChunkScheduler struct {
	provider dubbing.Service
	cache    audiocache.Service
	opts     ChunkOptions

	mu   sync.Mutex
	runs map[string]*chunkRun
	wg   sync.WaitGroup
}

// NewChunkScheduler creates a chunk scheduler over the dubbing provider
func NewChunkScheduler(provider dubbing.Service, cache audiocache.Service, opts ChunkOptions) *ChunkScheduler {
	if opts.ChunkDuration <= 0 {
		opts.ChunkDuration = 30 * time.Second
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 60
	}
	if opts.DubTTL <= 0 {
		opts.DubTTL = 7 * 24 * time.Hour
	}
	return &ChunkScheduler{
		provider: provider,
		cache:    cache,
		opts:     opts,
		runs:     make(map[string]*chunkRun),
	}
}

// RequestChunksNear resolves the chunk covering currentTimeSec plus the
// look-ahead window, starting remote dubs where needed. Always returns
// promptly with best-known status.
func (cs *ChunkScheduler) RequestChunksNear(ctx context.Context, sessionID, sourceURL, sourceLang, targetLang string, currentTimeSec float64) (ChunkStatus, []ChunkStatus, error) {
	dur := cs.opts.ChunkDuration.Seconds()
	targetIndex := segments.ChunkIndex(currentTimeSec, dur)
	if targetIndex < 0 {
		return ChunkStatus{}, nil, ErrUnitNotFound
	}

	run := cs.runFor(sessionID, sourceURL, sourceLang, targetLang)

	current := cs.ensureChunk(ctx, run, targetIndex)
	lookahead := make([]ChunkStatus, 0, cs.opts.Lookahead)
	for i := targetIndex + 1; i <= targetIndex+cs.opts.Lookahead; i++ {
		lookahead = append(lookahead, cs.ensureChunk(ctx, run, i))
	}

	return current, lookahead, nil
}

// ChunkAudio returns finished audio for one chunk, or false when not ready
func (cs *ChunkScheduler) ChunkAudio(sessionID string, index int) ([]byte, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	run, ok := cs.runs[sessionID]
	if !ok {
		return nil, false
	}
	chunk, ok := run.chunks[index]
	if !ok || chunk.Status != models.ChunkStatusCompleted {
		return nil, false
	}
	return chunk.AudioData, true
}

// RetryChunk resets a failed chunk and starts production again. The manual
// path; polled requests never retry a failed chunk on their own.
func (cs *ChunkScheduler) RetryChunk(ctx context.Context, sessionID string, index int) (ChunkStatus, error) {
	cs.mu.Lock()
	run, ok := cs.runs[sessionID]
	if !ok {
		cs.mu.Unlock()
		return ChunkStatus{}, ErrUnitNotFound
	}
	if chunk, ok := run.chunks[index]; ok && chunk.Status == models.ChunkStatusFailed {
		chunk.Status = models.ChunkStatusPending
		chunk.Error = ""
	}
	cs.mu.Unlock()

	return cs.ensureChunk(ctx, run, index), nil
}

// Forget drops all chunk state for a session. In-flight provider jobs keep
// running and still populate the cache.
func (cs *ChunkScheduler) Forget(sessionID string) {
	cs.mu.Lock()
	delete(cs.runs, sessionID)
	cs.mu.Unlock()
}

// Wait blocks until all background chunk production has finished
func (cs *ChunkScheduler) Wait() {
	cs.wg.Wait()
}

func (cs *ChunkScheduler) runFor(sessionID, sourceURL, sourceLang, targetLang string) *chunkRun {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	run, ok := cs.runs[sessionID]
	if !ok {
		run = &chunkRun{
			sourceURL:  sourceURL,
			sourceLang: sourceLang,
			targetLang: targetLang,
			chunks:     make(map[int]*models.TimeChunk),
			inFlight:   make(map[int]struct{}),
		}
		cs.runs[sessionID] = run
	}
	return run
}

// ensureChunk applies the scheduling decision to one chunk: cache, in-flight
// set, terminal state, then trigger. The check-then-set on the in-flight set
// happens under the scheduler mutex so concurrent requests cannot start the
// same remote job twice.
func (cs *ChunkScheduler) ensureChunk(ctx context.Context, run *chunkRun, index int) ChunkStatus {
	dur := cs.opts.ChunkDuration.Seconds()

	cs.mu.Lock()
	chunk, ok := run.chunks[index]
	if !ok {
		chunk = models.NewTimeChunk(index, dur)
		run.chunks[index] = chunk
	}

	if chunk.Status == models.ChunkStatusCompleted {
		st := chunkStatusOf(chunk)
		cs.mu.Unlock()
		return st
	}
	if _, busy := run.inFlight[index]; busy {
		st := chunkStatusOf(chunk)
		cs.mu.Unlock()
		return st
	}
	cs.mu.Unlock()

	// Cache probe happens outside the lock; it can block on sqlite
	if payload, hit := cs.cache.Get(ctx, run.sourceURL, run.targetLang, index); hit {
		cs.mu.Lock()
		chunk.AudioData = payload
		chunk.Status = models.ChunkStatusCompleted
		chunk.Error = ""
		st := chunkStatusOf(chunk)
		cs.mu.Unlock()
		return st
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, busy := run.inFlight[index]; busy || chunk.IsTerminal() {
		return chunkStatusOf(chunk)
	}

	run.inFlight[index] = struct{}{}
	chunk.Status = models.ChunkStatusProcessing
	chunk.Error = ""

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		cs.produceChunk(run, index)
	}()

	return chunkStatusOf(chunk)
}

// produceChunk drives one remote dub job to a terminal state
func (cs *ChunkScheduler) produceChunk(run *chunkRun, index int) {
	defer func() {
		cs.mu.Lock()
		delete(run.inFlight, index)
		cs.mu.Unlock()
	}()

	dur := cs.opts.ChunkDuration.Seconds()
	start := segments.ChunkStart(index, dur)

	totalTimeout := cs.opts.PollInterval*time.Duration(cs.opts.MaxAttempts) + 2*time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), totalTimeout)
	defer cancel()

	jobID, err := cs.provider.CreateJob(ctx, run.sourceURL, run.sourceLang, run.targetLang, start, start+dur)
	if err != nil {
		cs.failChunk(run, index, err)
		return
	}

	cs.mu.Lock()
	run.chunks[index].RemoteJobID = jobID
	cs.mu.Unlock()

	if err := dubbing.WaitForJob(ctx, cs.provider, jobID, cs.opts.PollInterval, cs.opts.MaxAttempts); err != nil {
		cs.failChunk(run, index, err)
		return
	}

	audio, err := cs.provider.FetchAudio(ctx, jobID, run.targetLang)
	if err != nil {
		cs.failChunk(run, index, err)
		return
	}

	cs.mu.Lock()
	chunk := run.chunks[index]
	chunk.AudioData = audio
	chunk.Status = models.ChunkStatusCompleted
	chunk.Error = ""
	cs.mu.Unlock()

	if err := cs.cache.Put(ctx, run.sourceURL, run.targetLang, index, audio, cs.opts.DubTTL); err != nil {
		log.Printf("[ERROR] Cache write failed for chunk %d: %v", index, err)
	}
}

func (cs *ChunkScheduler) failChunk(run *chunkRun, index int, err error) {
	if errors.Is(err, dubbing.ErrJobTimeout) {
		log.Printf("[ERROR] Chunk %d timed out: %v", index, err)
	} else {
		log.Printf("[ERROR] Chunk %d failed: %v", index, err)
	}
	cs.mu.Lock()
	chunk := run.chunks[index]
	chunk.Status = models.ChunkStatusFailed
	chunk.Error = err.Error()
	cs.mu.Unlock()
}

func chunkStatusOf(c *models.TimeChunk) ChunkStatus {
	return ChunkStatus{
		Index:     c.Index,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		Status:    c.Status,
		HasAudio:  c.Status == models.ChunkStatusCompleted,
		Error:     c.Error,
	}
}
