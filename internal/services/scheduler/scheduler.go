package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/audiocache"
	"github.com/killallgit/dubber-api/internal/services/sessions"
	"github.com/killallgit/dubber-api/internal/services/synthesis"
)

// Options tunes scheduling behavior
type Options struct {
	// Units produced ahead of the reported playback position
	Lookahead int
	// Units opportunistically started when a unit finishes producing
	PrefetchCascade int
	// Retention window written to the result cache per finished segment
	SegmentTTL time.Duration
	// Voice passed to the synthesizer
	Voice string
	// Ceiling on one synthesis call from a background producer
	ProduceTimeout time.Duration
}

// Scheduler guarantees that the unit covering the consumer's playback
// position, plus a bounded look-ahead window, is finished, in progress, or
// started now. It never blocks the caller and never starts the same unit
// twice concurrently.
type Scheduler struct {
	synth synthesis.Synthesizer
	cache audiocache.Service
	opts  Options
	wg    sync.WaitGroup
}

// New creates a scheduler over the given synthesizer and result cache
func New(synth synthesis.Synthesizer, cache audiocache.Service, opts Options) *Scheduler {
	if opts.Lookahead <= 0 {
		opts.Lookahead = 2
	}
	if opts.PrefetchCascade < 0 {
		opts.PrefetchCascade = 0
	}
	if opts.SegmentTTL <= 0 {
		opts.SegmentTTL = 24 * time.Hour
	}
	if opts.ProduceTimeout <= 0 {
		opts.ProduceTimeout = 2 * time.Minute
	}
	return &Scheduler{
		synth: synth,
		cache: cache,
		opts:  opts,
	}
}

// RequestUnitsNear resolves the unit covering currentTimeSec plus the
// look-ahead window, triggering production where needed, and returns
// immediately with best-known status for each. Current is nil when the time
// falls in a silence gap between segments; look-ahead still covers the units
// after the gap.
func (s *Scheduler) RequestUnitsNear(ctx context.Context, session *sessions.Session, currentTimeSec float64) (*UnitStatus, []UnitStatus) {
	targetIndex := session.Locate(currentTimeSec)

	var current *UnitStatus
	firstAhead := targetIndex + 1
	if targetIndex >= 0 {
		st := s.ensure(ctx, session, targetIndex)
		current = &st
	} else {
		firstAhead = s.nextIndexAfter(session, currentTimeSec)
	}

	lookahead := make([]UnitStatus, 0, s.opts.Lookahead)
	if firstAhead >= 0 {
		for i := firstAhead; i < firstAhead+s.opts.Lookahead; i++ {
			if _, ok := session.Snapshot(i); !ok {
				break
			}
			lookahead = append(lookahead, s.ensure(ctx, session, i))
		}
	}

	return current, lookahead
}

// RequestUnit resolves a single explicitly addressed unit, triggering
// production when eligible
func (s *Scheduler) RequestUnit(ctx context.Context, session *sessions.Session, index int) (UnitStatus, error) {
	if _, ok := session.Snapshot(index); !ok {
		return UnitStatus{}, ErrUnitNotFound
	}
	return s.ensure(ctx, session, index), nil
}

// RetryUnit resets a failed unit and starts production again. Failed units
// are never retried automatically; this is the manual path.
func (s *Scheduler) RetryUnit(ctx context.Context, session *sessions.Session, index int) (UnitStatus, error) {
	seg, ok := session.Snapshot(index)
	if !ok {
		return UnitStatus{}, ErrUnitNotFound
	}
	if seg.AudioStatus != models.AudioStatusFailed {
		return s.ensure(ctx, session, index), nil
	}
	if session.TryAcquire(index) {
		s.launch(session, index, true)
	}
	seg, _ = session.Snapshot(index)
	return statusOf(seg), nil
}

// Wait blocks until all background production has finished. Test hook and
// shutdown aid; the request path never calls it.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// ensure is the per-unit scheduling decision. It consults the cache, then the
// in-flight set, then translation state, and only then triggers production.
// It returns the unit's current status without ever waiting.
func (s *Scheduler) ensure(ctx context.Context, session *sessions.Session, index int) UnitStatus {
	seg, ok := session.Snapshot(index)
	if !ok {
		return UnitStatus{Index: index, Status: models.AudioStatusEmpty}
	}

	if seg.AudioStatus == models.AudioStatusReady {
		return statusOf(seg)
	}

	// Cache first: another session for the same source+language may have
	// already produced this unit
	if payload, hit := s.cache.Get(ctx, session.SourceURL, session.TargetLanguage, index); hit {
		session.SetAudio(index, payload)
		seg, _ = session.Snapshot(index)
		return statusOf(seg)
	}

	if session.InFlight(index) {
		seg.AudioStatus = models.AudioStatusGenerating
		return statusOf(seg)
	}

	// Terminal failure is reported, not silently retried
	if seg.AudioStatus == models.AudioStatusFailed {
		return statusOf(seg)
	}

	// Synthesis needs text; the background translation run is not there yet
	if !seg.Translated() {
		seg.AudioStatus = models.AudioStatusTranslating
		return statusOf(seg)
	}

	if session.TryAcquire(index) {
		s.launch(session, index, true)
	}
	seg, _ = session.Snapshot(index)
	return statusOf(seg)
}

// launch starts background production for an acquired unit. Only
// request-triggered productions cascade; cascaded ones do not start more, so
// one poll never produces past its bounded window.
func (s *Scheduler) launch(session *sessions.Session, index int, cascade bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.produce(session, index, cascade)
	}()
}

// produce runs off the request path. It is the only writer that transitions
// an acquired unit to ready or failed, and it always releases the in-flight
// slot, so a terminal state is reachable no matter how the provider call
// settles.
func (s *Scheduler) produce(session *sessions.Session, index int, cascade bool) {
	defer session.Release(index)

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ProduceTimeout)
	defer cancel()

	seg, ok := session.Snapshot(index)
	if !ok {
		return
	}

	audio, err := s.synth.Synthesize(ctx, seg.SpeechText(), s.opts.Voice)
	if err != nil {
		log.Printf("[ERROR] Production failed for session %s unit %d: %v", session.ID, index, err)
		session.SetFailed(index, err.Error())
		return
	}

	session.SetAudio(index, audio)
	if err := s.cache.Put(ctx, session.SourceURL, session.TargetLanguage, index, audio, s.opts.SegmentTTL); err != nil {
		log.Printf("[ERROR] Cache write failed for session %s unit %d: %v", session.ID, index, err)
	}

	if !cascade {
		return
	}

	// Prefetch cascade: pull the next not-yet-started units behind this one
	for i := index + 1; i <= index+s.opts.PrefetchCascade; i++ {
		next, ok := session.Snapshot(i)
		if !ok {
			break
		}
		if next.AudioStatus != models.AudioStatusEmpty || !next.Translated() {
			continue
		}
		if session.TryAcquire(i) {
			s.launch(session, i, false)
		}
	}
}

// nextIndexAfter finds the first segment starting at or after the given time
func (s *Scheduler) nextIndexAfter(session *sessions.Session, timeSec float64) int {
	for i := 0; ; i++ {
		seg, ok := session.Snapshot(i)
		if !ok {
			return -1
		}
		if seg.StartTime >= timeSec {
			return i
		}
	}
}
