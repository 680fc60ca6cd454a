package playback

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"
)

var (
	// ErrAlreadyStarted is returned when Start is called on a non-idle synchronizer
	ErrAlreadyStarted = errors.New("synchronizer already started")
)

// Options holds the synchronizer tuning knobs
type Options struct {
	// TickInterval is the fixed reconciliation cadence
	TickInterval time.Duration
	// DriftThreshold is the allowed divergence in seconds before a hard seek
	DriftThreshold float64
	// PreloadCount is how many upcoming ready units to buffer ahead
	PreloadCount int
	// DuckVolume is the transport volume while dubbing is active
	DuckVolume float64
}

func (o *Options) defaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = 500 * time.Millisecond
	}
	if o.DriftThreshold <= 0 {
		o.DriftThreshold = 0.4
	}
	if o.PreloadCount <= 0 {
		o.PreloadCount = 2
	}
	if o.DuckVolume <= 0 {
		o.DuckVolume = 0.1
	}
}

// Synchronizer keeps locally rendered dubbed audio phase-locked to an
// independently controlled transport. All playback decisions run on a single
// loop goroutine; transport events are serialized into it through a channel so
// edge handling and periodic reconciliation never race.
type Synchronizer struct {
	transport Transport
	audio     AudioPlayer
	provider  Provider
	opts      Options

	mu    sync.Mutex
	state State

	events chan Event
	stopCh chan struct{}
	done   chan struct{}

	// loop-goroutine state, never touched outside the loop
	loaded     int
	played     map[int]bool
	preloaded  map[int][]byte
	origVolume float64
}

// NewSynchronizer builds an idle synchronizer over the given collaborators
func NewSynchronizer(transport Transport, audio AudioPlayer, provider Provider, opts Options) *Synchronizer {
	opts.defaults()
	return &Synchronizer{
		transport: transport,
		audio:     audio,
		provider:  provider,
		opts:      opts,
		state:     StateIdle,
		events:    make(chan Event, 16),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
		loaded:    -1,
		played:    make(map[int]bool),
		preloaded: make(map[int][]byte),
	}
}

// State returns the current lifecycle state
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start moves the synchronizer to ACTIVE, ducks the transport volume and
// launches the reconciliation loop
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateActive
	s.mu.Unlock()

	s.origVolume = s.transport.Volume()
	s.transport.SetVolume(s.opts.DuckVolume)

	go s.loop(ctx)
	return nil
}

// Stop ends the loop, releases the audio player and restores the transport's
// original volume. Safe to call more than once.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	s.state = StateStopped
	s.mu.Unlock()

	close(s.stopCh)
	<-s.done

	s.audio.Pause()
	s.audio.Unload()
	s.transport.SetVolume(s.origVolume)
}

// HandleEvent hands one transport event to the loop. Events arriving while
// the synchronizer is not active are dropped.
func (s *Synchronizer) HandleEvent(ev Event) {
	if s.State() != StateActive {
		return
	}
	select {
	case s.events <- ev:
	case <-s.stopCh:
	}
}

// NotifyEnded is called by the audio player when the loaded unit reaches its
// natural end
func (s *Synchronizer) NotifyEnded() {
	s.HandleEvent(Event{Type: eventEnded})
}

func (s *Synchronizer) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.handleEvent(ctx, ev)
		case <-ticker.C:
			s.reconcile(ctx, s.transport.Position())
		}
	}
}

func (s *Synchronizer) handleEvent(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventPlay:
		if s.loaded >= 0 {
			if err := s.audio.Play(); err != nil {
				log.Printf("[ERROR] playback: resume failed: %v", err)
			}
		}
	case EventPause:
		s.audio.Pause()
	case EventSeek:
		// A seek invalidates boundary history; units crossed before the
		// jump are playable again
		s.played = make(map[int]bool)
		s.reconcile(ctx, ev.Position)
	case EventRateChange:
		s.audio.SetRate(ev.Rate)
	case EventVolumeChange:
		// the transport stays ducked; user volume intent is applied on Stop
		s.origVolume = ev.Volume
	case eventEnded:
		s.advance(ctx)
	}
}

// reconcile is the per-tick decision: which unit covers the transport time,
// does it need loading, and has the loaded unit drifted.
func (s *Synchronizer) reconcile(ctx context.Context, pos float64) {
	unit, ok := s.provider.UnitAt(ctx, pos)
	if !ok {
		// gap in the timeline, let any loaded unit run out on its own
		s.preload(ctx)
		return
	}

	if unit.Index != s.loaded {
		if s.played[unit.Index] {
			return
		}
		if unit.Ready {
			s.switchTo(unit, pos)
		}
		// not ready yet, the provider call already triggered production
		s.preload(ctx)
		return
	}

	s.correctDrift(unit, pos)
	s.preload(ctx)
}

// switchTo loads a new unit and aligns it to the transport position. Only a
// natural forward crossing marks the outgoing unit as played; jumps leave the
// played set to the seek handling.
func (s *Synchronizer) switchTo(unit Unit, pos float64) {
	if s.loaded >= 0 && unit.Index == s.loaded+1 {
		s.played[s.loaded] = true
	}

	audio := unit.Audio
	if buf, ok := s.preloaded[unit.Index]; ok {
		audio = buf
	}
	if audio == nil {
		return
	}

	if err := s.audio.Load(unit.Index, audio); err != nil {
		log.Printf("[ERROR] playback: load unit %d failed: %v", unit.Index, err)
		return
	}
	delete(s.preloaded, unit.Index)

	offset := clamp(pos-unit.Start, 0, unit.Duration())
	s.audio.Seek(offset)
	s.audio.SetRate(s.transport.Rate())

	if !s.transport.Paused() {
		if err := s.audio.Play(); err != nil {
			log.Printf("[ERROR] playback: play unit %d failed: %v", unit.Index, err)
		}
	}
	s.loaded = unit.Index
	log.Printf("[DEBUG] playback: switched to unit %d at offset %.2fs", unit.Index, offset)
}

// correctDrift hard-seeks the audio when it diverges past the threshold.
// Only applies while both sides are actually playing; pauses and buffering
// stalls are not drift.
func (s *Synchronizer) correctDrift(unit Unit, pos float64) {
	if s.transport.Paused() || !s.audio.Playing() {
		return
	}
	expected := clamp(pos-unit.Start, 0, unit.Duration())
	if math.Abs(s.audio.Position()-expected) > s.opts.DriftThreshold {
		log.Printf("[DEBUG] playback: drift %.2fs on unit %d, reseeking", s.audio.Position()-expected, unit.Index)
		s.audio.Seek(expected)
	}
}

// advance plays the next unit from the preload buffer when the loaded one
// ends naturally, avoiding an audible gap until the next tick
func (s *Synchronizer) advance(ctx context.Context) {
	if s.loaded < 0 {
		return
	}
	s.played[s.loaded] = true
	next := s.loaded + 1

	if s.played[next] {
		return
	}
	buf, ok := s.preloaded[next]
	if !ok {
		unit, found := s.provider.UnitByIndex(ctx, next)
		if !found || !unit.Ready || unit.Audio == nil {
			return
		}
		buf = unit.Audio
	}
	unit, found := s.provider.UnitByIndex(ctx, next)
	if !found {
		return
	}
	unit.Audio = buf
	s.switchTo(unit, unit.Start)
}

// preload buffers upcoming ready units so boundary crossings are seamless
func (s *Synchronizer) preload(ctx context.Context) {
	if s.loaded < 0 {
		return
	}
	for i := 1; i <= s.opts.PreloadCount; i++ {
		idx := s.loaded + i
		if s.played[idx] {
			continue
		}
		if _, have := s.preloaded[idx]; have {
			continue
		}
		unit, ok := s.provider.UnitByIndex(ctx, idx)
		if !ok {
			return
		}
		if unit.Ready && unit.Audio != nil {
			s.preloaded[idx] = unit.Audio
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
