package playback

import "context"

// State is the synchronizer lifecycle. STOPPED is terminal; resuming dubbing
// means building a fresh synchronizer for a new session.
type State string

const (
	StateIdle    State = "idle"
	StateActive  State = "active"
	StateStopped State = "stopped"
)

// EventType identifies an edge-triggered transport event
type EventType string

const (
	EventPlay         EventType = "play"
	EventPause        EventType = "pause"
	EventSeek         EventType = "seek"
	EventRateChange   EventType = "ratechange"
	EventVolumeChange EventType = "volumechange"

	// eventEnded is raised internally when a loaded unit plays to its end
	eventEnded EventType = "ended"
)

// Event carries one transport state change into the synchronizer loop
type Event struct {
	Type     EventType
	Position float64
	Rate     float64
	Volume   float64
}

// Transport is the independently controlled video transport the dubbed audio
// must stay phase-locked to. Implementations must be safe for concurrent
// reads.
type Transport interface {
	Position() float64
	Rate() float64
	Paused() bool
	Volume() float64
	SetVolume(v float64)
}

// AudioPlayer renders one unit's dubbed audio locally. Only the synchronizer
// loop goroutine calls it, so implementations need no locking of their own.
type AudioPlayer interface {
	// Load discards any previous unit and buffers the given audio
	Load(unitIndex int, audio []byte) error
	Play() error
	Pause()
	Seek(offsetSec float64)
	SetRate(rate float64)
	Position() float64
	Playing() bool
	// Unload releases the buffered audio resource
	Unload()
}

// Unit is the synchronizer's view of one schedulable piece of timeline
type Unit struct {
	Index int
	Start float64
	End   float64
	Ready bool
	Audio []byte
}

// Duration returns the unit length in seconds
func (u Unit) Duration() float64 {
	return u.End - u.Start
}

// Provider answers unit readiness queries. Requesting a unit triggers its
// production upstream; the call never blocks on production itself.
type Provider interface {
	// UnitAt locates and requests the unit covering the given time.
	// ok is false when the time falls in a gap or beyond the timeline.
	UnitAt(ctx context.Context, timeSec float64) (Unit, bool)

	// UnitByIndex requests one explicitly addressed unit
	UnitByIndex(ctx context.Context, index int) (Unit, bool)
}
