package sessions

import (
	"sync"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
)

// Session owns the ordered segment list for one dubbing run. All segment
// state transitions go through session methods so the in-flight check-then-set
// and status writes stay atomic under the session mutex.
type Session struct {
	ID             string
	SourceURL      string
	SourceLanguage string
	TargetLanguage string

	mu         sync.RWMutex
	segments   []*models.Segment
	inFlight   map[int]struct{}
	createdAt  time.Time
	lastAccess time.Time
}

// Progress is a point-in-time snapshot of session-wide production state
type Progress struct {
	SegmentCount    int     `json:"segment_count"`
	TranslatedCount int     `json:"translated_count"`
	ReadyCount      int     `json:"ready_count"`
	FailedCount     int     `json:"failed_count"`
	TotalDuration   float64 `json:"total_duration"`
}

func newSession(id, sourceURL, sourceLang, targetLang string, segs []*models.Segment) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		SourceURL:      sourceURL,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		segments:       segs,
		inFlight:       make(map[int]struct{}),
		createdAt:      now,
		lastAccess:     now,
	}
}

// Touch records consumer activity for idle reaping
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

// IdleSince returns how long ago the session was last touched
func (s *Session) IdleSince() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.lastAccess)
}

// SegmentCount returns the number of segments in the session
func (s *Session) SegmentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.segments)
}

// TotalDuration returns the end time of the last segment in seconds
func (s *Session) TotalDuration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.segments) == 0 {
		return 0
	}
	return s.segments[len(s.segments)-1].EndTime
}

// Snapshot returns a copy of the segment at index, or false when the index is
// outside the known range. The copy shares the audio byte slice, which is
// written once and never mutated afterwards.
func (s *Session) Snapshot(index int) (models.Segment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.segments) {
		return models.Segment{}, false
	}
	return *s.segments[index], true
}

// SnapshotAll returns copies of every segment in order
func (s *Session) SnapshotAll() []models.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Segment, len(s.segments))
	for i, seg := range s.segments {
		out[i] = *seg
	}
	return out
}

// Locate returns the index of the segment containing timeSec, or -1
func (s *Session) Locate(timeSec float64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, seg := range s.segments {
		if seg.Contains(timeSec) {
			return seg.Index
		}
		if seg.StartTime > timeSec {
			break
		}
	}
	return -1
}

// TryAcquire atomically enters the unit into the in-flight set and flips its
// status to generating. Returns false if the unit is already in flight,
// already terminal-ready, or not yet eligible. This is the one check-then-set
// the scheduler depends on to never double-trigger production.
func (s *Session) TryAcquire(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.segments) {
		return false
	}
	if _, busy := s.inFlight[index]; busy {
		return false
	}
	seg := s.segments[index]
	if seg.AudioStatus == models.AudioStatusReady {
		return false
	}
	s.inFlight[index] = struct{}{}
	seg.AudioStatus = models.AudioStatusGenerating
	seg.Error = ""
	return true
}

// Release removes the unit from the in-flight set
func (s *Session) Release(index int) {
	s.mu.Lock()
	delete(s.inFlight, index)
	s.mu.Unlock()
}

// InFlight reports whether the unit is currently being produced
func (s *Session) InFlight(index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, busy := s.inFlight[index]
	return busy
}

// SetTranslated stores the translated text for a segment. The text is written
// exactly once; a second write is ignored.
func (s *Session) SetTranslated(index int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.segments) {
		return
	}
	seg := s.segments[index]
	if seg.TranslatedText != "" {
		return
	}
	seg.TranslatedText = text
	if seg.AudioStatus == models.AudioStatusTranslating {
		seg.AudioStatus = models.AudioStatusEmpty
	}
}

// MarkTranslating flags segments awaiting the background translation run
func (s *Session) MarkTranslating() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seg := range s.segments {
		if seg.AudioStatus == models.AudioStatusEmpty && seg.TranslatedText == "" {
			seg.AudioStatus = models.AudioStatusTranslating
		}
	}
}

// SetAudio stores produced audio bytes and marks the segment ready
func (s *Session) SetAudio(index int, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.segments) {
		return
	}
	seg := s.segments[index]
	seg.AudioData = data
	seg.AudioStatus = models.AudioStatusReady
	seg.Error = ""
}

// SetFailed records a terminal production failure for the segment
func (s *Session) SetFailed(index int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.segments) {
		return
	}
	seg := s.segments[index]
	seg.AudioStatus = models.AudioStatusFailed
	seg.Error = message
}

// Progress returns aggregate production counts
func (s *Session) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := Progress{SegmentCount: len(s.segments)}
	for _, seg := range s.segments {
		if seg.TranslatedText != "" {
			p.TranslatedCount++
		}
		switch seg.AudioStatus {
		case models.AudioStatusReady:
			p.ReadyCount++
		case models.AudioStatusFailed:
			p.FailedCount++
		}
	}
	if len(s.segments) > 0 {
		p.TotalDuration = s.segments[len(s.segments)-1].EndTime
	}
	return p
}
