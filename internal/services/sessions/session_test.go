package sessions

import (
	"testing"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSegments(n int) []*models.Segment {
	segs := make([]*models.Segment, n)
	for i := 0; i < n; i++ {
		segs[i] = &models.Segment{
			Index:        i,
			OriginalText: "segment text",
			StartTime:    float64(i) * 10,
			EndTime:      float64(i+1) * 10,
			AudioStatus:  models.AudioStatusEmpty,
		}
	}
	return segs
}

func TestTryAcquireIsExclusive(t *testing.T) {
	s := newSession("s1", "http://example.com/v", "en", "es", testSegments(3))

	require.True(t, s.TryAcquire(1))
	assert.False(t, s.TryAcquire(1), "second acquire of an in-flight unit must fail")
	assert.True(t, s.InFlight(1))

	seg, ok := s.Snapshot(1)
	require.True(t, ok)
	assert.Equal(t, models.AudioStatusGenerating, seg.AudioStatus)

	s.Release(1)
	assert.False(t, s.InFlight(1))
}

func TestTryAcquireRefusesReadyUnit(t *testing.T) {
	s := newSession("s1", "http://example.com/v", "en", "es", testSegments(2))

	s.SetAudio(0, []byte("audio"))
	assert.False(t, s.TryAcquire(0))
}

func TestTryAcquireOutOfRange(t *testing.T) {
	s := newSession("s1", "http://example.com/v", "en", "es", testSegments(2))

	assert.False(t, s.TryAcquire(-1))
	assert.False(t, s.TryAcquire(2))
}

func TestSetTranslatedWritesOnce(t *testing.T) {
	s := newSession("s1", "http://example.com/v", "en", "es", testSegments(1))

	s.SetTranslated(0, "hola")
	s.SetTranslated(0, "bonjour")

	seg, ok := s.Snapshot(0)
	require.True(t, ok)
	assert.Equal(t, "hola", seg.TranslatedText)
}

func TestMarkTranslatingOnlyTouchesUntranslated(t *testing.T) {
	s := newSession("s1", "http://example.com/v", "en", "es", testSegments(2))

	s.SetTranslated(0, "hola")
	s.MarkTranslating()

	seg0, _ := s.Snapshot(0)
	seg1, _ := s.Snapshot(1)
	assert.Equal(t, models.AudioStatusEmpty, seg0.AudioStatus)
	assert.Equal(t, models.AudioStatusTranslating, seg1.AudioStatus)
}

func TestSetFailedThenRetryViaAcquire(t *testing.T) {
	s := newSession("s1", "http://example.com/v", "en", "es", testSegments(1))

	s.SetFailed(0, "provider exploded")
	seg, _ := s.Snapshot(0)
	assert.Equal(t, models.AudioStatusFailed, seg.AudioStatus)
	assert.Equal(t, "provider exploded", seg.Error)

	// A failed unit stays acquirable; acquiring clears the error
	require.True(t, s.TryAcquire(0))
	seg, _ = s.Snapshot(0)
	assert.Equal(t, models.AudioStatusGenerating, seg.AudioStatus)
	assert.Empty(t, seg.Error)
}

func TestProgressCounts(t *testing.T) {
	s := newSession("s1", "http://example.com/v", "en", "es", testSegments(4))

	s.SetTranslated(0, "uno")
	s.SetTranslated(1, "dos")
	s.SetAudio(0, []byte("audio"))
	s.SetFailed(3, "boom")

	p := s.Progress()
	assert.Equal(t, 4, p.SegmentCount)
	assert.Equal(t, 2, p.TranslatedCount)
	assert.Equal(t, 1, p.ReadyCount)
	assert.Equal(t, 1, p.FailedCount)
	assert.Equal(t, 40.0, p.TotalDuration)
}

func TestSessionsAreIsolated(t *testing.T) {
	a := newSession("a", "http://example.com/v1", "en", "es", testSegments(2))
	b := newSession("b", "http://example.com/v2", "en", "es", testSegments(2))

	require.True(t, a.TryAcquire(0))
	a.SetFailed(1, "boom")

	// State in one session never leaks into another
	assert.False(t, b.InFlight(0))
	seg, _ := b.Snapshot(1)
	assert.Equal(t, models.AudioStatusEmpty, seg.AudioStatus)
	assert.Empty(t, seg.Error)
}

func TestLocateUsesSegmentSpans(t *testing.T) {
	s := newSession("s1", "http://example.com/v", "en", "es", testSegments(3))

	assert.Equal(t, 0, s.Locate(0))
	assert.Equal(t, 1, s.Locate(15))
	assert.Equal(t, 2, s.Locate(29.9))
	assert.Equal(t, -1, s.Locate(30))
	assert.Equal(t, -1, s.Locate(-5))
}
