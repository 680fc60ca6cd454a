package segments

import (
	"strings"

	"github.com/killallgit/dubber-api/internal/models"
)

// Merger converts raw timestamped caption fragments into coarser,
// sentence-aligned segments sized for one translation and one synthesis call
// each.
type Merger struct {
	// Minimum accumulated duration before a buffer may close on time alone
	floorSec float64
}

// NewMerger creates a merger with the given duration floor in seconds
func NewMerger(floorSec float64) *Merger {
	if floorSec <= 0 {
		floorSec = 8.0
	}
	return &Merger{floorSec: floorSec}
}

// Merge runs a greedy single pass over the fragment list. A buffer closes
// into a segment when the accumulated duration reaches the floor, when the
// last appended fragment ends in sentence-terminal punctuation, or when input
// is exhausted. Every fragment lands in exactly one segment; gaps between
// fragments never produce empty segments. Empty input yields an empty list.
func (m *Merger) Merge(fragments []models.TranscriptFragment) []*models.Segment {
	segments := make([]*models.Segment, 0, len(fragments))
	if len(fragments) == 0 {
		return segments
	}

	var (
		buf      []string
		bufStart float64
		bufEnd   float64
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		segments = append(segments, &models.Segment{
			Index:        len(segments),
			OriginalText: strings.Join(buf, " "),
			StartTime:    bufStart,
			EndTime:      bufEnd,
			AudioStatus:  models.AudioStatusEmpty,
		})
		buf = buf[:0]
	}

	for i, frag := range fragments {
		if len(buf) == 0 {
			bufStart = frag.StartSeconds()
		}
		buf = append(buf, strings.TrimSpace(frag.Text))
		bufEnd = frag.EndSeconds()

		accumulated := bufEnd - bufStart
		last := i == len(fragments)-1

		if accumulated >= m.floorSec || endsSentence(frag.Text) || last {
			flush()
		}
	}

	return segments
}

// endsSentence reports whether the fragment text closes a sentence
func endsSentence(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
