package segments

import (
	"math"
	"sort"

	"github.com/killallgit/dubber-api/internal/models"
)

// Locate returns the index of the segment whose [start, end) span contains
// the given time, or -1 when the time falls in a gap or outside the known
// range. Segments are contiguous and strictly increasing in start time, so a
// binary search suffices.
func Locate(segs []*models.Segment, timeSec float64) int {
	if len(segs) == 0 || timeSec < 0 {
		return -1
	}

	// First segment whose end is past the requested time
	i := sort.Search(len(segs), func(i int) bool {
		return segs[i].EndTime > timeSec
	})
	if i == len(segs) {
		return -1
	}
	if segs[i].Contains(timeSec) {
		return i
	}
	return -1
}

// ChunkIndex maps a playback time onto a fixed-window chunk index
func ChunkIndex(timeSec, chunkDurationSec float64) int {
	if timeSec < 0 || chunkDurationSec <= 0 {
		return -1
	}
	return int(math.Floor(timeSec / chunkDurationSec))
}

// ChunkStart returns the timeline start of the given chunk index
func ChunkStart(index int, chunkDurationSec float64) float64 {
	return float64(index) * chunkDurationSec
}
