package segments

import (
	"testing"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func seg(index int, start, end float64) *models.Segment {
	return &models.Segment{Index: index, StartTime: start, EndTime: end}
}

func TestLocate(t *testing.T) {
	segs := []*models.Segment{
		seg(0, 0, 10),
		seg(1, 10, 25),
		seg(2, 30, 45), // gap between 25 and 30
	}

	tests := []struct {
		name    string
		timeSec float64
		want    int
	}{
		{"start of first segment", 0, 0},
		{"inside first segment", 5, 0},
		{"boundary is exclusive on the left segment", 10, 1},
		{"inside second segment", 24.9, 1},
		{"gap between segments", 27, -1},
		{"start after gap", 30, 2},
		{"past the end", 45, -1},
		{"negative time", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Locate(segs, tt.timeSec))
		})
	}

	assert.Equal(t, -1, Locate(nil, 5))
}

func TestChunkIndex(t *testing.T) {
	tests := []struct {
		name     string
		timeSec  float64
		duration float64
		want     int
	}{
		{"zero maps to first chunk", 0, 30, 0},
		{"just under boundary", 29.9, 30, 0},
		{"boundary starts next chunk", 30, 30, 1},
		{"deep into timeline", 95, 30, 3},
		{"negative time", -0.1, 30, -1},
		{"invalid duration", 10, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkIndex(tt.timeSec, tt.duration))
		})
	}
}

func TestChunkStart(t *testing.T) {
	assert.Equal(t, 0.0, ChunkStart(0, 30))
	assert.Equal(t, 90.0, ChunkStart(3, 30))
}
