package models

// ChunkStatus represents the remote dubbing state of a fixed-window chunk
type ChunkStatus string

const (
	ChunkStatusPending    ChunkStatus = "pending"
	ChunkStatusProcessing ChunkStatus = "processing"
	ChunkStatusCompleted  ChunkStatus = "completed"
	ChunkStatusFailed     ChunkStatus = "failed"
)

// TimeChunk is a fixed-duration unit of the source timeline. Unlike Segment,
// chunk boundaries are computed arithmetically from the configured chunk
// duration and never depend on transcript content.
type TimeChunk struct {
	Index       int         `json:"index"`
	StartTime   float64     `json:"start_time"` // Index * chunk duration
	EndTime     float64     `json:"end_time"`
	Status      ChunkStatus `json:"status"`
	RemoteJobID string      `json:"remote_job_id,omitempty"`
	AudioData   []byte      `json:"-"`
	Error       string      `json:"error,omitempty"`
}

// NewTimeChunk builds the chunk covering the given index for a chunk duration
func NewTimeChunk(index int, chunkDurationSec float64) *TimeChunk {
	start := float64(index) * chunkDurationSec
	return &TimeChunk{
		Index:     index,
		StartTime: start,
		EndTime:   start + chunkDurationSec,
		Status:    ChunkStatusPending,
	}
}

// IsTerminal reports whether the chunk finished producing, successfully or not
func (c *TimeChunk) IsTerminal() bool {
	return c.Status == ChunkStatusCompleted || c.Status == ChunkStatusFailed
}
