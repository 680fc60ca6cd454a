package scheduler

import (
	"errors"

	"github.com/killallgit/dubber-api/internal/models"
)

// ErrUnitNotFound is returned for an index outside a session's known range.
// Distinct from sessions.ErrSessionNotFound: the session exists, the consumer
// and server disagree on unit boundaries.
var ErrUnitNotFound = errors.New("unit not found")

// UnitStatus is the non-blocking snapshot returned for each requested unit
type UnitStatus struct {
	Index     int                `json:"index"`
	StartTime float64            `json:"start_time"`
	EndTime   float64            `json:"end_time"`
	Status    models.AudioStatus `json:"status"`
	HasAudio  bool               `json:"has_audio"`
	Error     string             `json:"error,omitempty"`
}

func statusOf(seg models.Segment) UnitStatus {
	return UnitStatus{
		Index:     seg.Index,
		StartTime: seg.StartTime,
		EndTime:   seg.EndTime,
		Status:    seg.AudioStatus,
		HasAudio:  seg.AudioStatus == models.AudioStatusReady,
		Error:     seg.Error,
	}
}
