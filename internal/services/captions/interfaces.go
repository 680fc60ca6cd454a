package captions

import (
	"context"
	"errors"

	"github.com/killallgit/dubber-api/internal/models"
)

// ErrCaptionsUnavailable is returned when the source has no captions for the
// requested video. Callers fall back to transcription.
var ErrCaptionsUnavailable = errors.New("captions unavailable")

// Source produces timestamped caption fragments for a video
type Source interface {
	FetchCaptions(ctx context.Context, videoID string) ([]models.TranscriptFragment, error)
}

// Transcriber produces fragments from raw audio. Used only when captions are
// unavailable; much slower than a caption fetch.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audio []byte) ([]models.TranscriptFragment, error)
}
