package dubbing

import (
	"context"
	"errors"
)

// JobStatus is the remote dubbing job state reported by the provider
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusDubbed     JobStatus = "dubbed"
	JobStatusFailed     JobStatus = "failed"
)

var (
	// ErrJobTimeout is returned when a job does not settle within the
	// configured attempt ceiling
	ErrJobTimeout = errors.New("dubbing job timed out")

	// ErrJobFailed is returned when the provider reports the job failed
	ErrJobFailed = errors.New("dubbing job failed")
)

// Service is the remote whole-chunk dubbing provider: create a job for a time
// range of the source, poll it, then fetch the finished audio.
type Service interface {
	CreateJob(ctx context.Context, sourceURL, sourceLang, targetLang string, startSec, endSec float64) (string, error)
	PollJob(ctx context.Context, jobID string) (JobStatus, error)
	FetchAudio(ctx context.Context, jobID, targetLang string) ([]byte, error)
}
