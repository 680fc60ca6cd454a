package dubbing

import (
	"context"
	"fmt"
	"log"
	"time"
)

// WaitForJob polls a remote dub job at a fixed interval until it settles or
// the attempt ceiling is reached. The interval X ceiling product is the hard
// per-unit timeout; exceeding it returns ErrJobTimeout so the unit can be
// marked failed and released for a future manual retry.
func WaitForJob(ctx context.Context, svc Service, jobID string, interval time.Duration, maxAttempts int) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		status, err := svc.PollJob(ctx, jobID)
		if err != nil {
			// Transient poll errors burn an attempt but keep going
			log.Printf("[ERROR] Poll attempt %d/%d for job %s: %v", attempt, maxAttempts, jobID, err)
			continue
		}

		switch status {
		case JobStatusDubbed:
			return nil
		case JobStatusFailed:
			return ErrJobFailed
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrJobTimeout, maxAttempts)
}
