package synthesis

import "context"

// Synthesizer turns text into spoken audio bytes
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
