package translation

import "context"

// Translator converts joined source text to the target language. Batching is
// the caller's concern; implementations see one opaque text blob per call.
type Translator interface {
	TranslateBatch(ctx context.Context, joinedText, sourceLang, targetLang string) (string, error)
}
