package translation

import (
	"context"
	"log"
	"strings"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/sessions"
	"golang.org/x/sync/errgroup"
)

// batchDelimiter joins segment texts for one provider call. The token is
// unlikely to survive in translated output by accident; when a provider
// mangles it anyway the split-count mismatch path below recovers.
const batchDelimiter = "\n@@__SEG__@@\n"

// splitToken is what the response is split on, whitespace-tolerant
const splitToken = "@@__SEG__@@"

// Pipeline fills in translated text for every segment of a session. It runs
// once per session in the background, independent of playback position.
type Pipeline struct {
	translator     Translator
	batchSize      int
	maxConcurrency int
}

// NewPipeline creates a translation pipeline
func NewPipeline(translator Translator, batchSize, maxConcurrency int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 10
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 3
	}
	return &Pipeline{
		translator:     translator,
		batchSize:      batchSize,
		maxConcurrency: maxConcurrency,
	}
}

// Run translates all segments of the session in fixed-size batches. A failed
// batch falls back to original text for its segments and never blocks other
// batches or the session; the method never returns an error to the caller and
// never panics across the goroutine boundary.
func (p *Pipeline) Run(ctx context.Context, session *sessions.Session) {
	session.MarkTranslating()
	segs := session.SnapshotAll()
	if len(segs) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrency)

	for start := 0; start < len(segs); start += p.batchSize {
		end := start + p.batchSize
		if end > len(segs) {
			end = len(segs)
		}
		batch := segs[start:end]

		g.Go(func() error {
			p.translateBatch(ctx, session, batch)
			return nil
		})
	}

	_ = g.Wait()
	log.Printf("[DEBUG] Translation run finished for session %s (%d segments)", session.ID, len(segs))
}

// translateBatch issues one provider call for a batch and redistributes the
// result positionally. Any failure degrades the whole batch to original text.
func (p *Pipeline) translateBatch(ctx context.Context, session *sessions.Session, batch []models.Segment) {
	texts := make([]string, len(batch))
	for i, seg := range batch {
		texts[i] = seg.OriginalText
	}

	joined := strings.Join(texts, batchDelimiter)
	translated, err := p.translator.TranslateBatch(ctx, joined, session.SourceLanguage, session.TargetLanguage)
	if err != nil {
		log.Printf("[ERROR] Translation batch failed for session %s: %v, falling back to original text", session.ID, err)
		for _, seg := range batch {
			session.SetTranslated(seg.Index, seg.OriginalText)
		}
		return
	}

	parts := strings.Split(translated, splitToken)
	// Split count can legitimately differ from the batch size when the
	// delimiter collides with content or the provider reformats. Assign
	// positionally; the unmatched tail keeps its original text.
	for i, seg := range batch {
		text := ""
		if i < len(parts) {
			text = strings.TrimSpace(parts[i])
		}
		if text == "" {
			text = seg.OriginalText
		}
		session.SetTranslated(seg.Index, text)
	}
}
