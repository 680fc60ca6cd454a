package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/captions"
	"github.com/killallgit/dubber-api/internal/services/segments"
	"github.com/killallgit/dubber-api/pkg/download"
	"github.com/killallgit/dubber-api/pkg/lang"
)

// ErrSourceUnavailable is returned when neither captions nor fallback
// transcription could produce a transcript. Fatal to session creation and
// surfaced to the caller synchronously.
var ErrSourceUnavailable = errors.New("source transcript unavailable")

// TranslationRunner starts the whole-session background translation run
type TranslationRunner interface {
	Run(ctx context.Context, session *Session)
}

// Service is the session lifecycle surface consumed by the HTTP layer
type Service interface {
	CreateSession(ctx context.Context, sourceURL, sourceLang, targetLang string) (*Session, error)
	GetSession(id string) (*Session, error)
	DeleteSession(id string) error
	SessionCount() int
}

// service implements Service
type service struct {
	store      *Store
	source     captions.Source
	fallback   captions.Transcriber
	downloader *download.Downloader
	merger     *segments.Merger
	translator TranslationRunner
}

// NewService creates the session service. The fallback transcriber and
// downloader may be nil; creation then fails outright when captions are
// missing.
func NewService(
	store *Store,
	source captions.Source,
	fallback captions.Transcriber,
	downloader *download.Downloader,
	merger *segments.Merger,
	translator TranslationRunner,
) Service {
	return &service{
		store:      store,
		source:     source,
		fallback:   fallback,
		downloader: downloader,
		merger:     merger,
		translator: translator,
	}
}

// CreateSession fetches the transcript, merges it into segments, registers
// the session, and kicks off the background translation run. An empty source
// language is detected from the transcript text.
func (s *service) CreateSession(ctx context.Context, sourceURL, sourceLang, targetLang string) (*Session, error) {
	fragments, err := s.fetchTranscript(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	segs := s.merger.Merge(fragments)
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: transcript is empty", ErrSourceUnavailable)
	}

	if sourceLang == "" {
		var sample strings.Builder
		for i := 0; i < len(segs) && i < 5; i++ {
			sample.WriteString(segs[i].OriginalText)
			sample.WriteString(" ")
		}
		sourceLang = lang.Detect(sample.String())
		log.Printf("[DEBUG] Detected source language %q for %s", sourceLang, sourceURL)
	}

	session, err := s.store.Create(sourceURL, sourceLang, targetLang, segs)
	if err != nil {
		return nil, err
	}

	session.MarkTranslating()
	if s.translator != nil {
		// Detached from the request; the run degrades per batch and never
		// fails the session
		go s.translator.Run(context.Background(), session)
	}

	log.Printf("Created session %s: %d segments, %s -> %s", session.ID, len(segs), sourceLang, targetLang)
	return session, nil
}

// GetSession looks up a session by id
func (s *service) GetSession(id string) (*Session, error) {
	return s.store.Get(id)
}

// DeleteSession removes a session from the registry
func (s *service) DeleteSession(id string) error {
	return s.store.Delete(id)
}

// SessionCount returns the number of active sessions
func (s *service) SessionCount() int {
	return s.store.Count()
}

// fetchTranscript tries the caption source first, then downloads the source
// audio and transcribes it. Both failing is SourceUnavailable.
func (s *service) fetchTranscript(ctx context.Context, sourceURL string) ([]models.TranscriptFragment, error) {
	videoID, err := captions.ExtractVideoID(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	fragments, err := s.source.FetchCaptions(ctx, videoID)
	if err == nil {
		return fragments, nil
	}
	if !errors.Is(err, captions.ErrCaptionsUnavailable) {
		log.Printf("[ERROR] Caption fetch failed for %s: %v", videoID, err)
	}

	if s.fallback == nil || s.downloader == nil {
		return nil, fmt.Errorf("%w: no captions and no fallback transcriber", ErrSourceUnavailable)
	}

	log.Printf("[DEBUG] Captions unavailable for %s, falling back to transcription", videoID)
	audio, err := s.downloader.FetchBytes(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: audio fetch failed: %v", ErrSourceUnavailable, err)
	}

	fragments, err = s.fallback.TranscribeAudio(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("%w: transcription failed: %v", ErrSourceUnavailable, err)
	}
	return fragments, nil
}
