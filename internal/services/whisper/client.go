package whisper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/pkg/transcript"

	apperrors "github.com/killallgit/dubber-api/pkg/errors"
)

// Client is the fallback transcriber: it submits raw audio to a Whisper-style
// transcription API and normalizes the verbose response into fragments.
type Client struct {
	httpClient  *http.Client
	apiURL      string
	apiKey      string
	model       string
	maxFileSize int64
	parser      *transcript.Parser
}

// Config holds configuration for the whisper client
type Config struct {
	APIKey      string
	APIURL      string
	Model       string
	Timeout     time.Duration
	MaxFileSize int64
}

// NewClient creates a new whisper transcription client
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.openai.com/v1/audio/transcriptions"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 25 * 1024 * 1024
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		apiURL:      cfg.APIURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxFileSize: cfg.MaxFileSize,
		parser:      transcript.NewParser(),
	}
}

// TranscribeAudio submits audio bytes and returns timestamped fragments
func (c *Client) TranscribeAudio(ctx context.Context, audio []byte) ([]models.TranscriptFragment, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("audio payload cannot be empty")
	}
	if int64(len(audio)) > c.maxFileSize {
		return nil, fmt.Errorf("audio payload too large: %d bytes (max %d)", len(audio), c.maxFileSize)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.mp3")
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("writing form file: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return nil, fmt.Errorf("writing model field: %w", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("writing format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] Transcription API returned status %d", resp.StatusCode)
		return nil, apperrors.ProviderError("transcription", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	fragments, err := c.parser.Parse(payload, transcript.FormatWhisper)
	if err != nil {
		return nil, fmt.Errorf("parsing transcription: %w", err)
	}

	log.Printf("[DEBUG] Transcribed %d bytes into %d fragments in %v", len(audio), len(fragments), time.Since(start))
	return fragments, nil
}
