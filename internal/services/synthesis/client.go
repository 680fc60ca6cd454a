package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	apperrors "github.com/killallgit/dubber-api/pkg/errors"
)

// Client talks to an HTTP speech synthesis provider. Whatever the provider
// actually streams back is normalized to a plain byte slice at this boundary.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	voice      string
}

// Config holds configuration for the synthesis client
type Config struct {
	APIKey  string
	BaseURL string
	Voice   string
	Timeout time.Duration
}

// NewClient creates a new speech synthesis client
func NewClient(cfg Config) *Client {
	if cfg.Voice == "" {
		cfg.Voice = "alloy"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		voice:      cfg.Voice,
	}
}

type speechRequest struct {
	Input string `json:"input"`
	Voice string `json:"voice"`
	// mp3 keeps provider responses small and plays everywhere
	Format string `json:"response_format"`
}

// Synthesize converts text to audio bytes. An empty voice uses the
// configured default.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("synthesis provider not configured")
	}
	if voice == "" {
		voice = c.voice
	}

	payload, err := json.Marshal(speechRequest{
		Input:  text,
		Voice:  voice,
		Format: "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
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
		log.Printf("[ERROR] Synthesis provider returned status %d", resp.StatusCode)
		return nil, apperrors.ProviderError("synthesis", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("synthesis provider returned empty audio")
	}

	log.Printf("[DEBUG] Synthesized %d chars into %d audio bytes in %v", len(text), len(audio), time.Since(start))
	return audio, nil
}
