package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	apperrors "github.com/killallgit/dubber-api/pkg/errors"
)

// Client talks to an HTTP translation provider
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Config holds configuration for the translation client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new translation client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

type translateRequest struct {
	Text       string `json:"q"`
	SourceLang string `json:"source"`
	TargetLang string `json:"target"`
	Format     string `json:"format"`
	APIKey     string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// TranslateBatch sends one joined text blob for translation
func (c *Client) TranslateBatch(ctx context.Context, joinedText, sourceLang, targetLang string) (string, error) {
	if joinedText == "" {
		return "", fmt.Errorf("text cannot be empty")
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("translation provider not configured")
	}

	payload, err := json.Marshal(translateRequest{
		Text:       joinedText,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Format:     "text",
		APIKey:     c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] Translation provider returned status %d", resp.StatusCode)
		return "", apperrors.ProviderError("translation", resp.StatusCode)
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("translation provider error: %s", result.Error)
	}

	return result.TranslatedText, nil
}
