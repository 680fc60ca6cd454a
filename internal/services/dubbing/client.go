package dubbing

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

// Client talks to an HTTP dubbing provider with a create/poll/fetch contract
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Config holds configuration for the dubbing client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new dubbing provider client
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

type createJobRequest struct {
	SourceURL  string  `json:"source_url"`
	SourceLang string  `json:"source_lang"`
	TargetLang string  `json:"target_lang"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

type createJobResponse struct {
	DubbingID string `json:"dubbing_id"`
}

type pollJobResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CreateJob starts a remote dub for one time range of the source video
func (c *Client) CreateJob(ctx context.Context, sourceURL, sourceLang, targetLang string, startSec, endSec float64) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("dubbing provider not configured")
	}

	payload, err := json.Marshal(createJobRequest{
		SourceURL:  sourceURL,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		StartTime:  startSec,
		EndTime:    endSec,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/dubbing", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[ERROR] Dubbing provider returned status %d on create", resp.StatusCode)
		return "", apperrors.ProviderError("dubbing", resp.StatusCode)
	}

	var result createJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if result.DubbingID == "" {
		return "", fmt.Errorf("dubbing provider returned empty job id")
	}

	return result.DubbingID, nil
}

// PollJob fetches the current status of a remote dub job
func (c *Client) PollJob(ctx context.Context, jobID string) (JobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/dubbing/"+jobID, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.ProviderError("dubbing", resp.StatusCode)
	}

	var result pollJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	switch result.Status {
	case "dubbed", "completed", "done":
		return JobStatusDubbed, nil
	case "failed", "error":
		return JobStatusFailed, nil
	default:
		return JobStatusProcessing, nil
	}
}

// FetchAudio downloads the finished dubbed audio for a job
func (c *Client) FetchAudio(ctx context.Context, jobID, targetLang string) ([]byte, error) {
	url := fmt.Sprintf("%s/dubbing/%s/audio/%s", c.baseURL, jobID, targetLang)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ProviderError("dubbing", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("dubbing provider returned empty audio")
	}
	return audio, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("xi-api-key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}
