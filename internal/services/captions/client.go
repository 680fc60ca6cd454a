package captions

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/pkg/transcript"
)

// Client fetches caption tracks from the YouTube timedtext endpoint
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	parser     *transcript.Parser
}

// Config holds configuration for the captions client
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new captions client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.youtube.com/api/timedtext"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "DubberAPI/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		parser:     transcript.NewParser(),
	}
}

// FetchCaptions retrieves and parses the caption track for a video.
// Returns ErrCaptionsUnavailable when the video has no caption track.
func (c *Client) FetchCaptions(ctx context.Context, videoID string) ([]models.TranscriptFragment, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID cannot be empty")
	}

	query := url.Values{}
	query.Set("v", videoID)
	query.Set("fmt", "json3")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCaptionsUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] Caption source returned status %d for video %s", resp.StatusCode, videoID)
		return nil, fmt.Errorf("caption source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	// The endpoint answers 200 with an empty body when no track exists
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrCaptionsUnavailable
	}

	fragments, err := c.parser.Parse(body, transcript.FormatTimedText)
	if err != nil {
		return nil, fmt.Errorf("parsing captions: %w", err)
	}
	if len(fragments) == 0 {
		return nil, ErrCaptionsUnavailable
	}

	log.Printf("[DEBUG] Fetched %d caption fragments for video %s", len(fragments), videoID)
	return fragments, nil
}

// ExtractVideoID pulls the video id out of the common YouTube URL shapes.
// A bare id passes through unchanged.
func ExtractVideoID(sourceURL string) (string, error) {
	if !strings.Contains(sourceURL, "/") && !strings.Contains(sourceURL, ".") {
		return sourceURL, nil
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("invalid source URL: %w", err)
	}

	if id := parsed.Query().Get("v"); id != "" {
		return id, nil
	}

	// youtu.be/<id>, /embed/<id>, /shorts/<id>
	path := strings.Trim(parsed.Path, "/")
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "", fmt.Errorf("could not extract video ID from %s", sourceURL)
	}

	host := strings.ToLower(parsed.Host)
	if strings.Contains(host, "youtu.be") || strings.Contains(host, "youtube") {
		return last, nil
	}

	return "", fmt.Errorf("could not extract video ID from %s", sourceURL)
}
