package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Options configures the download behavior
type Options struct {
	MaxSize   int64         // Maximum payload size in bytes (0 = no limit)
	Timeout   time.Duration // Download timeout
	UserAgent string        // User agent string
	// Reject responses whose Content-Type is not audio
	ValidateAudio bool
}

// DefaultOptions returns default download options
func DefaultOptions() Options {
	return Options{
		MaxSize:       25 * 1024 * 1024,
		Timeout:       2 * time.Minute,
		UserAgent:     "DubberAPI/1.0",
		ValidateAudio: true,
	}
}

// Downloader fetches source audio into memory for fallback transcription
type Downloader struct {
	client  *http.Client
	options Options
}

// NewDownloader creates a new downloader with the given options
func NewDownloader(options Options) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true, // audio does not compress
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
	}
}

// FetchBytes downloads a URL fully into memory, enforcing the size cap
func (d *Downloader) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.options.UserAgent)
	req.Header.Set("Accept", "audio/*,*/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if d.options.ValidateAudio && !isAudioContentType(contentType) {
		return nil, fmt.Errorf("invalid content type: %s", contentType)
	}

	if d.options.MaxSize > 0 && resp.ContentLength > d.options.MaxSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", resp.ContentLength, d.options.MaxSize)
	}

	reader := io.Reader(resp.Body)
	if d.options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, d.options.MaxSize+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if d.options.MaxSize > 0 && int64(len(data)) > d.options.MaxSize {
		return nil, fmt.Errorf("payload too large: exceeded %d bytes", d.options.MaxSize)
	}

	log.Printf("[DEBUG] Downloaded %d bytes from %s", len(data), url)
	return data, nil
}

// isAudioContentType checks if the content type indicates audio
func isAudioContentType(contentType string) bool {
	if contentType == "" {
		return true // some hosts omit it
	}
	contentType = strings.ToLower(contentType)
	return strings.HasPrefix(contentType, "audio/") ||
		strings.Contains(contentType, "octet-stream") ||
		strings.Contains(contentType, "mpeg") ||
		strings.Contains(contentType, "mp4")
}
