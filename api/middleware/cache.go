package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/internal/services/cache"
)

// CacheConfig holds configuration for the response cache middleware
type CacheConfig struct {
	Cache      cache.Cache
	DefaultTTL time.Duration
	Enabled    bool
}

// bodyCapture records the response so a successful one can be cached
type bodyCapture struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *bodyCapture) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCapture) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// CacheMiddleware serves repeat GETs of finished audio from memory. Audio
// payloads are immutable once produced, so entries are never invalidated,
// only expired. Non-200 responses pass through uncached, which lets a
// not-ready 409 turn into a 200 as soon as production finishes.
func CacheMiddleware(config CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		if clientWantsFresh(c.Request) {
			c.Header("X-Cache", "BYPASS")
			c.Next()
			return
		}

		key := cacheKey(c.Request)
		if data, found := config.Cache.Get(context.Background(), key); found {
			if entry, err := decodeEntry(data); err == nil {
				c.Header("X-Cache", "HIT")
				c.Header("Age", strconv.Itoa(int(time.Since(entry.cachedAt).Seconds())))
				c.Header("ETag", entry.etag)
				c.Data(http.StatusOK, entry.contentType, entry.body)
				c.Abort()
				return
			}
		}

		c.Header("X-Cache", "MISS")
		w := &bodyCapture{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil), status: http.StatusOK}
		c.Writer = w
		c.Next()

		if w.status != http.StatusOK || w.body.Len() == 0 {
			return
		}

		entry := cachedEntry{
			contentType: w.Header().Get("Content-Type"),
			cachedAt:    time.Now(),
			etag:        etagOf(w.body.Bytes()),
			body:        w.body.Bytes(),
		}
		_ = config.Cache.Set(context.Background(), key, encodeEntry(entry), config.DefaultTTL)
		c.Header("ETag", entry.etag)
	}
}

type cachedEntry struct {
	contentType string
	cachedAt    time.Time
	etag        string
	body        []byte
}

// clientWantsFresh honors Cache-Control and legacy Pragma request headers
func clientWantsFresh(req *http.Request) bool {
	for _, directive := range strings.Split(strings.ToLower(req.Header.Get("Cache-Control")), ",") {
		switch strings.TrimSpace(directive) {
		case "no-cache", "no-store", "max-age=0":
			return true
		}
	}
	return req.Header.Get("Pragma") == "no-cache"
}

// cacheKey is the request path plus its query parameters in sorted order
func cacheKey(req *http.Request) string {
	parts := []string{req.URL.Path}

	params := req.URL.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range params[k] {
			parts = append(parts, k+"="+v)
		}
	}

	return "http:" + strings.Join(parts, ":")
}

func etagOf(body []byte) string {
	hash := sha256.Sum256(body)
	return `"` + hex.EncodeToString(hash[:]) + `"`
}

// encodeEntry packs one metadata line ahead of the raw body bytes
func encodeEntry(entry cachedEntry) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s|%d|%s\n", entry.contentType, entry.cachedAt.Unix(), entry.etag)
	buf.Write(entry.body)
	return buf.Bytes()
}

func decodeEntry(data []byte) (*cachedEntry, error) {
	parts := bytes.SplitN(data, []byte("\n"), 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cache entry")
	}

	meta := strings.Split(string(parts[0]), "|")
	if len(meta) != 3 {
		return nil, fmt.Errorf("invalid cache entry metadata")
	}

	cachedAt, err := strconv.ParseInt(meta[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cache entry timestamp: %w", err)
	}

	return &cachedEntry{
		contentType: meta[0],
		cachedAt:    time.Unix(cachedAt, 0),
		etag:        meta[2],
		body:        parts[1],
	}, nil
}
