package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBytes(t *testing.T) {
	payload := []byte("mp3 payload bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/audio.mp3":
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write(payload)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		case "/huge.mp3":
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write(make([]byte, 64))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()

	t.Run("downloads audio", func(t *testing.T) {
		d := NewDownloader(DefaultOptions())
		data, err := d.FetchBytes(ctx, server.URL+"/audio.mp3")
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("rejects non-audio content type", func(t *testing.T) {
		d := NewDownloader(DefaultOptions())
		_, err := d.FetchBytes(ctx, server.URL+"/page.html")
		assert.ErrorContains(t, err, "invalid content type")
	})

	t.Run("allows any content type when validation is off", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ValidateAudio = false
		d := NewDownloader(opts)
		_, err := d.FetchBytes(ctx, server.URL+"/page.html")
		assert.NoError(t, err)
	})

	t.Run("enforces the size cap", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxSize = 32
		d := NewDownloader(opts)
		_, err := d.FetchBytes(ctx, server.URL+"/huge.mp3")
		assert.ErrorContains(t, err, "payload too large")
	})

	t.Run("non-200 status", func(t *testing.T) {
		d := NewDownloader(DefaultOptions())
		_, err := d.FetchBytes(ctx, server.URL+"/missing.mp3")
		assert.ErrorContains(t, err, "status 404")
	})
}

func TestIsAudioContentType(t *testing.T) {
	assert.True(t, isAudioContentType("audio/mpeg"))
	assert.True(t, isAudioContentType("application/octet-stream"))
	assert.True(t, isAudioContentType("video/mp4"))
	assert.True(t, isAudioContentType(""), "hosts that omit the header pass")
	assert.False(t, isAudioContentType("text/html"))
}
