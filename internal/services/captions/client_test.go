package captions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare id", input: "dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch URL", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link", input: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "embed path", input: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "shorts path", input: "https://www.youtube.com/shorts/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch URL with extra params", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ"},
		{name: "unrelated host", input: "https://example.com/video/123", wantErr: true},
		{name: "bare host", input: "https://www.youtube.com/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchCaptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json3", r.URL.Query().Get("fmt"))

		switch r.URL.Query().Get("v") {
		case "has-captions":
			w.Write([]byte(`{"events": [{"tStartMs": 0, "dDurationMs": 1000, "segs": [{"utf8": "hello"}]}]}`))
		case "empty-body":
			w.WriteHeader(http.StatusOK)
		case "no-events":
			w.Write([]byte(`{"events": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	ctx := context.Background()

	t.Run("captions available", func(t *testing.T) {
		fragments, err := client.FetchCaptions(ctx, "has-captions")
		require.NoError(t, err)
		require.Len(t, fragments, 1)
		assert.Equal(t, "hello", fragments[0].Text)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.FetchCaptions(ctx, "missing")
		assert.ErrorIs(t, err, ErrCaptionsUnavailable)
	})

	t.Run("empty body means no track", func(t *testing.T) {
		_, err := client.FetchCaptions(ctx, "empty-body")
		assert.ErrorIs(t, err, ErrCaptionsUnavailable)
	})

	t.Run("no usable events", func(t *testing.T) {
		_, err := client.FetchCaptions(ctx, "no-events")
		assert.ErrorIs(t, err, ErrCaptionsUnavailable)
	})

	t.Run("empty video id", func(t *testing.T) {
		_, err := client.FetchCaptions(ctx, "")
		assert.Error(t, err)
	})
}
