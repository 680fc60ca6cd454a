package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/dubber-api/api/types"
	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/audiocache"
	"github.com/killallgit/dubber-api/internal/services/cache"
	"github.com/killallgit/dubber-api/internal/services/dubbing"
	"github.com/killallgit/dubber-api/internal/services/scheduler"
	sessionsService "github.com/killallgit/dubber-api/internal/services/sessions"
)

// fakeSessionService backs the handlers with an in-memory store and scripted
// creation failures keyed off the source URL.
type fakeSessionService struct {
	store *sessionsService.Store
}

func (f *fakeSessionService) CreateSession(ctx context.Context, sourceURL, sourceLang, targetLang string) (*sessionsService.Session, error) {
	switch sourceURL {
	case "http://example.com/no-transcript":
		return nil, sessionsService.ErrSourceUnavailable
	case "http://example.com/at-capacity":
		return nil, sessionsService.ErrTooManySessions
	}

	segs := []*models.Segment{
		{Index: 0, OriginalText: "hello", TranslatedText: "hola", StartTime: 0, EndTime: 30, AudioStatus: models.AudioStatusEmpty},
		{Index: 1, OriginalText: "world", TranslatedText: "mundo", StartTime: 30, EndTime: 60, AudioStatus: models.AudioStatusEmpty},
	}
	return f.store.Create(sourceURL, sourceLang, targetLang, segs)
}

func (f *fakeSessionService) GetSession(id string) (*sessionsService.Session, error) {
	return f.store.Get(id)
}

func (f *fakeSessionService) DeleteSession(id string) error {
	return f.store.Delete(id)
}

func (f *fakeSessionService) SessionCount() int {
	return f.store.Count()
}

type stubSynthesizer struct{}

func (stubSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	return []byte("audio:" + text), nil
}

type stubDubber struct{}

func (stubDubber) CreateJob(ctx context.Context, sourceURL, sourceLang, targetLang string, startSec, endSec float64) (string, error) {
	return "job-1", nil
}

func (stubDubber) PollJob(ctx context.Context, jobID string) (dubbing.JobStatus, error) {
	return dubbing.JobStatusDubbed, nil
}

func (stubDubber) FetchAudio(ctx context.Context, jobID, targetLang string) ([]byte, error) {
	return []byte("chunk audio"), nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *types.Dependencies) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := cache.NewMemoryCache(8)
	t.Cleanup(mem.Stop)
	audioCache := audiocache.NewService(mem, nil, time.Hour)

	store := sessionsService.NewStore(0)
	deps := &types.Dependencies{
		SessionService: &fakeSessionService{store: store},
		SessionStore:   store,
		Scheduler:      scheduler.New(stubSynthesizer{}, audioCache, scheduler.Options{Lookahead: 1}),
		ChunkScheduler: scheduler.NewChunkScheduler(stubDubber{}, audioCache, scheduler.ChunkOptions{PollInterval: time.Millisecond}),
		AudioCache:     audioCache,
	}

	router := gin.New()
	group := router.Group("/api/v1/sessions")
	RegisterRoutes(group, deps)
	return router, deps
}

func createTestSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body := `{"source_url": "http://example.com/video", "source_language": "en", "target_language": "es"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp types.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestCreateSession(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "valid request",
			body:     `{"source_url": "http://example.com/video", "target_language": "es"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing target language",
			body:     `{"source_url": "http://example.com/video"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			body:     `{not json`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid target language",
			body:     `{"source_url": "http://example.com/video", "target_language": "not a lang"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid source language",
			body:     `{"source_url": "http://example.com/video", "source_language": "!!", "target_language": "es"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "source has no transcript",
			body:     `{"source_url": "http://example.com/no-transcript", "target_language": "es"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "session limit reached",
			body:     `{"source_url": "http://example.com/at-capacity", "target_language": "es"}`,
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestGetSession(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createTestSession(t, router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/sessions/"+id, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "es", resp.TargetLanguage)
	assert.Equal(t, 2, resp.Progress.SegmentCount)
	assert.Equal(t, 60.0, resp.Progress.TotalDuration)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/sessions/nope", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSession(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createTestSession(t, router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/v1/sessions/"+id, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/sessions/"+id, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUnits(t *testing.T) {
	router, deps := newTestRouter(t)
	id := createTestSession(t, router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/sessions/"+id+"/units?time=5", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	deps.Scheduler.Wait()

	var resp types.UnitsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Current)
	assert.Equal(t, 0, resp.Current.Index)
	require.Len(t, resp.Lookahead, 1)
	assert.Equal(t, 1, resp.Lookahead[0].Index)

	// Missing or bad time parameter
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/sessions/"+id+"/units", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetryUnit(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createTestSession(t, router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/sessions/"+id+"/units/99/retry", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/sessions/"+id+"/units/abc/retry", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUnitAudio(t *testing.T) {
	router, deps := newTestRouter(t)
	id := createTestSession(t, router)

	// Not produced yet
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/sessions/"+id+"/units/0/audio", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	session, err := deps.SessionService.GetSession(id)
	require.NoError(t, err)
	require.True(t, session.TryAcquire(0))
	session.SetAudio(0, []byte("finished audio"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/sessions/"+id+"/units/0/audio", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("finished audio"), w.Body.Bytes())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/sessions/"+id+"/units/99/audio", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostEvent(t *testing.T) {
	router, deps := newTestRouter(t)
	id := createTestSession(t, router)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "play warms window", body: `{"event": "play", "position": 0}`, wantCode: http.StatusAccepted},
		{name: "seek warms window", body: `{"event": "seek", "position": 35}`, wantCode: http.StatusAccepted},
		{name: "pause is a no-op", body: `{"event": "pause", "position": 12}`, wantCode: http.StatusAccepted},
		{name: "rate change is a no-op", body: `{"event": "ratechange", "position": 12, "rate": 1.5}`, wantCode: http.StatusAccepted},
		{name: "unknown event rejected", body: `{"event": "rewind", "position": 0}`, wantCode: http.StatusBadRequest},
		{name: "malformed body", body: `{`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/v1/sessions/"+id+"/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}

	deps.Scheduler.Wait()
	session, err := deps.SessionService.GetSession(id)
	require.NoError(t, err)
	seg, _ := session.Snapshot(0)
	assert.Equal(t, models.AudioStatusReady, seg.AudioStatus)
}

func TestGetChunks(t *testing.T) {
	router, deps := newTestRouter(t)
	id := createTestSession(t, router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/sessions/"+id+"/chunks?time=0", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	deps.ChunkScheduler.Wait()

	var resp types.ChunksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Current.Index)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/sessions/"+id+"/chunks", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChunkAudio(t *testing.T) {
	router, deps := newTestRouter(t)
	id := createTestSession(t, router)

	// Not dubbed yet
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/sessions/"+id+"/chunks/0/audio", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Warm the chunk, then wait for the dub job to settle
	reqChunks, _ := http.NewRequest("GET", "/api/v1/sessions/"+id+"/chunks?time=0", nil)
	router.ServeHTTP(httptest.NewRecorder(), reqChunks)
	deps.ChunkScheduler.Wait()

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/sessions/"+id+"/chunks/0/audio", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("chunk audio"), w.Body.Bytes())
}
