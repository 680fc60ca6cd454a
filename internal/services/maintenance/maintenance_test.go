package maintenance

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/sessions"
)

type countingPurger struct {
	purges int32
}

func (p *countingPurger) Get(ctx context.Context, sourceURL, language string, unitIndex int) ([]byte, bool) {
	return nil, false
}

func (p *countingPurger) Put(ctx context.Context, sourceURL, language string, unitIndex int, payload []byte, ttl time.Duration) error {
	return nil
}

func (p *countingPurger) PurgeExpired(ctx context.Context) (int64, error) {
	atomic.AddInt32(&p.purges, 1)
	return 0, nil
}

func TestSweepReapsIdleSessionsAndPurgesCache(t *testing.T) {
	store := sessions.NewStore(0)
	segs := []*models.Segment{{Index: 0, StartTime: 0, EndTime: 30}}

	_, err := store.Create("http://example.com/active", "en", "es", segs)
	require.NoError(t, err)
	require.Equal(t, 1, store.Count())

	purger := &countingPurger{}
	svc := NewService(store, purger, time.Hour, "")

	svc.sweep()

	// The session was just touched, so it survives the sweep
	assert.Equal(t, 1, store.Count())
	assert.EqualValues(t, 1, atomic.LoadInt32(&purger.purges))
}

func TestSweepWithoutCache(t *testing.T) {
	store := sessions.NewStore(0)
	svc := NewService(store, nil, time.Hour, "")

	// Must not panic with no persisted cache configured
	svc.sweep()
}

func TestStartStop(t *testing.T) {
	store := sessions.NewStore(0)
	svc := NewService(store, &countingPurger{}, time.Hour, "@every 1h")

	require.NoError(t, svc.Start())
	svc.Stop()
}

func TestBadScheduleRejected(t *testing.T) {
	svc := NewService(sessions.NewStore(0), nil, time.Hour, "not a schedule")
	assert.Error(t, svc.Start())
}
