package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateGetDelete(t *testing.T) {
	store := NewStore(0)

	session, err := store.Create("http://example.com/v", "en", "es", testSegments(2))
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	assert.Equal(t, 1, store.Count())

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	require.NoError(t, store.Delete(session.ID))
	assert.Equal(t, 0, store.Count())

	_, err = store.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(session.ID), ErrSessionNotFound)
}

func TestStoreEnforcesCapacity(t *testing.T) {
	store := NewStore(1)

	_, err := store.Create("http://example.com/v1", "en", "es", testSegments(1))
	require.NoError(t, err)

	_, err = store.Create("http://example.com/v2", "en", "es", testSegments(1))
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestStoreReapRemovesIdleSessions(t *testing.T) {
	store := NewStore(0)

	stale, err := store.Create("http://example.com/v1", "en", "es", testSegments(1))
	require.NoError(t, err)
	fresh, err := store.Create("http://example.com/v2", "en", "es", testSegments(1))
	require.NoError(t, err)

	stale.lastAccess = time.Now().Add(-3 * time.Hour)

	reaped := store.Reap(2 * time.Hour)
	assert.Equal(t, 1, reaped)

	_, err = store.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestStoreReapZeroTTLIsNoop(t *testing.T) {
	store := NewStore(0)
	_, err := store.Create("http://example.com/v", "en", "es", testSegments(1))
	require.NoError(t, err)

	assert.Equal(t, 0, store.Reap(0))
	assert.Equal(t, 1, store.Count())
}
