package cache

import (
	"testing"

	"github.com/MKhiriev/go-institute-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyState(t *testing.T) {
	c := New()

	assert.Equal(t, models.SyncState{}, c.State())
}

func TestCache_FetchLifecycle(t *testing.T) {
	c := New()
	rows := models.Snapshot{{"id": "c1", "name": "Physics"}}

	c.BeginFetch()
	assert.True(t, c.State().Loading)

	c.CompleteFetch(rows)
	state := c.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Equal(t, rows, state.Snapshot)
}

func TestCache_CompleteFetch_NilIsEmpty(t *testing.T) {
	c := New()

	c.CompleteFetch(nil)

	require.NotNil(t, c.State().Snapshot)
	assert.Empty(t, c.State().Snapshot)
}

// TestCache_FailFetch_KeepsSnapshot verifies stale-but-available: a failed
// fetch keeps the last good snapshot and a later success clears the error.
func TestCache_FailFetch_KeepsSnapshot(t *testing.T) {
	c := New()
	rows := models.Snapshot{{"id": "b1"}}
	c.CompleteFetch(rows)

	c.BeginFetch()
	c.FailFetch("network down")

	state := c.State()
	assert.Equal(t, models.SyncState{Snapshot: rows, Loading: false, Error: "network down"}, state)

	c.BeginFetch()
	c.CompleteFetch(models.Snapshot{})
	assert.False(t, c.State().HasError())
}

func TestCache_SettleFetch(t *testing.T) {
	c := New()
	c.FailFetch("boom")
	c.BeginFetch()

	c.SettleFetch()

	assert.False(t, c.State().Loading)
	assert.Equal(t, "boom", c.State().Error)
}

func TestCache_Observe_CalledSynchronously(t *testing.T) {
	c := New()
	var seen []models.SyncState
	cancel := c.Observe(func(s models.SyncState) { seen = append(seen, s) })

	c.BeginFetch()
	c.CompleteFetch(models.Snapshot{{"id": 1}})

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
	assert.Len(t, seen[1].Snapshot, 1)

	cancel()
	cancel()
	c.BeginFetch()
	assert.Len(t, seen, 2)
}

func TestCache_StateIsACopy(t *testing.T) {
	c := New()
	c.CompleteFetch(models.Snapshot{{"id": "x", "name": "orig"}})

	got := c.State()
	got.Snapshot[0]["name"] = "changed"

	assert.Equal(t, "orig", c.State().Snapshot[0]["name"])
}

func TestCache_MultipleObservers(t *testing.T) {
	c := New()
	var a, b int
	c.Observe(func(models.SyncState) { a++ })
	cancelB := c.Observe(func(models.SyncState) { b++ })

	c.BeginFetch()
	cancelB()
	c.FailFetch("x")

	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)
}

func TestCache_NoOpTransitionsDoNotNotify(t *testing.T) {
	c := New()
	calls := 0
	c.Observe(func(models.SyncState) { calls++ })

	c.SettleFetch()
	c.BeginFetch()
	c.BeginFetch()

	assert.Equal(t, 1, calls)
}
