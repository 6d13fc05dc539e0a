package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/mock"
	"github.com/MKhiriev/go-institute-sync/models"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestCollection(t *testing.T) (*LocalCollection, KeyValueStore, *Broadcaster) {
	t.Helper()
	kv := NewMemoryKV()
	events := NewBroadcaster()
	c := NewLocalCollection(kv, events, models.CollectionLeads, logger.Nop())
	c.now = func() time.Time { return fixedNow }
	return c, kv, events
}

// ── Load / Save ──────────────────────────────────────────────────────────────

func TestLocalCollection_Load_Missing(t *testing.T) {
	c, _, _ := newTestCollection(t)

	rows, err := c.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestLocalCollection_Load_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: "not json at all"},
		{name: "truncated", raw: `[{"id":"1"`},
		{name: "object instead of list", raw: `{"id":"1"}`},
		{name: "blank", raw: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, kv, _ := newTestCollection(t)
			require.NoError(t, kv.SetItem(context.Background(), "leads", tt.raw))

			rows, err := c.Load(context.Background())

			require.NoError(t, err)
			assert.Equal(t, models.Snapshot{}, rows)
		})
	}
}

func TestLocalCollection_Load_SkipsNullEntries(t *testing.T) {
	c, kv, _ := newTestCollection(t)
	require.NoError(t, kv.SetItem(context.Background(), "leads", `[{"id":"1"},null,{"id":"2"}]`))

	rows, err := c.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLocalCollection_Load_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mock.NewMockKeyValueStore(ctrl)
	kv.EXPECT().GetItem(gomock.Any(), "leads").Return("", false, errors.New("disk I/O error"))

	c := NewLocalCollection(kv, NewBroadcaster(), "leads", logger.Nop())
	_, err := c.Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestLocalCollection_SaveLoad_RoundTrip(t *testing.T) {
	c, _, events := newTestCollection(t)
	ctx := context.Background()

	var got []models.ChangeEvent
	events.Listen("leads:changed", func(e models.ChangeEvent) { got = append(got, e) })

	want := models.Snapshot{
		{"id": "a", "name": "Asha", "phone": "9876543210"},
		{"id": "b", "name": "Ravi", "score": float64(42)},
	}
	require.NoError(t, c.Save(ctx, want))

	rows, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, rows)

	require.Len(t, got, 1)
	assert.Equal(t, models.EventUnspecified, got[0].Type)
	assert.Equal(t, "leads", got[0].Table)
}

func TestLocalCollection_Save_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mock.NewMockKeyValueStore(ctrl)
	kv.EXPECT().SetItem(gomock.Any(), "leads", "[]").Return(errors.New("read-only file system"))

	events := NewBroadcaster()
	emitted := 0
	events.Listen("leads:changed", func(models.ChangeEvent) { emitted++ })

	c := NewLocalCollection(kv, events, "leads", logger.Nop())
	err := c.Save(context.Background(), nil)

	require.Error(t, err)
	assert.Zero(t, emitted)
}

// ── Add / Update / Delete ────────────────────────────────────────────────────

func TestLocalCollection_Add(t *testing.T) {
	c, _, events := newTestCollection(t)
	ctx := context.Background()

	var got []models.ChangeEvent
	events.Listen(c.ChangedEvent(), func(e models.ChangeEvent) { got = append(got, e) })

	rec, err := c.Add(ctx, models.Record{"name": "Asha"})
	require.NoError(t, err)

	assert.Len(t, rec.Key(FieldID), 36)
	assert.Equal(t, "2026-03-14T09:30:00Z", rec[FieldCreatedAt])
	assert.Equal(t, rec[FieldCreatedAt], rec[FieldUpdatedAt])

	keep, err := c.Add(ctx, models.Record{"id": "fixed", "name": "Ravi"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", keep.Key(FieldID))

	rows, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Asha", rows[0]["name"])
	assert.Equal(t, "Ravi", rows[1]["name"])

	require.Len(t, got, 2)
	assert.Equal(t, models.EventInsert, got[0].Type)
}

func TestLocalCollection_Update(t *testing.T) {
	c, _, events := newTestCollection(t)
	ctx := context.Background()

	_, err := c.Add(ctx, models.Record{"id": "1", "name": "Asha", "status": "new"})
	require.NoError(t, err)

	later := fixedNow.Add(time.Hour)
	c.now = func() time.Time { return later }

	var got models.ChangeEvent
	events.Listen(c.ChangedEvent(), func(e models.ChangeEvent) { got = e })

	rec, err := c.Update(ctx, "1", models.Record{"status": "contacted", "id": "hijack", "created_at": "never"})
	require.NoError(t, err)

	assert.Equal(t, "1", rec.Key(FieldID))
	assert.Equal(t, "contacted", rec["status"])
	assert.Equal(t, "2026-03-14T09:30:00Z", rec[FieldCreatedAt])
	assert.Equal(t, "2026-03-14T10:30:00Z", rec[FieldUpdatedAt])

	assert.Equal(t, models.EventUpdate, got.Type)
	assert.Equal(t, "new", got.OldRecord["status"])

	_, err = c.Update(ctx, "missing", models.Record{"status": "lost"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestLocalCollection_Delete(t *testing.T) {
	c, _, _ := newTestCollection(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		_, err := c.Add(ctx, models.Record{"id": id})
		require.NoError(t, err)
	}

	require.NoError(t, c.Delete(ctx, "2"))
	assert.ErrorIs(t, c.Delete(ctx, "2"), ErrRecordNotFound)
	assert.ErrorIs(t, c.Delete(ctx, ""), ErrRecordNotFound)

	rows, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].Key(FieldID))
	assert.Equal(t, "3", rows[1].Key(FieldID))
}

// ── Source contract ──────────────────────────────────────────────────────────

func TestLocalCollection_Select(t *testing.T) {
	c, _, _ := newTestCollection(t)
	ctx := context.Background()
	require.NoError(t, c.Save(ctx, models.Snapshot{{"id": "1", "name": "Ravi"}, {"id": "2", "name": "Asha"}}))

	rows, err := c.Select(ctx, "leads", models.OrderBy("name", models.Ascending))
	require.NoError(t, err)
	assert.Equal(t, "Asha", rows[0]["name"])

	_, err = c.Select(ctx, "courses", nil)
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestLocalCollection_Subscribe(t *testing.T) {
	c, _, events := newTestCollection(t)
	ctx := context.Background()

	var got []models.ChangeEvent
	sub, err := c.Subscribe(ctx, "leads-changes-1", "leads", models.AllEvents, func(e models.ChangeEvent) {
		got = append(got, e)
	})
	require.NoError(t, err)
	assert.Equal(t, "leads-changes-1", sub.Channel())
	assert.Equal(t, 1, events.Listeners("leads:changed"))

	_, err = c.Add(ctx, models.Record{"name": "Asha"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())
	assert.Zero(t, events.Listeners("leads:changed"))

	_, err = c.Add(ctx, models.Record{"name": "Ravi"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = c.Subscribe(ctx, "x", "courses", models.AllEvents, func(models.ChangeEvent) {})
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestLocalCollection_Subscribe_Filter(t *testing.T) {
	c, _, _ := newTestCollection(t)
	ctx := context.Background()

	deletes := 0
	_, err := c.Subscribe(ctx, "ch", "leads", models.EventFilter("DELETE"), func(models.ChangeEvent) { deletes++ })
	require.NoError(t, err)

	_, err = c.Add(ctx, models.Record{"id": "1"})
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, "1"))

	assert.Equal(t, 1, deletes)
}
