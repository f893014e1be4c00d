package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcusyeo/TimeButler/internal/models"
)

func ev(t *testing.T, id, start, end string) models.Event {
	t.Helper()
	s, err := models.ParseLocalTime(start, time.Local)
	require.NoError(t, err)
	e, err := models.ParseLocalTime(end, time.Local)
	require.NoError(t, err)
	return models.Event{ID: id, Title: id, Start: s, End: e, Type: models.TypeWork}
}

func TestCreate(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(ev(t, "e1", "2025-10-13T09:00:00", "2025-10-13T10:00:00")))

	t.Run("DuplicateID", func(t *testing.T) {
		err := s.Create(ev(t, "e1", "2025-10-13T11:00:00", "2025-10-13T12:00:00"))
		assert.ErrorIs(t, err, models.ErrDuplicateID)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("InvalidInterval", func(t *testing.T) {
		err := s.Create(ev(t, "e2", "2025-10-13T10:00:00", "2025-10-13T10:00:00"))
		assert.ErrorIs(t, err, models.ErrInvalidInterval)
		assert.Equal(t, 1, s.Len())
	})
}

func TestAppendManyIsAtomic(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(ev(t, "e1", "2025-10-13T09:00:00", "2025-10-13T10:00:00")))

	batch := []models.Event{
		ev(t, "e2", "2025-10-13T10:00:00", "2025-10-13T11:00:00"),
		ev(t, "e1", "2025-10-13T11:00:00", "2025-10-13T12:00:00"), // dup of stored
	}
	err := s.AppendMany(batch)
	require.ErrorIs(t, err, models.ErrDuplicateID)
	assert.Equal(t, 1, s.Len(), "nothing from a rejected batch is admitted")

	batch = []models.Event{
		ev(t, "e2", "2025-10-13T10:00:00", "2025-10-13T11:00:00"),
		ev(t, "e2", "2025-10-13T11:00:00", "2025-10-13T12:00:00"), // dup within batch
	}
	require.ErrorIs(t, s.AppendMany(batch), models.ErrDuplicateID)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateByID(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(ev(t, "e1", "2025-10-13T09:00:00", "2025-10-13T10:00:00")))

	t.Run("UnknownIDIsNoOp", func(t *testing.T) {
		ok, err := s.UpdateByID("ghost", models.EventPatch{Title: models.StringPtr("x")})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("InvalidPatchLeavesEventUnchanged", func(t *testing.T) {
		bad := models.EventPatch{
			End: models.TimePtr(mustLT(t, "2025-10-13T08:00:00")),
		}
		_, err := s.UpdateByID("e1", bad)
		require.ErrorIs(t, err, models.ErrInvalidInterval)

		got, ok := s.Get("e1")
		require.True(t, ok)
		assert.Equal(t, "2025-10-13T10:00:00", got.End.String())
	})

	t.Run("AppliesPatch", func(t *testing.T) {
		ok, err := s.UpdateByID("e1", models.EventPatch{
			Title: models.StringPtr("moved"),
			Start: models.TimePtr(mustLT(t, "2025-10-13T16:30:00")),
			End:   models.TimePtr(mustLT(t, "2025-10-13T17:30:00")),
		})
		require.NoError(t, err)
		assert.True(t, ok)

		got, _ := s.Get("e1")
		assert.Equal(t, "moved", got.Title)
		assert.Equal(t, "2025-10-13T16:30:00", got.Start.String())
	})
}

func TestRemoveByIDs(t *testing.T) {
	s := New()
	require.NoError(t, s.AppendMany([]models.Event{
		ev(t, "e1", "2025-10-13T09:00:00", "2025-10-13T10:00:00"),
		ev(t, "e2", "2025-10-13T10:00:00", "2025-10-13T11:00:00"),
		ev(t, "e3", "2025-10-13T11:00:00", "2025-10-13T12:00:00"),
	}))

	removed := s.RemoveByIDs("e1", "e3", "ghost")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("e2")
	assert.True(t, ok)
}

func TestListAllOrdering(t *testing.T) {
	s := New()
	require.NoError(t, s.AppendMany([]models.Event{
		ev(t, "b", "2025-10-13T09:00:00", "2025-10-13T10:00:00"),
		ev(t, "a", "2025-10-13T09:00:00", "2025-10-13T09:30:00"),
		ev(t, "c", "2025-10-13T08:00:00", "2025-10-13T08:30:00"),
	}))

	var ids []string
	for _, e := range s.ListAll() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids, "start order, ties by id")
}

func TestListForDate(t *testing.T) {
	s := New()
	require.NoError(t, s.AppendMany([]models.Event{
		ev(t, "mon", "2025-10-13T09:00:00", "2025-10-13T10:00:00"),
		ev(t, "tue", "2025-10-14T09:00:00", "2025-10-14T10:00:00"),
	}))

	got := s.ListForDate("2025-10-13")
	require.Len(t, got, 1)
	assert.Equal(t, "mon", got[0].ID)
	assert.Empty(t, s.ListForDate("2025-10-15"))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.AppendMany([]models.Event{
		ev(t, "e1", "2025-10-13T09:00:00", "2025-10-13T10:00:00"),
		ev(t, "e2", "2025-10-14T09:00:00", "2025-10-14T10:00:00"),
	}))

	blob, err := s.SnapshotJSON()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.RestoreJSON(blob))
	assert.Equal(t, s.ListAll(), restored.ListAll())

	t.Run("RejectsCorruptSnapshot", func(t *testing.T) {
		assert.Error(t, New().RestoreJSON([]byte(`{"not":"events"}`)))
	})
}

func mustLT(t *testing.T, s string) models.LocalTime {
	t.Helper()
	v, err := models.ParseLocalTime(s, time.Local)
	require.NoError(t, err)
	return v
}
