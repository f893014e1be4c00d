package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcusyeo/TimeButler/internal/models"
)

func ev(t *testing.T, id, start, end string, rec models.Recurrence) models.Event {
	t.Helper()
	s, err := models.ParseLocalTime(start, time.UTC)
	require.NoError(t, err)
	e, err := models.ParseLocalTime(end, time.UTC)
	require.NoError(t, err)
	return models.Event{ID: id, Title: id, Start: s, End: e, Type: models.TypeWork, Recurring: rec}
}

func TestOccurrences(t *testing.T) {
	from := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 26, 23, 59, 59, 0, time.UTC)

	t.Run("NonRecurringOutsideWindow", func(t *testing.T) {
		e := ev(t, "once", "2025-10-13T09:00:00", "2025-10-13T10:00:00", models.RecurNone)
		occs, err := Occurrences(e, from, to)
		require.NoError(t, err)
		assert.Empty(t, occs)
	})

	t.Run("WeeklyLandsOncePerWeek", func(t *testing.T) {
		e := ev(t, "sync", "2025-10-13T09:00:00", "2025-10-13T10:00:00", models.RecurWeekly)
		occs, err := Occurrences(e, from, to)
		require.NoError(t, err)
		require.Len(t, occs, 1)
		assert.Equal(t, time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC), occs[0])
	})

	t.Run("DailyLandsEveryDay", func(t *testing.T) {
		e := ev(t, "coffee", "2025-10-15T15:30:00", "2025-10-15T16:00:00", models.RecurDaily)
		occs, err := Occurrences(e, from, to)
		require.NoError(t, err)
		assert.Len(t, occs, 7)
	})
}

func TestProjectDay(t *testing.T) {
	events := []models.Event{
		ev(t, "sync", "2025-10-13T09:00:00", "2025-10-13T10:00:00", models.RecurWeekly),
		ev(t, "once", "2025-10-20T14:00:00", "2025-10-20T15:00:00", models.RecurNone),
		ev(t, "later", "2025-10-27T09:00:00", "2025-10-27T10:00:00", models.RecurNone),
	}

	out, err := ProjectDay(events, "2025-10-20", time.UTC)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byID := map[string]models.Event{}
	for _, e := range out {
		byID[e.ID] = e
	}

	t.Run("SameDayEventKeptAsIs", func(t *testing.T) {
		e, ok := byID["once"]
		require.True(t, ok)
		assert.Equal(t, "2025-10-20T14:00:00", e.Start.String())
	})

	t.Run("RecurringEventProjectedWithDerivedID", func(t *testing.T) {
		e, ok := byID["sync@2025-10-20"]
		require.True(t, ok)
		assert.Equal(t, "2025-10-20T09:00:00", e.Start.String())
		assert.Equal(t, "2025-10-20T10:00:00", e.End.String(), "duration preserved")
	})

	t.Run("FutureNonRecurringExcluded", func(t *testing.T) {
		_, ok := byID["later"]
		assert.False(t, ok)
	})

	t.Run("NoProjectionBeforeDtstart", func(t *testing.T) {
		out, err := ProjectDay(events, "2025-10-06", time.UTC)
		require.NoError(t, err)
		assert.Empty(t, out, "a weekly event does not project before it first exists")
	})

	t.Run("BadDate", func(t *testing.T) {
		_, err := ProjectDay(events, "Oct 20", time.UTC)
		assert.Error(t, err)
	})
}
