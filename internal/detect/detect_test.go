package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcusyeo/TimeButler/internal/models"
)

func ev(t *testing.T, id, start, end string, typ models.EventType, protected bool) models.Event {
	t.Helper()
	s, err := models.ParseLocalTime(start, time.Local)
	require.NoError(t, err)
	e, err := models.ParseLocalTime(end, time.Local)
	require.NoError(t, err)
	return models.Event{ID: id, Title: id, Start: s, End: e, Type: typ, Protected: protected}
}

func conflictIDs(conflicts []models.Conflict) []string {
	ids := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestOverlapPairs(t *testing.T) {
	t.Run("BackToBackNeverPairs", func(t *testing.T) {
		pairs := OverlapPairs([]models.Event{
			ev(t, "a", "2025-10-13T09:00:00", "2025-10-13T10:00:00", models.TypeWork, false),
			ev(t, "b", "2025-10-13T10:00:00", "2025-10-13T11:00:00", models.TypeWork, false),
		})
		assert.Empty(t, pairs)
	})

	t.Run("TripleOverlapYieldsEveryPair", func(t *testing.T) {
		// one long meeting swallowing two shorter ones
		pairs := OverlapPairs([]models.Event{
			ev(t, "long", "2025-10-13T09:00:00", "2025-10-13T12:00:00", models.TypeWork, false),
			ev(t, "mid", "2025-10-13T09:30:00", "2025-10-13T10:30:00", models.TypeWork, false),
			ev(t, "late", "2025-10-13T10:00:00", "2025-10-13T11:00:00", models.TypeWork, false),
		})
		require.Len(t, pairs, 3)
		assert.Equal(t, "long", pairs[0][0].ID)
		assert.Equal(t, "mid", pairs[0][1].ID)
		assert.Equal(t, "long", pairs[1][0].ID)
		assert.Equal(t, "late", pairs[1][1].ID)
		assert.Equal(t, "mid", pairs[2][0].ID)
		assert.Equal(t, "late", pairs[2][1].ID)
	})

	t.Run("OrderIndependence", func(t *testing.T) {
		a := ev(t, "a", "2025-10-13T18:00:00", "2025-10-13T19:00:00", models.TypeWork, false)
		b := ev(t, "b", "2025-10-13T18:30:00", "2025-10-13T19:30:00", models.TypeFamily, false)
		c := ev(t, "c", "2025-10-13T07:00:00", "2025-10-13T08:00:00", models.TypePersonal, false)

		forward := OverlapPairs([]models.Event{a, b, c})
		backward := OverlapPairs([]models.Event{c, b, a})
		assert.Equal(t, forward, backward)
	})
}

func TestDetectSeverity(t *testing.T) {
	d := New()

	t.Run("ProtectedIsHigh", func(t *testing.T) {
		out := d.Detect([]models.Event{
			ev(t, "coffee", "2025-10-15T15:30:00", "2025-10-15T16:00:00", models.TypePersonal, true),
			ev(t, "meeting", "2025-10-15T15:00:00", "2025-10-15T16:30:00", models.TypeWork, false),
		}, models.IDSet{})
		require.Len(t, out, 1)
		assert.Equal(t, models.SeverityHigh, out[0].Severity)
		assert.Contains(t, out[0].Title, "Protected time")
	})

	t.Run("CrossTypeIsMedium", func(t *testing.T) {
		out := d.Detect([]models.Event{
			ev(t, "boss", "2025-10-13T18:00:00", "2025-10-13T19:00:00", models.TypeWork, false),
			ev(t, "dinner", "2025-10-13T18:30:00", "2025-10-13T19:30:00", models.TypeFamily, false),
		}, models.IDSet{})
		require.Len(t, out, 1)
		assert.Equal(t, models.SeverityMedium, out[0].Severity)
	})

	t.Run("SameTypeIsLow", func(t *testing.T) {
		out := d.Detect([]models.Event{
			ev(t, "m1", "2025-10-13T09:00:00", "2025-10-13T10:00:00", models.TypeWork, false),
			ev(t, "m2", "2025-10-13T09:30:00", "2025-10-13T10:30:00", models.TypeWork, false),
		}, models.IDSet{})
		require.Len(t, out, 1)
		assert.Equal(t, models.SeverityLow, out[0].Severity)
	})
}

func TestDetectDeterministicIDs(t *testing.T) {
	d := New()
	events := []models.Event{
		ev(t, "boss", "2025-10-13T18:00:00", "2025-10-13T19:00:00", models.TypeWork, false),
		ev(t, "dinner", "2025-10-13T18:30:00", "2025-10-13T19:30:00", models.TypeFamily, false),
	}
	first := d.Detect(events, models.IDSet{})
	second := d.Detect([]models.Event{events[1], events[0]}, models.IDSet{})

	require.Len(t, first, 1)
	assert.Equal(t, "auto:boss+dinner", first[0].ID)
	assert.Equal(t, conflictIDs(first), conflictIDs(second), "same snapshot, same output, any input order")
}

func TestDetectLedgerExclusion(t *testing.T) {
	d := New()
	events := []models.Event{
		ev(t, "boss", "2025-10-13T18:00:00", "2025-10-13T19:00:00", models.TypeWork, false),
		ev(t, "dinner", "2025-10-13T18:30:00", "2025-10-13T19:30:00", models.TypeFamily, false),
	}
	resolved := models.NewIDSet("auto:boss+dinner")
	assert.Empty(t, d.Detect(events, resolved))
}

func TestDetectCatalog(t *testing.T) {
	catalog := models.Conflict{
		ID:       "c1",
		Title:    "Monday Evening Crunch",
		Severity: models.SeverityHigh,
		Date:     "2025-10-13",
		Events:   []string{"boss", "dinner"},
		Source:   models.SourceCatalog,
	}
	d := New(catalog)
	events := []models.Event{
		ev(t, "boss", "2025-10-13T18:00:00", "2025-10-13T19:00:00", models.TypeWork, false),
		ev(t, "dinner", "2025-10-13T18:30:00", "2025-10-13T19:30:00", models.TypeFamily, false),
	}

	t.Run("CatalogSuppressesDetectedPair", func(t *testing.T) {
		out := d.Detect(events, models.IDSet{})
		assert.Equal(t, []string{"c1"}, conflictIDs(out))
	})

	t.Run("ResolvedCatalogUnmasksNothingWhenPairResolvedToo", func(t *testing.T) {
		out := d.Detect(events, models.NewIDSet("c1", "auto:boss+dinner"))
		assert.Empty(t, out)
	})

	t.Run("CatalogGoesInactiveWhenEventRemoved", func(t *testing.T) {
		out := d.Detect(events[:1], models.IDSet{})
		assert.Empty(t, out, "a catalog conflict missing a referenced event is inactive")
	})
}

func TestGeneratedResolutions(t *testing.T) {
	d := New()
	out := d.Detect([]models.Event{
		ev(t, "coffee", "2025-10-15T15:30:00", "2025-10-15T16:00:00", models.TypePersonal, true),
		ev(t, "meeting", "2025-10-15T15:00:00", "2025-10-15T16:30:00", models.TypeWork, false),
	}, models.IDSet{})
	require.Len(t, out, 1)
	c := out[0]
	require.Len(t, c.Resolutions, 4)

	t.Run("RescheduleTargetsIntruder", func(t *testing.T) {
		r := c.Resolutions[0]
		assert.Equal(t, models.ActionReschedule, r.Action)
		assert.True(t, r.Recommended)
		require.NotNil(t, r.Mutation)
		assert.Equal(t, models.MutationUpdateEvent, r.Mutation.Kind)
		assert.Equal(t, "meeting", r.Mutation.EventID, "the non-protected event moves")
	})

	t.Run("DeclineRemovesExactlyTheConflictEvents", func(t *testing.T) {
		var decline *models.Resolution
		for i := range c.Resolutions {
			if c.Resolutions[i].Action == models.ActionDecline {
				decline = &c.Resolutions[i]
			}
		}
		require.NotNil(t, decline)
		require.NotNil(t, decline.Mutation)
		assert.ElementsMatch(t, c.Events, decline.Mutation.EventIDs)
	})

	t.Run("AcceptIsNoChange", func(t *testing.T) {
		last := c.Resolutions[len(c.Resolutions)-1]
		assert.Equal(t, models.ActionAccept, last.Action)
		require.NotNil(t, last.Mutation)
		assert.True(t, last.Mutation.IsNoChange())
	})
}

func TestDetectForDate(t *testing.T) {
	d := New()
	weekly := ev(t, "standup", "2025-10-13T09:00:00", "2025-10-13T09:30:00", models.TypeWork, true)
	weekly.Recurring = models.RecurWeekly
	intruder := ev(t, "review", "2025-10-20T09:15:00", "2025-10-20T10:00:00", models.TypeWork, false)

	t.Run("RecurringProjectionConflicts", func(t *testing.T) {
		conflicts, err := d.DetectForDate([]models.Event{weekly, intruder}, "2025-10-20", time.Local, models.IDSet{})
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.True(t, conflicts[0].Involves("standup@2025-10-20"))
		assert.True(t, conflicts[0].Involves("review"))
	})

	t.Run("QuietDay", func(t *testing.T) {
		conflicts, err := d.DetectForDate([]models.Event{weekly, intruder}, "2025-10-21", time.Local, models.IDSet{})
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("BadDate", func(t *testing.T) {
		_, err := d.DetectForDate([]models.Event{weekly}, "not-a-date", time.Local, models.IDSet{})
		assert.Error(t, err)
	})
}
