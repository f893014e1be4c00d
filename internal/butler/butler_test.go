package butler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcusyeo/TimeButler/internal/models"
	"github.com/marcusyeo/TimeButler/internal/seed"
	"github.com/marcusyeo/TimeButler/internal/state"
)

func newSeeded(t *testing.T, st *state.Store) *Butler {
	t.Helper()
	data, err := seed.Load()
	require.NoError(t, err)
	b, err := New(Options{
		Events:      data.Events,
		Catalog:     data.Conflicts,
		Patterns:    data.Patterns,
		Suggestions: data.Suggestions,
		State:       st,
		Location:    time.Local,
	})
	require.NoError(t, err)
	return b
}

func openState(t *testing.T) *state.Store {
	t.Helper()
	st, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func conflictIDs(b *Butler) []string {
	var ids []string
	for _, c := range b.ActiveConflicts() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSeededConflicts(t *testing.T) {
	b := newSeeded(t, nil)
	ids := conflictIDs(b)
	assert.Contains(t, ids, "c1")
	assert.Contains(t, ids, "c2")
	assert.Contains(t, ids, "c3")
	// the detected pairs behind c1 and c2 are suppressed by the catalog
	assert.NotContains(t, ids, "auto:e4+e5")
	assert.NotContains(t, ids, "auto:e12+e11")
}

func TestResolveMovesBossMeeting(t *testing.T) {
	b := newSeeded(t, nil)

	r, err := b.Resolve("c1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "Move boss meeting to 4:30pm", r.Label)

	ids := conflictIDs(b)
	assert.NotContains(t, ids, "c1")

	var bossStart string
	for _, e := range b.Events() {
		if e.ID == "e4" {
			bossStart = e.Start.String()
		}
	}
	assert.Equal(t, "2025-10-13T16:30:00", bossStart)

	t.Run("ReResolveFails", func(t *testing.T) {
		_, err := b.Resolve("c1", "r1")
		assert.ErrorIs(t, err, ErrUnknownConflict, "a ledgered conflict is no longer active")
	})

	t.Run("UnknownResolution", func(t *testing.T) {
		_, err := b.Resolve("c2", "r999")
		assert.ErrorIs(t, err, ErrUnknownResolution)
	})
}

func TestResolveDeclineRemovesEvents(t *testing.T) {
	b := newSeeded(t, nil)
	before := len(b.Events())

	_, err := b.Resolve("c1", "r3")
	require.NoError(t, err)

	assert.Equal(t, before-2, len(b.Events()), "decline drops exactly e4 and e5")
	assert.NotContains(t, conflictIDs(b), "c1")
}

func TestApplySuggestionLifecycle(t *testing.T) {
	b := newSeeded(t, nil)

	t.Run("RestaurantOptionUpdatesDinner", func(t *testing.T) {
		m, err := b.ApplySuggestion("s1", 0)
		require.NoError(t, err)
		assert.False(t, m.IsNoChange())

		var title string
		for _, e := range b.Events() {
			if e.ID == "e20" {
				title = e.Title
			}
		}
		assert.Equal(t, "Dinner at Nami", title)
	})

	t.Run("AppliedSuggestionDisappears", func(t *testing.T) {
		for _, s := range b.Suggestions() {
			assert.NotEqual(t, "s1", s.ID)
		}
	})

	t.Run("ReApplyIsNoOp", func(t *testing.T) {
		m, err := b.ApplySuggestion("s1", 1)
		require.NoError(t, err)
		assert.True(t, m.IsNoChange())
	})

	t.Run("OptionRequired", func(t *testing.T) {
		_, err := b.ApplySuggestion("s2", 5)
		assert.Error(t, err)
	})
}

func TestApplyPatternIdempotence(t *testing.T) {
	b := newSeeded(t, nil)
	before := len(b.Events())

	m, err := b.ApplyPattern("p2")
	require.NoError(t, err)
	require.Len(t, m.Events, 2)
	assert.Equal(t, before+2, len(b.Events()))

	m2, err := b.ApplyPattern("p2")
	require.NoError(t, err)
	assert.True(t, m2.IsNoChange())
	assert.Equal(t, before+2, len(b.Events()), "re-applying never re-creates events")
}

func TestPatternEnablesFeature(t *testing.T) {
	b := newSeeded(t, nil)
	assert.False(t, b.FeatureEnabled("restaurant_ai"))

	_, err := b.ApplyPattern("p4")
	require.NoError(t, err)
	assert.True(t, b.FeatureEnabled("restaurant_ai"))
}

func TestPersistenceAcrossRestart(t *testing.T) {
	st := openState(t)

	b := newSeeded(t, st)
	_, err := b.Resolve("c1", "r1")
	require.NoError(t, err)
	_, err = b.ApplyPattern("p2")
	require.NoError(t, err)
	_, err = b.Subscribe(42)
	require.NoError(t, err)

	// a second Butler over the same state store restores, not reseeds
	b2 := newSeeded(t, st)
	assert.NotContains(t, conflictIDs(b2), "c1")
	assert.Equal(t, []int64{42}, b2.Subscribers())

	var bossStart string
	for _, e := range b2.Events() {
		if e.ID == "e4" {
			bossStart = e.Start.String()
		}
	}
	assert.Equal(t, "2025-10-13T16:30:00", bossStart)

	m, err := b2.ApplyPattern("p2")
	require.NoError(t, err)
	assert.True(t, m.IsNoChange(), "applied-pattern ledger survived the restart")
}

func TestConnectApps(t *testing.T) {
	st := openState(t)
	b := newSeeded(t, st)

	t.Run("UnknownApp", func(t *testing.T) {
		_, err := b.Connect("fitbit")
		assert.ErrorIs(t, err, ErrUnknownApp)
	})

	t.Run("ConnectOnce", func(t *testing.T) {
		fresh, err := b.Connect("google")
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = b.Connect("google")
		require.NoError(t, err)
		assert.False(t, fresh, "second connect reports already linked")
	})

	t.Run("StatusListsEveryApp", func(t *testing.T) {
		status := b.ConnectedApps()
		assert.True(t, status["google"])
		assert.False(t, status["whatsapp"])
	})

	t.Run("SurvivesRestart", func(t *testing.T) {
		b2 := newSeeded(t, st)
		assert.True(t, b2.ConnectedApps()["google"])
	})

	t.Run("ClearedByReset", func(t *testing.T) {
		require.NoError(t, b.Reset())
		assert.False(t, b.ConnectedApps()["google"])
	})
}

func TestReset(t *testing.T) {
	st := openState(t)
	b := newSeeded(t, st)

	_, err := b.Resolve("c1", "r3")
	require.NoError(t, err)
	_, err = b.Subscribe(42)
	require.NoError(t, err)

	require.NoError(t, b.Reset())

	assert.Contains(t, conflictIDs(b), "c1", "reset reactivates catalog conflicts")
	assert.Len(t, b.Events(), 23)
	assert.Equal(t, []int64{42}, b.Subscribers(), "subscriptions survive a calendar reset")
}

func TestConflictsForDateProjectsRecurring(t *testing.T) {
	b := newSeeded(t, nil)

	// promote the Wednesday coffee break to a daily protected block
	_, err := b.Resolve("c2", "r7")
	require.NoError(t, err)

	// a week later, a meeting booked over the projected block must conflict
	start, err := models.ParseLocalTime("2025-10-22T15:00:00", time.Local)
	require.NoError(t, err)
	end, err := models.ParseLocalTime("2025-10-22T16:30:00", time.Local)
	require.NoError(t, err)
	require.NoError(t, b.CreateEvent(models.Event{
		ID:    "late_meeting",
		Title: "Late Meeting",
		Start: start,
		End:   end,
		Type:  models.TypeWork,
	}))

	conflicts, err := b.ConflictsForDate("2025-10-22")
	require.NoError(t, err)

	found := false
	for _, c := range conflicts {
		if c.Involves("late_meeting") && c.Involves("e11@2025-10-22") {
			found = true
			assert.Equal(t, "high", string(c.Severity))
		}
	}
	assert.True(t, found, "recurring protected block defends future days")
}
