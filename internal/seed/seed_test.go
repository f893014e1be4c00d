package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcusyeo/TimeButler/internal/models"
)

func TestLoad(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	assert.Len(t, d.Events, 23)
	assert.Len(t, d.Conflicts, 3)
	assert.Len(t, d.Patterns, 4)
	assert.Len(t, d.Suggestions, 5)
}

func TestLoadEvents(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	byID := map[string]models.Event{}
	for _, e := range d.Events {
		require.NoError(t, e.Validate())
		byID[e.ID] = e
	}

	t.Run("DefaultsCreatedByToSeed", func(t *testing.T) {
		assert.Equal(t, models.OriginSeed, byID["e1"].CreatedBy)
	})

	t.Run("MondayCrunchPair", func(t *testing.T) {
		boss := byID["e4"]
		dinner := byID["e5"]
		assert.Equal(t, "2025-10-13T18:00:00", boss.Start.String())
		assert.True(t, boss.Tentative)
		assert.Equal(t, models.RecurWeekly, dinner.Recurring)
		assert.True(t, boss.Overlaps(dinner))
	})

	t.Run("CoffeeBreaksAreProtected", func(t *testing.T) {
		for _, id := range []string{"e3", "e8", "e11", "e15"} {
			assert.True(t, byID[id].Protected, id)
		}
	})
}

func TestLoadConflicts(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	byID := map[string]models.Conflict{}
	for _, c := range d.Conflicts {
		byID[c.ID] = c
		assert.Equal(t, models.SourceCatalog, c.Source)
		assert.GreaterOrEqual(t, len(c.Events), 2)
	}

	t.Run("MondayCrunchOptions", func(t *testing.T) {
		c1 := byID["c1"]
		require.Len(t, c1.Resolutions, 4)

		r1 := c1.Resolutions[0]
		assert.Equal(t, "r1", r1.ID)
		require.NotNil(t, r1.Mutation, "reschedule carries its recipe")
		assert.Equal(t, models.MutationUpdateEvent, r1.Mutation.Kind)
		assert.Equal(t, "e4", r1.Mutation.EventID)
		assert.Equal(t, "2025-10-13T16:30:00", r1.Mutation.Patch.Start.String())

		r3 := c1.Resolutions[2]
		assert.Equal(t, models.ActionDecline, r3.Action)
		assert.Nil(t, r3.Mutation, "decline relies on the synthesized removal")
	})

	t.Run("WeekendJamIsCatalogOnly", func(t *testing.T) {
		c3 := byID["c3"]
		assert.Len(t, c3.Events, 3)
		assert.Equal(t, models.SeverityLow, c3.Severity)
		last := c3.Resolutions[len(c3.Resolutions)-1]
		assert.Equal(t, models.ActionAccept, last.Action)
	})
}

func TestLoadSuggestions(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	byID := map[string]models.Suggestion{}
	for _, s := range d.Suggestions {
		byID[s.ID] = s
	}

	assert.Equal(t, "e20", byID["s1"].TargetEvent)
	assert.Len(t, byID["s1"].Options, 3)
	assert.Len(t, byID["s2"].Options, 2)
	require.NotNil(t, byID["s5"].Block)
	assert.Len(t, byID["s5"].Block.Dates, 5)
	require.NotNil(t, byID["s4"].Mutation)
	assert.Equal(t, models.MutationCreateEvent, byID["s4"].Mutation.Kind)
}
