package detect

import (
	"fmt"

	"github.com/marcusyeo/TimeButler/internal/models"
)

// generatedResolutions authors resolution options for a detected pair. Each
// option carries its mutation recipe as data so the applier never has to
// recognize specific conflicts.
func generatedResolutions(c models.Conflict, a, b models.Event) []models.Resolution {
	intr := intruderOf(a, b)
	other := a
	if other.ID == intr.ID {
		other = b
	}

	opts := []models.Resolution{
		rescheduleOption(c, intr, other),
		blockOption(c, other),
		{
			ID:        c.ID + ":decline",
			Label:     fmt.Sprintf("Decline %s", intr.Title),
			Action:    models.ActionDecline,
			Reasoning: "Drops the clashing commitments entirely",
			Mutation: &models.Mutation{
				Kind:     models.MutationRemoveEvents,
				EventIDs: append([]string(nil), c.Events...),
			},
		},
		{
			ID:        c.ID + ":accept",
			Label:     "Keep both as scheduled",
			Action:    models.ActionAccept,
			Reasoning: "Live with the overlap",
			Mutation:  &models.Mutation{Kind: models.MutationNoChange},
		},
	}
	return opts
}

// rescheduleOption moves the intruder clear of the other event: shorten it
// when it starts first, otherwise push it to start when the other ends.
func rescheduleOption(c models.Conflict, intr, other models.Event) models.Resolution {
	dur := intr.End.Sub(intr.Start.Time)
	patch := models.EventPatch{
		Notes: models.StringPtr(fmt.Sprintf("Rescheduled to clear %q", other.Title)),
	}
	var label string
	if intr.Start.Before(other.Start.Time) {
		patch.End = models.TimePtr(models.NewLocalTime(other.Start.Time))
		label = fmt.Sprintf("Shorten %s to end by %s", intr.Title, other.Start.Format("3:04 PM"))
	} else {
		newStart := other.End.Time
		patch.Start = models.TimePtr(models.NewLocalTime(newStart))
		patch.End = models.TimePtr(models.NewLocalTime(newStart.Add(dur)))
		label = fmt.Sprintf("Move %s to %s", intr.Title, newStart.Format("3:04 PM"))
	}
	return models.Resolution{
		ID:          c.ID + ":reschedule",
		Label:       label,
		Action:      models.ActionReschedule,
		Reasoning:   "Keeps both commitments, removes the overlap",
		Recommended: true,
		Mutation: &models.Mutation{
			Kind:    models.MutationUpdateEvent,
			EventID: intr.ID,
			Patch:   &patch,
		},
	}
}

// blockOption converts the defended event into a recurring protected block.
// Personal time recurs daily (the coffee-break shape); everything else
// weekly.
func blockOption(c models.Conflict, target models.Event) models.Resolution {
	recur := models.RecurWeekly
	if target.Type == models.TypePersonal {
		recur = models.RecurDaily
	}
	return models.Resolution{
		ID:        c.ID + ":block",
		Label:     fmt.Sprintf("Protect %s permanently", target.Title),
		Action:    models.ActionPermanentBlock,
		Reasoning: "Prevents this clash from recurring",
		Impact:    fmt.Sprintf("Calendar shows %s as busy on a %s cadence", target.Title, recur),
		Mutation: &models.Mutation{
			Kind:    models.MutationUpdateEvent,
			EventID: target.ID,
			Patch: &models.EventPatch{
				Protected: models.BoolPtr(true),
				Recurring: models.RecurPtr(recur),
				Notes:     models.StringPtr("Protected time - no meetings allowed"),
			},
		},
	}
}
