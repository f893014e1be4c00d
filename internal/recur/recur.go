// Package recur maps the coarse recurring hint on events onto RFC 5545
// rules and projects occurrences onto future days, so recurring protected
// blocks participate in detection beyond the day they were authored on.
package recur

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/marcusyeo/TimeButler/internal/models"
)

// occurrence cap per event, a safety limit against runaway expansion.
const maxOccurrences = 366

// RuleFor builds the recurrence rule for an event's cadence anchored at
// dtstart.
func RuleFor(rec models.Recurrence, dtstart time.Time) (*rrule.RRule, error) {
	var freq rrule.Frequency
	switch rec {
	case models.RecurDaily:
		freq = rrule.DAILY
	case models.RecurWeekly:
		freq = rrule.WEEKLY
	case models.RecurMonthly:
		freq = rrule.MONTHLY
	default:
		return nil, fmt.Errorf("recur: no rule for cadence %q", rec)
	}
	return rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: dtstart})
}

// Occurrences lists the start instants of e inside [from, to]. A
// non-recurring event contributes its own start when it falls in the window.
func Occurrences(e models.Event, from, to time.Time) ([]time.Time, error) {
	if e.Recurring == models.RecurNone {
		if !e.Start.Before(from) && !e.Start.After(to) {
			return []time.Time{e.Start.Time}, nil
		}
		return nil, nil
	}
	rule, err := RuleFor(e.Recurring, e.Start.Time)
	if err != nil {
		return nil, err
	}
	occs := rule.Between(from, to, true)
	if len(occs) > maxOccurrences {
		occs = occs[:maxOccurrences]
	}
	return occs, nil
}

// ProjectDay returns the events effective on a calendar day: events starting
// that day as-is, plus projected copies of recurring events whose cadence
// lands an occurrence there. Projected copies keep the source duration and
// get a derived id so they never collide with stored events.
func ProjectDay(events []models.Event, date string, loc *time.Location) ([]models.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("recur: project day %q: %w", date, err)
	}
	dayEnd := day.AddDate(0, 0, 1).Add(-time.Second)

	var out []models.Event
	for _, e := range events {
		if e.DateKey() == date {
			out = append(out, e)
			continue
		}
		if e.Recurring == models.RecurNone || e.Start.After(dayEnd) {
			continue
		}
		occs, err := Occurrences(e, day, dayEnd)
		if err != nil {
			return nil, err
		}
		dur := e.End.Sub(e.Start.Time)
		for _, occ := range occs {
			proj := e
			proj.ID = e.ID + "@" + date
			proj.Start = models.NewLocalTime(occ)
			proj.End = models.NewLocalTime(occ.Add(dur))
			out = append(out, proj)
		}
	}
	return out, nil
}
