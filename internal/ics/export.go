// Package ics exports the calendar as an iCalendar feed so the schedule can
// be pulled into any standard calendar client.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/marcusyeo/TimeButler/internal/models"
)

const prodID = "-//TimeButler//Calendar Export//EN"

// Export serializes the event set as a VCALENDAR. Recurring events carry an
// RRULE instead of being expanded, so the consuming client does the
// projection.
func Export(events []models.Event, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	now := time.Now().In(loc)
	for _, e := range events {
		ve := cal.AddEvent(e.ID + "@timebutler")
		ve.SetDtStampTime(now)
		ve.SetStartAt(e.Start.In(loc))
		ve.SetEndAt(e.End.In(loc))
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Notes != "" {
			ve.SetDescription(e.Notes)
		}
		if rule, ok := rruleFor(e.Recurring); ok {
			ve.AddRrule(rule)
		}
		if e.Protected {
			// Protected blocks export as opaque busy time.
			ve.SetTimeTransparency(ical.TransparencyOpaque)
		}
	}
	return cal.Serialize(), nil
}

func rruleFor(r models.Recurrence) (string, bool) {
	switch r {
	case models.RecurDaily:
		return "FREQ=DAILY", true
	case models.RecurWeekly:
		return "FREQ=WEEKLY", true
	case models.RecurMonthly:
		return "FREQ=MONTHLY", true
	}
	return "", false
}

// Filename names the attachment the bot sends.
func Filename(now time.Time) string {
	return fmt.Sprintf("timebutler-%s.ics", now.Format("20060102"))
}
