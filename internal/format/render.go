// Package format renders events, conflicts and suggestions as the Markdown
// the bot sends to Telegram.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcusyeo/TimeButler/internal/models"
)

func clock(t models.LocalTime) string {
	return t.Format("3:04 PM")
}

// DayHeading renders "Monday, Oct 13" from a YYYY-MM-DD date.
func DayHeading(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, Jan 2")
}

func typeIcon(t models.EventType) string {
	switch t {
	case models.TypeWork:
		return "💼"
	case models.TypeFamily:
		return "👨‍👩‍👦"
	case models.TypePersonal:
		return "⭐"
	case models.TypeStudy:
		return "📚"
	}
	return "📌"
}

func severityIcon(s models.Severity) string {
	switch s {
	case models.SeverityHigh:
		return "🔴"
	case models.SeverityMedium:
		return "🟡"
	}
	return "🔵"
}

// Busyness buckets a day by event count, mirroring the calendar grid shading.
func Busyness(eventCount int) string {
	switch {
	case eventCount == 0:
		return "free"
	case eventCount == 1:
		return "light"
	case eventCount <= 2:
		return "moderate"
	case eventCount <= 4:
		return "busy"
	}
	return "very-busy"
}

// EventLine renders one agenda row.
func EventLine(e models.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s-%s %s", typeIcon(e.Type), clock(e.Start), clock(e.End), e.Title)
	if e.Protected {
		sb.WriteString(" 🔒")
	}
	if e.Recurring != models.RecurNone {
		fmt.Fprintf(&sb, " (%s)", e.Recurring)
	}
	return sb.String()
}

// Agenda renders a day's events with a busyness footer.
func Agenda(date string, events []models.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 **%s**\n\n", DayHeading(date))
	if len(events) == 0 {
		sb.WriteString("Nothing scheduled. Enjoy the open day!\n")
		return sb.String()
	}
	for _, e := range events {
		sb.WriteString(EventLine(e))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nDay load: %s (%d events)\n", Busyness(len(events)), len(events))
	return sb.String()
}

// Conflict renders one conflict with its numbered resolution options.
func Conflict(index int, c models.Conflict) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s **%d. %s**\n", severityIcon(c.Severity), index, c.Title)
	fmt.Fprintf(&sb, "📅 %s\n", DayHeading(c.Date))
	if c.Description != "" {
		fmt.Fprintf(&sb, "⚠️ %s\n", c.Description)
	}
	if c.Impact != "" {
		fmt.Fprintf(&sb, "💡 %s\n", c.Impact)
	}
	if c.Pattern != "" {
		fmt.Fprintf(&sb, "📊 %s\n", c.Pattern)
	}
	for i, r := range c.Resolutions {
		marker := "  "
		if r.Recommended {
			marker = "⭐"
		}
		fmt.Fprintf(&sb, "%s %d) %s\n", marker, i+1, r.Label)
	}
	return sb.String()
}

// ConflictList renders the active-conflict report the assistant sends.
func ConflictList(conflicts []models.Conflict) string {
	if len(conflicts) == 0 {
		return "✅ **Great news!** No conflicts detected in your schedule.\n\nYour calendar looks clean and well-organized."
	}
	var sb strings.Builder
	sb.WriteString("🚨 **Schedule Conflicts Detected**\n\n")
	for i, c := range conflicts {
		sb.WriteString(Conflict(i+1, c))
		sb.WriteString("\n")
	}
	sb.WriteString("Use /resolve <conflict> <option> to fix one.")
	return sb.String()
}

// Suggestion renders one smart suggestion with its numbered options.
func Suggestion(index int, s models.Suggestion) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💡 **%d. %s**\n%s\n", index, s.Title, s.Description)
	for i, o := range s.Options {
		name := o.Name
		if name == "" {
			name = fmt.Sprintf("%s %s", o.Date, o.Time)
		}
		fmt.Fprintf(&sb, "   %d) %s - %s\n", i+1, name, o.Reason)
	}
	if s.Impact != "" {
		fmt.Fprintf(&sb, "📈 %s\n", s.Impact)
	}
	return sb.String()
}

// Pattern renders one pattern insight card.
func Pattern(index int, p models.Pattern, applied bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧠 **%d. %s**\n%s\n", index, p.Title, p.Insight)
	if p.Prediction != "" {
		fmt.Fprintf(&sb, "🔮 %s\n", p.Prediction)
	}
	if p.Recommendation != "" {
		fmt.Fprintf(&sb, "💡 %s\n", p.Recommendation)
	}
	if applied {
		sb.WriteString("✅ Already applied\n")
	}
	return sb.String()
}
