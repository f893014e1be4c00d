package suggest

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcusyeo/TimeButler/internal/models"
)

// ParseClockRange converts a human-readable 12-hour range like
// "7:00 AM - 8:00 AM" plus a YYYY-MM-DD date into two wall-clock instants.
// Noon and midnight follow the 12-hour convention: "12:xx PM" stays hour 12,
// "12:xx AM" becomes hour 0.
func ParseClockRange(rangeStr, date string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	parts := strings.Split(rangeStr, " - ")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("clock range %q: want \"H:MM AM - H:MM PM\"", rangeStr)
	}
	day, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("clock range date %q: %w", date, err)
	}
	start, err := parseClock(parts[0], day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseClock(parts[1], day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("clock range %q: end is not after start", rangeStr)
	}
	return start, end, nil
}

func parseClock(s string, day time.Time) (time.Time, error) {
	t, err := time.Parse("3:04 PM", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("clock time %q: %w", s, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// parse24 reads a 24-hour "HH:MM" clock onto the given day; block details
// author their times this way.
func parse24(s string, day time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("clock time %q: %w", s, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
