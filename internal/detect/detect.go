// Package detect computes active conflicts from an event snapshot. Output is
// deterministic for a fixed snapshot: events are ordered by start time with
// ties broken by id, and conflict ids are derived from the events involved.
package detect

import (
	"fmt"
	"sort"
	"time"

	"github.com/marcusyeo/TimeButler/internal/models"
	"github.com/marcusyeo/TimeButler/internal/recur"
)

// Detector layers an authored conflict catalog on top of the generic
// interval scan. The catalog is seed/demo content; the scan is the source
// of truth.
type Detector struct {
	catalog []models.Conflict
}

func New(catalog ...models.Conflict) *Detector {
	return &Detector{catalog: catalog}
}

// Detect returns the active conflicts for the snapshot, excluding any whose
// id is already in the resolution ledger. Catalog entries are active while
// every event they reference still exists; detected pairs covered by an
// active catalog entry are suppressed so the same clash is not reported
// twice.
func (d *Detector) Detect(events []models.Event, resolved models.IDSet) []models.Conflict {
	byID := make(map[string]models.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	var out []models.Conflict
	for _, c := range d.catalog {
		if resolved.Has(c.ID) {
			continue
		}
		present := true
		for _, id := range c.Events {
			if _, ok := byID[id]; !ok {
				present = false
				break
			}
		}
		if present {
			out = append(out, c)
		}
	}

	for _, pair := range OverlapPairs(events) {
		if coveredByCatalog(out, pair) {
			continue
		}
		c := pairConflict(pair[0], pair[1])
		if resolved.Has(c.ID) {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// DetectForDate scopes detection to one calendar day, projecting recurring
// events onto it first so a recurring protected block defends future days.
func (d *Detector) DetectForDate(events []models.Event, date string, loc *time.Location, resolved models.IDSet) ([]models.Conflict, error) {
	day, err := recur.ProjectDay(events, date, loc)
	if err != nil {
		return nil, err
	}
	return d.Detect(day, resolved), nil
}

// OverlapPairs runs the generic scan: sort by start (ties by id), then for
// each event walk forward while the next start precedes the current end.
// Strict overlap only; back-to-back events sharing an instant never pair.
// A protected event can appear in several pairs at once.
func OverlapPairs(events []models.Event) [][2]models.Event {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start.Time) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Start.Before(sorted[j].Start.Time)
	})

	var pairs [][2]models.Event
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if !sorted[j].Start.Before(sorted[i].End.Time) {
				break
			}
			pairs = append(pairs, [2]models.Event{sorted[i], sorted[j]})
		}
	}
	return pairs
}

// PairID derives the stable conflict id for a detected pair.
func PairID(a, b models.Event) string {
	return "auto:" + a.ID + "+" + b.ID
}

func pairConflict(a, b models.Event) models.Conflict {
	c := models.Conflict{
		ID:       PairID(a, b),
		Date:     a.DateKey(),
		Events:   []string{a.ID, b.ID},
		Severity: pairSeverity(a, b),
		Source:   models.SourceDetected,
	}
	if p, ok := protectedOf(a, b); ok {
		c.Title = fmt.Sprintf("Protected time: %s", p.Title)
		c.Description = fmt.Sprintf("%q overlaps your protected %q", intruderOf(a, b).Title, p.Title)
		c.Impact = "Protected time is non-negotiable; any overlap needs a decision"
	} else {
		c.Title = fmt.Sprintf("%s overlaps %s", a.Title, b.Title)
		c.Description = fmt.Sprintf("%q (%s-%s) overlaps %q (%s-%s)",
			a.Title, a.Start.Format("15:04"), a.End.Format("15:04"),
			b.Title, b.Start.Format("15:04"), b.End.Format("15:04"))
		c.Impact = "One of these commitments has to move"
	}
	c.Resolutions = generatedResolutions(c, a, b)
	return c
}

// pairSeverity: protected violations are always high; clashes across life
// areas rank above clashes within one.
func pairSeverity(a, b models.Event) models.Severity {
	if a.Protected || b.Protected {
		return models.SeverityHigh
	}
	if a.Type != b.Type {
		return models.SeverityMedium
	}
	return models.SeverityLow
}

func protectedOf(a, b models.Event) (models.Event, bool) {
	if a.Protected && !b.Protected {
		return a, true
	}
	if b.Protected && !a.Protected {
		return b, true
	}
	return models.Event{}, false
}

// intruderOf picks the event a generated resolution will move: the
// non-protected one when exactly one side is protected, otherwise the
// later-starting one.
func intruderOf(a, b models.Event) models.Event {
	if p, ok := protectedOf(a, b); ok {
		if p.ID == a.ID {
			return b
		}
		return a
	}
	return b
}

func coveredByCatalog(active []models.Conflict, pair [2]models.Event) bool {
	for _, c := range active {
		if c.Source != models.SourceCatalog {
			continue
		}
		if c.Involves(pair[0].ID) && c.Involves(pair[1].ID) {
			return true
		}
	}
	return false
}
