package models

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

// TimeLayout is the wall-clock timestamp format used everywhere an event
// time crosses a serialization boundary (JSON snapshots, YAML seed data).
// Timestamps carry no zone; they are interpreted in the configured location.
const TimeLayout = "2006-01-02T15:04:05"

// DateLayout is the calendar-day format used for date bucketing.
const DateLayout = "2006-01-02"

// LocalTime is a wall-clock timestamp. It marshals as "2006-01-02T15:04:05"
// so snapshots stay byte-stable regardless of the host timezone.
type LocalTime struct {
	time.Time
}

// decodeLoc is the zone every deserialized timestamp resolves in. Decoded
// fixtures, restored snapshots and engine-created times must agree on one
// zone; otherwise same-day wall-clock overlaps compare as disjoint instants.
var decodeLoc atomic.Pointer[time.Location]

func init() {
	decodeLoc.Store(time.Local)
}

// SetLocation fixes the zone used to decode wire-format timestamps. Call at
// startup with the configured timezone, before any seed data or snapshot is
// decoded.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	decodeLoc.Store(loc)
}

// DecodeLocation returns the zone wire-format timestamps decode in.
func DecodeLocation() *time.Location {
	return decodeLoc.Load()
}

func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

// ParseLocalTime parses a wall-clock timestamp in the given location, or the
// configured decode location when loc is nil.
func ParseLocalTime(s string, loc *time.Location) (LocalTime, error) {
	if loc == nil {
		loc = DecodeLocation()
	}
	t, err := time.ParseInLocation(TimeLayout, s, loc)
	if err != nil {
		return LocalTime{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return LocalTime{Time: t}, nil
}

// DateKey returns the calendar-day bucket (YYYY-MM-DD) of t. Every view that
// filters events by day must go through this to avoid bucketing drift.
func (t LocalTime) DateKey() string {
	return t.Format(DateLayout)
}

func (t LocalTime) String() string {
	return t.Format(TimeLayout)
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimeLayout) + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = LocalTime{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimeLayout, s, DecodeLocation())
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t LocalTime) MarshalYAML() (interface{}, error) {
	return t.Format(TimeLayout), nil
}

func (t *LocalTime) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimeLayout, s, DecodeLocation())
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
