package models

import (
	"errors"
	"fmt"
)

// EventType classifies who an event is for.
type EventType string

const (
	TypeWork     EventType = "work"
	TypeFamily   EventType = "family"
	TypePersonal EventType = "personal"
	TypeStudy    EventType = "study"
)

// Recurrence is the coarse recurrence hint carried by demo events. It maps
// onto an RFC 5545 frequency in the recur package.
type Recurrence string

const (
	RecurNone    Recurrence = ""
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// Origin records which component created an event.
type Origin string

const (
	OriginSeed       Origin = "seed"
	OriginSystem     Origin = "system"
	OriginSuggestion Origin = "suggestion"
	OriginPattern    Origin = "pattern_insight"
	OriginUser       Origin = "user"
	OriginManual     Origin = "manual"
)

var (
	ErrEmptyID         = errors.New("event id is empty")
	ErrDuplicateID     = errors.New("event id already exists")
	ErrInvalidInterval = errors.New("event end must be after start")
)

// Event is a single calendar commitment. Conflict adjacency is never stored
// on the event; it is derived from intervals at detection time.
type Event struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Start     LocalTime  `json:"start" yaml:"start"`
	End       LocalTime  `json:"end" yaml:"end"`
	Type      EventType  `json:"type" yaml:"type"`
	Location  string     `json:"location,omitempty" yaml:"location,omitempty"`
	Protected bool       `json:"protected,omitempty" yaml:"protected,omitempty"`
	Recurring Recurrence `json:"recurring,omitempty" yaml:"recurring,omitempty"`
	Tentative bool       `json:"tentative,omitempty" yaml:"tentative,omitempty"`
	Priority  string     `json:"priority,omitempty" yaml:"priority,omitempty"`
	Notes     string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Attendees []string   `json:"attendees,omitempty" yaml:"attendees,omitempty"`
	AddedBy   string     `json:"addedBy,omitempty" yaml:"addedBy,omitempty"`
	CreatedBy Origin     `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
}

// Validate rejects events the detector cannot order.
func (e Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return fmt.Errorf("event %s: missing start or end: %w", e.ID, ErrInvalidInterval)
	}
	if !e.End.After(e.Start.Time) {
		return fmt.Errorf("event %s: %w", e.ID, ErrInvalidInterval)
	}
	return nil
}

// Overlaps reports strict interval overlap. Back-to-back events sharing an
// instant do not overlap.
func (e Event) Overlaps(other Event) bool {
	return e.Start.Before(other.End.Time) && other.Start.Before(e.End.Time)
}

// DateKey returns the calendar-day bucket of the event's start.
func (e Event) DateKey() string {
	return e.Start.DateKey()
}

// EventPatch is a partial update against an existing event. Nil fields are
// left untouched.
type EventPatch struct {
	Title     *string     `json:"title,omitempty" yaml:"title,omitempty"`
	Start     *LocalTime  `json:"start,omitempty" yaml:"start,omitempty"`
	End       *LocalTime  `json:"end,omitempty" yaml:"end,omitempty"`
	Type      *EventType  `json:"type,omitempty" yaml:"type,omitempty"`
	Location  *string     `json:"location,omitempty" yaml:"location,omitempty"`
	Protected *bool       `json:"protected,omitempty" yaml:"protected,omitempty"`
	Recurring *Recurrence `json:"recurring,omitempty" yaml:"recurring,omitempty"`
	Tentative *bool       `json:"tentative,omitempty" yaml:"tentative,omitempty"`
	Notes     *string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Attendees []string    `json:"attendees,omitempty" yaml:"attendees,omitempty"`
	CreatedBy *Origin     `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
}

// ApplyTo copies the set fields of the patch onto e.
func (p EventPatch) ApplyTo(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Protected != nil {
		e.Protected = *p.Protected
	}
	if p.Recurring != nil {
		e.Recurring = *p.Recurring
	}
	if p.Tentative != nil {
		e.Tentative = *p.Tentative
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.Attendees != nil {
		e.Attendees = p.Attendees
	}
	if p.CreatedBy != nil {
		e.CreatedBy = *p.CreatedBy
	}
}

// Helpers for building patches inline.

func StringPtr(s string) *string        { return &s }
func BoolPtr(b bool) *bool              { return &b }
func TimePtr(t LocalTime) *LocalTime    { return &t }
func TypePtr(t EventType) *EventType    { return &t }
func RecurPtr(r Recurrence) *Recurrence { return &r }
func OriginPtr(o Origin) *Origin        { return &o }
