// Package suggest produces mutations from pattern insights and smart
// suggestions. Unlike conflict resolution, application here is strictly
// idempotent: an id already in the applied ledger never creates events
// again.
package suggest

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/marcusyeo/TimeButler/internal/models"
)

// Ledger records applied pattern/suggestion ids.
type Ledger = models.IDSet

// Pattern action names understood without an authored mutation.
const (
	ActionRecurringBlock = "create_recurring_block"
	ActionProtectTime    = "protect_time"
	ActionEnableShield   = "enable_shield"
	ActionEnableFeature  = "enable_restaurant_ai"

	ActionSuggestExercise = "suggest_exercise"
	ActionStudyBlock      = "create_study_block"
	ActionConfirmWeather  = "confirm_weather"
	ActionPermanentBlock  = "permanent_block"
)

type Engine struct {
	loc *time.Location
	// newID is swappable in tests.
	newID func() string
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		loc:   loc,
		newID: func() string { return uuid.NewString() },
	}
}

// ApplyPattern returns the mutation for a pattern insight and the updated
// ledger. An already-applied id is a hard no-op: nothing is recomputed and
// the ledger is returned unchanged.
func (e *Engine) ApplyPattern(p models.Pattern, led Ledger) (models.Mutation, Ledger) {
	if led.Has(p.ID) {
		return models.NoChange(), led
	}
	m := e.patternMutation(p)
	return m, led.With(p.ID)
}

func (e *Engine) patternMutation(p models.Pattern) models.Mutation {
	if p.Mutation != nil {
		return *p.Mutation
	}
	switch p.Action {
	case ActionEnableFeature:
		return models.Mutation{
			Kind:    models.MutationEnableFeature,
			Feature: "restaurant_ai",
			Message: "Restaurant suggestions enabled for weekend dinners",
		}
	default:
		log.Printf("suggest: pattern %s has no recipe for action %q, applying no change", p.ID, p.Action)
		return models.NoChange()
	}
}

// ApplySuggestion returns the mutation for a suggestion (with the chosen
// option, when the suggestion offers options) and the updated ledger.
func (e *Engine) ApplySuggestion(s models.Suggestion, option *models.SuggestionOption, led Ledger) (models.Mutation, Ledger, error) {
	if led.Has(s.ID) {
		return models.NoChange(), led, nil
	}
	m, err := e.suggestionMutation(s, option)
	if err != nil {
		return models.NoChange(), led, err
	}
	return m, led.With(s.ID), nil
}

func (e *Engine) suggestionMutation(s models.Suggestion, option *models.SuggestionOption) (models.Mutation, error) {
	if s.Mutation != nil {
		return *s.Mutation, nil
	}
	switch s.Action {
	case ActionSuggestExercise:
		if option == nil || option.Date == "" || option.Time == "" {
			return models.NoChange(), fmt.Errorf("suggestion %s: exercise slot needs a date and time", s.ID)
		}
		start, end, err := ParseClockRange(option.Time, option.Date, e.loc)
		if err != nil {
			return models.NoChange(), fmt.Errorf("suggestion %s: %w", s.ID, err)
		}
		ev := models.Event{
			ID:        "exercise_" + e.newID(),
			Title:     "Gym Session 💪",
			Start:     models.NewLocalTime(start),
			End:       models.NewLocalTime(end),
			Type:      models.TypePersonal,
			Notes:     "Scheduled via smart suggestion - " + option.Reason,
			CreatedBy: models.OriginSuggestion,
		}
		return models.Mutation{Kind: models.MutationCreateEvent, Event: &ev}, nil

	case ActionConfirmWeather:
		if s.TargetEvent != "" {
			return models.Mutation{
				Kind:    models.MutationUpdateEvent,
				EventID: s.TargetEvent,
				Patch: &models.EventPatch{
					Notes: models.StringPtr("Weather confirmed - everyone good to go"),
				},
			}, nil
		}
		return models.Mutation{Kind: models.MutationSendMessage, Message: s.AutoMessage}, nil

	case ActionPermanentBlock:
		if s.Block == nil || len(s.Block.Dates) == 0 {
			return models.NoChange(), fmt.Errorf("suggestion %s: permanent block needs block details", s.ID)
		}
		return e.blockEvents(s, *s.Block)

	default:
		// Option-carrying suggestions without a named recipe update a target
		// event in place (the restaurant flow), so applying never duplicates
		// the dinner it decides.
		if option != nil && s.TargetEvent != "" {
			return models.Mutation{
				Kind:    models.MutationUpdateEvent,
				EventID: s.TargetEvent,
				Patch: &models.EventPatch{
					Title:     models.StringPtr("Dinner at " + option.Name),
					Location:  models.StringPtr(option.Name),
					Notes:     models.StringPtr(option.Cuisine + " - " + option.Reason),
					CreatedBy: models.OriginPtr(models.OriginSuggestion),
				},
			}, nil
		}
		log.Printf("suggest: suggestion %s has no recipe for action %q, applying no change", s.ID, s.Action)
		return models.NoChange(), nil
	}
}

// blockEvents materializes one protected event per listed date.
func (e *Engine) blockEvents(s models.Suggestion, b models.BlockDetails) (models.Mutation, error) {
	batch := e.newID()
	events := make([]models.Event, 0, len(b.Dates))
	for i, date := range b.Dates {
		day, err := time.ParseInLocation(models.DateLayout, date, e.loc)
		if err != nil {
			return models.NoChange(), fmt.Errorf("suggestion %s: block date %q: %w", s.ID, date, err)
		}
		start, err := parse24(b.Start, day)
		if err != nil {
			return models.NoChange(), fmt.Errorf("suggestion %s: %w", s.ID, err)
		}
		end, err := parse24(b.End, day)
		if err != nil {
			return models.NoChange(), fmt.Errorf("suggestion %s: %w", s.ID, err)
		}
		events = append(events, models.Event{
			ID:        fmt.Sprintf("block_%s_%d", batch, i),
			Title:     b.Title,
			Start:     models.NewLocalTime(start),
			End:       models.NewLocalTime(end),
			Type:      models.TypePersonal,
			Protected: true,
			Notes:     b.Notes,
			CreatedBy: models.OriginSuggestion,
		})
	}
	return models.Mutation{Kind: models.MutationCreateEvents, Events: events}, nil
}
