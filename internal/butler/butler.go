// Package butler wires the scheduling core together: the event store, the
// conflict detector, the resolution applier, the suggestion/pattern engine
// and the ledgers, with snapshots persisted to the local state store after
// every mutation. All entry points are serialized through one mutex; the
// core is single-writer by design.
package butler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/marcusyeo/TimeButler/internal/detect"
	"github.com/marcusyeo/TimeButler/internal/models"
	"github.com/marcusyeo/TimeButler/internal/recur"
	"github.com/marcusyeo/TimeButler/internal/resolve"
	"github.com/marcusyeo/TimeButler/internal/state"
	"github.com/marcusyeo/TimeButler/internal/store"
	"github.com/marcusyeo/TimeButler/internal/suggest"
)

var (
	ErrUnknownConflict   = errors.New("unknown conflict")
	ErrUnknownResolution = errors.New("unknown resolution")
	ErrUnknownSuggestion = errors.New("unknown suggestion")
	ErrUnknownPattern    = errors.New("unknown pattern")
	ErrUnknownApp        = errors.New("unknown app")
)

// ConnectableApps lists the external apps /connect can link, in display
// order. Links are simulated; there is no OAuth or provider sync.
var ConnectableApps = []string{"google", "whatsapp"}

type Butler struct {
	mu sync.Mutex

	store    *store.EventStore
	detector *detect.Detector
	applier  *resolve.Applier
	engine   *suggest.Engine
	state    *state.Store
	loc      *time.Location

	seedEvents  []models.Event
	patterns    []models.Pattern
	suggestions []models.Suggestion

	resolved           resolve.Ledger
	appliedPatterns    suggest.Ledger
	appliedSuggestions suggest.Ledger
	features           map[string]bool
	subscribers        []int64
	connected          map[string]bool
}

// Options collects the seed content and infrastructure a Butler needs.
type Options struct {
	Events      []models.Event
	Catalog     []models.Conflict
	Patterns    []models.Pattern
	Suggestions []models.Suggestion
	State       *state.Store
	Notifier    resolve.Notifier
	Location    *time.Location
}

// New builds a Butler, restoring the event snapshot and ledgers from the
// state store when present and seeding otherwise.
func New(opts Options) (*Butler, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	b := &Butler{
		detector:    detect.New(opts.Catalog...),
		applier:     resolve.NewApplier(opts.Notifier),
		engine:      suggest.NewEngine(loc),
		state:       opts.State,
		loc:         loc,
		seedEvents:  opts.Events,
		patterns:    opts.Patterns,
		suggestions: opts.Suggestions,
		features:    map[string]bool{},
		connected:   map[string]bool{},
	}

	restored, err := b.restore()
	if err != nil {
		return nil, err
	}
	if !restored {
		st, err := store.NewWithEvents(opts.Events)
		if err != nil {
			return nil, fmt.Errorf("seed events: %w", err)
		}
		b.store = st
		if err := b.persist(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ActiveConflicts returns the conflicts still awaiting a decision, across
// the whole calendar.
func (b *Butler) ActiveConflicts() []models.Conflict {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.detector.Detect(b.store.ListAll(), b.resolved)
}

// ConflictsForDate scopes detection to one calendar day, with recurring
// events projected onto it so recurring protected blocks defend future days.
func (b *Butler) ConflictsForDate(date string) ([]models.Conflict, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.detector.DetectForDate(b.store.ListAll(), date, b.loc, b.resolved)
}

// Agenda returns the events effective on a day, recurring projections
// included.
func (b *Butler) Agenda(date string) ([]models.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return recur.ProjectDay(b.store.ListAll(), date, b.loc)
}

// Events returns the full ordered event set.
func (b *Butler) Events() []models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.ListAll()
}

// CreateEvent admits a user-authored event.
func (b *Butler) CreateEvent(e models.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.store.Create(e); err != nil {
		return err
	}
	return b.persist()
}

// Resolve applies the chosen resolution for a conflict and records it in
// the resolution ledger.
func (b *Butler) Resolve(conflictID, resolutionID string) (models.Resolution, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	conflicts := b.detector.Detect(b.store.ListAll(), b.resolved)
	var target *models.Conflict
	for i := range conflicts {
		if conflicts[i].ID == conflictID {
			target = &conflicts[i]
			break
		}
	}
	if target == nil {
		return models.Resolution{}, fmt.Errorf("%w: %s", ErrUnknownConflict, conflictID)
	}
	var chosen *models.Resolution
	for i := range target.Resolutions {
		if target.Resolutions[i].ID == resolutionID {
			chosen = &target.Resolutions[i]
			break
		}
	}
	if chosen == nil {
		return models.Resolution{}, fmt.Errorf("%w: %s", ErrUnknownResolution, resolutionID)
	}

	led, err := b.applier.ResolveConflict(b.store, *target, *chosen, b.resolved)
	if err != nil {
		return models.Resolution{}, err
	}
	b.resolved = led
	return *chosen, b.persist()
}

// Suggestions returns the suggestions not yet applied.
func (b *Butler) Suggestions() []models.Suggestion {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Suggestion
	for _, s := range b.suggestions {
		if !b.appliedSuggestions.Has(s.ID) {
			out = append(out, s)
		}
	}
	return out
}

// ApplySuggestion applies a suggestion (optionIndex selects among its
// options, -1 when it has none) at most once per id.
func (b *Butler) ApplySuggestion(suggestionID string, optionIndex int) (models.Mutation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var target *models.Suggestion
	for i := range b.suggestions {
		if b.suggestions[i].ID == suggestionID {
			target = &b.suggestions[i]
			break
		}
	}
	if target == nil {
		return models.NoChange(), fmt.Errorf("%w: %s", ErrUnknownSuggestion, suggestionID)
	}
	var option *models.SuggestionOption
	if optionIndex >= 0 {
		if optionIndex >= len(target.Options) {
			return models.NoChange(), fmt.Errorf("suggestion %s has no option %d", suggestionID, optionIndex+1)
		}
		option = &target.Options[optionIndex]
	}

	m, led, err := b.engine.ApplySuggestion(*target, option, b.appliedSuggestions)
	if err != nil {
		return models.NoChange(), err
	}
	if err := b.applyTracked(m); err != nil {
		return models.NoChange(), err
	}
	b.appliedSuggestions = led
	return m, b.persist()
}

// Patterns returns every pattern insight plus whether it was applied.
func (b *Butler) Patterns() ([]models.Pattern, suggest.Ledger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Pattern, len(b.patterns))
	copy(out, b.patterns)
	return out, b.appliedPatterns
}

// ApplyPattern applies a pattern insight. Re-applying an applied id is a
// no-op and never re-creates events.
func (b *Butler) ApplyPattern(patternID string) (models.Mutation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var target *models.Pattern
	for i := range b.patterns {
		if b.patterns[i].ID == patternID {
			target = &b.patterns[i]
			break
		}
	}
	if target == nil {
		return models.NoChange(), fmt.Errorf("%w: %s", ErrUnknownPattern, patternID)
	}

	m, led := b.engine.ApplyPattern(*target, b.appliedPatterns)
	if err := b.applyTracked(m); err != nil {
		return models.NoChange(), err
	}
	b.appliedPatterns = led
	return m, b.persist()
}

// Subscribe registers a chat for proactive messages (daily summary, event
// reminders). Reports whether the chat is new.
func (b *Butler) Subscribe(chatID int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.subscribers {
		if id == chatID {
			return false, nil
		}
	}
	b.subscribers = append(b.subscribers, chatID)
	return true, b.persistSubscribers()
}

// Subscribers returns the chats registered for proactive messages.
func (b *Butler) Subscribers() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int64, len(b.subscribers))
	copy(out, b.subscribers)
	return out
}

func (b *Butler) persistSubscribers() error {
	if b.state == nil {
		return nil
	}
	blob, err := json.Marshal(b.subscribers)
	if err != nil {
		return err
	}
	return b.state.Put(state.KeySubscribers, blob)
}

// Connect marks an external app as linked. The link is status only; nothing
// syncs. Reports whether the app was newly connected.
func (b *Butler) Connect(app string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	known := false
	for _, a := range ConnectableApps {
		if a == app {
			known = true
			break
		}
	}
	if !known {
		return false, ErrUnknownApp
	}
	if b.connected[app] {
		return false, nil
	}
	b.connected[app] = true
	return true, b.persistOnboarding()
}

// ConnectedApps reports the link status of every connectable app.
func (b *Butler) ConnectedApps() map[string]bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]bool, len(ConnectableApps))
	for _, a := range ConnectableApps {
		out[a] = b.connected[a]
	}
	return out
}

func (b *Butler) persistOnboarding() error {
	if b.state == nil {
		return nil
	}
	blob, err := json.Marshal(b.connected)
	if err != nil {
		return err
	}
	return b.state.Put(state.KeyOnboarding, blob)
}

// Do applies a mutation authored outside the conflict/suggestion flows,
// e.g. by an assistant quick action.
func (b *Butler) Do(m models.Mutation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.applyTracked(m); err != nil {
		return err
	}
	return b.persist()
}

// FeatureEnabled reports a feature toggle flipped by pattern application.
func (b *Butler) FeatureEnabled(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.features[name]
}

// Reset drops all process-lifetime state and reseeds the calendar.
func (b *Butler) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != nil {
		if err := b.state.Reset(); err != nil {
			return err
		}
	}
	st, err := store.NewWithEvents(b.seedEvents)
	if err != nil {
		return err
	}
	b.store = st
	b.resolved = resolve.Ledger{}
	b.appliedPatterns = suggest.Ledger{}
	b.appliedSuggestions = suggest.Ledger{}
	b.features = map[string]bool{}
	// app links reset with the rest of onboarding; subscriptions survive
	b.connected = map[string]bool{}
	if err := b.persistSubscribers(); err != nil {
		return err
	}
	return b.persist()
}

func (b *Butler) applyTracked(m models.Mutation) error {
	if m.Kind == models.MutationEnableFeature && m.Feature != "" {
		b.features[m.Feature] = true
	}
	return b.applier.Apply(b.store, m)
}

// persist snapshots the event set, ledgers and feature flags to the local
// state store. Callers hold the mutex.
func (b *Butler) persist() error {
	if b.state == nil {
		return nil
	}
	snapshot, err := b.store.SnapshotJSON()
	if err != nil {
		return err
	}
	if err := b.state.Put(state.KeyEvents, snapshot); err != nil {
		return err
	}
	for key, set := range map[string]models.IDSet{
		state.KeyResolvedConflicts:  b.resolved,
		state.KeyAppliedPatterns:    b.appliedPatterns,
		state.KeyAppliedSuggestions: b.appliedSuggestions,
	} {
		blob, err := json.Marshal(set)
		if err != nil {
			return err
		}
		if err := b.state.Put(key, blob); err != nil {
			return err
		}
	}
	blob, err := json.Marshal(b.features)
	if err != nil {
		return err
	}
	return b.state.Put(state.KeyFeatures, blob)
}

// restore loads a previous snapshot; reports whether one existed.
func (b *Butler) restore() (bool, error) {
	if b.state == nil {
		return false, nil
	}
	snapshot, err := b.state.Get(state.KeyEvents)
	if errors.Is(err, state.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	st := store.New()
	if err := st.RestoreJSON(snapshot); err != nil {
		return false, err
	}
	b.store = st

	for key, dst := range map[string]*models.IDSet{
		state.KeyResolvedConflicts:  &b.resolved,
		state.KeyAppliedPatterns:    &b.appliedPatterns,
		state.KeyAppliedSuggestions: &b.appliedSuggestions,
	} {
		blob, err := b.state.Get(key)
		if errors.Is(err, state.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, err
		}
		if err := json.Unmarshal(blob, dst); err != nil {
			return false, fmt.Errorf("restore %s: %w", key, err)
		}
	}
	if blob, err := b.state.Get(state.KeySubscribers); err == nil {
		if err := json.Unmarshal(blob, &b.subscribers); err != nil {
			return false, fmt.Errorf("restore subscribers: %w", err)
		}
	} else if !errors.Is(err, state.ErrNotFound) {
		return false, err
	}
	if blob, err := b.state.Get(state.KeyFeatures); err == nil {
		if err := json.Unmarshal(blob, &b.features); err != nil {
			return false, fmt.Errorf("restore features: %w", err)
		}
	} else if !errors.Is(err, state.ErrNotFound) {
		return false, err
	}
	if blob, err := b.state.Get(state.KeyOnboarding); err == nil {
		if err := json.Unmarshal(blob, &b.connected); err != nil {
			return false, fmt.Errorf("restore onboarding: %w", err)
		}
	} else if !errors.Is(err, state.ErrNotFound) {
		return false, err
	}

	log.Printf("restored %d events from state store", st.Len())
	return true, nil
}
