package resolve

import (
	"fmt"
	"log"

	"github.com/marcusyeo/TimeButler/internal/models"
	"github.com/marcusyeo/TimeButler/internal/store"
)

// Notifier receives the simulated outbound messages a resolution can carry.
// Delivery is fire-and-forget: never queued, never retried, never verified.
type Notifier interface {
	Notify(message string)
}

// LogNotifier is the default sink; it just records the message.
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	log.Printf("message sent: %s", message)
}

// Applier executes mutations against the event store. Each mutation lands as
// a single store call, so readers never observe a partial application.
type Applier struct {
	notifier Notifier
}

func NewApplier(n Notifier) *Applier {
	if n == nil {
		n = LogNotifier{}
	}
	return &Applier{notifier: n}
}

// Apply executes one mutation. Unknown update/remove targets are no-ops;
// unknown mutation kinds are logged and ignored.
func (a *Applier) Apply(st *store.EventStore, m models.Mutation) error {
	switch m.Kind {
	case models.MutationUpdateEvent:
		if m.Patch == nil {
			return nil
		}
		if _, err := st.UpdateByID(m.EventID, *m.Patch); err != nil {
			return fmt.Errorf("apply update %s: %w", m.EventID, err)
		}
		return nil
	case models.MutationRemoveEvents:
		st.RemoveByIDs(m.EventIDs...)
		return nil
	case models.MutationCreateEvent:
		if m.Event == nil {
			return nil
		}
		if err := st.Create(*m.Event); err != nil {
			return fmt.Errorf("apply create: %w", err)
		}
		return nil
	case models.MutationCreateEvents:
		if len(m.Events) == 0 {
			return nil
		}
		if err := st.AppendMany(m.Events); err != nil {
			return fmt.Errorf("apply create batch: %w", err)
		}
		return nil
	case models.MutationSendMessage:
		a.notifier.Notify(m.Message)
		return nil
	case models.MutationEnableFeature:
		log.Printf("feature enabled: %s", m.Feature)
		return nil
	case models.MutationNoChange:
		return nil
	default:
		log.Printf("apply: unrecognized mutation kind %q, applying no change", m.Kind)
		return nil
	}
}

// ResolveConflict dispatches and applies the chosen resolution, then returns
// the ledger with the conflict marked resolved. Re-resolving an
// already-ledgered conflict is a no-op; the original UI never offered a
// repeat call, but the engine guards it anyway.
func (a *Applier) ResolveConflict(st *store.EventStore, c models.Conflict, r models.Resolution, led Ledger) (Ledger, error) {
	if led.Has(c.ID) {
		return led, nil
	}
	m := Dispatch(c, r)
	if err := a.Apply(st, m); err != nil {
		return led, err
	}
	if r.AutoMessage != "" {
		a.notifier.Notify(r.AutoMessage)
	}
	return led.With(c.ID), nil
}
