// Package resolve turns a chosen resolution into a store mutation and
// applies it. Resolved-conflict tracking is an explicit ledger value that
// flows through the applier instead of hidden shared state.
package resolve

import (
	"log"

	"github.com/marcusyeo/TimeButler/internal/models"
)

// Ledger records which conflict ids have been resolved. A conflict whose id
// is in the ledger is excluded from active-conflict views.
type Ledger = models.IDSet

// Dispatch maps (conflict, resolution) to a single store mutation. Authored
// recipes win; for resolutions without one only the actions that can be
// derived purely from conflict data are synthesized. Anything unrecognized
// fails open to NoChange.
func Dispatch(c models.Conflict, r models.Resolution) models.Mutation {
	if r.Mutation != nil {
		return *r.Mutation
	}
	switch r.Action {
	case models.ActionDecline:
		return models.Mutation{
			Kind:     models.MutationRemoveEvents,
			EventIDs: append([]string(nil), c.Events...),
		}
	case models.ActionAccept:
		return models.NoChange()
	default:
		log.Printf("resolve: no mutation recipe for action %q on conflict %s, applying no change", r.Action, c.ID)
		return models.NoChange()
	}
}
