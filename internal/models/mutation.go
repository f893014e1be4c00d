package models

// MutationKind tags the concrete change a resolution, suggestion or pattern
// asks the event store to make.
type MutationKind string

const (
	MutationUpdateEvent   MutationKind = "update_event"
	MutationRemoveEvents  MutationKind = "remove_events"
	MutationCreateEvent   MutationKind = "create_event"
	MutationCreateEvents  MutationKind = "create_events"
	MutationSendMessage   MutationKind = "send_message"
	MutationEnableFeature MutationKind = "enable_feature"
	MutationNoChange      MutationKind = "no_change"
)

// Mutation is a tagged description of a change to the event store. Only the
// fields relevant to its Kind are set.
type Mutation struct {
	Kind MutationKind `json:"kind" yaml:"kind"`

	// update_event
	EventID string      `json:"eventId,omitempty" yaml:"eventId,omitempty"`
	Patch   *EventPatch `json:"patch,omitempty" yaml:"patch,omitempty"`

	// remove_events
	EventIDs []string `json:"eventIds,omitempty" yaml:"eventIds,omitempty"`

	// create_event / create_events
	Event  *Event  `json:"event,omitempty" yaml:"event,omitempty"`
	Events []Event `json:"events,omitempty" yaml:"events,omitempty"`

	// send_message / enable_feature
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Feature string `json:"feature,omitempty" yaml:"feature,omitempty"`
}

// NoChange is the fail-open mutation: applying it never touches the store.
func NoChange() Mutation {
	return Mutation{Kind: MutationNoChange}
}

// IsNoChange reports whether applying m leaves the event set untouched.
func (m Mutation) IsNoChange() bool {
	switch m.Kind {
	case MutationNoChange, MutationSendMessage, MutationEnableFeature:
		return true
	}
	return false
}
