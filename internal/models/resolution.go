package models

// ActionKind names the resolution strategy family. Unrecognized kinds
// dispatch to NoChange rather than failing.
type ActionKind string

const (
	ActionReschedule     ActionKind = "reschedule"
	ActionPermanentBlock ActionKind = "permanent_block"
	ActionDecline        ActionKind = "decline"
	ActionFamilyAdjust   ActionKind = "family_adjust"
	ActionPersonalAdjust ActionKind = "personal_adjust"
	ActionJoin           ActionKind = "join"
	ActionCreateEvent    ActionKind = "create_event"
	ActionAccept         ActionKind = "accept"
)

// Resolution is a named strategy for eliminating a conflict. Authored
// resolutions carry their mutation recipe as data; the dispatcher only
// synthesizes a mutation when Mutation is nil.
type Resolution struct {
	ID          string     `json:"id" yaml:"id"`
	Label       string     `json:"label" yaml:"label"`
	Action      ActionKind `json:"action" yaml:"action"`
	Reasoning   string     `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	AutoMessage string     `json:"autoMessage,omitempty" yaml:"autoMessage,omitempty"`
	Impact      string     `json:"impact,omitempty" yaml:"impact,omitempty"`
	Recommended bool       `json:"recommended,omitempty" yaml:"recommended,omitempty"`
	Mutation    *Mutation  `json:"mutation,omitempty" yaml:"mutation,omitempty"`
}
