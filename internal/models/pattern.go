package models

// Pattern is a recurring-behavior insight that proposes a calendar mutation.
// A pattern is applied at most once per id; the applied ledger guards this.
type Pattern struct {
	ID             string `json:"id" yaml:"id"`
	Type           string `json:"type" yaml:"type"`
	Title          string `json:"title" yaml:"title"`
	Insight        string `json:"insight" yaml:"insight"`
	Prediction     string `json:"prediction,omitempty" yaml:"prediction,omitempty"`
	Recommendation string `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	// Action names the mutation recipe (create_recurring_block, protect_time,
	// enable_shield, enable_restaurant_ai, ...).
	Action string `json:"action" yaml:"action"`
	// Mutation, when authored, is the exact change to apply.
	Mutation *Mutation `json:"mutation,omitempty" yaml:"mutation,omitempty"`
}

// SuggestionOption is one selectable choice within a suggestion, e.g. a
// restaurant or an open exercise slot.
type SuggestionOption struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Cuisine string `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"` // YYYY-MM-DD
	Time    string `json:"time,omitempty" yaml:"time,omitempty"` // "7:00 AM - 8:00 AM"
}

// BlockDetails describes a protected block a suggestion wants to create.
type BlockDetails struct {
	Title string `json:"title" yaml:"title"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
	// Dates are the calendar days to cover; Start/End are clock times
	// ("15:30", "16:00") applied to each date.
	Dates []string `json:"dates" yaml:"dates"`
	Start string   `json:"start" yaml:"start"`
	End   string   `json:"end" yaml:"end"`
}

// Suggestion is a one-click actionable recommendation.
type Suggestion struct {
	ID          string             `json:"id" yaml:"id"`
	Category    string             `json:"category" yaml:"category"`
	Title       string             `json:"title" yaml:"title"`
	Description string             `json:"description" yaml:"description"`
	Action      string             `json:"action" yaml:"action"`
	Options     []SuggestionOption `json:"options,omitempty" yaml:"options,omitempty"`
	Block       *BlockDetails      `json:"blockDetails,omitempty" yaml:"blockDetails,omitempty"`
	AutoMessage string             `json:"autoMessage,omitempty" yaml:"autoMessage,omitempty"`
	Impact      string             `json:"impact,omitempty" yaml:"impact,omitempty"`
	// TargetEvent is the existing event some suggestions update in place
	// (weather confirmation, restaurant choice for a planned dinner).
	TargetEvent string `json:"targetEvent,omitempty" yaml:"targetEvent,omitempty"`
	// Mutation, when authored, is the exact change to apply.
	Mutation *Mutation `json:"mutation,omitempty" yaml:"mutation,omitempty"`
}
