package models

// Severity ranks how disruptive a conflict is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ConflictSource distinguishes detector output from authored catalog entries.
type ConflictSource string

const (
	SourceDetected ConflictSource = "detected"
	SourceCatalog  ConflictSource = "catalog"
)

// Conflict is a pair or group of events whose intervals overlap, or a
// protected-time violation. Conflicts are computed (or, for catalog entries,
// authored) and never stored on events; a conflict stays active until its id
// enters the resolution ledger.
type Conflict struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Severity    Severity       `json:"severity" yaml:"severity"`
	Date        string         `json:"date" yaml:"date"` // YYYY-MM-DD
	Description string         `json:"description" yaml:"description"`
	Events      []string       `json:"events" yaml:"events"` // >= 2 event ids
	Impact      string         `json:"impact,omitempty" yaml:"impact,omitempty"`
	Pattern     string         `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Resolutions []Resolution   `json:"resolutionOptions" yaml:"resolutionOptions"`
	Source      ConflictSource `json:"source,omitempty" yaml:"source,omitempty"`
}

// Involves reports whether the conflict references the given event id.
func (c Conflict) Involves(eventID string) bool {
	for _, id := range c.Events {
		if id == eventID {
			return true
		}
	}
	return false
}
