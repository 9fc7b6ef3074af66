package domain

import "time"

// Event types
const (
	EventTypePostingRecorded = "posting.recorded"
	EventTypePostingReversed = "posting.reversed"
	EventTypeDriftDetected   = "balance.drift_detected"
	EventTypePartyCreated    = "party.created"
)

// Aggregate types
const (
	AggregateTypePosting = "posting"
	AggregateTypeParty   = "party"
)

// OutboxEvent is an operator-facing event recorded in the same transaction
// as the state change it describes.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PostingRecordedEvent payload
type PostingRecordedEvent struct {
	PostingID      string `json:"posting_id"`
	Kind           string `json:"kind"`
	IdempotencyKey string `json:"idempotency_key"`
	Legs           int    `json:"legs"`
}

// PostingReversedEvent payload
type PostingReversedEvent struct {
	ReversalPostingID string `json:"reversal_posting_id"`
	OriginalPostingID string `json:"original_posting_id"`
	Reason            string `json:"reason"`
}

// DriftDetectedEvent payload. Drift is surfaced, never auto-corrected.
type DriftDetectedEvent struct {
	PartyID  string `json:"party_id"`
	Cached   string `json:"cached"`
	Computed string `json:"computed"`
	Drift    string `json:"drift"`
}

// PartyCreatedEvent payload
type PartyCreatedEvent struct {
	PartyID string `json:"party_id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
}
