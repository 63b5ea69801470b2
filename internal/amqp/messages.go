package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types carried on the nudge queue.
const (
	TypeGoalMilestone = "goal.milestone"
	TypeBudgetAlert   = "budget.alert"
)

// Envelope wraps every queued event with its type so the worker can route
// without guessing at payload shapes.
type Envelope struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// GoalMilestoneEvent announces that a contribution pushed a goal past a
// milestone threshold.
type GoalMilestoneEvent struct {
	GoalID   int64   `json:"goalId"`
	GoalName string  `json:"goalName"`
	Percent  float64 `json:"percent"`
	Label    string  `json:"label"`
}

// BudgetAlertEvent announces an over-budget category seen while building a
// dashboard snapshot.
type BudgetAlertEvent struct {
	CategoryName   string  `json:"categoryName"`
	PercentageUsed float64 `json:"percentageUsed"`
	Overspent      float64 `json:"overspent"`
}

// NewEnvelope wraps payload for publishing.
func NewEnvelope(eventType string, payload any) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   raw,
	}, nil
}

// ToJSON converts the envelope to JSON bytes.
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EnvelopeFromJSON parses a delivery body.
func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DecodePayload unmarshals the payload into out after checking the type tag.
func (e *Envelope) DecodePayload(wantType string, out any) error {
	if e.Type != wantType {
		return fmt.Errorf("envelope type %q, want %q", e.Type, wantType)
	}
	return json.Unmarshal(e.Payload, out)
}
