package events

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderEvents = "orders.events"

	envelopeVersion = 1
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderEventPayload struct {
	OrderID  string   `json:"order_id"`
	ClientID string   `json:"client_id"`
	Sellers  []string `json:"sellers"`
	State    string   `json:"state"`
	ActorID  string   `json:"actor_id,omitempty"`
}
