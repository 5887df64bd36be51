package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderEventType string

const (
	OrderEventPlaced    OrderEventType = "OrderPlaced"
	OrderEventApproved  OrderEventType = "OrderApproved"
	OrderEventRejected  OrderEventType = "OrderRejected"
	OrderEventCancelled OrderEventType = "OrderCancelled"
	OrderEventCompleted OrderEventType = "OrderCompleted"
)

type OrderEvent struct {
	Type     OrderEventType
	OrderID  uuid.UUID
	ClientID string
	Sellers  []string
	State    OrderState
	// ActorID is the seller or client who triggered the change.
	ActorID    string
	OccurredAt time.Time
}

func NewOrderEvent(eventType OrderEventType, order Order, actorID string, at time.Time) OrderEvent {
	return OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		ClientID:   order.ClientID,
		Sellers:    order.Sellers,
		State:      order.State,
		ActorID:    actorID,
		OccurredAt: at,
	}
}
