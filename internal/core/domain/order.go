package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusDisputed  OrderStatus = "disputed"
)

// orderStatusEdges holds the allowed transitions. Terminal states
// (completed, cancelled, disputed) have no outgoing edges.
var orderStatusEdges = map[OrderStatus][]OrderStatus{
	OrderStatusActive:    {OrderStatusDelivered, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusDelivered: {OrderStatusCompleted, OrderStatusCancelled, OrderStatusDisputed},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderStatusEdges[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID           string
	BuyerID      string
	ProviderID   string
	JobID        string
	AgreedPrice  decimal.Decimal
	Currency     string
	Status       OrderStatus
	EscrowFunded bool
	Metadata     *OrderMetadata
	Version      uint64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPlan reports whether a milestone plan has been computed and persisted
// for the order. Orders funded before plans were introduced have none.
func (o *Order) HasPlan() bool {
	return o.Metadata != nil && len(o.Metadata.Milestones) > 0
}

func (o *Order) IsParticipant(userID string) bool {
	return o.BuyerID == userID || o.ProviderID == userID
}
