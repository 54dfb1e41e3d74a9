package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskmarket/escrowpay/internal/core/domain"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.OrderStatusActive, domain.OrderStatusDelivered, true},
		{domain.OrderStatusActive, domain.OrderStatusCancelled, true},
		{domain.OrderStatusActive, domain.OrderStatusDisputed, true},
		{domain.OrderStatusActive, domain.OrderStatusCompleted, false},
		{domain.OrderStatusDelivered, domain.OrderStatusCompleted, true},
		{domain.OrderStatusDelivered, domain.OrderStatusCancelled, true},
		{domain.OrderStatusDelivered, domain.OrderStatusDisputed, true},
		{domain.OrderStatusDelivered, domain.OrderStatusActive, false},
		{domain.OrderStatusCompleted, domain.OrderStatusActive, false},
		{domain.OrderStatusCancelled, domain.OrderStatusActive, false},
		{domain.OrderStatusDisputed, domain.OrderStatusCancelled, false},
	}

	for _, test := range tests {
		t.Run(string(test.from)+" to "+string(test.to), func(t *testing.T) {
			assert.Equal(t, test.allowed, test.from.CanTransitionTo(test.to))
		})
	}
}

func TestOrder_IsParticipant(t *testing.T) {
	order := &domain.Order{BuyerID: "buyer-1", ProviderID: "provider-1"}

	assert.True(t, order.IsParticipant("buyer-1"))
	assert.True(t, order.IsParticipant("provider-1"))
	assert.False(t, order.IsParticipant("other"))
}

func TestOrder_HasPlan(t *testing.T) {
	assert.False(t, (&domain.Order{}).HasPlan())
	assert.False(t, (&domain.Order{Metadata: &domain.OrderMetadata{}}).HasPlan())
	assert.True(t, (&domain.Order{Metadata: &domain.OrderMetadata{
		Milestones: []domain.Milestone{{Number: 1}},
	}}).HasPlan())
}
