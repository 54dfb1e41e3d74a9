package port

import (
	"context"

	"github.com/taskmarket/escrowpay/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context,
		orderID string, actorID string, next domain.OrderStatus) (*domain.Order, error)

	InitiateEscrowPayment(ctx context.Context,
		orderID string, actorID string, returnURL string) (*domain.EscrowInitiation, error)
	InitiateSecondMilestone(ctx context.Context,
		orderID string, actorID string, returnURL string) (*domain.EscrowInitiation, error)
	// ReleasePayment pays the provider for a specific milestone, or for every
	// paid milestone when milestoneNumber is zero.
	ReleasePayment(ctx context.Context,
		orderID string, actorID string, milestoneNumber int) ([]domain.ReleasedMilestone, error)
	RefundPayment(ctx context.Context,
		orderID string, actorID string, reason string) ([]domain.RefundedPayment, error)
	EscrowStatus(ctx context.Context, orderID string, actorID string) (*domain.EscrowStatus, error)

	// Webhook-driven transitions; callers must have verified the event source.
	HandlePaymentCompleted(ctx context.Context, transactionID string) (*domain.PaymentCompletion, error)
	HandlePaymentFailed(ctx context.Context, transactionID string) error
}
