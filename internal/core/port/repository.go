package port

import (
	"context"

	"github.com/taskmarket/escrowpay/internal/core/domain"
)

// UpdateOrderFn mutates a freshly read order inside the repository's
// optimistic-concurrency loop. The repository re-reads the record, applies
// the function and writes conditioned on the version column, retrying the
// whole cycle when a concurrent writer got there first.
type UpdateOrderFn func(*domain.Order) error

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// Order
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, orderID string, fn UpdateOrderFn) (*domain.Order, error)

	// Payment
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ReadPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	ReadPaymentByGatewayRef(ctx context.Context, gatewayRef string) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ListPaymentsByOrder(ctx context.Context, orderID string) ([]*domain.Payment, error)
	ListPaymentsByOrderAndStatus(ctx context.Context,
		orderID string, status domain.PaymentStatus) ([]*domain.Payment, error)
}
