package port

import (
	"context"
	"time"

	"github.com/govalues/decimal"
)

type PaymentInitiateRequest struct {
	Amount      decimal.Decimal
	Currency    string
	OrderID     string
	CustomerID  string
	Description string
	ReturnURL   string
	CallbackURL string
	Metadata    map[string]any
}

type PaymentInitiateResponse struct {
	TransactionID string
	PaymentURL    string
	Reference     string
	ExpiresAt     time.Time
}

type PaymentStatusSnapshot struct {
	TransactionID string
	Status        string
	Amount        decimal.Decimal
	Currency      string
	Reference     string
	PaidAt        *time.Time
}

type PaymentReleaseRequest struct {
	TransactionID string
	RecipientID   string
	Amount        decimal.Decimal
	Description   string
}

type TransferResult struct {
	TransferID  string
	Status      string
	ProcessedAt time.Time
}

// GatewayClient is the payment gateway contract. Implementations are pure
// I/O translation; non-success responses surface as *domain.GatewayError.
//
//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type GatewayClient interface {
	InitiatePayment(ctx context.Context, req *PaymentInitiateRequest) (*PaymentInitiateResponse, error)
	PaymentStatus(ctx context.Context, transactionID string) (*PaymentStatusSnapshot, error)
	ReleasePayment(ctx context.Context, req *PaymentReleaseRequest) (*TransferResult, error)
	// RefundPayment refunds a transaction, fully when amount is nil.
	RefundPayment(ctx context.Context, transactionID string, amount *decimal.Decimal) (*TransferResult, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
}
