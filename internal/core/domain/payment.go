package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

const GatewayNeero = "neero"

type Payment struct {
	ID         string
	OrderID    string
	Amount     decimal.Decimal
	Commission decimal.Decimal
	Status     PaymentStatus
	Gateway    string
	// GatewayRef is the gateway transaction id, unique per payment attempt.
	// Webhook events correlate to payments through it.
	GatewayRef string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
