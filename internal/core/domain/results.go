package domain

import "github.com/govalues/decimal"

// EscrowInitiation is the outcome of starting a milestone payment: where to
// send the buyer and which records were created.
type EscrowInitiation struct {
	PaymentURL            string
	TransactionID         string
	PaymentID             string
	Milestones            []Milestone
	RequiresSecondPayment bool
}

// ReleasedMilestone describes one payout made to the provider.
type ReleasedMilestone struct {
	MilestoneNumber int
	Amount          decimal.Decimal
	Commission      decimal.Decimal
	TransferID      string
}

// RefundedPayment describes one payment returned to the buyer.
type RefundedPayment struct {
	PaymentID string
	Amount    decimal.Decimal
	RefundID  string
}

// PaymentCompletion reports what a payment.completed webhook changed.
type PaymentCompletion struct {
	AlreadyProcessed   bool
	MilestoneCompleted int
	AllMilestonesPaid  bool
}

// EscrowStatus is the participant-facing snapshot of an order's money state.
type EscrowStatus struct {
	Order    *Order
	Payments []*Payment
}
