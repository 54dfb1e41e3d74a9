package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type MilestoneStatus string

const (
	MilestonePending  MilestoneStatus = "pending"
	MilestonePaid     MilestoneStatus = "paid"
	MilestoneReleased MilestoneStatus = "released"
)

// MilestoneThreshold is the agreed price above which an order is funded in
// two equal installments instead of one.
var MilestoneThreshold = decimal.MustParse("200000")

// PlatformCommissionRate is the platform's cut withheld from provider payouts.
var PlatformCommissionRate = decimal.MustParse("0.1")

var fiftyPercent = decimal.MustParse("0.5")

type Milestone struct {
	Number        int             `json:"milestoneNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    int             `json:"percentage"`
	Status        MilestoneStatus `json:"status"`
	PaymentID     string          `json:"paymentId,omitempty"`
	TransactionID string          `json:"transactionId,omitempty"`
}

// OrderMetadata is the milestone plan persisted on the order record.
type OrderMetadata struct {
	Milestones       []Milestone `json:"milestones,omitempty"`
	CurrentMilestone int         `json:"currentMilestone,omitempty"`
	RefundReason     string      `json:"refundReason,omitempty"`
	RefundedAt       *time.Time  `json:"refundedAt,omitempty"`
}

// ComputeMilestones builds the payment plan for a total amount. Amounts above
// MilestoneThreshold split 50/50, everything else is a single full payment.
// The plan is computed once per order and must never be recomputed after it
// has been persisted: milestone statuses live inside it.
func ComputeMilestones(total decimal.Decimal) ([]Milestone, error) {
	if total.Cmp(MilestoneThreshold) <= 0 {
		return []Milestone{
			{Number: 1, Amount: total, Percentage: 100, Status: MilestonePending},
		}, nil
	}

	first, err := total.Mul(fiftyPercent)
	if err != nil {
		return nil, err
	}
	// second takes the remainder so the two always sum to the total
	second, err := total.Sub(first)
	if err != nil {
		return nil, err
	}

	return []Milestone{
		{Number: 1, Amount: first, Percentage: 50, Status: MilestonePending},
		{Number: 2, Amount: second, Percentage: 50, Status: MilestonePending},
	}, nil
}

// Milestone returns the milestone with the given number, or nil.
func (m *OrderMetadata) Milestone(number int) *Milestone {
	for i := range m.Milestones {
		if m.Milestones[i].Number == number {
			return &m.Milestones[i]
		}
	}
	return nil
}

// MilestoneByTransaction returns the milestone carrying the gateway
// transaction id, or nil.
func (m *OrderMetadata) MilestoneByTransaction(txID string) *Milestone {
	for i := range m.Milestones {
		if m.Milestones[i].TransactionID == txID {
			return &m.Milestones[i]
		}
	}
	return nil
}

// AllFunded reports whether every milestone is paid or released.
func (m *OrderMetadata) AllFunded() bool {
	for _, ms := range m.Milestones {
		if ms.Status != MilestonePaid && ms.Status != MilestoneReleased {
			return false
		}
	}
	return len(m.Milestones) > 0
}

// AllReleased reports whether every milestone has been released.
func (m *OrderMetadata) AllReleased() bool {
	for _, ms := range m.Milestones {
		if ms.Status != MilestoneReleased {
			return false
		}
	}
	return len(m.Milestones) > 0
}

// PaidMilestones returns the milestones funded but not yet released.
func (m *OrderMetadata) PaidMilestones() []*Milestone {
	paid := make([]*Milestone, 0, len(m.Milestones))
	for i := range m.Milestones {
		if m.Milestones[i].Status == MilestonePaid {
			paid = append(paid, &m.Milestones[i])
		}
	}
	return paid
}
