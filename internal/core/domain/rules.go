package domain

import (
	"strings"

	"github.com/govalues/decimal"
)

// Precondition checks consulted by HTTP handlers before calling the escrow
// service, and re-checked inside the service so correctness does not depend
// on caller discipline. Each returns nil when the operation may proceed.

var supportedCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "NGN": {}, "GHS": {}, "KES": {}, "ZAR": {},
}

// MaxPaymentAmount bounds a single order's agreed price.
var MaxPaymentAmount = decimal.MustParse("10000000")

func ValidateCurrency(currency string) error {
	if _, ok := supportedCurrencies[strings.ToUpper(currency)]; !ok {
		return ErrUnsupportedCurrency
	}
	return nil
}

func ValidateAmount(amount decimal.Decimal) error {
	if amount.Cmp(decimal.Zero) <= 0 {
		return ErrAmountNotPositive
	}
	if amount.Cmp(MaxPaymentAmount) > 0 {
		return ErrAmountTooLarge
	}
	return nil
}

func CanInitiatePayment(order *Order, userID string) error {
	if order.BuyerID != userID {
		return ErrNotOrderBuyer
	}
	if order.EscrowFunded {
		return ErrOrderAlreadyFunded
	}
	if order.Status != OrderStatusActive {
		return ErrOrderNotActive
	}
	return nil
}

func CanInitiateSecondMilestone(order *Order, userID string) error {
	if order.BuyerID != userID {
		return ErrNotOrderBuyer
	}
	if order.Metadata == nil || len(order.Metadata.Milestones) < 2 {
		return ErrNoMilestonePlan
	}
	if order.Metadata.Milestones[0].Status != MilestonePaid {
		return ErrFirstMilestoneUnpaid
	}
	if order.Metadata.Milestones[1].Status != MilestonePending {
		return ErrMilestoneProcessed
	}
	return nil
}

func CanReleasePayment(order *Order, userID string) error {
	if order.BuyerID != userID {
		return ErrNotOrderBuyer
	}
	if order.Status != OrderStatusDelivered {
		return ErrOrderNotDelivered
	}
	if !order.EscrowFunded {
		return ErrEscrowNotFunded
	}
	if order.HasPlan() && len(order.Metadata.PaidMilestones()) == 0 {
		return ErrNoReleasableMilestones
	}
	return nil
}

func CanRefund(order *Order, userID string) error {
	if !order.IsParticipant(userID) {
		return ErrNotOrderParticipant
	}
	if order.Status != OrderStatusCancelled && order.Status != OrderStatusDisputed {
		return ErrOrderNotRefundable
	}
	return nil
}

// ValidateMilestonePlan checks the shape of a plan before it is persisted:
// one or two milestones, sequential numbering, known statuses.
func ValidateMilestonePlan(milestones []Milestone) error {
	if len(milestones) == 0 || len(milestones) > 2 {
		return ErrInvalidMilestonePlan
	}
	for i, m := range milestones {
		if m.Number != i+1 {
			return ErrInvalidMilestonePlan
		}
		switch m.Status {
		case MilestonePending, MilestonePaid, MilestoneReleased:
		default:
			return ErrInvalidMilestonePlan
		}
		if m.Amount.Cmp(decimal.Zero) <= 0 {
			return ErrInvalidMilestonePlan
		}
	}
	return nil
}
