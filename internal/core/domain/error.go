package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")
	ErrUpdateConflict  = errors.New("record changed concurrently, update aborted")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Webhook errors.
	ErrMissingSignature = errors.New("webhook signature is not provided")
	ErrInvalidSignature = errors.New("webhook signature is invalid")

	// * Business errors.
	ErrNotOrderBuyer            = errors.New("only the buyer can perform this operation")
	ErrNotOrderParticipant      = errors.New("only order participants can perform this operation")
	ErrOrderAlreadyFunded       = errors.New("order already funded")
	ErrOrderNotActive           = errors.New("order must be active to accept payment")
	ErrOrderNotDelivered        = errors.New("order must be delivered before payment release")
	ErrEscrowNotFunded          = errors.New("order escrow not fully funded")
	ErrOrderNotRefundable       = errors.New("order must be cancelled or disputed for refund")
	ErrNoMilestonePlan          = errors.New("order does not have milestone payments")
	ErrFirstMilestoneUnpaid     = errors.New("first milestone must be paid first")
	ErrMilestoneProcessed       = errors.New("milestone already processed")
	ErrMilestoneNotFound        = errors.New("milestone not found")
	ErrNoReleasableMilestones   = errors.New("no milestones available for release")
	ErrUnsupportedCurrency      = errors.New("currency is not supported")
	ErrAmountNotPositive        = errors.New("amount must be positive")
	ErrAmountTooLarge           = errors.New("amount exceeds maximum limit")
	ErrInvalidMilestonePlan     = errors.New("milestone plan is malformed")
	ErrInvalidStatusTransition  = errors.New("order status transition is not allowed")
)

// GatewayError is a non-success response from the payment gateway. StatusCode
// holds the gateway's HTTP status when one was received, zero when the
// gateway was unreachable.
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway %s failed: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("gateway %s failed: %s", e.Op, e.Message)
}
