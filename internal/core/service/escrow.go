package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taskmarket/escrowpay/internal/core/domain"
	"github.com/taskmarket/escrowpay/internal/core/port"
	"go.uber.org/zap"
)

// Service orchestrates the escrow payment lifecycle: milestone computation,
// payment initiation, webhook-driven confirmation, release and refund.
type Service struct {
	repo        port.Repository
	gateway     port.GatewayClient
	callbackURL string
	logger      *zap.Logger
}

func NewService(repo port.Repository, gateway port.GatewayClient,
	callbackURL string, logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:        repo,
		gateway:     gateway,
		callbackURL: callbackURL,
		logger:      logger,
	}, nil
}

func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := domain.ValidateCurrency(order.Currency); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(order.AgreedPrice); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusActive
	order.EscrowFunded = false
	order.Metadata = nil

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("create order", zap.Error(err))
		return nil, err
	}
	return newOrder, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context,
	orderID string, actorID string, next domain.OrderStatus) (*domain.Order, error) {
	return s.repo.UpdateOrder(ctx, orderID, func(o *domain.Order) error {
		switch next {
		case domain.OrderStatusDelivered:
			if o.ProviderID != actorID {
				return domain.ErrForbidden
			}
		case domain.OrderStatusCancelled, domain.OrderStatusDisputed:
			if !o.IsParticipant(actorID) {
				return domain.ErrNotOrderParticipant
			}
		default:
			// completed is reached through payment release only
			return domain.ErrInvalidStatusTransition
		}

		if !o.Status.CanTransitionTo(next) {
			return domain.ErrInvalidStatusTransition
		}
		o.Status = next
		return nil
	})
}

// InitiateEscrowPayment funds the first milestone of an order. The milestone
// plan is computed on first call and persisted into the order metadata; a
// plan already on the order is reused as is, since its entries carry payment
// progress that recomputation would reset.
func (s *Service) InitiateEscrowPayment(ctx context.Context,
	orderID string, actorID string, returnURL string) (*domain.EscrowInitiation, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanInitiatePayment(order, actorID); err != nil {
		return nil, err
	}

	var milestones []domain.Milestone
	if order.HasPlan() {
		milestones = order.Metadata.Milestones
	} else {
		milestones, err = domain.ComputeMilestones(order.AgreedPrice)
		if err != nil {
			s.logger.Error("compute milestones", zap.Error(err))
			return nil, domain.ErrInternal
		}
	}
	if err := domain.ValidateMilestonePlan(milestones); err != nil {
		return nil, err
	}

	first := &milestones[0]
	description := fmt.Sprintf("Payment for order %s - Milestone %d", order.ID, first.Number)

	return s.initiateMilestone(ctx, order, first, milestones, description, returnURL)
}

// InitiateSecondMilestone funds milestone 2 once the first has been paid.
func (s *Service) InitiateSecondMilestone(ctx context.Context,
	orderID string, actorID string, returnURL string) (*domain.EscrowInitiation, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanInitiateSecondMilestone(order, actorID); err != nil {
		return nil, err
	}

	milestones := order.Metadata.Milestones
	second := &milestones[1]
	description := fmt.Sprintf("Payment for order %s - Milestone %d", order.ID, second.Number)

	return s.initiateMilestone(ctx, order, second, milestones, description, returnURL)
}

func (s *Service) initiateMilestone(ctx context.Context, order *domain.Order,
	milestone *domain.Milestone, plan []domain.Milestone,
	description string, returnURL string) (*domain.EscrowInitiation, error) {

	resp, err := s.gateway.InitiatePayment(ctx, &port.PaymentInitiateRequest{
		Amount:      milestone.Amount,
		Currency:    order.Currency,
		OrderID:     order.ID,
		CustomerID:  order.BuyerID,
		Description: description,
		ReturnURL:   returnURL,
		CallbackURL: s.callbackURL,
		Metadata: map[string]any{
			"orderId":         order.ID,
			"buyerId":         order.BuyerID,
			"providerId":      order.ProviderID,
			"milestoneNumber": milestone.Number,
			"totalMilestones": len(plan),
		},
	})
	if err != nil {
		s.logger.Error("gateway initiate",
			zap.String("order", order.ID),
			zap.Int("milestone", milestone.Number),
			zap.Error(err))
		return nil, err
	}

	commission, err := milestone.Amount.Mul(domain.PlatformCommissionRate)
	if err != nil {
		return nil, domain.ErrInternal
	}

	payment, err := s.repo.CreatePayment(ctx, &domain.Payment{
		OrderID:    order.ID,
		Amount:     milestone.Amount,
		Commission: commission,
		Status:     domain.PaymentStatusPending,
		Gateway:    domain.GatewayNeero,
		GatewayRef: resp.TransactionID,
	})
	if err != nil {
		s.logger.Error("create payment", zap.String("order", order.ID), zap.Error(err))
		return nil, err
	}

	number := milestone.Number
	updated, err := s.repo.UpdateOrder(ctx, order.ID, func(o *domain.Order) error {
		if !o.HasPlan() {
			o.Metadata = &domain.OrderMetadata{Milestones: plan}
		}
		target := o.Metadata.Milestone(number)
		if target == nil {
			return domain.ErrMilestoneNotFound
		}
		if target.Status != domain.MilestonePending {
			return domain.ErrMilestoneProcessed
		}
		target.PaymentID = payment.ID
		target.TransactionID = resp.TransactionID
		o.Metadata.CurrentMilestone = number
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.EscrowInitiation{
		PaymentURL:            resp.PaymentURL,
		TransactionID:         resp.TransactionID,
		PaymentID:             payment.ID,
		Milestones:            updated.Metadata.Milestones,
		RequiresSecondPayment: len(updated.Metadata.Milestones) > 1,
	}, nil
}

// HandlePaymentCompleted confirms a funded milestone from a verified
// payment.completed webhook. Replayed deliveries are detected through the
// payment status and acknowledged without side effects.
func (s *Service) HandlePaymentCompleted(ctx context.Context,
	transactionID string) (*domain.PaymentCompletion, error) {
	payment, err := s.repo.ReadPaymentByGatewayRef(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if payment.Status == domain.PaymentStatusCompleted {
		return &domain.PaymentCompletion{AlreadyProcessed: true}, nil
	}

	payment.Status = domain.PaymentStatusCompleted
	if _, err := s.repo.UpdatePayment(ctx, payment); err != nil {
		s.logger.Error("update payment", zap.String("transaction", transactionID), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.UpdateOrder(ctx, payment.OrderID, func(o *domain.Order) error {
		if !o.HasPlan() {
			// single-payment legacy order
			o.EscrowFunded = true
			return nil
		}
		milestone := o.Metadata.MilestoneByTransaction(transactionID)
		if milestone == nil {
			// payment confirmed but not part of the plan; order untouched
			return nil
		}
		if milestone.Status == domain.MilestonePending {
			milestone.Status = domain.MilestonePaid
		}
		o.EscrowFunded = o.Metadata.AllFunded()
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &domain.PaymentCompletion{}
	if updated.HasPlan() {
		if milestone := updated.Metadata.MilestoneByTransaction(transactionID); milestone != nil {
			result.MilestoneCompleted = milestone.Number
			result.AllMilestonesPaid = updated.Metadata.AllFunded()
		}
	}
	return result, nil
}

// HandlePaymentFailed records a failed payment attempt reported by the
// gateway. The flat status overwrite keeps replays harmless.
func (s *Service) HandlePaymentFailed(ctx context.Context, transactionID string) error {
	payment, err := s.repo.ReadPaymentByGatewayRef(ctx, transactionID)
	if err != nil {
		return err
	}

	payment.Status = domain.PaymentStatusFailed
	if _, err := s.repo.UpdatePayment(ctx, payment); err != nil {
		s.logger.Error("update payment", zap.String("transaction", transactionID), zap.Error(err))
		return err
	}

	s.logger.Info("payment failed",
		zap.String("transaction", transactionID),
		zap.String("payment", payment.ID))
	return nil
}

// ReleasePayment pays the provider for funded milestones after delivery.
// Milestones that are still pending or already released are skipped, which
// keeps duplicate release calls safe.
func (s *Service) ReleasePayment(ctx context.Context,
	orderID string, actorID string, milestoneNumber int) ([]domain.ReleasedMilestone, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// unlike the handler-side rule, no-releasable-milestones is not an error
	// here: releasing an already settled order is a no-op
	if order.BuyerID != actorID {
		return nil, domain.ErrNotOrderBuyer
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, domain.ErrOrderNotDelivered
	}
	if !order.EscrowFunded {
		return nil, domain.ErrEscrowNotFunded
	}

	var targets []*domain.Milestone
	if order.HasPlan() {
		if milestoneNumber > 0 {
			milestone := order.Metadata.Milestone(milestoneNumber)
			if milestone == nil {
				return nil, domain.ErrMilestoneNotFound
			}
			targets = []*domain.Milestone{milestone}
		} else {
			targets = order.Metadata.PaidMilestones()
		}
	} else {
		// legacy single-payment order: derive targets from completed payments
		payments, err := s.repo.ListPaymentsByOrderAndStatus(ctx, orderID, domain.PaymentStatusCompleted)
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			targets = append(targets, &domain.Milestone{
				Number:        1,
				Amount:        p.Amount,
				Percentage:    100,
				Status:        domain.MilestonePaid,
				PaymentID:     p.ID,
				TransactionID: p.GatewayRef,
			})
		}
	}

	released := make([]domain.ReleasedMilestone, 0, len(targets))
	releasedNumbers := make([]int, 0, len(targets))

	for _, milestone := range targets {
		if milestone.Status != domain.MilestonePaid {
			continue
		}

		payment, err := s.repo.ReadPayment(ctx, milestone.PaymentID)
		if err != nil {
			return nil, err
		}

		payout, err := payment.Amount.Sub(payment.Commission)
		if err != nil {
			return nil, domain.ErrInternal
		}

		transfer, err := s.gateway.ReleasePayment(ctx, &port.PaymentReleaseRequest{
			TransactionID: milestone.TransactionID,
			RecipientID:   order.ProviderID,
			Amount:        payout,
			Description:   fmt.Sprintf("Payment for order %s - Milestone %d", orderID, milestone.Number),
		})
		if err != nil {
			s.logger.Error("gateway release",
				zap.String("order", orderID),
				zap.Int("milestone", milestone.Number),
				zap.Error(err))
			return nil, err
		}

		released = append(released, domain.ReleasedMilestone{
			MilestoneNumber: milestone.Number,
			Amount:          payout,
			Commission:      payment.Commission,
			TransferID:      transfer.TransferID,
		})
		releasedNumbers = append(releasedNumbers, milestone.Number)
	}

	_, err = s.repo.UpdateOrder(ctx, orderID, func(o *domain.Order) error {
		if !o.HasPlan() {
			o.Status = domain.OrderStatusCompleted
			return nil
		}
		for _, number := range releasedNumbers {
			milestone := o.Metadata.Milestone(number)
			if milestone != nil && milestone.Status == domain.MilestonePaid {
				milestone.Status = domain.MilestoneReleased
			}
		}
		if o.Metadata.AllReleased() {
			o.Status = domain.OrderStatusCompleted
		} else {
			o.Status = domain.OrderStatusActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return released, nil
}

// RefundPayment returns every completed payment on a cancelled or disputed
// order to the buyer. Milestone statuses in the plan are left untouched.
func (s *Service) RefundPayment(ctx context.Context,
	orderID string, actorID string, reason string) ([]domain.RefundedPayment, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanRefund(order, actorID); err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPaymentsByOrderAndStatus(ctx, orderID, domain.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}

	refunded := make([]domain.RefundedPayment, 0, len(payments))
	for _, payment := range payments {
		transfer, err := s.gateway.RefundPayment(ctx, payment.GatewayRef, nil)
		if err != nil {
			s.logger.Error("gateway refund",
				zap.String("order", orderID),
				zap.String("payment", payment.ID),
				zap.Error(err))
			return nil, err
		}

		payment.Status = domain.PaymentStatusRefunded
		if _, err := s.repo.UpdatePayment(ctx, payment); err != nil {
			return nil, err
		}

		refunded = append(refunded, domain.RefundedPayment{
			PaymentID: payment.ID,
			Amount:    payment.Amount,
			RefundID:  transfer.TransferID,
		})
	}

	_, err = s.repo.UpdateOrder(ctx, orderID, func(o *domain.Order) error {
		o.EscrowFunded = false
		if o.Metadata == nil {
			o.Metadata = &domain.OrderMetadata{}
		}
		now := time.Now().UTC()
		o.Metadata.RefundReason = reason
		o.Metadata.RefundedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return refunded, nil
}

func (s *Service) EscrowStatus(ctx context.Context,
	orderID string, actorID string) (*domain.EscrowStatus, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsParticipant(actorID) {
		return nil, domain.ErrForbidden
	}

	payments, err := s.repo.ListPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &domain.EscrowStatus{Order: order, Payments: payments}, nil
}
