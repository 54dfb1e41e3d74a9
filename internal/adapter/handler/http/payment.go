package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskmarket/escrowpay/internal/core/domain"
	"github.com/taskmarket/escrowpay/internal/core/port"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Handler
	service   port.Service
	publicURL string
}

func NewPaymentHandler(service port.Service, publicURL string, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler:   *NewHandler(logger),
		service:   service,
		publicURL: publicURL,
	}, nil
}

type initiateRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

type initiateResponse struct {
	Success               bool               `json:"success"`
	PaymentURL            string             `json:"paymentUrl"`
	TransactionID         string             `json:"transactionId"`
	PaymentID             string             `json:"paymentId"`
	Milestones            []domain.Milestone `json:"milestones"`
	RequiresSecondPayment bool               `json:"requiresSecondPayment"`
}

func (ph *PaymentHandler) InitiatePayment(ctx *gin.Context) {
	req := initiateRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	actorID := getAuthPayload(ctx).UserID
	returnURL := ph.returnURL(req.OrderID)

	result, err := ph.service.InitiateEscrowPayment(ctx, req.OrderID, actorID, returnURL)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, initiateResponse{
		Success:               true,
		PaymentURL:            result.PaymentURL,
		TransactionID:         result.TransactionID,
		PaymentID:             result.PaymentID,
		Milestones:            result.Milestones,
		RequiresSecondPayment: result.RequiresSecondPayment,
	})
}

func (ph *PaymentHandler) InitiateSecondMilestone(ctx *gin.Context) {
	req := initiateRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	actorID := getAuthPayload(ctx).UserID
	returnURL := ph.returnURL(req.OrderID)

	result, err := ph.service.InitiateSecondMilestone(ctx, req.OrderID, actorID, returnURL)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, initiateResponse{
		Success:               true,
		PaymentURL:            result.PaymentURL,
		TransactionID:         result.TransactionID,
		PaymentID:             result.PaymentID,
		Milestones:            result.Milestones,
		RequiresSecondPayment: result.RequiresSecondPayment,
	})
}

type releaseRequest struct {
	OrderID         string `json:"orderId" binding:"required"`
	MilestoneNumber int    `json:"milestoneNumber"`
}

type releasedMilestoneResp struct {
	MilestoneNumber int         `json:"milestoneNumber"`
	Amount          jsonDecimal `json:"amount"`
	Commission      jsonDecimal `json:"commission"`
	TransferID      string      `json:"transferId"`
}

func (ph *PaymentHandler) ReleasePayment(ctx *gin.Context) {
	req := releaseRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	actorID := getAuthPayload(ctx).UserID

	released, err := ph.service.ReleasePayment(ctx, req.OrderID, actorID, req.MilestoneNumber)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	result := make([]releasedMilestoneResp, 0, len(released))
	for _, r := range released {
		result = append(result, releasedMilestoneResp{
			MilestoneNumber: r.MilestoneNumber,
			Amount:          jsonDecimal(r.Amount),
			Commission:      jsonDecimal(r.Commission),
			TransferID:      r.TransferID,
		})
	}

	ph.handleSuccess(ctx, gin.H{"success": true, "released": result})
}

type refundRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

type refundedPaymentResp struct {
	PaymentID string      `json:"paymentId"`
	Amount    jsonDecimal `json:"amount"`
	RefundID  string      `json:"refundId"`
}

func (ph *PaymentHandler) RefundPayment(ctx *gin.Context) {
	req := refundRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	actorID := getAuthPayload(ctx).UserID

	refunded, err := ph.service.RefundPayment(ctx, req.OrderID, actorID, req.Reason)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	result := make([]refundedPaymentResp, 0, len(refunded))
	for _, r := range refunded {
		result = append(result, refundedPaymentResp{
			PaymentID: r.PaymentID,
			Amount:    jsonDecimal(r.Amount),
			RefundID:  r.RefundID,
		})
	}

	ph.handleSuccess(ctx, gin.H{"success": true, "refunded": result})
}

type paymentResp struct {
	ID            string      `json:"id"`
	Amount        jsonDecimal `json:"amount"`
	Commission    jsonDecimal `json:"commission"`
	Status        string      `json:"status"`
	TransactionID string      `json:"transactionId"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type escrowStatusResponse struct {
	OrderID      string             `json:"orderId"`
	OrderStatus  string             `json:"orderStatus"`
	AgreedPrice  jsonDecimal        `json:"agreedPrice"`
	Currency     string             `json:"currency"`
	EscrowFunded bool               `json:"escrowFunded"`
	Milestones   []domain.Milestone `json:"milestones"`
	Payments     []paymentResp      `json:"payments"`
}

func (ph *PaymentHandler) PaymentStatus(ctx *gin.Context) {
	orderID := ctx.Query("orderId")
	if orderID == "" {
		ph.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	actorID := getAuthPayload(ctx).UserID

	status, err := ph.service.EscrowStatus(ctx, orderID, actorID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	resp := escrowStatusResponse{
		OrderID:      status.Order.ID,
		OrderStatus:  string(status.Order.Status),
		AgreedPrice:  jsonDecimal(status.Order.AgreedPrice),
		Currency:     status.Order.Currency,
		EscrowFunded: status.Order.EscrowFunded,
		Payments:     make([]paymentResp, 0, len(status.Payments)),
	}
	if status.Order.Metadata != nil {
		resp.Milestones = status.Order.Metadata.Milestones
	}
	for _, p := range status.Payments {
		resp.Payments = append(resp.Payments, paymentResp{
			ID:            p.ID,
			Amount:        jsonDecimal(p.Amount),
			Commission:    jsonDecimal(p.Commission),
			Status:        string(p.Status),
			TransactionID: p.GatewayRef,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}

	ph.handleSuccess(ctx, resp)
}

func (ph *PaymentHandler) returnURL(orderID string) string {
	return fmt.Sprintf("%s/orders/%s/payment", ph.publicURL, orderID)
}
