package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/taskmarket/escrowpay/internal/core/domain"
	"github.com/taskmarket/escrowpay/internal/core/port"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type createOrderRequest struct {
	ProviderID  string  `json:"providerId" binding:"required"`
	JobID       string  `json:"jobId"`
	AgreedPrice float64 `json:"agreedPrice" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
}

type orderResponse struct {
	ID           string      `json:"id"`
	BuyerID      string      `json:"buyerId"`
	ProviderID   string      `json:"providerId"`
	JobID        string      `json:"jobId,omitempty"`
	AgreedPrice  jsonDecimal `json:"agreedPrice"`
	Currency     string      `json:"currency"`
	Status       string      `json:"status"`
	EscrowFunded bool        `json:"escrowFunded"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := createOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	price, err := decimal.NewFromFloat64(req.AgreedPrice)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order := &domain.Order{
		BuyerID:     getAuthPayload(ctx).UserID,
		ProviderID:  req.ProviderID,
		JobID:       req.JobID,
		AgreedPrice: price,
		Currency:    req.Currency,
	}

	created, err := oh.service.CreateOrder(ctx, order)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, orderView(created))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (oh *OrderHandler) UpdateOrderStatus(ctx *gin.Context) {
	req := updateStatusRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	orderID := ctx.Param("order")
	actorID := getAuthPayload(ctx).UserID

	updated, err := oh.service.UpdateOrderStatus(ctx, orderID, actorID, domain.OrderStatus(req.Status))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, orderView(updated))
}

func orderView(o *domain.Order) orderResponse {
	return orderResponse{
		ID:           o.ID,
		BuyerID:      o.BuyerID,
		ProviderID:   o.ProviderID,
		JobID:        o.JobID,
		AgreedPrice:  jsonDecimal(o.AgreedPrice),
		Currency:     o.Currency,
		Status:       string(o.Status),
		EscrowFunded: o.EscrowFunded,
		CreatedAt:    o.CreatedAt,
	}
}
