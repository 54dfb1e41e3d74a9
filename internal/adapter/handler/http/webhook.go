package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskmarket/escrowpay/internal/core/domain"
	"github.com/taskmarket/escrowpay/internal/core/port"
	"go.uber.org/zap"
)

// WebhookEvent is the closed set of callbacks the gateway delivers.
type WebhookEvent string

const (
	EventPaymentCompleted  WebhookEvent = "payment.completed"
	EventPaymentFailed     WebhookEvent = "payment.failed"
	EventTransferCompleted WebhookEvent = "transfer.completed"
	EventTransferFailed    WebhookEvent = "transfer.failed"
)

type webhookPayload struct {
	Event         WebhookEvent   `json:"event"`
	TransactionID string         `json:"transactionId"`
	Reference     string         `json:"reference"`
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	Status        string         `json:"status"`
	Timestamp     string         `json:"timestamp"`
	Signature     string         `json:"signature"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

const signatureHeader = "x-neero-signature"

// WebhookHandler verifies and routes gateway callbacks. Nothing is processed
// before the signature check passes.
type WebhookHandler struct {
	Handler
	service port.Service
	gateway port.GatewayClient
}

func NewWebhookHandler(service port.Service, gateway port.GatewayClient,
	logger *zap.Logger) (*WebhookHandler, error) {
	return &WebhookHandler{
		Handler: *NewHandler(logger),
		service: service,
		gateway: gateway,
	}, nil
}

func (wh *WebhookHandler) Handle(ctx *gin.Context) {
	rawBody, err := ctx.GetRawData()
	if err != nil {
		wh.handleError(ctx, domain.ErrBadRequest)
		return
	}

	signature := ctx.GetHeader(signatureHeader)
	if signature == "" {
		wh.handleError(ctx, domain.ErrMissingSignature)
		return
	}
	if !wh.gateway.VerifyWebhookSignature(rawBody, signature) {
		wh.handleError(ctx, domain.ErrInvalidSignature)
		return
	}

	payload := webhookPayload{}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		wh.handleError(ctx, domain.ErrBadRequest)
		return
	}

	switch payload.Event {
	case EventPaymentCompleted:
		result, err := wh.service.HandlePaymentCompleted(ctx, payload.TransactionID)
		if err != nil {
			wh.handleError(ctx, err)
			return
		}
		wh.logger.Info("payment completed",
			zap.String("transaction", payload.TransactionID),
			zap.Float64("amount", payload.Amount),
			zap.String("currency", payload.Currency),
			zap.Bool("alreadyProcessed", result.AlreadyProcessed),
			zap.Int("milestone", result.MilestoneCompleted),
			zap.Bool("allMilestonesPaid", result.AllMilestonesPaid))

	case EventPaymentFailed:
		if err := wh.service.HandlePaymentFailed(ctx, payload.TransactionID); err != nil {
			wh.handleError(ctx, err)
			return
		}
		wh.logger.Info("payment failed",
			zap.String("transaction", payload.TransactionID))

	case EventTransferCompleted:
		// TODO: settle the provider wallet once wallets exist; log only for now
		wh.logger.Info("transfer completed, no follow-through implemented",
			zap.String("transaction", payload.TransactionID),
			zap.Float64("amount", payload.Amount))

	case EventTransferFailed:
		wh.logger.Error("transfer failed, manual review required",
			zap.String("transaction", payload.TransactionID),
			zap.String("status", payload.Status))

	default:
		wh.logger.Warn("unhandled webhook event", zap.String("event", string(payload.Event)))
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
