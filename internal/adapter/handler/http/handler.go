package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/taskmarket/escrowpay/internal/core/domain"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,
	domain.ErrUpdateConflict:  http.StatusConflict,

	domain.ErrUnauthorized:               http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrMissingSignature: http.StatusUnauthorized,
	domain.ErrInvalidSignature: http.StatusUnauthorized,

	domain.ErrBadRequest: http.StatusBadRequest,

	domain.ErrNotOrderBuyer:       http.StatusForbidden,
	domain.ErrNotOrderParticipant: http.StatusForbidden,

	domain.ErrOrderAlreadyFunded:     http.StatusBadRequest,
	domain.ErrOrderNotActive:         http.StatusBadRequest,
	domain.ErrOrderNotDelivered:      http.StatusBadRequest,
	domain.ErrEscrowNotFunded:        http.StatusBadRequest,
	domain.ErrOrderNotRefundable:     http.StatusBadRequest,
	domain.ErrNoMilestonePlan:        http.StatusBadRequest,
	domain.ErrFirstMilestoneUnpaid:   http.StatusBadRequest,
	domain.ErrMilestoneProcessed:     http.StatusBadRequest,
	domain.ErrNoReleasableMilestones: http.StatusBadRequest,
	domain.ErrMilestoneNotFound:      http.StatusNotFound,

	domain.ErrUnsupportedCurrency:     http.StatusUnprocessableEntity,
	domain.ErrAmountNotPositive:       http.StatusUnprocessableEntity,
	domain.ErrAmountTooLarge:          http.StatusUnprocessableEntity,
	domain.ErrInvalidMilestonePlan:    http.StatusUnprocessableEntity,
	domain.ErrInvalidStatusTransition: http.StatusConflict,
}

type jsonDecimal decimal.Decimal

func (j jsonDecimal) MarshalJSON() ([]byte, error) {
	s := fmt.Sprintf("%f", decimal.Decimal(j))
	return []byte(s), nil
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError sends an error response for a malformed request body
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrBadRequest.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	ctx.JSON(h.statusForError(err), gin.H{"error": err.Error()})
}

func (h *Handler) statusForError(err error) int {
	if statusCode, ok := errorStatusMap[err]; ok {
		return statusCode
	}

	// gateway failures carry the gateway's own status when it responded
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		if gwErr.StatusCode >= http.StatusBadRequest {
			return gwErr.StatusCode
		}
		return http.StatusBadGateway
	}

	h.logger.Error("error processing request", zap.Error(err))
	return http.StatusInternalServerError
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, data)
}
