package neero

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/govalues/decimal"
	"github.com/taskmarket/escrowpay/internal/adapter/config"
	"github.com/taskmarket/escrowpay/internal/core/domain"
	"github.com/taskmarket/escrowpay/internal/core/port"
	"go.uber.org/zap"
)

// Client talks to the Neero payment gateway. It carries no business state;
// every method is a single request/response translation.
type Client struct {
	cfg        *config.Gateway
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.Gateway, log *zap.Logger) (*Client, error) {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     log,
	}, nil
}

// wireAmount marshals a decimal as a plain JSON number for the gateway API.
type wireAmount decimal.Decimal

func (a wireAmount) MarshalJSON() ([]byte, error) {
	s := fmt.Sprintf("%f", decimal.Decimal(a))
	return []byte(s), nil
}

type initiateRequest struct {
	Amount      wireAmount     `json:"amount"`
	Currency    string         `json:"currency"`
	OrderID     string         `json:"orderId"`
	CustomerID  string         `json:"customerId"`
	Description string         `json:"description"`
	ReturnURL   string         `json:"returnUrl"`
	CallbackURL string         `json:"callbackUrl"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type initiateResponse struct {
	Success       bool      `json:"success"`
	TransactionID string    `json:"transactionId"`
	PaymentURL    string    `json:"paymentUrl"`
	Reference     string    `json:"reference"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type statusResponse struct {
	Success       bool       `json:"success"`
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Reference     string     `json:"reference"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

type releaseRequest struct {
	TransactionID string     `json:"transactionId"`
	RecipientID   string     `json:"recipientId"`
	Amount        wireAmount `json:"amount"`
	Description   string     `json:"description"`
}

type refundRequest struct {
	Amount *wireAmount `json:"amount,omitempty"`
}

type transferResponse struct {
	Success     bool      `json:"success"`
	TransferID  string    `json:"transferId"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processedAt"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) InitiatePayment(ctx context.Context,
	req *port.PaymentInitiateRequest) (*port.PaymentInitiateResponse, error) {
	body := initiateRequest{
		Amount:      wireAmount(req.Amount),
		Currency:    req.Currency,
		OrderID:     req.OrderID,
		CustomerID:  req.CustomerID,
		Description: req.Description,
		ReturnURL:   req.ReturnURL,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	var resp initiateResponse
	err := c.doRequest(ctx, "initiate", http.MethodPost, "/api/v1/payments/initiate", body, &resp)
	if err != nil {
		return nil, err
	}

	return &port.PaymentInitiateResponse{
		TransactionID: resp.TransactionID,
		PaymentURL:    resp.PaymentURL,
		Reference:     resp.Reference,
		ExpiresAt:     resp.ExpiresAt,
	}, nil
}

func (c *Client) PaymentStatus(ctx context.Context,
	transactionID string) (*port.PaymentStatusSnapshot, error) {
	var resp statusResponse
	path := fmt.Sprintf("/api/v1/payments/%s/status", transactionID)
	err := c.doRequest(ctx, "status", http.MethodGet, path, nil, &resp)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromFloat64(resp.Amount)
	if err != nil {
		return nil, &domain.GatewayError{Op: "status", Message: "bad amount in response"}
	}

	return &port.PaymentStatusSnapshot{
		TransactionID: resp.TransactionID,
		Status:        resp.Status,
		Amount:        amount,
		Currency:      resp.Currency,
		Reference:     resp.Reference,
		PaidAt:        resp.PaidAt,
	}, nil
}

func (c *Client) ReleasePayment(ctx context.Context,
	req *port.PaymentReleaseRequest) (*port.TransferResult, error) {
	body := releaseRequest{
		TransactionID: req.TransactionID,
		RecipientID:   req.RecipientID,
		Amount:        wireAmount(req.Amount),
		Description:   req.Description,
	}

	var resp transferResponse
	err := c.doRequest(ctx, "release", http.MethodPost, "/api/v1/payments/release", body, &resp)
	if err != nil {
		return nil, err
	}

	return &port.TransferResult{
		TransferID:  resp.TransferID,
		Status:      resp.Status,
		ProcessedAt: resp.ProcessedAt,
	}, nil
}

func (c *Client) RefundPayment(ctx context.Context,
	transactionID string, amount *decimal.Decimal) (*port.TransferResult, error) {
	body := refundRequest{}
	if amount != nil {
		a := wireAmount(*amount)
		body.Amount = &a
	}

	var resp transferResponse
	path := fmt.Sprintf("/api/v1/payments/%s/refund", transactionID)
	err := c.doRequest(ctx, "refund", http.MethodPost, path, body, &resp)
	if err != nil {
		return nil, err
	}

	return &port.TransferResult{
		TransferID:  resp.TransferID,
		Status:      resp.Status,
		ProcessedAt: resp.ProcessedAt,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature the gateway sends
// with every webhook. Comparison is constant time.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.cfg.WebhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

func (c *Client) doRequest(ctx context.Context,
	op string, method string, path string, body any, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = new(bytes.Buffer)
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return &domain.GatewayError{Op: op, Message: err.Error()}
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, http.NoBody)
	}
	if err != nil {
		return &domain.GatewayError{Op: op, Message: err.Error()}
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("X-Merchant-ID", c.cfg.MerchantID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway unreachable", zap.String("op", op), zap.Error(err))
		return &domain.GatewayError{Op: op, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gwErr := &domain.GatewayError{Op: op, StatusCode: resp.StatusCode, Message: resp.Status}
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Message != "" {
			gwErr.Message = errResp.Message
		}
		c.logger.Error("gateway error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", gwErr.Message))
		return gwErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.GatewayError{Op: op, Message: fmt.Sprintf("error on response decode: %s", err)}
	}
	return nil
}
