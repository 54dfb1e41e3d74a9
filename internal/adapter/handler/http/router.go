package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/taskmarket/escrowpay/internal/adapter/config"
	"github.com/taskmarket/escrowpay/internal/core/port"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	webhookHandler *WebhookHandler) (*Router, error) {

	router := gin.New()

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		// the gateway authenticates by signature, not bearer token
		api.POST("/webhooks/neero", webhookHandler.Handle)

		orders := api.Group("/orders")
		{
			orders.Use(authCheck(tokenService))
			orders.POST("", orderHandler.CreateOrder)
			orders.POST("/:order/status", orderHandler.UpdateOrderStatus)
		}

		payments := api.Group("/payments")
		{
			payments.Use(authCheck(tokenService))
			payments.POST("/initiate", paymentHandler.InitiatePayment)
			payments.POST("/milestone", paymentHandler.InitiateSecondMilestone)
			payments.POST("/release", paymentHandler.ReleasePayment)
			payments.POST("/refund", paymentHandler.RefundPayment)
			payments.GET("/status", paymentHandler.PaymentStatus)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
