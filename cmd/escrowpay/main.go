package main

import (
	"context"
	"fmt"

	"github.com/taskmarket/escrowpay/internal/adapter/auth"
	"github.com/taskmarket/escrowpay/internal/adapter/client/neero"
	"github.com/taskmarket/escrowpay/internal/adapter/config"
	"github.com/taskmarket/escrowpay/internal/adapter/handler/http"
	"github.com/taskmarket/escrowpay/internal/adapter/logger"
	"github.com/taskmarket/escrowpay/internal/adapter/storage"
	"github.com/taskmarket/escrowpay/internal/adapter/storage/repository"
	"github.com/taskmarket/escrowpay/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}

	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	gateway, err := neero.NewClient(conf.Gateway, log.Named("Neero"))
	if err != nil {
		log.Error("gateway client creating error", zap.Error(err))
		return
	}

	callbackURL := conf.HTTP.PublicURL + "/api/webhooks/neero"
	svc, err := service.NewService(repo, gateway, callbackURL, log.Named("Escrow"))
	if err != nil {
		log.Error("escrow service creating error", zap.Error(err))
		return
	}

	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(svc, conf.HTTP.PublicURL, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}
	webhookHandler, err := http.NewWebhookHandler(svc, gateway, log.Named("Webhook handler"))
	if err != nil {
		log.Error("webhook handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, orderHandler, paymentHandler, webhookHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
