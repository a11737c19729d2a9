package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partyhub-backend/internal/client"
	"partyhub-backend/internal/config"
	"partyhub-backend/internal/repository"
	"partyhub-backend/internal/server"
	"partyhub-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	db := client.InitMysqlClient(cfg.DatabaseURL)
	stripeClient := client.NewStripeClient(cfg.Stripe.SecretKey, cfg.BaseURL)
	gelatoClient := client.NewGelatoClient(&cfg.Gelato)
	mailClient := client.NewMailClient(&cfg.Mail)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	planRepo := repository.NewPlanRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customOrderRepo := repository.NewCustomOrderRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	ctx := context.Background()
	if err := productRepo.Seed(ctx); err != nil {
		log.Fatal("seed products:", err)
	}
	if err := planRepo.Seed(ctx); err != nil {
		log.Fatal("seed plans:", err)
	}

	fulfillmentService := service.NewFulfillmentService(gelatoClient, customOrderRepo)
	notificationService := service.NewNotificationService(mailClient, userRepo, orderRepo, customOrderRepo, planRepo)

	svcs := server.Services{
		Checkout: service.NewCheckoutService(db, stripeClient, productRepo, orderRepo, customOrderRepo, quoteRepo, planRepo),
		Order:    service.NewOrderService(orderRepo, customOrderRepo),
		Reconcile: service.NewReconcileService(
			stripeClient,
			orderRepo,
			customOrderRepo,
			quoteRepo,
			subscriptionRepo,
			planRepo,
			webhookEventRepo,
			fulfillmentService,
			notificationService,
		),
		Provider: service.NewProviderService(stripeClient, quoteRepo),
		Plan:     service.NewPlanService(planRepo),
		User:     service.NewUserService(db, userRepo, subscriptionRepo),
	}

	srv := server.NewServer(cfg, svcs)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}

func setupLogger(cfg config.Log) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
