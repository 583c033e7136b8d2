// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-billing/internal/config"
	"subscription-billing/internal/domain/ports/repository"
	payAdapters "subscription-billing/internal/infra/adapters/payment"
	pg "subscription-billing/internal/infra/db/postgres"
	httpapi "subscription-billing/internal/infra/http"
	"subscription-billing/internal/infra/logging"
	"subscription-billing/internal/infra/memcache"
	"subscription-billing/internal/infra/metrics"
	red "subscription-billing/internal/infra/redis"
	"subscription-billing/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister(nil)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	userRepo := pg.NewPostgresUserRepo(pool)
	ruleRepo := pg.NewFareRuleRepoCacheDecorator(pg.NewPostgresFareRuleRepo(pool), redisClient, cfg.Redis.TTL, logger)
	discountRepo := pg.NewPostgresDiscountRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	orderRepo := pg.NewPostgresOrderRepo(pool)

	var orderCache repository.OrderCacheStore
	switch cfg.Commerce.OrderCacheBackend {
	case "memory":
		orderCache = memcache.NewOrderCache(10 * time.Minute)
	default:
		orderCache = red.NewOrderCache(redisClient)
	}
	claimer := red.NewCheckoutClaimer(redisClient)

	// ---- Payment gateways ----
	gateways, err := payAdapters.NewRegistryFromConfig(*cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("payment gateways")
	}

	// ---- Use cases ----
	pricingUC := usecase.NewPricingUseCase(discountRepo, logger)
	prorationUC := usecase.NewProrationUseCase(subRepo, orderRepo, ruleRepo, logger)
	commerceUC := usecase.NewCommerceUseCase(userRepo, ruleRepo, orderCache, pricingUC, prorationUC, cfg.Commerce.OrderCacheTTL, logger)
	paymentUC := usecase.NewPaymentUseCase(userRepo, ruleRepo, orderRepo, pricingUC, gateways, claimer, tm,
		usecase.PaymentOptions{Currency: cfg.Commerce.Currency, ClaimWindow: cfg.Commerce.ClaimWindow}, logger)

	// ---- HTTP ----
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal().Msg("auth.jwt_secret is required")
	}
	srv := httpapi.NewServer(commerceUC, paymentUC, httpapi.NewTokenAuth(cfg.Auth.JWTSecret), cfg.HTTP.RequestTimeout, logger)
	go func() {
		if err := srv.Start(cfg.HTTP.Port); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()
	logger.Info().
		Str("gateway", gateways.Default()).
		Str("order_cache", cfg.Commerce.OrderCacheBackend).
		Bool("dev", cfg.Runtime.Dev).
		Msg("billing service started")

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
