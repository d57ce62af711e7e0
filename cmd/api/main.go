package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"heritage-boutique/internal/antispam"
	"heritage-boutique/internal/config"
	"heritage-boutique/internal/db"
	"heritage-boutique/internal/httpserver"
	"heritage-boutique/internal/ratelimit"
	"heritage-boutique/internal/redisdb"
	anoncartrepo "heritage-boutique/internal/repository/anoncart"
	cartrepo "heritage-boutique/internal/repository/cart"
	customerrepo "heritage-boutique/internal/repository/customer"
	estimationrepo "heritage-boutique/internal/repository/estimation"
	orderrepo "heritage-boutique/internal/repository/order"
	productrepo "heritage-boutique/internal/repository/product"
	reservationrepo "heritage-boutique/internal/repository/reservation"
	tokenrepo "heritage-boutique/internal/repository/token"
	anonymoussvc "heritage-boutique/internal/service/anonymous"
	cartsvc "heritage-boutique/internal/service/cart"
	checkoutsvc "heritage-boutique/internal/service/checkout"
	customersvc "heritage-boutique/internal/service/customer"
	estimationsvc "heritage-boutique/internal/service/estimation"
	reservationsvc "heritage-boutique/internal/service/reservation"
)

const storeCurrency = "EUR"

func main() {
	cfg := config.FromEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	redisClient, err := redisdb.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	productRepo := productrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	localCartRepo := anoncartrepo.NewRedis(redisClient)
	customerRepo := customerrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	reservationRepo := reservationrepo.NewPostgres(dbpool)
	estimationRepo := estimationrepo.NewPostgres(dbpool)

	cartService := cartsvc.New(cartRepo, localCartRepo, productRepo, storeCurrency, logger)
	customerService := customersvc.New(customerRepo, tokenRepo)
	anonymousService := anonymoussvc.New()
	checkoutService := checkoutsvc.New(orderRepo, cartService, logger)
	estimationService := estimationsvc.New(estimationRepo)
	reservationService := reservationsvc.New(reservationRepo)

	limiter := ratelimit.New(ratelimit.NewRedis(redisClient), cfg.RateLimitMax, cfg.RateLimitWindow)
	gate := antispam.NewGate(antispam.Options{
		BaseDelay:   cfg.SpamBaseDelay,
		MaxDelay:    cfg.SpamMaxDelay,
		MaxAttempts: cfg.SpamMaxAttempts,
		Cooldown:    cfg.SpamCooldown,
		Retention:   cfg.SpamRetention,
	})
	defer gate.Close()

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AnonymousSvc:   anonymousService,
		CustomerSvc:    customerService,
		CartSvc:        cartService,
		CheckoutSvc:    checkoutService,
		EstimationSvc:  estimationService,
		ReservationSvc: reservationService,
		Products:       productRepo,
		Limiter:        limiter,
		Gate:           gate,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
