package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/cart"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/catalog"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/checkout"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/config"
	h "github.com/Tashika-Wijesooriya/GemXpert/internal/http"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/idempotency"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/logger"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/orders"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/payment"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)
	defer zap.RedirectStdLog(zl)()

	log.Println("storefront starting...")

	// Incoming traceparent headers end up in request contexts and log lines.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	var publisher orders.Publisher = orders.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = orders.NewKafkaPublisher(cfg.KafkaBrokers...)
		log.Printf("Publishing order events to %v", cfg.KafkaBrokers)
	}

	payments := payment.NewBreaker(
		payment.NewSimulated(payment.RandomStatus{SuccessRate: cfg.PaymentSuccessRate}),
		payment.BreakerSettings{Name: "simulated-payments"},
	)

	catalogService := catalog.NewService(st.catalog)
	cartService := cart.NewService(st.sessions, cart.NewRedisCache(redisClient), catalogService)
	orderService := orders.NewService(st.orders, publisher)
	checkoutService := checkout.NewService(cartService, orderService, payments, checkout.Config{
		Pricing:        cfg.Pricing,
		Currency:       cfg.Currency,
		PaymentTimeout: cfg.PaymentTimeout,
	})

	limiter := h.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	go limiter.Cleanup(ctx, 5*time.Minute)

	router := h.NewRouter(h.Deps{
		Cart:        cartService,
		Checkout:    checkoutService,
		Orders:      orderService,
		Catalog:     catalogService,
		Auth:        h.NewAuthenticator(cfg.JWTSecret),
		RateLimiter: limiter,
		Idempotency: idempotency.NewStore(redisClient, cfg.IdempotencyTTL),
		Payment: h.PaymentConfig{
			Provider: "simulated",
			Currency: cfg.Currency,
		},
		RequestTimeout:     cfg.RequestTimeout,
		PaymentTimeout:     cfg.PaymentTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + cfg.PaymentTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	stop()

	if err := publisher.Close(); err != nil {
		log.Printf("close publisher: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("close redis: %v", err)
	}
	st.close(shutdownCtx)

	log.Println("server exited")
}
