package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/api/routes"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/auth"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/blogs"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/cart"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/checkout"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/orders"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/products"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/users"
	stripewebhook "github.com/abdullahdev0325-ai/followers-shop-sub000/internal/webhooks/stripe"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/wishlist"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/auth/session"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/metrics"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/migrate"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/redis"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/stripe"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"env": cfg.App.Env},
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	rules, err := pricing.RulesFromConfig(cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "invalid checkout pricing", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)

	otpManager, err := auth.NewOTPManager(redisClient, cfg.OTP, cfg.JWT.Secret)
	must(logg, "otp manager", err)
	otpSender, err := auth.NewOTPSender(cfg.App, cfg.SMTP, logg)
	must(logg, "otp sender", err)
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		OTP:            otpManager,
		OTPSender:      otpSender,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	must(logg, "auth service", err)

	userService, err := users.NewService(userRepo)
	must(logg, "users service", err)
	productService, err := products.NewService(productRepo)
	must(logg, "products service", err)
	blogService, err := blogs.NewService(blogs.NewRepository(conn))
	must(logg, "blogs service", err)
	cartService, err := cart.NewService(cartRepo, productRepo)
	must(logg, "cart service", err)
	wishlistService, err := wishlist.NewService(wishlist.NewRepository(conn), productRepo)
	must(logg, "wishlist service", err)
	orderService, err := orders.NewService(orderRepo, dbClient)
	must(logg, "orders service", err)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:         dbClient,
		Cart:       cartRepo,
		Orders:     orderRepo,
		Payments:   stripeClient,
		Rules:      rules,
		Currency:   stripeClient.Currency(),
		SuccessURL: cfg.Checkout.SuccessURL,
		CancelURL:  cfg.Checkout.CancelURL,
		Logger:     logg,
	})
	must(logg, "checkout service", err)

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{Orders: orderService, Logger: logg})
	must(logg, "stripe webhook service", err)
	webhookGuard, err := stripewebhook.NewEventGuard(redisClient, stripewebhook.DefaultEventTTL, "stripe")
	must(logg, "stripe event guard", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := routes.NewRouter(routes.Dependencies{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		Sessions:      sessionManager,
		Metrics:       metrics.NewHTTPMetrics(registry),
		Gatherer:      registry,
		Auth:          authService,
		Users:         userService,
		Products:      productService,
		Blogs:         blogService,
		Cart:          cartService,
		Wishlist:      wishlistService,
		Checkout:      checkoutService,
		Orders:        orderService,
		Stripe:        stripeClient,
		StripeWebhook: webhookService,
		StripeGuard:   webhookGuard,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithField(context.Background(), "addr", addr)
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server stopped")
	}
}

func must(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
