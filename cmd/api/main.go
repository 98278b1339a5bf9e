package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/unimarket/internal/auth"
	"github.com/MrJamesThe3rd/unimarket/internal/config"
	"github.com/MrJamesThe3rd/unimarket/internal/database"
	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	escrowStore "github.com/MrJamesThe3rd/unimarket/internal/escrow/store"
	unimarketHttp "github.com/MrJamesThe3rd/unimarket/internal/http"
	escrowHandler "github.com/MrJamesThe3rd/unimarket/internal/http/escrow"
	jobsHandler "github.com/MrJamesThe3rd/unimarket/internal/http/jobs"
	listingHandler "github.com/MrJamesThe3rd/unimarket/internal/http/listing"
	"github.com/MrJamesThe3rd/unimarket/internal/http/middleware"
	notificationHandler "github.com/MrJamesThe3rd/unimarket/internal/http/notification"
	paymentHandler "github.com/MrJamesThe3rd/unimarket/internal/http/payment"
	txHandler "github.com/MrJamesThe3rd/unimarket/internal/http/transaction"
	"github.com/MrJamesThe3rd/unimarket/internal/jobs"
	"github.com/MrJamesThe3rd/unimarket/internal/listing"
	listingStore "github.com/MrJamesThe3rd/unimarket/internal/listing/store"
	"github.com/MrJamesThe3rd/unimarket/internal/logging"
	"github.com/MrJamesThe3rd/unimarket/internal/metrics"
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/unimarket/internal/notification/store"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/payment/paystack"
	paymentStore "github.com/MrJamesThe3rd/unimarket/internal/payment/store"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
	txStore "github.com/MrJamesThe3rd/unimarket/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg.App.Env, cfg.App.LogLevel))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supportUserID, err := cfg.SupportUserID()
	if err != nil {
		return err
	}

	if cfg.Paystack.SecretKey == "" {
		slog.Warn("PAYSTACK_SECRET_KEY is empty, gateway calls will be rejected")
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.App.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	metrics.Register()

	gateway := paystack.New(paystack.Config{
		SecretKey: cfg.Paystack.SecretKey,
		BaseURL:   cfg.Paystack.BaseURL,
		Currency:  cfg.Paystack.Currency,
		Timeout:   cfg.Paystack.Timeout,
	})

	var (
		transactionService  = transaction.NewService(txStore.New(db))
		escrowService       = escrow.NewService(escrowStore.New(db), supportUserID)
		listingService      = listing.NewService(listingStore.New(db))
		notificationService = notification.NewService(notificationStore.New(db))
		checkout            = payment.NewCheckout(paymentStore.New(db), gateway, payment.Config{
			CallbackURL: cfg.CallbackURL(),
			Currency:    cfg.Paystack.Currency,
			HoldPeriod:  cfg.Escrow.HoldPeriod,
		})
		sweeper = jobs.NewSweeper(escrowService, listingService, gateway, cfg.Escrow.SweepBatch)
	)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Hour)
	verifyLimiter := middleware.NewRateLimiter(cfg.RateLimit.VerifyPerMinute, cfg.RateLimit.VerifyBurst)

	router := unimarketHttp.New(
		unimarketHttp.Options{
			AllowedOrigins: []string{cfg.App.URL},
			Session:        middleware.Session(tokens),
			CronSecret:     cfg.Jobs.CronSecret,
			TrustProxy:     cfg.Server.TrustProxy,
		},
		unimarketHttp.Handlers{
			Transactions:  txHandler.NewHandler(transactionService, checkout),
			Escrow:        escrowHandler.NewHandler(escrowService),
			Payments:      paymentHandler.NewHandler(checkout, cfg.App.URL, verifyLimiter.Middleware),
			Listings:      listingHandler.NewHandler(listingService, checkout),
			Notifications: notificationHandler.NewHandler(notificationService),
			Jobs:          jobsHandler.NewHandler(sweeper),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "env", cfg.App.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
