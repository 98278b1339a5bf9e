package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/unimarket/internal/http/escrow"
	"github.com/MrJamesThe3rd/unimarket/internal/http/jobs"
	"github.com/MrJamesThe3rd/unimarket/internal/http/listing"
	appMiddleware "github.com/MrJamesThe3rd/unimarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/unimarket/internal/http/notification"
	"github.com/MrJamesThe3rd/unimarket/internal/http/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/http/transaction"
	"github.com/MrJamesThe3rd/unimarket/internal/metrics"
)

type Handlers struct {
	Transactions  *transaction.Handler
	Escrow        *escrow.Handler
	Payments      *payment.Handler
	Listings      *listing.Handler
	Notifications *notification.Handler
	Jobs          *jobs.Handler
}

type Options struct {
	AllowedOrigins []string
	Session        func(http.Handler) http.Handler
	CronSecret     string
	// TrustProxy rewrites RemoteAddr from X-Real-IP and X-Forwarded-For.
	// Enable it only behind a proxy that sets those headers itself.
	TrustProxy bool
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	if opts.TrustProxy {
		router.Use(middleware.RealIP)
	}
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(appMiddleware.HTTPMetrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(opts.Session)
			r.Use(middleware.AllowContentType("application/json"))
			r.Route("/escrow", h.Escrow.Routes)
			h.Transactions.Routes(r)
		})

		// The gateway is trusted over the session here, so no session is
		// required.
		r.Route("/payments", h.Payments.Routes)

		r.Route("/listings", func(r chi.Router) {
			r.Use(opts.Session)
			h.Listings.Routes(r)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(opts.Session)
			h.Notifications.Routes(r)
		})
	})

	router.Route("/api/jobs", func(r chi.Router) {
		r.Use(appMiddleware.CronSecret(opts.CronSecret))
		h.Jobs.Routes(r)
	})

	return router
}
