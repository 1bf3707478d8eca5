package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phone-verify-api/internal/application/verification"
	"github.com/phone-verify-api/internal/config"
	"github.com/phone-verify-api/internal/transport/http/handler"
	appmiddleware "github.com/phone-verify-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — the verification endpoints are public.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	verifySvc := verification.NewService(verification.ServiceDeps{
		PendingCodes:    deps.PendingCodes,
		Quotas:          deps.Quotas,
		SMS:             deps.SMSSender,
		Tokens:          deps.TokenCodec,
		ServiceName:     cfg.SMSServiceName,
		DailyLimit:      cfg.DailyLimit,
		CodeTTL:         cfg.CodeTTL,
		TokenTTL:        cfg.TokenTTL,
		QuotaWindow:     cfg.QuotaWindow,
		StoreTTL:        cfg.StoreTTL,
		DispatchTimeout: cfg.DispatchTimeout,
	})

	healthH := handler.NewHealthHandler()
	verifyH := handler.NewVerificationHandler(verifySvc)

	r.Get("/health-check/{action}", healthH.Ping)
	r.Post("/health-check/{action}", healthH.Ping)

	r.Route("/verify", func(r chi.Router) {
		r.Use(sensitiveRL.Limit)
		r.Post("/send", verifyH.Send)
		r.Post("/check", verifyH.Check)
		r.Post("/token", verifyH.ValidateToken)
	})

	return r
}
