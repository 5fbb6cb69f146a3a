package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	otpapp "github.com/handabata/otp-service/internal/application/otp"
	"github.com/handabata/otp-service/internal/application/token"
	"github.com/handabata/otp-service/internal/config"
	"github.com/handabata/otp-service/internal/transport/http/handler"
	appmiddleware "github.com/handabata/otp-service/internal/transport/http/middleware"
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

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	limits := otpapp.NewRateLimitPolicy(deps.RateLimitRepo, cfg.RateLimitMaxAttempts, cfg.RateLimitWindow)
	otpSvc := otpapp.NewService(otpapp.ServiceDeps{
		OTPRepo:   deps.OTPRepo,
		UserRepo:  deps.UserRepo,
		Limits:    limits,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
		Validity:  cfg.OTPValidity,
	})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/otp/{purpose}/{action}", otpH.Action)

		if deps.JWTProvider != nil {
			tokenSvc := token.NewService(deps.UserRepo, deps.JWTProvider)
			tokenH := handler.NewTokenHandler(tokenSvc)
			r.With(sensitiveRL.Limit).Post("/auth/token", tokenH.Create)

			// ── Authenticated routes ─────────────────────────────────────────
			phoneH := handler.NewPhoneHandler(otpSvc)
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.Auth(deps.JWTProvider))
				r.Post("/phone/{action}", phoneH.Action)
			})
		}
	})

	return r
}
