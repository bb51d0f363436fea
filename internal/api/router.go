// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"upi-wallet/internal/api/handler"
	"upi-wallet/internal/api/middleware"
	"upi-wallet/pkg/ratelimit"
)

// Deps collects what the router needs to mount every route.
type Deps struct {
	Users          *handler.UserHandler
	Admins         *handler.AdminHandler
	Health         http.HandlerFunc
	Tokens         middleware.TokenParser
	AuthLimiter    ratelimit.Limiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(handler.DefaultTimeout))
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.Get("/health", d.Health)

	authenticate := middleware.Authenticate(d.Tokens, d.Logger)
	limited := middleware.RateLimit(d.AuthLimiter, d.Logger)

	r.Route("/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limited)
			r.Post("/signup", d.Users.Signup)
			r.Post("/login", d.Users.Login)
			r.Post("/forgot-password", d.Users.ForgotPassword)
			r.Post("/reset-login-password", d.Users.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.RequireUser(d.Logger))
			r.Get("/me", d.Users.Me)
			r.Patch("/info", d.Users.UpdateInfo)
			r.Post("/recharge", d.Users.Recharge)
			r.Post("/withdraw", d.Users.Withdraw)
			r.Get("/history", d.Users.History)
		})

		r.With(authenticate, middleware.RequireAdmin(d.Logger)).Get("/all", d.Users.ListUsers)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limited)
			r.Post("/signup", d.Admins.Signup)
			r.Post("/login", d.Admins.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.RequireAdmin(d.Logger))
			r.Get("/recharge-requests", d.Admins.ListRecharges)
			r.Post("/recharge-requests/decide", d.Admins.DecideRecharge)
			r.Get("/withdrawal-requests", d.Admins.ListWithdrawals)
			r.Post("/withdrawal-requests/decide", d.Admins.DecideWithdrawal)
		})
	})

	return r
}
