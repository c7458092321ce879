package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/handlers"
)

func init() { Register(registerDashboard) }

func registerDashboard(r chi.Router, d deps.Deps) {
	r.With(d.Tokens.Require(handlers.Unauthorized(d))).Get("/dashboard", handlers.Dashboard(d))
}
