package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
)

func init() { Register(registerStorage) }

func registerStorage(r chi.Router, d deps.Deps) {
	if d.Files == nil {
		return
	}
	r.Handle("/storage/*", http.StripPrefix("/storage", d.Files))
}
