package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aTrapDeer/portfolio-backend/internal/database"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/respond"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports ready once the database answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, d.DB); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			respond.JSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}
		respond.JSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
