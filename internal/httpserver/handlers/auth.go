package handlers

import (
	"net/http"

	"github.com/aTrapDeer/portfolio-backend/internal/auth"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/respond"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/utils"
)

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c auth.Credentials
		if err := bind(w, r, d, &c); err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		s, err := d.Auth.Login(r.Context(), c)
		if err != nil {
			d.Logger.Info("login rejected",
				logger.String("email", c.Email),
				logger.String("ip", utils.ClientIP(r, d.TrustProxy)))
			respond.Error(w, d.Logger, err)
			return
		}
		d.Logger.Info("admin logged in", logger.Uint("user_id", s.User.ID))
		respond.JSON(w, http.StatusOK, s)
	}
}

// Unauthorized renders auth middleware failures in the shared error shape.
func Unauthorized(d deps.Deps) auth.ErrorWriter {
	return func(w http.ResponseWriter, _ *http.Request, err error) {
		respond.Error(w, d.Logger, err)
	}
}
