package handlers

import (
	"net/http"

	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/respond"
)

func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Dashboard.Summary(r.Context())
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		for i := range s.RecentProjects {
			s.RecentProjects[i].Thumbnail = d.Projection.URL(s.RecentProjects[i].Thumbnail)
		}
		w.Header().Set("Cache-Control", "no-store")
		respond.JSON(w, http.StatusOK, s)
	}
}
