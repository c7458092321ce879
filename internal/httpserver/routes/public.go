package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/handlers"
)

func init() { Register(registerPublic) }

func registerPublic(r chi.Router, d deps.Deps) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", handlers.PublicProjects(d))
		r.Get("/projects/{key}", handlers.PublicProject(d))
		r.Get("/resources", handlers.PublicResources(d))
		r.Get("/resources/{key}", handlers.PublicResource(d))
		r.Get("/resources/{key}/download", handlers.DownloadResource(d))
		r.Get("/skills", handlers.PublicSkills(d))
		r.Get("/experiences", handlers.PublicExperiences(d))
		r.Post("/contact", handlers.SubmitContact(d))
	})
}
