package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/handlers"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

type crud struct {
	list, show, create, update, remove http.HandlerFunc
}

// mount wires the admin verbs of one entity. Updates accept POST as well as
// PUT so multipart forms can be sent from plain HTML forms.
func (c crud) mount(r chi.Router, path string) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", c.list)
		r.Post("/", c.create)
		r.Get("/{key}", c.show)
		r.Put("/{key}", c.update)
		r.Post("/{key}", c.update)
		r.Delete("/{key}", c.remove)
	})
}

func registerAdmin(r chi.Router, d deps.Deps) {
	r.Route("/admin", func(r chi.Router) {
		r.With(mw.RateLimit(mw.RateLimitConfig{
			Burst:      d.LoginBurst,
			PerMinute:  d.LoginPerMin,
			MaxEntries: 10000,
			TrustProxy: d.TrustProxy,
		}, d.Logger)).Post("/login", handlers.Login(d))

		r.Group(func(r chi.Router) {
			r.Use(d.Tokens.Require(handlers.Unauthorized(d)))

			crud{
				list:   handlers.ListProjects(d),
				show:   handlers.ShowProject(d),
				create: handlers.CreateProject(d),
				update: handlers.UpdateProject(d),
				remove: handlers.DeleteProject(d),
			}.mount(r, "/projects")
			crud{
				list:   handlers.ListSkills(d),
				show:   handlers.ShowSkill(d),
				create: handlers.CreateSkill(d),
				update: handlers.UpdateSkill(d),
				remove: handlers.DeleteSkill(d),
			}.mount(r, "/skills")
			crud{
				list:   handlers.ListExperiences(d),
				show:   handlers.ShowExperience(d),
				create: handlers.CreateExperience(d),
				update: handlers.UpdateExperience(d),
				remove: handlers.DeleteExperience(d),
			}.mount(r, "/experiences")
			crud{
				list:   handlers.ListResources(d),
				show:   handlers.ShowResource(d),
				create: handlers.CreateResource(d),
				update: handlers.UpdateResource(d),
				remove: handlers.DeleteResource(d),
			}.mount(r, "/resources")

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", handlers.ListContacts(d))
				r.Get("/{key}", handlers.ShowContact(d))
				r.Put("/{key}/read", handlers.MarkContactRead(d))
				r.Post("/{key}/read", handlers.MarkContactRead(d))
				r.Delete("/{key}", handlers.DeleteContact(d))
			})
		})
	})
}
