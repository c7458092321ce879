package handlers

import (
	"context"
	"net/http"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/cache"
	"github.com/aTrapDeer/portfolio-backend/internal/content"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/respond"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/projection"
)

// cached serves fetch through the public read cache under key.
func cached[T any](d deps.Deps, key func(r *http.Request) string, fetch func(ctx context.Context, r *http.Request) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := cache.Remember(r.Context(), d.Cache, d.Logger, key(r), func(ctx context.Context) (T, error) {
			return fetch(ctx, r)
		})
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func listKey(entity string) func(*http.Request) string {
	return func(*http.Request) string { return cache.Key(entity, "list") }
}

func showKey(entity string) func(*http.Request) string {
	return func(r *http.Request) string { return cache.Key(entity, "show", keyParam(r)) }
}

func PublicProjects(d deps.Deps) http.HandlerFunc {
	return cached(d, listKey(content.EntityProjects), func(ctx context.Context, _ *http.Request) ([]projection.ProjectSummary, error) {
		ps, err := d.Stores.Projects.List(ctx)
		if err != nil {
			return nil, err
		}
		return d.Projection.Projects(ps), nil
	})
}

func PublicProject(d deps.Deps) http.HandlerFunc {
	return cached(d, showKey(content.EntityProjects), func(ctx context.Context, r *http.Request) (projection.ProjectDetail, error) {
		p, err := d.Stores.Projects.GetBySlug(ctx, keyParam(r))
		if err != nil {
			return projection.ProjectDetail{}, err
		}
		return d.Projection.ProjectDetail(*p)
	})
}

func PublicResources(d deps.Deps) http.HandlerFunc {
	return cached(d, listKey(content.EntityResources), func(ctx context.Context, _ *http.Request) ([]projection.ResourceView, error) {
		rs, err := d.Stores.Resources.List(ctx)
		if err != nil {
			return nil, err
		}
		return d.Projection.Resources(rs), nil
	})
}

func PublicResource(d deps.Deps) http.HandlerFunc {
	return cached(d, showKey(content.EntityResources), func(ctx context.Context, r *http.Request) (projection.ResourceView, error) {
		res, err := d.Stores.Resources.GetBySlug(ctx, keyParam(r))
		if err != nil {
			return projection.ResourceView{}, err
		}
		return d.Projection.Resource(*res), nil
	})
}

func PublicSkills(d deps.Deps) http.HandlerFunc {
	return cached(d, listKey(content.EntitySkills), func(ctx context.Context, _ *http.Request) ([]projection.SkillView, error) {
		ss, err := d.Stores.Skills.List(ctx)
		if err != nil {
			return nil, err
		}
		return d.Projection.Skills(ss), nil
	})
}

func PublicExperiences(d deps.Deps) http.HandlerFunc {
	return cached(d, listKey(content.EntityExperiences), func(ctx context.Context, _ *http.Request) ([]projection.ExperienceView, error) {
		es, err := d.Stores.Experiences.List(ctx)
		if err != nil {
			return nil, err
		}
		return d.Projection.Experiences(es), nil
	})
}

// DownloadResource counts a download and redirects to the resource's
// file_url. Every call counts.
func DownloadResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "Resource")
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		res, err := d.Stores.Resources.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		if res.FileURL == nil || *res.FileURL == "" {
			respond.Error(w, d.Logger, apperr.New(apperr.CodeNotFound, "Resource has no downloadable file", http.StatusNotFound))
			return
		}
		res, err = d.Content.RecordDownload(r.Context(), id)
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		d.Logger.Debug("resource downloaded", logger.Uint("id", res.ID), logger.Int("count", res.DownloadCount))
		http.Redirect(w, r, *res.FileURL, http.StatusFound)
	}
}

type contactResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

func SubmitContact(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in content.ContactInput
		if err := bind(w, r, d, &in); err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		c, err := d.Content.SubmitContact(r.Context(), in)
		if err != nil {
			respond.WithInput(w, d.Logger, err, in)
			return
		}
		d.Mail.ContactReceived(c)
		respond.JSON(w, http.StatusCreated, contactResponse{ID: c.ID, Message: "Thanks for your message."})
	}
}
