package handlers

import (
	"context"
	"net/http"

	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/respond"
)

// Admin handlers return stored records as-is; paths stay storage-relative.

func list[T any](d deps.Deps, fetch func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fetch(r.Context())
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func showByKey[T any](d deps.Deps, fetch func(context.Context, string) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fetch(r.Context(), keyParam(r))
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func showByID[T any](d deps.Deps, resource string, fetch func(context.Context, uint) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, resource)
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		out, err := fetch(r.Context(), id)
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func create[In, Out any](d deps.Deps, write func(context.Context, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := bind(w, r, d, &in); err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		out, err := write(r.Context(), in)
		if err != nil {
			respond.WithInput(w, d.Logger, err, in)
			return
		}
		respond.JSON(w, http.StatusCreated, out)
	}
}

func update[In, Out any](d deps.Deps, resource string, write func(context.Context, uint, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, resource)
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		var in In
		if err := bind(w, r, d, &in); err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		out, err := write(r.Context(), id, in)
		if err != nil {
			respond.WithInput(w, d.Logger, err, in)
			return
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func destroy(d deps.Deps, resource string, remove func(context.Context, uint) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, resource)
		if err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		if err := remove(r.Context(), id); err != nil {
			respond.Error(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Projects

func ListProjects(d deps.Deps) http.HandlerFunc {
	return list(d, d.Stores.Projects.List)
}

func ShowProject(d deps.Deps) http.HandlerFunc {
	return showByKey(d, d.Stores.Projects.GetBySlugOrID)
}

func CreateProject(d deps.Deps) http.HandlerFunc {
	return create(d, d.Content.CreateProject)
}

func UpdateProject(d deps.Deps) http.HandlerFunc {
	return update(d, "Project", d.Content.UpdateProject)
}

func DeleteProject(d deps.Deps) http.HandlerFunc {
	return destroy(d, "Project", d.Content.DeleteProject)
}

// Skills

func ListSkills(d deps.Deps) http.HandlerFunc {
	return list(d, d.Stores.Skills.List)
}

func ShowSkill(d deps.Deps) http.HandlerFunc {
	return showByKey(d, d.Stores.Skills.GetBySlugOrID)
}

func CreateSkill(d deps.Deps) http.HandlerFunc {
	return create(d, d.Content.CreateSkill)
}

func UpdateSkill(d deps.Deps) http.HandlerFunc {
	return update(d, "Skill", d.Content.UpdateSkill)
}

func DeleteSkill(d deps.Deps) http.HandlerFunc {
	return destroy(d, "Skill", d.Content.DeleteSkill)
}

// Experiences have no slug and are addressed by id only.

func ListExperiences(d deps.Deps) http.HandlerFunc {
	return list(d, d.Stores.Experiences.List)
}

func ShowExperience(d deps.Deps) http.HandlerFunc {
	return showByID(d, "Experience", d.Stores.Experiences.Get)
}

func CreateExperience(d deps.Deps) http.HandlerFunc {
	return create(d, d.Content.CreateExperience)
}

func UpdateExperience(d deps.Deps) http.HandlerFunc {
	return update(d, "Experience", d.Content.UpdateExperience)
}

func DeleteExperience(d deps.Deps) http.HandlerFunc {
	return destroy(d, "Experience", d.Content.DeleteExperience)
}

// Resources

func ListResources(d deps.Deps) http.HandlerFunc {
	return list(d, d.Stores.Resources.List)
}

func ShowResource(d deps.Deps) http.HandlerFunc {
	return showByKey(d, d.Stores.Resources.GetBySlugOrID)
}

func CreateResource(d deps.Deps) http.HandlerFunc {
	return create(d, d.Content.CreateResource)
}

func UpdateResource(d deps.Deps) http.HandlerFunc {
	return update(d, "Resource", d.Content.UpdateResource)
}

func DeleteResource(d deps.Deps) http.HandlerFunc {
	return destroy(d, "Resource", d.Content.DeleteResource)
}

// Contact messages

func ListContacts(d deps.Deps) http.HandlerFunc {
	return list(d, d.Stores.Contacts.List)
}

func ShowContact(d deps.Deps) http.HandlerFunc {
	return showByID(d, "Message", d.Stores.Contacts.Get)
}

func MarkContactRead(d deps.Deps) http.HandlerFunc {
	return showByID(d, "Message", d.Content.MarkContactRead)
}

func DeleteContact(d deps.Deps) http.HandlerFunc {
	return destroy(d, "Message", d.Content.DeleteContact)
}
