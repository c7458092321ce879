// Package content validates admin input, stores uploaded images and applies
// the writes through the stores.
//
// Write ordering against file storage: the new file is stored first, then the
// row is written. If the row write fails the new file is removed; if it
// succeeds the replaced file is removed. Deletes remove the stored file before
// the row. File removal is best effort and only logged.
package content

import (
	"context"
	"strings"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/slug"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
	"github.com/aTrapDeer/portfolio-backend/internal/store"
	"github.com/aTrapDeer/portfolio-backend/internal/validation"
)

// Entity names, shared with the cache and the change notifications.
const (
	EntityProjects    = "projects"
	EntitySkills      = "skills"
	EntityExperiences = "experiences"
	EntityResources   = "resources"
	EntityContacts    = "contacts"
)

// Notifier is told about every successful write.
type Notifier interface {
	Changed(ctx context.Context, entity string)
}

type NotifierFunc func(ctx context.Context, entity string)

func (f NotifierFunc) Changed(ctx context.Context, entity string) { f(ctx, entity) }

type Limits struct {
	MaxImageBytes     int64 // project thumbnails, company logos
	MaxThumbnailBytes int64 // resource thumbnails
}

type Stores struct {
	Projects    *store.ProjectStore
	Skills      *store.SkillStore
	Experiences *store.ExperienceStore
	Resources   *store.ResourceStore
	Contacts    *store.ContactStore
}

type Service struct {
	stores   Stores
	files    storage.Storage
	validate *validation.Validator
	limits   Limits
	notify   Notifier
	log      logger.Logger
}

func NewService(stores Stores, files storage.Storage, limits Limits, notify Notifier, log logger.Logger) *Service {
	if notify == nil {
		notify = NotifierFunc(func(context.Context, string) {})
	}
	v := validation.New()
	registerRules(v)
	return &Service{
		stores:   stores,
		files:    files,
		validate: v,
		limits:   limits,
		notify:   notify,
		log:      log,
	}
}

func (s *Service) changed(ctx context.Context, entity string) {
	s.notify.Changed(ctx, entity)
}

// removeFile deletes a stored file, logging instead of failing.
func (s *Service) removeFile(ctx context.Context, path string) {
	if path == "" || storage.IsAbsoluteURL(path) {
		return
	}
	if err := s.files.Delete(ctx, path); err != nil {
		s.log.Warn("failed to remove stored file", logger.String("path", path), logger.Error(err))
	}
}

// replaced removes the old file once a write has switched to a new one.
func (s *Service) replaced(ctx context.Context, old *string, current string) {
	if current == "" || old == nil || *old == current {
		return
	}
	s.removeFile(ctx, *old)
}

type slugChecker interface {
	SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
}

// resolveSlug picks the slug for a write: the supplied one, or one derived
// from title when the supplied value is blank. It returns nil when neither
// is given, meaning "leave unchanged".
func resolveSlug(supplied, title *string) *string {
	if supplied != nil && strings.TrimSpace(*supplied) != "" {
		v := strings.TrimSpace(*supplied)
		return &v
	}
	if title == nil {
		return nil
	}
	v := slug.Make(*title)
	return &v
}

// requireSlug records a field error when a resolved slug came out empty,
// e.g. a title made only of punctuation.
func requireSlug(s *string, fields map[string]string) {
	if s != nil && *s == "" {
		if _, bad := fields["slug"]; !bad {
			fields["slug"] = "The slug field is required."
		}
	}
}

// checkSlug runs after every other rule has passed and returns the slug
// conflict error when s is used by another row.
func checkSlug(ctx context.Context, sc slugChecker, s *string, exceptID uint) error {
	if s == nil {
		return nil
	}
	taken, err := sc.SlugTaken(ctx, *s, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.SlugTaken(*s)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
