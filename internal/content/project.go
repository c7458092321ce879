package content

import (
	"context"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
)

func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	fields, err := s.validate.Fields(&in)
	if err != nil {
		return nil, err
	}
	thumb := checkImage(in.Thumbnail, "thumbnail", s.limits.MaxImageBytes, fields)
	sl := resolveSlug(in.Slug, in.Title)
	requireSlug(sl, fields)
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	if err := checkSlug(ctx, s.stores.Projects, sl, 0); err != nil {
		return nil, err
	}

	path, err := s.storeImage(ctx, thumb, storage.BucketProjects)
	if err != nil {
		return nil, err
	}
	f := in.fields()
	f.Slug = sl
	if path != "" {
		f.Thumbnail = &path
	}
	p, err := s.stores.Projects.Create(ctx, f)
	if err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	s.changed(ctx, EntityProjects)
	return p, nil
}

// UpdateProject applies in to project id. Without a new upload the stored
// thumbnail is kept.
func (s *Service) UpdateProject(ctx context.Context, id uint, in ProjectInput) (*models.Project, error) {
	if _, err := s.stores.Projects.Get(ctx, id); err != nil {
		return nil, err
	}
	fields, err := s.validate.Fields(&in)
	if err != nil {
		return nil, err
	}
	thumb := checkImage(in.Thumbnail, "thumbnail", s.limits.MaxImageBytes, fields)
	var sl *string
	if in.Slug != nil {
		sl = resolveSlug(in.Slug, in.Title)
		requireSlug(sl, fields)
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	if err := checkSlug(ctx, s.stores.Projects, sl, id); err != nil {
		return nil, err
	}

	path, err := s.storeImage(ctx, thumb, storage.BucketProjects)
	if err != nil {
		return nil, err
	}
	f := in.fields()
	f.Slug = sl
	if path != "" {
		f.Thumbnail = &path
	}
	updated, previous, err := s.stores.Projects.Update(ctx, id, f)
	if err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	s.replaced(ctx, previous.Thumbnail, path)
	s.changed(ctx, EntityProjects)
	return updated, nil
}

func (s *Service) DeleteProject(ctx context.Context, id uint) error {
	p, err := s.stores.Projects.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Thumbnail != nil {
		s.removeFile(ctx, *p.Thumbnail)
	}
	if _, err := s.stores.Projects.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityProjects)
	return nil
}
