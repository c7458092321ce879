package content

import (
	"context"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
)

func (s *Service) CreateResource(ctx context.Context, in ResourceInput) (*models.Resource, error) {
	fields, err := s.validate.Fields(&in)
	if err != nil {
		return nil, err
	}
	thumb := checkImage(in.Thumbnail, "thumbnail", s.limits.MaxThumbnailBytes, fields)
	sl := resolveSlug(in.Slug, in.Title)
	requireSlug(sl, fields)
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	if err := checkSlug(ctx, s.stores.Resources, sl, 0); err != nil {
		return nil, err
	}

	path, err := s.storeImage(ctx, thumb, storage.BucketResourceThumbnails)
	if err != nil {
		return nil, err
	}
	f := in.fields()
	f.Slug = sl
	if path != "" {
		f.Thumbnail = &path
	}
	r, err := s.stores.Resources.Create(ctx, f)
	if err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	s.changed(ctx, EntityResources)
	return r, nil
}

// UpdateResource checks the free/paid requirements against the values the
// row will have after the write, so fields left out keep satisfying them.
func (s *Service) UpdateResource(ctx context.Context, id uint, in ResourceInput) (*models.Resource, error) {
	existing, err := s.stores.Resources.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	effective := in
	if effective.IsFree == nil {
		effective.IsFree = &existing.IsFree
	}
	if effective.FileURL == nil {
		effective.FileURL = existing.FileURL
	}
	if effective.Price == nil {
		effective.Price = existing.Price
	}
	if effective.PurchaseLink == nil {
		effective.PurchaseLink = existing.PurchaseLink
	}
	fields, err := s.validate.Fields(&effective)
	if err != nil {
		return nil, err
	}
	thumb := checkImage(in.Thumbnail, "thumbnail", s.limits.MaxThumbnailBytes, fields)
	var sl *string
	if in.Slug != nil {
		sl = resolveSlug(in.Slug, in.Title)
		requireSlug(sl, fields)
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	if err := checkSlug(ctx, s.stores.Resources, sl, id); err != nil {
		return nil, err
	}

	path, err := s.storeImage(ctx, thumb, storage.BucketResourceThumbnails)
	if err != nil {
		return nil, err
	}
	f := in.fields()
	f.Slug = sl
	if path != "" {
		f.Thumbnail = &path
	}
	updated, previous, err := s.stores.Resources.Update(ctx, id, f)
	if err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	s.replaced(ctx, previous.Thumbnail, path)
	s.changed(ctx, EntityResources)
	return updated, nil
}

func (s *Service) DeleteResource(ctx context.Context, id uint) error {
	r, err := s.stores.Resources.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.Thumbnail != nil {
		s.removeFile(ctx, *r.Thumbnail)
	}
	if _, err := s.stores.Resources.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityResources)
	return nil
}

// RecordDownload counts one download and returns the resource so the caller
// can redirect to its file_url.
func (s *Service) RecordDownload(ctx context.Context, id uint) (*models.Resource, error) {
	r, err := s.stores.Resources.IncrementDownloads(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, EntityResources)
	return r, nil
}
