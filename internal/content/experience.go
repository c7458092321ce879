package content

import (
	"context"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
)

// CreateExperience stores a new entry. A current position never keeps an
// end date.
func (s *Service) CreateExperience(ctx context.Context, in ExperienceInput) (*models.Experience, error) {
	fields, err := s.validate.Fields(&in)
	if err != nil {
		return nil, err
	}
	logo := checkImage(in.CompanyLogo, "company_logo", s.limits.MaxImageBytes, fields)
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	path, err := s.storeImage(ctx, logo, storage.BucketExperiences)
	if err != nil {
		return nil, err
	}
	f := in.fields()
	if path != "" {
		f.CompanyLogo = &path
	}
	e, err := s.stores.Experiences.Create(ctx, f)
	if err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	s.changed(ctx, EntityExperiences)
	return e, nil
}

func (s *Service) UpdateExperience(ctx context.Context, id uint, in ExperienceInput) (*models.Experience, error) {
	if _, err := s.stores.Experiences.Get(ctx, id); err != nil {
		return nil, err
	}
	fields, err := s.validate.Fields(&in)
	if err != nil {
		return nil, err
	}
	logo := checkImage(in.CompanyLogo, "company_logo", s.limits.MaxImageBytes, fields)
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	path, err := s.storeImage(ctx, logo, storage.BucketExperiences)
	if err != nil {
		return nil, err
	}
	f := in.fields()
	if path != "" {
		f.CompanyLogo = &path
	}
	updated, previous, err := s.stores.Experiences.Update(ctx, id, f)
	if err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	s.replaced(ctx, previous.CompanyLogo, path)
	s.changed(ctx, EntityExperiences)
	return updated, nil
}

func (s *Service) DeleteExperience(ctx context.Context, id uint) error {
	e, err := s.stores.Experiences.Get(ctx, id)
	if err != nil {
		return err
	}
	if e.CompanyLogo != nil {
		s.removeFile(ctx, *e.CompanyLogo)
	}
	if _, err := s.stores.Experiences.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityExperiences)
	return nil
}
