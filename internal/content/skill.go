package content

import (
	"context"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

func (s *Service) CreateSkill(ctx context.Context, in SkillInput) (*models.Skill, error) {
	fields, err := s.validate.Fields(&in)
	if err != nil {
		return nil, err
	}
	sl := resolveSlug(in.Slug, in.Name)
	requireSlug(sl, fields)
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	if err := checkSlug(ctx, s.stores.Skills, sl, 0); err != nil {
		return nil, err
	}
	f := in.fields()
	f.Slug = sl
	sk, err := s.stores.Skills.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, EntitySkills)
	return sk, nil
}

func (s *Service) UpdateSkill(ctx context.Context, id uint, in SkillInput) (*models.Skill, error) {
	if _, err := s.stores.Skills.Get(ctx, id); err != nil {
		return nil, err
	}
	fields, err := s.validate.Fields(&in)
	if err != nil {
		return nil, err
	}
	var sl *string
	if in.Slug != nil {
		sl = resolveSlug(in.Slug, in.Name)
		requireSlug(sl, fields)
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	if err := checkSlug(ctx, s.stores.Skills, sl, id); err != nil {
		return nil, err
	}
	f := in.fields()
	f.Slug = sl
	sk, err := s.stores.Skills.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, EntitySkills)
	return sk, nil
}

func (s *Service) DeleteSkill(ctx context.Context, id uint) error {
	if _, err := s.stores.Skills.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntitySkills)
	return nil
}
