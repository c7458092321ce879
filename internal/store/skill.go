package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

type SkillFields struct {
	Name        *string
	Slug        *string
	Category    *string
	Proficiency *int
	SortOrder   *int
}

func (f SkillFields) apply(s *models.Skill) {
	if f.Name != nil {
		s.Name = *f.Name
	}
	if f.Slug != nil {
		s.Slug = *f.Slug
	}
	if f.Category != nil {
		s.Category = *f.Category
	}
	if f.Proficiency != nil {
		s.Proficiency = *f.Proficiency
	}
	if f.SortOrder != nil {
		s.SortOrder = *f.SortOrder
	}
}

type SkillStore struct {
	table[models.Skill]
}

func NewSkillStore(db *gorm.DB) *SkillStore {
	return &SkillStore{table[models.Skill]{
		db:    db,
		label: "Skill",
		order: []string{"sort_order ASC", "name ASC", "id ASC"},
	}}
}

func (s *SkillStore) Create(ctx context.Context, f SkillFields) (*models.Skill, error) {
	sk := &models.Skill{}
	f.apply(sk)
	if sk.Slug == "" {
		return nil, apperr.Validation(map[string]string{"slug": "The slug field is required."})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkSlug(ctx, tx, sk.Slug, 0); err != nil {
			return err
		}
		return writeErr(tx.Create(sk).Error, sk.Slug)
	})
	if err != nil {
		return nil, err
	}
	return sk, nil
}

func (s *SkillStore) List(ctx context.Context) ([]models.Skill, error) {
	return s.list(ctx)
}

func (s *SkillStore) Get(ctx context.Context, id uint) (*models.Skill, error) {
	return s.get(ctx, id)
}

func (s *SkillStore) GetBySlugOrID(ctx context.Context, key string) (*models.Skill, error) {
	return s.bySlugOrID(ctx, key)
}

func (s *SkillStore) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	return s.slugTaken(ctx, s.db, slug, exceptID)
}

func (s *SkillStore) Update(ctx context.Context, id uint, f SkillFields) (*models.Skill, error) {
	var updated *models.Skill
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.byID(ctx, tx, id)
		if err != nil {
			return err
		}
		oldSlug := row.Slug
		f.apply(row)
		if row.Slug != oldSlug {
			if err := s.checkSlug(ctx, tx, row.Slug, id); err != nil {
				return err
			}
		}
		if err := tx.Save(row).Error; err != nil {
			return writeErr(err, row.Slug)
		}
		updated = row
		return nil
	})
	return updated, err
}

func (s *SkillStore) Delete(ctx context.Context, id uint) (*models.Skill, error) {
	return s.delete(ctx, id)
}

func (s *SkillStore) Count(ctx context.Context) (int64, error) {
	return s.count(ctx)
}
