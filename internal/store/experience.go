package store

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

type ExperienceFields struct {
	Company     *string
	Role        *string
	Location    *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time // zero time clears the column
	IsCurrent   *bool
	CompanyLogo *string
	SortOrder   *int
}

func (f ExperienceFields) apply(e *models.Experience) {
	if f.Company != nil {
		e.Company = *f.Company
	}
	if f.Role != nil {
		e.Role = *f.Role
	}
	if f.Location != nil {
		e.Location = nullable(f.Location)
	}
	if f.Description != nil {
		e.Description = nullable(f.Description)
	}
	if f.StartDate != nil {
		e.StartDate = datatypes.Date(f.StartDate.UTC())
	}
	if f.EndDate != nil {
		if t := nullableTime(f.EndDate); t != nil {
			d := datatypes.Date(*t)
			e.EndDate = &d
		} else {
			e.EndDate = nil
		}
	}
	if f.IsCurrent != nil {
		e.IsCurrent = *f.IsCurrent
	}
	if f.CompanyLogo != nil {
		e.CompanyLogo = nullable(f.CompanyLogo)
	}
	if f.SortOrder != nil {
		e.SortOrder = *f.SortOrder
	}
	// A current position has no end date.
	if e.IsCurrent {
		e.EndDate = nil
	}
}

type ExperienceStore struct {
	table[models.Experience]
}

func NewExperienceStore(db *gorm.DB) *ExperienceStore {
	return &ExperienceStore{table[models.Experience]{
		db:    db,
		label: "Experience",
		order: []string{"start_date DESC", "id DESC"},
	}}
}

func (s *ExperienceStore) Create(ctx context.Context, f ExperienceFields) (*models.Experience, error) {
	e := &models.Experience{}
	f.apply(e)
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// List returns experience entries, most recent start date first.
func (s *ExperienceStore) List(ctx context.Context) ([]models.Experience, error) {
	return s.list(ctx)
}

func (s *ExperienceStore) Get(ctx context.Context, id uint) (*models.Experience, error) {
	return s.get(ctx, id)
}

func (s *ExperienceStore) Update(ctx context.Context, id uint, f ExperienceFields) (updated, previous *models.Experience, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.byID(ctx, tx, id)
		if err != nil {
			return err
		}
		before := *row
		f.apply(row)
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		updated, previous = row, &before
		return nil
	})
	return updated, previous, err
}

func (s *ExperienceStore) Delete(ctx context.Context, id uint) (*models.Experience, error) {
	return s.delete(ctx, id)
}

func (s *ExperienceStore) Count(ctx context.Context) (int64, error) {
	return s.count(ctx)
}
