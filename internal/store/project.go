package store

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// ProjectFields is the writable subset of a Project.
type ProjectFields struct {
	Title        *string
	Slug         *string
	Category     *string
	Client       *string
	Role         *string
	Year         *string
	Description  *string
	Content      *string
	Thumbnail    *string
	VideoURL     *string
	LiveURL      *string
	GithubURL    *string
	Technologies *[]string
	IsFeatured   *bool
	SortOrder    *int
	PublishedAt  *time.Time
}

func (f ProjectFields) apply(p *models.Project) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Slug != nil {
		p.Slug = *f.Slug
	}
	if f.Category != nil {
		p.Category = nullable(f.Category)
	}
	if f.Client != nil {
		p.Client = nullable(f.Client)
	}
	if f.Role != nil {
		p.Role = nullable(f.Role)
	}
	if f.Year != nil {
		p.Year = nullable(f.Year)
	}
	if f.Description != nil {
		p.Description = nullable(f.Description)
	}
	if f.Content != nil {
		p.Content = nullable(f.Content)
	}
	if f.Thumbnail != nil {
		p.Thumbnail = nullable(f.Thumbnail)
	}
	if f.VideoURL != nil {
		p.VideoURL = nullable(f.VideoURL)
	}
	if f.LiveURL != nil {
		p.LiveURL = nullable(f.LiveURL)
	}
	if f.GithubURL != nil {
		p.GithubURL = nullable(f.GithubURL)
	}
	if f.Technologies != nil {
		p.Technologies = datatypes.JSONSlice[string](append([]string{}, (*f.Technologies)...))
	}
	if f.IsFeatured != nil {
		p.IsFeatured = *f.IsFeatured
	}
	if f.SortOrder != nil {
		p.SortOrder = *f.SortOrder
	}
	if f.PublishedAt != nil {
		p.PublishedAt = nullableTime(f.PublishedAt)
	}
}

type ProjectStore struct {
	table[models.Project]
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{table[models.Project]{
		db:    db,
		label: "Project",
		order: []string{"sort_order ASC", "created_at DESC", "id DESC"},
	}}
}

func (s *ProjectStore) Create(ctx context.Context, f ProjectFields) (*models.Project, error) {
	p := &models.Project{Technologies: datatypes.JSONSlice[string]{}}
	f.apply(p)
	if p.Slug == "" {
		return nil, apperr.Validation(map[string]string{"slug": "The slug field is required."})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkSlug(ctx, tx, p.Slug, 0); err != nil {
			return err
		}
		return writeErr(tx.Create(p).Error, p.Slug)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns projects by sort_order ascending, newest first within a tie.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	return s.list(ctx)
}

func (s *ProjectStore) Get(ctx context.Context, id uint) (*models.Project, error) {
	return s.get(ctx, id)
}

func (s *ProjectStore) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return s.bySlug(ctx, slug)
}

func (s *ProjectStore) GetBySlugOrID(ctx context.Context, key string) (*models.Project, error) {
	return s.bySlugOrID(ctx, key)
}

func (s *ProjectStore) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	return s.slugTaken(ctx, s.db, slug, exceptID)
}

// Update writes the non-nil members of f and returns the stored row together
// with the row as it was before the write.
func (s *ProjectStore) Update(ctx context.Context, id uint, f ProjectFields) (updated, previous *models.Project, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.byID(ctx, tx, id)
		if err != nil {
			return err
		}
		before := *row
		f.apply(row)
		if row.Slug != before.Slug {
			if err := s.checkSlug(ctx, tx, row.Slug, id); err != nil {
				return err
			}
		}
		if err := tx.Save(row).Error; err != nil {
			return writeErr(err, row.Slug)
		}
		updated, previous = row, &before
		return nil
	})
	return updated, previous, err
}

func (s *ProjectStore) Delete(ctx context.Context, id uint) (*models.Project, error) {
	return s.delete(ctx, id)
}

func (s *ProjectStore) Count(ctx context.Context) (int64, error) {
	return s.count(ctx)
}
