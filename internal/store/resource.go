package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// ResourceFields is the writable subset of a Resource. DownloadCount is not
// writable; it only moves through IncrementDownloads.
type ResourceFields struct {
	Title        *string
	Slug         *string
	Category     *string
	Description  *string
	IsFree       *bool
	Price        *string
	PurchaseLink *string
	FileURL      *string
	Thumbnail    *string
	IsFeatured   *bool
}

func (f ResourceFields) apply(r *models.Resource) {
	if f.Title != nil {
		r.Title = *f.Title
	}
	if f.Slug != nil {
		r.Slug = *f.Slug
	}
	if f.Category != nil {
		r.Category = *f.Category
	}
	if f.Description != nil {
		r.Description = nullable(f.Description)
	}
	if f.IsFree != nil {
		r.IsFree = *f.IsFree
	}
	if f.Price != nil {
		r.Price = nullable(f.Price)
	}
	if f.PurchaseLink != nil {
		r.PurchaseLink = nullable(f.PurchaseLink)
	}
	if f.FileURL != nil {
		r.FileURL = nullable(f.FileURL)
	}
	if f.Thumbnail != nil {
		r.Thumbnail = nullable(f.Thumbnail)
	}
	if f.IsFeatured != nil {
		r.IsFeatured = *f.IsFeatured
	}
}

type ResourceStore struct {
	table[models.Resource]
}

func NewResourceStore(db *gorm.DB) *ResourceStore {
	return &ResourceStore{table[models.Resource]{
		db:    db,
		label: "Resource",
		order: []string{"created_at DESC", "id DESC"},
	}}
}

func (s *ResourceStore) Create(ctx context.Context, f ResourceFields) (*models.Resource, error) {
	r := &models.Resource{IsFree: true}
	f.apply(r)
	r.DownloadCount = 0
	if r.Slug == "" {
		return nil, apperr.Validation(map[string]string{"slug": "The slug field is required."})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkSlug(ctx, tx, r.Slug, 0); err != nil {
			return err
		}
		return writeErr(tx.Create(r).Error, r.Slug)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns resources newest first.
func (s *ResourceStore) List(ctx context.Context) ([]models.Resource, error) {
	return s.list(ctx)
}

func (s *ResourceStore) Get(ctx context.Context, id uint) (*models.Resource, error) {
	return s.get(ctx, id)
}

func (s *ResourceStore) GetBySlug(ctx context.Context, slug string) (*models.Resource, error) {
	return s.bySlug(ctx, slug)
}

func (s *ResourceStore) GetBySlugOrID(ctx context.Context, key string) (*models.Resource, error) {
	return s.bySlugOrID(ctx, key)
}

func (s *ResourceStore) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	return s.slugTaken(ctx, s.db, slug, exceptID)
}

func (s *ResourceStore) Update(ctx context.Context, id uint, f ResourceFields) (updated, previous *models.Resource, err error) {
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
		// Save writes every column; keep the counter out of it so a concurrent
		// download is not overwritten with a stale value.
		if err := tx.Omit("download_count").Save(row).Error; err != nil {
			return writeErr(err, row.Slug)
		}
		updated, previous = row, &before
		return nil
	})
	return updated, previous, err
}

func (s *ResourceStore) Delete(ctx context.Context, id uint) (*models.Resource, error) {
	return s.delete(ctx, id)
}

func (s *ResourceStore) Count(ctx context.Context) (int64, error) {
	return s.count(ctx)
}

// IncrementDownloads bumps download_count by one in a single statement and
// returns the updated row.
func (s *ResourceStore) IncrementDownloads(ctx context.Context, id uint) (*models.Resource, error) {
	var updated *models.Resource
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Resource{}).Where("id = ?", id).
			UpdateColumn("download_count", gorm.Expr("download_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(s.label)
		}
		row, err := s.byID(ctx, tx, id)
		if err != nil {
			return err
		}
		updated = row
		return nil
	})
	return updated, err
}
