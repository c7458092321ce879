package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

type ContactFields struct {
	Name    *string
	Email   *string
	Subject *string
	Message *string
}

type ContactStore struct {
	table[models.Contact]
	now func() time.Time
}

func NewContactStore(db *gorm.DB, now func() time.Time) *ContactStore {
	if now == nil {
		now = time.Now
	}
	return &ContactStore{
		table: table[models.Contact]{
			db:    db,
			label: "Message",
			order: []string{"created_at DESC", "id DESC"},
		},
		now: now,
	}
}

func (s *ContactStore) Create(ctx context.Context, f ContactFields) (*models.Contact, error) {
	c := &models.Contact{}
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Email != nil {
		c.Email = *f.Email
	}
	c.Subject = nullable(f.Subject)
	if f.Message != nil {
		c.Message = *f.Message
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactStore) List(ctx context.Context) ([]models.Contact, error) {
	return s.list(ctx)
}

func (s *ContactStore) Get(ctx context.Context, id uint) (*models.Contact, error) {
	return s.get(ctx, id)
}

// MarkRead stamps read_at once; reading an already read message keeps the
// first timestamp.
func (s *ContactStore) MarkRead(ctx context.Context, id uint) (*models.Contact, error) {
	var updated *models.Contact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.byID(ctx, tx, id)
		if err != nil {
			return err
		}
		if row.ReadAt == nil {
			now := s.now().UTC()
			if err := tx.Model(row).Update("read_at", now).Error; err != nil {
				return err
			}
			row.ReadAt = &now
		}
		updated = row
		return nil
	})
	return updated, err
}

func (s *ContactStore) Delete(ctx context.Context, id uint) (*models.Contact, error) {
	return s.delete(ctx, id)
}

func (s *ContactStore) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Contact{}).Where("read_at IS NULL").Count(&n).Error
	return n, err
}
