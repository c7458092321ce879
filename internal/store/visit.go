package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// VisitStore is write-only; the dashboard reads visits with its own queries.
type VisitStore struct {
	db *gorm.DB
}

func NewVisitStore(db *gorm.DB) *VisitStore {
	return &VisitStore{db: db}
}

func (s *VisitStore) Record(ctx context.Context, v *models.Visit) error {
	return s.db.WithContext(ctx).Create(v).Error
}
