// Package store is the entity access layer: typed create/read/update/delete
// per model over gorm. Writes accept only the declared *Fields allow-lists;
// a nil member means "leave unchanged".
package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
)

// table holds the queries every model shares.
type table[M any] struct {
	db    *gorm.DB
	label string   // used in NotFound messages
	order []string // list ordering, part of the public contract
}

func (t table[M]) list(ctx context.Context) ([]M, error) {
	q := t.db.WithContext(ctx)
	for _, o := range t.order {
		q = q.Order(o)
	}
	var rows []M
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (t table[M]) byID(ctx context.Context, db *gorm.DB, id uint) (*M, error) {
	var row M
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, t.notFound(err)
	}
	return &row, nil
}

func (t table[M]) get(ctx context.Context, id uint) (*M, error) {
	return t.byID(ctx, t.db, id)
}

// bySlugOrID tries the slug first so numeric slugs ("2024") keep working,
// then falls back to the primary key.
func (t table[M]) bySlugOrID(ctx context.Context, key string) (*M, error) {
	var row M
	err := t.db.WithContext(ctx).Where("slug = ?", key).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	id, perr := strconv.ParseUint(key, 10, 64)
	if perr != nil || id == 0 {
		return nil, apperr.NotFound(t.label)
	}
	return t.get(ctx, uint(id))
}

func (t table[M]) bySlug(ctx context.Context, slug string) (*M, error) {
	var row M
	if err := t.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error; err != nil {
		return nil, t.notFound(err)
	}
	return &row, nil
}

func (t table[M]) slugTaken(ctx context.Context, db *gorm.DB, slug string, exceptID uint) (bool, error) {
	var count int64
	q := db.WithContext(ctx).Model(new(M)).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (t table[M]) delete(ctx context.Context, id uint) (*M, error) {
	var deleted *M
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := t.byID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(row).Error; err != nil {
			return err
		}
		deleted = row
		return nil
	})
	return deleted, err
}

func (t table[M]) count(ctx context.Context) (int64, error) {
	var n int64
	err := t.db.WithContext(ctx).Model(new(M)).Count(&n).Error
	return n, err
}

func (t table[M]) notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(t.label)
	}
	return err
}

// checkSlug rejects a slug already used by another row of the same table.
func (t table[M]) checkSlug(ctx context.Context, tx *gorm.DB, slug string, exceptID uint) error {
	taken, err := t.slugTaken(ctx, tx, slug, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.SlugTaken(slug)
	}
	return nil
}

// writeErr maps a unique-index violation on write to the slug conflict; the
// pre-check covers the common case, the index is the final word.
func writeErr(err error, slug string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.SlugTaken(slug)
	}
	return err
}

// nullable turns an empty string into a NULL column value.
func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func nullableTime(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}
