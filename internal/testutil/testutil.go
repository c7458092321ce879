// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/config"
	"github.com/aTrapDeer/portfolio-backend/internal/database"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
)

// NewDB opens a migrated in-memory SQLite database that lives for the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, logger.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Clock is a settable time source.
type Clock struct{ Now time.Time }

func (c *Clock) Func() func() time.Time { return func() time.Time { return c.Now } }
