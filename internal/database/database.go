package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aTrapDeer/portfolio-backend/internal/auth"
	"github.com/aTrapDeer/portfolio-backend/internal/config"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.DSN); cfg.DSN != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		// Single writer; also keeps ":memory:" databases alive on one connection.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	log.Info("database ready", logger.String("driver", cfg.Driver))
	return db, nil
}

// Ping checks the underlying connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedAdmin creates the first admin account when email and password are set
// and no user with that email exists yet.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg config.AuthConfig, log logger.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		var count int64
		if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count == 0 {
			log.Warn("no admin user exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set; admin login is disabled")
		}
		return nil
	}

	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{Name: cfg.AdminName, Email: cfg.AdminEmail, Password: hash}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info("created admin user", logger.String("email", cfg.AdminEmail))
	return nil
}
