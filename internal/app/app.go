package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/auth"
	"github.com/aTrapDeer/portfolio-backend/internal/cache"
	"github.com/aTrapDeer/portfolio-backend/internal/config"
	"github.com/aTrapDeer/portfolio-backend/internal/content"
	"github.com/aTrapDeer/portfolio-backend/internal/dashboard"
	"github.com/aTrapDeer/portfolio-backend/internal/database"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/mailer"
	"github.com/aTrapDeer/portfolio-backend/internal/projection"
	"github.com/aTrapDeer/portfolio-backend/internal/revalidate"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
	"github.com/aTrapDeer/portfolio-backend/internal/store"
	"github.com/aTrapDeer/portfolio-backend/internal/visits"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	db     *gorm.DB
	server *httpserver.Server
	visits *visits.Recorder
	hook   *revalidate.Hook
	mail   *mailer.Mailer
	redis  *cache.Redis // nil with the in-memory cache
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := database.SeedAdmin(context.Background(), db, cfg.Auth, log); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	files, err := storage.NewLocal(cfg.Storage.Root, cfg.BaseURL)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("init storage: %w", err)
	}

	a := &App{cfg: cfg, logger: log, db: db}

	var readCache cache.Store = cache.NewMemory(cfg.Cache.TTL)
	if cfg.Cache.RedisAddr != "" {
		client, err := cache.Connect(cache.ConnectOptions{
			Addr:           cfg.Cache.RedisAddr,
			Password:       cfg.Cache.RedisPassword,
			DB:             cfg.Cache.RedisDB,
			ConnectTimeout: 10 * time.Second,
			RetryInterval:  250 * time.Millisecond,
			MaxWait:        2 * time.Second,
			PingTimeout:    time.Second,
		}, log)
		if err != nil {
			log.Warn("redis unavailable, using in-memory cache", logger.Error(err))
		} else {
			a.redis = cache.NewRedis(client, cfg.Cache.TTL)
			readCache = a.redis
		}
	}

	a.hook = revalidate.New(cfg.RevalidationURL, cfg.RevalidationSecret, log)
	if !a.hook.Enabled() {
		log.Info("NEXT_REVALIDATION_URL is not set; frontend revalidation disabled")
	}
	a.mail = mailer.NewSMTP(mailer.Options{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		To:       cfg.Mail.To,
	}, log)

	notify := content.NotifierFunc(func(ctx context.Context, entity string) {
		cache.Invalidate(ctx, readCache, log, entity)
		if entity != content.EntityContacts {
			a.hook.Changed(ctx, entity)
		}
	})

	stores := content.Stores{
		Projects:    store.NewProjectStore(db),
		Skills:      store.NewSkillStore(db),
		Experiences: store.NewExperienceStore(db),
		Resources:   store.NewResourceStore(db),
		Contacts:    store.NewContactStore(db, time.Now),
	}
	svc := content.NewService(stores, files, content.Limits{
		MaxImageBytes:     cfg.Storage.MaxImageBytes,
		MaxThumbnailBytes: cfg.Storage.MaxThumbnailBytes,
	}, notify, log)

	a.visits = visits.New(store.NewVisitStore(db), visits.Options{
		ExcludedPrefixes: cfg.Visits.ExcludedPrefixes,
		CountryHeader:    cfg.Visits.CountryHeader,
		TrustProxy:       cfg.Visits.TrustProxy,
		QueueSize:        cfg.Visits.QueueSize,
	}, log)

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, time.Now)

	d := deps.Deps{
		Logger:             log,
		StartTime:          time.Now(),
		DB:                 db,
		Stores:             stores,
		Content:            svc,
		Projection:         projection.New(cfg.BaseURL),
		Cache:              readCache,
		Dashboard:          dashboard.New(db, time.Now),
		Visits:             a.visits,
		Mail:               a.mail,
		Tokens:             tokens,
		Auth:               auth.NewAuthenticator(store.NewUserStore(db), tokens),
		Files:              files.Handler(),
		CORSOrigins:        cfg.FrontendURLs,
		TrustProxy:         cfg.Visits.TrustProxy,
		MaxBodyBytes:       cfg.Storage.MaxThumbnailBytes + cfg.Storage.MaxMultipartMemory,
		MaxMultipartMemory: cfg.Storage.MaxMultipartMemory,
		LoginBurst:         cfg.Auth.LoginBurst,
		LoginPerMin:        cfg.Auth.LoginPerMin,
	}
	a.server = httpserver.New(cfg.ListenAddr, d)
	return a, nil
}

func (a *App) Run() error {
	a.logger.Info("starting portfolio backend",
		logger.String("env", a.cfg.Env),
		logger.String("addr", a.cfg.ListenAddr),
		logger.String("db", a.cfg.Database.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	// Let background visit writes, webhook calls and mails finish before the
	// connections they use go away.
	a.visits.Wait()
	a.hook.Wait()
	a.mail.Wait()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warnf("failed to close database: %v", err)
	}
	a.logger.Info("portfolio backend stopped")
	_ = a.logger.Sync()
	return runErr
}
