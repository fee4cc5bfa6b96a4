// Package app wires configuration, storage, sessions, events and search into
// a ready-to-serve echo instance.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/minishop/internal/config"
	"github.com/Skotchmaster/minishop/internal/db"
	"github.com/Skotchmaster/minishop/internal/events"
	"github.com/Skotchmaster/minishop/internal/httpserver"
	"github.com/Skotchmaster/minishop/internal/repo"
	"github.com/Skotchmaster/minishop/internal/search"
	"github.com/Skotchmaster/minishop/internal/service"
	"github.com/Skotchmaster/minishop/internal/session"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *gorm.DB
	Echo      *echo.Echo
	Publisher events.Publisher

	Auth    *service.AuthService
	Catalog *service.CatalogService
	Cart    *service.CartService
}

// New opens and migrates the database, then assembles the application.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	a, err := Assemble(cfg, gdb, logger)
	if err != nil {
		_ = db.Close(gdb)
		return nil, err
	}
	return a, nil
}

// Assemble builds the services and routes on top of an already migrated database.
func Assemble(cfg *config.Config, gdb *gorm.DB, logger *slog.Logger) (*App, error) {
	manager, err := sessionManager(cfg, gdb, logger)
	if err != nil {
		return nil, err
	}

	pub, err := publisher(cfg, logger)
	if err != nil {
		return nil, err
	}

	r := &repo.GormRepo{DB: gdb}
	store := &search.StoreIndex{DB: gdb}

	var idx search.Index = store
	if cfg.SearchEnabled() {
		client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch unavailable, searching the store", "url", cfg.ESURL, "error", err)
		} else {
			idx = &search.ElasticIndex{ES: client, Index: cfg.ESIndex}
			logger.Info("elasticsearch enabled", "url", cfg.ESURL, "index", cfg.ESIndex)
		}
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        gdb,
		Publisher: pub,
		Auth:      &service.AuthService{Repo: r, Sessions: manager, Publisher: pub},
		Catalog:   &service.CatalogService{Repo: r, Index: idx, Fallback: store, Publisher: pub},
		Cart:      &service.CartService{Repo: r, Publisher: pub},
	}

	a.Echo = httpserver.NewEcho(logger)
	if cfg.CSRF {
		a.Echo.Use(httpserver.CSRF(httpserver.CSRFConfig{
			Secure:    cfg.CookieSecure,
			SkipPaths: []string{"/health/live", "/health/ready"},
		}))
	}
	httpserver.Register(a.Echo, &httpserver.Deps{
		DB:          gdb,
		AuthHandler: &httpserver.AuthHTTP{Svc: a.Auth},
		Catalog:     &httpserver.CatalogHTTP{Svc: a.Catalog},
		Cart:        &httpserver.CartHTTP{Svc: a.Cart},
	})
	return a, nil
}

func sessionManager(cfg *config.Config, gdb *gorm.DB, logger *slog.Logger) (*session.Manager, error) {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		var err error
		if secret, err = session.RandomSecret(); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		logger.Warn("SESSION_SECRET is not set, sessions end with the process")
	}

	var store session.Store
	switch cfg.SessionStore {
	case config.SessionStoreDB:
		store = &session.GormStore{DB: gdb}
	default:
		store = session.NewMemoryStore()
	}

	return session.NewManager(store, session.Options{
		Secret:     secret,
		TTL:        cfg.SessionTTL,
		CookieName: cfg.CookieName,
		Secure:     cfg.CookieSecure,
	})
}

func publisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, error) {
	if !cfg.EventsEnabled() {
		return events.Nop{}, nil
	}
	p, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	logger.Info("kafka events enabled", "brokers", cfg.KafkaBrokers)
	return p, nil
}

// Close releases the publisher and the database.
func (a *App) Close() error {
	var errs []error
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}
	return errors.Join(errs...)
}
