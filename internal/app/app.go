// Package app assembles the storage, services and gates shared by the server and the CLI commands.
package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/axellelanca/adtracker/internal/config"
	"github.com/axellelanca/adtracker/internal/database"
	"github.com/axellelanca/adtracker/internal/imagestore"
	"github.com/axellelanca/adtracker/internal/logger"
	"github.com/axellelanca/adtracker/internal/readiness"
	"github.com/axellelanca/adtracker/internal/repository"
	"github.com/axellelanca/adtracker/internal/services"
)

// Session drivers accepted in session.driver.
const (
	SessionDriverDatabase = "database"
	SessionDriverRedis    = "redis"
)

// App holds the wired application.
type App struct {
	DB      *gorm.DB
	Redis   *redis.Client // nil unless session.driver is redis
	Images  *imagestore.Store
	Gate    *readiness.Gate
	Auth    *services.AuthService
	Adverts *services.AdvertService
}

// New opens and migrates the database and builds the services described by cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.OpenAndMigrate(cfg.Database.Name)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db}

	a.Images, err = imagestore.New(cfg.Images.Dir, cfg.MaxUploadBytes())
	if err != nil {
		a.Close()
		return nil, err
	}

	var sessions repository.SessionRepository
	switch cfg.Session.Driver {
	case "", SessionDriverDatabase:
		sessions = repository.NewSessionRepository(db)
	case SessionDriverRedis:
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Redis.Addr, err)
		}
		sessions = repository.NewRedisSessionRepository(a.Redis)
	default:
		a.Close()
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}

	users := repository.NewUserRepository(db)
	a.Gate = readiness.NewGate(cfg.Proof.Path)
	a.Auth = services.NewAuthService(users, sessions, cfg.SessionTTL())
	a.Adverts = services.NewAdvertService(db,
		repository.NewAdvertisementRepository(db),
		repository.NewClickRepository(db),
		users,
		a.Images,
		services.AdvertConfig{
			StartingBudget: cfg.Advert.StartingBudget,
			ClickCost:      cfg.Advert.ClickCost,
			ProofReference: cfg.Proof.Path,
		})

	logger.Log.Info("application wired",
		zap.String("database", cfg.Database.Name),
		zap.String("images", cfg.Images.Dir),
		zap.String("sessions", cfg.Session.Driver))
	return a, nil
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		database.Close(a.DB)
	}
}
