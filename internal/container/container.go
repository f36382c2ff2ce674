package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"

	database "github.com/FACorreiaa/go-city-info-api/app/db"
	"github.com/FACorreiaa/go-city-info-api/config"
	"github.com/FACorreiaa/go-city-info-api/internal/api/city"
	"github.com/FACorreiaa/go-city-info-api/internal/api/poi"
	"github.com/FACorreiaa/go-city-info-api/internal/mail"
	"github.com/FACorreiaa/go-city-info-api/internal/store"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	Repository  store.Repository
	Notifier    *mail.Notifier
	CityHandler *city.HandlerImpl
	POIHandler  *poi.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	repo, err := c.newRepository(ctx)
	if err != nil {
		return nil, err
	}
	c.Repository = repo

	mailService, err := mail.New(cfg.Mail, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize mail service: %w", err)
	}
	c.Notifier = mail.NewNotifier(mailService, cfg.Mail.MaxInFlight, logger)

	var cities *cache.Cache
	if cfg.Cache.CityTTL > 0 {
		cities = cache.New(cfg.Cache.CityTTL, 2*cfg.Cache.CityTTL)
	}

	cityService := city.NewServiceImpl(repo, logger)
	c.CityHandler = city.NewHandlerImpl(cityService, logger)

	poiService := poi.NewServiceImpl(repo, c.Notifier, cities, logger)
	c.POIHandler = poi.NewHandlerImpl(poiService, logger)

	logger.Info("Container initialized",
		slog.String("store", cfg.Store.Backend),
		slog.String("mail_driver", cfg.Mail.Driver),
	)
	return c, nil
}

func (c *Container) newRepository(ctx context.Context) (store.Repository, error) {
	if c.Config.Store.Backend != "postgres" {
		return store.NewMemoryRepository(store.SeedCities()), nil
	}

	dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to generate database config: %w", err)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
	if err != nil {
		return nil, err
	}
	if !database.WaitForDB(ctx, pool, c.Logger) {
		pool.Close()
		return nil, fmt.Errorf("database not ready after waiting")
	}
	c.Pool = pool
	return store.NewPostgresRepository(pool, c.Logger), nil
}

// Shutdown waits for pending notifications, then releases the database pool.
func (c *Container) Shutdown(ctx context.Context) {
	if c.Notifier != nil {
		if err := c.Notifier.Wait(ctx); err != nil {
			c.Logger.Warn("Pending notifications were not delivered before shutdown", slog.Any("error", err))
		}
	}
	c.Close()
}

// Close releases the database pool.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
		c.Logger.Info("Database pool closed")
	}
}

// PingTimeout bounds health check pings.
const PingTimeout = 2 * time.Second

// HealthCheck pings the store.
func (c *Container) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	return c.Repository.Ping(ctx)
}
