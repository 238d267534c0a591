package main

import (
	"context"
	"fmt"

	"github.com/storefront/catalog-api/internal/api/handler"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/infrastructure/config"
	mongostore "github.com/storefront/catalog-api/internal/infrastructure/db/mongo"
	"github.com/storefront/catalog-api/internal/infrastructure/db/sqlstore"
	"github.com/storefront/catalog-api/pkg/logger"
)

type store struct {
	users    ports.UserRepository
	products ports.ProductRepository
	checks   map[string]handler.Pinger
	close    func()
}

// openStore connects the repositories selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &store{
			users:    mongostore.NewUserRepository(db),
			products: mongostore.NewProductRepository(db),
			checks: map[string]handler.Pinger{
				"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		db, err := sqlstore.Open(ctx, sqlstore.Config{
			Driver: cfg.Store.Driver,
			DSN:    cfg.Store.DatabaseURL,
			Logger: logger.Component("gorm"),
		})
		if err != nil {
			return nil, err
		}
		if cfg.Store.AutoMigrate {
			if err := sqlstore.AutoMigrate(ctx, db); err != nil {
				if sqlDB, derr := db.DB(); derr == nil {
					_ = sqlDB.Close()
				}
				return nil, err
			}
		}
		return &store{
			users:    sqlstore.NewUserRepository(db),
			products: sqlstore.NewProductRepository(db),
			checks: map[string]handler.Pinger{
				"database": func(ctx context.Context) error { return sqlstore.Ping(ctx, db) },
			},
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	}
}
