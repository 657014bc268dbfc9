package database

import (
	"context"
	"fmt"

	"galeri/internal/config"
	"galeri/internal/repositories"

	"go.uber.org/zap"
)

// Stores bundles one backend's repositories.
type Stores struct {
	Cars        repositories.CarRepository
	Contacts    repositories.ContactRepository
	Users       repositories.UserRepository
	Preferences repositories.PreferenceRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connection, if any.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// Open builds the repositories selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stores, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		log.Warn("Using in-memory repositories, data is lost on restart")
		return NewMemoryStores(), nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := OpenGORM(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to relational database", zap.String("driver", cfg.DBDriver))
		return &Stores{
			Cars:        repositories.NewGORMCarRepository(db),
			Contacts:    repositories.NewGORMContactRepository(db),
			Users:       repositories.NewGORMUserRepository(db),
			Preferences: repositories.NewGORMPreferenceRepository(db),
			close: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		cars := repositories.NewMongoCarRepository(db)
		contacts := repositories.NewMongoContactRepository(db)
		users := repositories.NewMongoUserRepository(db)
		prefs := repositories.NewMongoPreferenceRepository(db)

		for _, ix := range []indexer{cars, contacts, users, prefs} {
			if err := ix.EnsureIndexes(ctx); err != nil {
				_ = client.Disconnect(ctx)
				return nil, err
			}
		}
		log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return &Stores{
			Cars:        cars,
			Contacts:    contacts,
			Users:       users,
			Preferences: prefs,
			close:       client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// NewMemoryStores returns fresh in-memory repositories.
func NewMemoryStores() *Stores {
	return &Stores{
		Cars:        repositories.NewMemoryCarRepository(),
		Contacts:    repositories.NewMemoryContactRepository(),
		Users:       repositories.NewMemoryUserRepository(),
		Preferences: repositories.NewMemoryPreferenceRepository(),
	}
}
