package router

import (
	"context"
	"database/sql"
	"fmt"

	"pet-services/internal/adapters/storage/memory"
	mongostore "pet-services/internal/adapters/storage/mongo"
	pg "pet-services/internal/adapters/storage/postgres"
	"pet-services/internal/platform/config"
	"pet-services/internal/ports/docstore"

	"go.mongodb.org/mongo-driver/mongo"
)

// Backend es el document store elegido por STORE_DRIVER.
type Backend struct {
	Driver string
	Mem    *memory.Store
	Mongo  *mongo.Database
	SQL    *sql.DB
}

// MemoryBackend se usa en dev y en tests.
func MemoryBackend() Backend {
	return Backend{Driver: "memory", Mem: memory.NewStore()}
}

func OpenBackend(ctx context.Context, cfg config.App) (Backend, error) {
	switch cfg.StoreDriver {
	case "", "memory":
		return MemoryBackend(), nil
	case "mongo":
		db, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return Backend{}, fmt.Errorf("open mongo: %w", err)
		}
		return Backend{Driver: "mongo", Mongo: db}, nil
	case "postgres":
		if cfg.DBDSN == "" {
			return Backend{}, fmt.Errorf("DB_DSN is required for STORE_DRIVER=postgres")
		}
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return Backend{}, fmt.Errorf("open postgres: %w", err)
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return Backend{}, err
		}
		return Backend{Driver: "postgres", SQL: db}, nil
	default:
		return Backend{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func (b Backend) Close(ctx context.Context) error {
	switch {
	case b.Mongo != nil:
		return b.Mongo.Client().Disconnect(ctx)
	case b.SQL != nil:
		return b.SQL.Close()
	}
	return nil
}

// Collection abre la colección name en el backend.
func Collection[T any](b Backend, name string) docstore.Collection[T] {
	switch {
	case b.Mongo != nil:
		return mongostore.NewCollection[T](b.Mongo, name)
	case b.SQL != nil:
		return pg.NewCollection[T](b.SQL, name)
	default:
		return memory.NewCollection[T](b.Mem, name)
	}
}
