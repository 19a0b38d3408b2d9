package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"StockReconciler/internal/config"
	"StockReconciler/internal/ports"
)

// CloseFunc releases the connection behind a repository.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// IsInMemory reports whether driver selects the process-local store, whose
// snapshots vanish when the process exits.
func IsInMemory(driver string) bool {
	switch normalizeDriver(driver) {
	case "", "memory":
		return true
	}
	return false
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

// Open builds the repository selected by cfg.Driver and prepares its schema.
func Open(ctx context.Context, cfg config.StorageConfig) (ports.SnapshotRepository, CloseFunc, error) {
	if IsInMemory(cfg.Driver) {
		return NewMemoryRepository(), noopClose, nil
	}

	switch normalizeDriver(cfg.Driver) {
	case "postgres":
		return openPostgres(ctx, cfg.Postgres)
	case "mongo", "mongodb":
		return openMongo(ctx, cfg.Mongo)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (ports.SnapshotRepository, CloseFunc, error) {
	if cfg.DSN == "" {
		return nil, nil, fmt.Errorf("postgres storage requires a dsn")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	closeDB := func(context.Context) error { return db.Close() }

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	repo := NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, closeDB, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (ports.SnapshotRepository, CloseFunc, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongo storage requires a uri")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	repo := NewMongoRepository(client.Database(cfg.Database).Collection(cfg.Collection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return repo, client.Disconnect, nil
}
