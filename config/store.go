package config

import (
	"HaloBackend/repositories"
	"HaloBackend/repositories/impl"
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"
)

// OpenRecordStore opens the backend selected by STORE_DRIVER. app is only used
// by the firestore driver.
func OpenRecordStore(ctx context.Context, cfg *Config, app *firebase.App) (repositories.RecordStore, error) {
	switch cfg.StoreDriver {
	case StoreFirestore:
		if app == nil {
			return nil, errors.New("firestore store requires a firebase app")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting firestore client: %w", err)
		}
		return impl.NewFirestoreStore(client), nil
	case StoreMongo:
		store, err := impl.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorePostgres:
		store, err := impl.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoreMemory:
		return impl.NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// ConnectRedis parses uri and pings the server.
func ConnectRedis(ctx context.Context, uri string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URI: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
