package session

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/redis"
)

// Open builds the session context on the configured backend.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Context, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Session.Backend {
	case enums.SessionBackendMemory:
		store = NewMemoryStore()
	case enums.SessionBackendRedis:
		client, openErr := redis.New(ctx, cfg.Redis, logg)
		if openErr != nil {
			return nil, openErr
		}
		store, err = NewRedisStore(client)
	case enums.SessionBackendSQLite, "":
		client, openErr := db.New(ctx, cfg.Session.SQLitePath, logg)
		if openErr != nil {
			return nil, openErr
		}
		store, err = NewSQLiteStore(client)
	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Session.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewContext(store)
}
