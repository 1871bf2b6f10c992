package session

import (
	"context"
	"fmt"

	"github.com/abhisek/smartest/internal/config"
	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/store"
)

// Open builds the Store selected by cfg.Backend. sqlitePath is used by the
// sqlite backend when cfg.DSN is empty.
func Open(ctx context.Context, cfg config.SessionConfig, sqlitePath string, log *logger.Logger) (Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch cfg.Backend {
	case config.SessionMemory, "":
		return NewMemoryStore(cfg.TTL), nil
	case config.SessionSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = sqlitePath
		}
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, err
			}
			dsn = p
		}
		db, err := store.Open(dsn)
		if err != nil {
			return nil, err
		}
		log.Info("session store ready", "backend", cfg.Backend, "path", dsn)
		return NewSQLStore(db, cfg.TTL), nil
	case config.SessionPostgres:
		db, err := store.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		log.Info("session store ready", "backend", cfg.Backend)
		return NewSQLStore(db, cfg.TTL), nil
	case config.SessionRedis:
		s, err := NewRedisStore(ctx, cfg.RedisAddr, cfg.TTL)
		if err != nil {
			return nil, err
		}
		log.Info("session store ready", "backend", cfg.Backend, "addr", cfg.RedisAddr)
		return s, nil
	case config.SessionMongo:
		s, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.TTL)
		if err != nil {
			return nil, err
		}
		log.Info("session store ready", "backend", cfg.Backend, "database", cfg.MongoDatabase)
		return s, nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
}
