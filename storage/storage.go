// Package storage opens the progress repository of the configured engine.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/progress"
	"github.com/trezcool/ielts/storage/database"
	sqlxrepos "github.com/trezcool/ielts/storage/database/sqlx"
	"github.com/trezcool/ielts/storage/inmem"
	"github.com/trezcool/ielts/storage/localstore"
	"github.com/trezcool/ielts/storage/redisstore"
)

const (
	EngineMemory   = "memory"
	EngineFile     = "file"
	EngineRedis    = "redis"
	EnginePostgres = "postgres"
)

// Storage is a progress repository and the resources behind it.
type Storage struct {
	Repo  progress.Repository
	Close func() error
}

func noop() error { return nil }

// Open connects to conf.Storage.Engine. Postgres is created and migrated when needed.
func Open(ctx context.Context, conf *core.Config) (Storage, error) {
	switch conf.Storage.Engine {
	case EngineMemory:
		return Storage{Repo: inmem.NewProgressRepository(inmem.NewDB()), Close: noop}, nil

	case EngineFile:
		store, err := localstore.Open(conf.Storage.FilePath)
		if err != nil {
			return Storage{}, err
		}
		return Storage{Repo: localstore.NewProgressRepository(store), Close: noop}, nil

	case EngineRedis:
		client, err := redisstore.Open(ctx, conf.Storage.RedisURL)
		if err != nil {
			return Storage{}, err
		}
		return Storage{Repo: redisstore.NewProgressRepository(client), Close: client.Close}, nil

	case EnginePostgres:
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return Storage{}, err
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return Storage{}, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return Storage{}, err
		}
		return Storage{Repo: sqlxrepos.NewProgressRepository(db), Close: db.Close}, nil
	}
	return Storage{}, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
}
