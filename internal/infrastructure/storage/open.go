package storage

import (
	"context"
	"fmt"

	"stockroom/internal/core/store"
	"stockroom/internal/infrastructure/storage/badger"
	"stockroom/internal/infrastructure/storage/file"
	"stockroom/internal/infrastructure/storage/memory"
	"stockroom/internal/infrastructure/storage/mongo"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/pkg/logger"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config selects and configures a driver.
type Config struct {
	Driver string

	// Dir is the data directory for the file and badger drivers.
	Dir string

	PostgresDSN string

	MongoURI      string
	MongoDatabase string
}

// Open creates the configured driver wrapped in Instrumented.
func Open(ctx context.Context, cfg Config, log *logger.Logger, recorder OpRecorder) (*Instrumented, error) {
	var (
		s   store.Store
		err error
	)

	switch cfg.Driver {
	case DriverMemory:
		s = memory.New()
	case DriverFile:
		s, err = file.Open(cfg.Dir)
	case DriverBadger, "":
		s, err = badger.Open(cfg.Dir, log)
	case DriverPostgres:
		s, err = postgres.Open(ctx, postgres.DefaultPoolConfig(cfg.PostgresDSN), log)
	case DriverMongo:
		s, err = mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	log.Infow("store opened", "driver", cfg.Driver, "dir", cfg.Dir)
	return Instrument(s, cfg.Driver, recorder), nil
}
