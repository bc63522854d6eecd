package store

import (
	"context"
	"fmt"

	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/pkg/slot"
	"go.uber.org/zap"
)

const jobsSlotName = "jobs_db"

type Store interface {
	Job() Job
	// InitialMigration prepares indexes or schema. Safe to run repeatedly.
	InitialMigration(ctx context.Context) error
	Close() error
}

// InitStore builds the backend selected by STORE_TYPE. Network backends
// do not connect here; the first operation does.
func InitStore(cfg *config.Config) (Store, error) {
	zap.S().Named("store").Infof("store backend: '%s'", cfg.Store.Type)

	switch cfg.Store.Type {
	case config.LocalStore:
		return NewLocalStore(
			slot.NewFileSlot(cfg.Local.DataDir, jobsSlotName),
			WithLatency(cfg.Local.Latency),
		)
	case config.MongoStore:
		conn := NewMongoConnector(cfg.Mongo.ConnectionURI(), cfg.Mongo.ConnectTimeout)
		return NewMongoStore(conn, cfg.Mongo.Database()), nil
	case config.PgsqlStore, config.SqliteStore:
		db, err := InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return NewSqlStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}
