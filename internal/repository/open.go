package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/database"
)

// Open connects the backend selected by cfg.StoreDriver. The returned func
// releases the underlying connection and must be called at shutdown.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (StudentRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := database.NewMongoClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("MongoDB disconnect error")
			}
		}
		return NewMongoStudentRepository(db), closeFn, nil

	case config.StorePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresStudentRepository(pool), pool.Close, nil

	case config.StoreMemory:
		log.Warn().Msg("Using in-memory student store; data is lost on restart")
		return NewMemoryStudentRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
