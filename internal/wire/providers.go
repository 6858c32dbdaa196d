package wire

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/mux"
	"google.golang.org/grpc"

	"messageapi/internal/config"
	"messageapi/internal/dbmongo"
	"messageapi/internal/dbmysql"
	"messageapi/internal/dbsqlite"
	"messageapi/internal/fixtures"
	"messageapi/internal/logging"
	"messageapi/internal/message"
)

type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Store  message.Store
	Loader *fixtures.Loader
	Router *mux.Router
	GRPC   *grpc.Server
}

// FixturesApp is the dependency set of the fixture loading command.
type FixturesApp struct {
	Config *config.Config
	Logger *slog.Logger
	Loader *fixtures.Loader
}

func ProvideConfig() (*config.Config, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ProvideLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	return logging.New(cfg.Logging)
}

func ProvideAPIConfig(cfg *config.Config) config.APIConfig {
	return cfg.API
}

func ProvideMessageStore(store fixtures.Store) message.Store {
	return store
}

// ProvideStore opens the backend selected by the configured driver.
func ProvideStore(cfg *config.Config, log *slog.Logger) (fixtures.Store, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := dbmysql.NewMySQL(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := dbmysql.Close(db); err != nil {
				log.Error("Error closing MySQL connection", "error", err)
			}
		}
		return dbmysql.NewMessageRepository(db), cleanup, nil

	case config.DriverSQLite:
		db, err := dbsqlite.NewDB(cfg.Database.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing SQLite database", "error", err)
			}
		}
		return dbsqlite.NewStore(db, log), cleanup, nil

	case config.DriverMongo:
		client, err := dbmongo.NewMongoConnection(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(ctx); err != nil {
				log.Error("Error closing MongoDB connection", "error", err)
			}
		}

		store := dbmongo.NewMessageStore(client, cfg.MongoDB.Collection, log)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureIndexes(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		return store, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
