package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"craft-catalog/core/config"
	"craft-catalog/core/database"
	"craft-catalog/core/logger"
	"craft-catalog/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bootstrap loads the configuration and builds the logger every command starts with.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

// optionalStorage returns nil when no endpoint is configured or the client cannot be built.
func optionalStorage(cfg *config.Config, logg *zap.Logger) storage.Client {
	if cfg.Storage.Endpoint == "" {
		logg.Info("Object storage disabled")
		return nil
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Warn("Optional storage client failed", zap.Error(err))
		return nil
	}
	return client
}

// optionalDatabase returns nil when the export database is unreachable.
func optionalDatabase(cfg *config.Config, logg *zap.Logger) *gorm.DB {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	return db
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
