package root

import (
	"context"
	"database/sql"
	"os"

	"github.com/rs/zerolog"

	"liferpg/internal/config"
	"liferpg/internal/engine"
	"liferpg/internal/logging"
	"liferpg/internal/storage"
)

// session is everything a command needs: config, logger, service and the acting user.
type session struct {
	cfg    config.Config
	log    zerolog.Logger
	svc    *engine.Service
	userID string
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, func(), error) {
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openSession logs to stderr at logLevel, or at the configured level when it is empty.
func openSession(ctx context.Context, logLevel string) (*session, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	log := logging.New(cfg.Env, logLevel, os.Stderr)

	db, cleanup, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := engine.NewService(db, engine.WithListeners(logging.EventLogger(log)))
	u, err := svc.MainUser(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return &session{cfg: cfg, log: log, svc: svc, userID: u.ID}, cleanup, nil
}

// openService is the CLI default: quiet logging, the main user.
func openService(ctx context.Context) (*session, func(), error) {
	return openSession(ctx, "warn")
}
