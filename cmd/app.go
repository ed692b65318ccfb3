package main

import (
	"context"

	"go.uber.org/zap"

	"healthdash/config"
	"healthdash/services"
)

// openApp loads config, builds the logger and loads all persisted state.
func openApp(ctx context.Context) (*services.App, *config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, nil, err
	}
	app, err := services.NewApp(ctx, services.AppOptions{Config: *cfg, Logger: log})
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	return app, cfg, log, nil
}
