package main

import (
	"context"
	"os"

	"github.com/desertthunder/artx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the configured database and applies migrations.
//
// A missing config file is created from the embedded template first, so a
// fresh checkout only needs this one command before enriching.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	r.config = loadOrCreateConfig(configPath, r)

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("setup complete", "database", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}

// loadOrCreateConfig loads the config file at path, writing the embedded
// template there first when none exists. Falls back to defaults on any
// failure so setup can still proceed.
func loadOrCreateConfig(path string, r *Runner) *shared.Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			return shared.DefaultConfig()
		}
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	return config
}
