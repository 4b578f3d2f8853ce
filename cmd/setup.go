package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/queued/internal/repositories"
	"github.com/desertthunder/queued/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupSeed loads a music library from a JSON file into the database.
func (r *Runner) SetupSeed(ctx context.Context, cmd *cli.Command) error {
	seedPath := cmd.StringArg("path")
	if seedPath == "" {
		return fmt.Errorf("%w: path to a seed file is required", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd.String("config"))

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Info("seeding library", "file", seedPath)

	counts, err := repositories.SeedLibrary(ctx, db, seedPath)
	if err != nil {
		return fmt.Errorf("failed to seed library: %w", err)
	}

	r.writePlain("✓ Library seeded\n")
	r.writePlain("Artists: %d\nAlbums: %d\nTracks: %d\nPlaylists: %d\n",
		counts.Artists, counts.Albums, counts.Tracks, counts.Playlists)

	return nil
}
