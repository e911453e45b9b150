package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/vidtrack/internal/shared"
	"github.com/desertthunder/vidtrack/internal/sheet"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file and initializes the sheet backend.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("existing config is invalid: %w", err)
		}
		r.config = config
		r.logger.Info("using existing config", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		r.config = config
		r.logger.Info("config file created", "path", configPath)
	}

	if r.config.Sheet.Backend == "sqlite" {
		r.logger.Info("initializing sheet database", "path", r.config.Sheet.Path)

		db, err := shared.NewDatabase(r.config.Sheet.Path)
		if err != nil {
			return fmt.Errorf("failed to create sheet database: %w", err)
		}
		defer db.Close()

		shared.ConfigureDatabase(db, r.config.Sheet.MaxOpenConns, r.config.Sheet.MaxIdleConns)
		if _, err := sheet.NewSQLiteStore(db); err != nil {
			return fmt.Errorf("failed to initialize sheet schema: %w", err)
		}
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Sheet: %s (%s)\n", r.config.Sheet.Path, r.config.Sheet.Backend)
	r.writePlainln("Add your YouTube API key to the [youtube] section before running 'vidtrack run'.")

	return nil
}
