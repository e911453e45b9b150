package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/vidtrack/internal/formatter"
	"github.com/desertthunder/vidtrack/internal/shared"
	"github.com/desertthunder/vidtrack/internal/sheet"
	"github.com/urfave/cli/v3"
)

// Stats summarizes the persisted sheet without fetching anything.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	store, err := r.resolveStore()
	if err != nil {
		return err
	}

	table, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrSheetNotFound) {
			r.writePlain("No sheet found at %s. Run 'vidtrack run' first.\n", r.config.Sheet.Path)
			return nil
		}
		return fmt.Errorf("failed to load sheet: %w", err)
	}

	report := sheet.Summarize(table)
	r.writePlain("%s\n", formatter.RenderStats(report))
	return nil
}

// Export writes the persisted sheet to a CSV file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	store, err := r.resolveStore()
	if err != nil {
		return err
	}

	table, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sheet: %w", err)
	}

	path, err := formatter.WriteCSVExport(table, cmd.String("output"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Sheet exported to %s\n", path)
	return nil
}
