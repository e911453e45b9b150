package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidtrack/internal/formatter"
	"github.com/desertthunder/vidtrack/internal/shared"
	"github.com/desertthunder/vidtrack/internal/ui"
	"github.com/urfave/cli/v3"
)

// Query fetches videos for one game and optionally appends the new ones.
func (r *Runner) Query(ctx context.Context, cmd *cli.Command) error {
	game := cmd.StringArg("game")
	if game == "" {
		return fmt.Errorf("%w: game name is required", shared.ErrMissingArgument)
	}
	if cmd.Bool("review") && cmd.Bool("yes") {
		return fmt.Errorf("%w: cannot specify both --review and --yes", shared.ErrInvalidArgument)
	}

	engine, err := r.resolveEngine()
	if err != nil {
		return err
	}

	cutoff := r.resolveCutoff(cmd)

	r.logger.Info("querying playlist", "game", game)
	result, err := engine.Query(ctx, nil, game, cutoff)
	if err != nil {
		return err
	}

	if result.FetchErr != nil {
		r.writePlain("⚠ Pagination stopped early: %v\n\n", result.FetchErr)
	}

	if len(result.Matched) == 0 {
		r.writePlain("No videos matched '%s'.\n", game)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Matches for '%s'", game))
	r.output.Write(formatter.RenderVideos(result.Matched))
	r.writePlain("\n%d matched, %d not yet on the sheet\n", len(result.Matched), len(result.New))

	if len(result.New) == 0 {
		return nil
	}

	approved := cmd.Bool("yes")
	if cmd.Bool("review") {
		newIDs := make(map[string]bool, len(result.New))
		for _, v := range result.New {
			newIDs[v.VideoID] = true
		}
		approved, err = ui.ReviewVideos(game, result.Matched, newIDs)
		if err != nil {
			return err
		}
	}

	if !approved {
		r.writePlain("Nothing appended. Re-run with --yes or --review to append new matches.\n")
		return nil
	}

	appended, err := engine.Append(ctx, result.New)
	if err != nil {
		return fmt.Errorf("failed to append matches: %w", err)
	}

	r.writePlain("✓ Appended %d videos to the sheet\n", len(appended.NewlyAdded))
	return nil
}
