package main

import (
	"context"

	"github.com/desertthunder/vidtrack/internal/formatter"
	"github.com/desertthunder/vidtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RunPipeline runs a full fetch → classify → reconcile pass against the sheet.
func (r *Runner) RunPipeline(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.resolveEngine()
	if err != nil {
		return err
	}

	cutoff := r.resolveCutoff(cmd)
	dryRun := cmd.Bool("dry-run")

	r.logger.Info("starting run", "dry_run", dryRun)
	r.writePlain("Fetching playlist videos...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		r.watchProgress(progressCh)
		close(done)
	}()

	result, err := engine.Run(ctx, progressCh, cutoff, dryRun)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Run Complete")
	r.output.Write(formatter.RenderRunSummary(
		result.Fetched, len(result.Classified), result.Unclassified,
		len(result.NewlyAdded), result.Persisted,
	))

	if result.FetchErr != nil {
		r.writePlain("\n⚠ Pagination stopped early: %v\n", result.FetchErr)
	}
	if result.StoreErr != nil {
		r.writePlain("\n⚠ Videos were fetched but not persisted: %v\n", result.StoreErr)
		return nil
	}
	if result.DedupDisabled {
		r.writePlain("\n⚠ Existing sheet has no url column, duplicate checking was disabled\n")
	}
	if dryRun {
		r.writePlain("\nDry run: the sheet was not modified.\n")
	}

	if result.Stats != nil {
		r.writePlain("\n%s\n", formatter.RenderStats(result.Stats))
	}

	return nil
}
