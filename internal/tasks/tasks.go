package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidtrack/internal/filter"
	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/services"
	"github.com/desertthunder/vidtrack/internal/sheet"
	"github.com/desertthunder/vidtrack/internal/shared"
)

// RunResult contains all data from a full pipeline run.
type RunResult struct {
	RunID         string
	Pages         int              // pages fetched from the source
	Fetched       int              // unique items emitted by the paginator
	StopReason    StopReason       // why pagination stopped
	Classified    []models.Video   // records that matched at least one category
	Unclassified  int              // fetched records dropped for matching nothing
	NewlyAdded    []models.Video   // records appended to the sheet this run
	Merged        *sheet.Table     // merged table, nil when the sheet could not be loaded
	Stats         *models.StatsReport
	DedupDisabled bool  // existing sheet had no url column
	Persisted     bool  // merged table was written back
	FetchErr      error // transient source failure that halted pagination early
	StoreErr      error // storage failure; classified records were not persisted
}

// QueryResult contains the records found for a single game category.
type QueryResult struct {
	RunID    string
	Game     string
	Matched  []models.Video // all fetched records matching the game
	New      []models.Video // matched records not yet present in the sheet
	FetchErr error
}

// AppendResult reports an explicit append of records to the sheet.
type AppendResult struct {
	NewlyAdded []models.Video
	Merged     *sheet.Table
}

// Engine defines the pipeline operations exposed to the CLI and UI layers.
type Engine interface {
	// Run performs a full fetch → classify → reconcile → summarize pass.
	Run(ctx context.Context, progress chan<- ProgressUpdate, cutoff *time.Time, dryRun bool) (*RunResult, error)

	// Query fetches records for a single game using exact keyword matching,
	// reporting which ones the sheet does not yet contain. Nothing is written.
	Query(ctx context.Context, progress chan<- ProgressUpdate, game string, cutoff *time.Time) (*QueryResult, error)

	// Append reconciles the given records into the sheet and writes it back.
	Append(ctx context.Context, videos []models.Video) (*AppendResult, error)
}

// PipelineEngine implements Engine against a playlist source and a sheet store.
type PipelineEngine struct {
	source     services.Source
	store      sheet.Store
	categories models.CategoryFilter
	mode       filter.Mode
	threshold  int
	maxPages   int
	logger     *log.Logger
}

var _ Engine = (*PipelineEngine)(nil)

// EngineConfig carries the classification and pagination settings for an engine.
type EngineConfig struct {
	Categories models.CategoryFilter
	Mode       filter.Mode
	Threshold  int
	MaxPages   int
	Logger     *log.Logger
}

// NewPipelineEngine creates a PipelineEngine with the provided collaborators.
func NewPipelineEngine(source services.Source, store sheet.Store, cfg EngineConfig) *PipelineEngine {
	if cfg.Threshold == 0 {
		cfg.Threshold = filter.DefaultThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = shared.NewLogger(nil)
	}

	return &PipelineEngine{
		source:     source,
		store:      store,
		categories: cfg.Categories,
		mode:       cfg.Mode,
		threshold:  cfg.Threshold,
		maxPages:   cfg.MaxPages,
		logger:     cfg.Logger,
	}
}

// classify labels a title according to the configured mode.
func (e *PipelineEngine) classify(title string) []string {
	if e.mode == filter.ModeExact {
		if game, ok := filter.First(title, e.categories); ok {
			return []string{game}
		}
		return nil
	}
	return filter.Classify(title, e.categories, e.threshold)
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PipelineEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs a full pipeline pass.
//
// Transient source and storage failures do not raise: they are recorded on
// the result so partial progress is never silently lost. The returned error
// is reserved for misconfiguration and upstream contract breaches.
func (e *PipelineEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, cutoff *time.Time, dryRun bool) (*RunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrServiceUnavailable)
	}
	if e.store == nil {
		return nil, fmt.Errorf("%w: sheet store not initialized", shared.ErrServiceUnavailable)
	}

	result := &RunResult{RunID: shared.GenerateRunID()}
	logger := shared.WithLogger(e.logger, "run_id", result.RunID)

	e.sendProgress(progress, fetchPagesUpdate(e.maxPages))
	fetch := FetchNew(ctx, e.source, NewFetchState(), FetchOptions{
		Cutoff:   cutoff,
		MaxPages: e.maxPages,
		Logger:   logger,
	})
	result.Pages = fetch.Pages
	result.Fetched = len(fetch.Items)
	result.StopReason = fetch.Reason
	if fetch.Err != nil {
		result.FetchErr = fetch.Err
		logger.Warn("pagination halted early, continuing with partial results",
			"items", len(fetch.Items), "error", fetch.Err)
	}

	e.sendProgress(progress, normalizeUpdate(len(fetch.Items)))
	videos, err := NormalizeAll(fetch.Items)
	if err != nil {
		return result, err
	}
	SortByPublishedDesc(videos)

	e.sendProgress(progress, classifyUpdate(len(videos)))
	classified := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		categories := e.classify(v.Title)
		if len(categories) == 0 {
			result.Unclassified++
			continue
		}
		v.Categories = categories
		classified = append(classified, v)
	}
	result.Classified = classified
	logger.Info("classification complete",
		"matched", len(classified), "dropped", result.Unclassified)

	e.sendProgress(progress, loadSheetUpdate(e.store.Name()))
	existing, err := e.loadOrEmpty(ctx, logger)
	if err != nil {
		result.StoreErr = err
		logger.Error("sheet unavailable, fetched records were not persisted",
			"kind", sheet.ClassifyErr(err), "error", err)
		return result, nil
	}

	e.sendProgress(progress, mergeSheetUpdate(len(classified), len(existing.Rows)))
	merge := sheet.Reconcile(existing, classified, logger)
	result.Merged = merge.Merged
	result.NewlyAdded = merge.NewlyAdded
	result.DedupDisabled = merge.DedupDisabled

	if !dryRun {
		e.sendProgress(progress, writeSheetUpdate(len(merge.Merged.Rows)))
		if err := e.store.Write(ctx, merge.Merged); err != nil {
			result.StoreErr = err
			logger.Error("sheet write failed, merged result was not persisted",
				"kind", sheet.ClassifyErr(err), "error", err)
		} else {
			result.Persisted = true
		}
	}

	e.sendProgress(progress, summarizeUpdate())
	result.Stats = sheet.Summarize(merge.Merged)

	return result, nil
}

// Query fetches and exact-matches records for one game without writing.
func (e *PipelineEngine) Query(ctx context.Context, progress chan<- ProgressUpdate, game string, cutoff *time.Time) (*QueryResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrServiceUnavailable)
	}

	keywords, ok := e.categories[game]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", shared.ErrUnknownGame, game, e.categories.Games())
	}

	result := &QueryResult{RunID: shared.GenerateRunID(), Game: game}
	logger := shared.WithLogger(e.logger, "run_id", result.RunID, "game", game)

	e.sendProgress(progress, fetchPagesUpdate(e.maxPages))
	fetch := FetchNew(ctx, e.source, NewFetchState(), FetchOptions{
		Cutoff:   cutoff,
		MaxPages: e.maxPages,
		Logger:   logger,
	})
	if fetch.Err != nil {
		result.FetchErr = fetch.Err
		logger.Warn("pagination halted early, continuing with partial results",
			"items", len(fetch.Items), "error", fetch.Err)
	}

	e.sendProgress(progress, normalizeUpdate(len(fetch.Items)))
	videos, err := NormalizeAll(fetch.Items)
	if err != nil {
		return result, err
	}
	SortByPublishedDesc(videos)

	e.sendProgress(progress, classifyUpdate(len(videos)))
	for _, v := range videos {
		if filter.MatchesKeywords(v.Title, keywords) {
			v.Categories = []string{game}
			result.Matched = append(result.Matched, v)
		}
	}

	e.sendProgress(progress, loadSheetUpdate(e.store.Name()))
	existing, err := e.loadOrEmpty(ctx, logger)
	if err != nil {
		// Without the sheet every match is presumed new; the caller decides
		// whether to retry or review by hand.
		logger.Error("sheet unavailable, treating all matches as new",
			"kind", sheet.ClassifyErr(err), "error", err)
		result.New = result.Matched
		return result, nil
	}

	known := map[string]struct{}{}
	if err := existing.RequireColumn(sheet.ColURL); err == nil {
		for _, row := range existing.Rows {
			if row.URL != "" {
				known[row.URL] = struct{}{}
			}
		}
	} else if !existing.IsEmpty() {
		logger.Warn("every match is reported as new", "error", err)
	}
	for _, v := range result.Matched {
		if _, exists := known[v.URL]; !exists {
			result.New = append(result.New, v)
		}
	}

	logger.Info("query complete", "matched", len(result.Matched), "new", len(result.New))
	return result, nil
}

// Append reconciles records into the sheet and writes it back.
func (e *PipelineEngine) Append(ctx context.Context, videos []models.Video) (*AppendResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: sheet store not initialized", shared.ErrServiceUnavailable)
	}

	existing, err := e.loadOrEmpty(ctx, e.logger)
	if err != nil {
		return nil, fmt.Errorf("loading sheet: %w", err)
	}

	merge := sheet.Reconcile(existing, videos, e.logger)
	if err := e.store.Write(ctx, merge.Merged); err != nil {
		return nil, fmt.Errorf("writing sheet: %w", err)
	}

	return &AppendResult{NewlyAdded: merge.NewlyAdded, Merged: merge.Merged}, nil
}

// loadOrEmpty loads the persisted table, treating a missing sheet as empty.
func (e *PipelineEngine) loadOrEmpty(ctx context.Context, logger *log.Logger) (*sheet.Table, error) {
	table, err := e.store.Load(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrSheetNotFound) {
			logger.Warn("no persisted sheet found, starting from an empty table")
			return sheet.NewTable(), nil
		}
		return nil, err
	}
	return table, nil
}
