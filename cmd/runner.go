package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtrack/internal/filter"
	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/services"
	"github.com/desertthunder/vidtrack/internal/shared"
	"github.com/desertthunder/vidtrack/internal/sheet"
	"github.com/desertthunder/vidtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	source     services.Source
	store      sheet.Store
	engine     tasks.Engine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Source     services.Source
	Store      sheet.Store
	Engine     tasks.Engine
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		source:     opts.Source,
		store:      opts.Store,
		engine:     opts.Engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, runCommand, queryCommand, statsCommand, exportCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveSource returns the configured playlist source, constructing it on
// first use.
func (r *Runner) resolveSource() (services.Source, error) {
	if r.source != nil {
		return r.source, nil
	}

	if r.config.YouTube.APIKey == "" {
		return nil, fmt.Errorf("%w: set youtube.api_key in config.toml", shared.ErrMissingAPIKey)
	}

	r.source = services.NewYouTubeService(
		r.config.YouTube.APIKey,
		r.config.YouTube.PlaylistID,
		r.config.YouTube.BaseURL,
		r.httpClient,
	)
	return r.source, nil
}

// resolveStore returns the configured sheet store, constructing it on first use.
func (r *Runner) resolveStore() (sheet.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	switch r.config.Sheet.Backend {
	case "", "csv":
		r.store = sheet.NewCSVStore(r.config.Sheet.Path)
	case "sqlite":
		db, err := shared.NewDatabase(r.config.Sheet.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sheet database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Sheet.MaxOpenConns, r.config.Sheet.MaxIdleConns)
		store, err := sheet.NewSQLiteStore(db)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare sheet database: %w", err)
		}
		r.store = store
	default:
		return nil, fmt.Errorf("%w: unknown sheet backend %q", shared.ErrInvalidConfig, r.config.Sheet.Backend)
	}

	return r.store, nil
}

// resolveEngine returns the pipeline engine, constructing it on first use.
func (r *Runner) resolveEngine() (tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	source, err := r.resolveSource()
	if err != nil {
		return nil, err
	}
	store, err := r.resolveStore()
	if err != nil {
		return nil, err
	}

	mode, err := filter.ParseMode(r.config.Classify.Mode)
	if err != nil {
		return nil, err
	}

	r.engine = tasks.NewPipelineEngine(source, store, tasks.EngineConfig{
		Categories: models.CategoryFilter(r.config.Classify.Categories),
		Mode:       mode,
		Threshold:  r.config.Classify.Threshold,
		MaxPages:   r.config.Fetch.MaxPages,
		Logger:     r.logger,
	})
	return r.engine, nil
}

// resolveCutoff picks the cutoff date from the --date flag or the configured
// default. A malformed value disables date filtering with a warning rather
// than aborting the run.
func (r *Runner) resolveCutoff(cmd *cli.Command) *time.Time {
	raw := cmd.String("date")
	if raw == "" {
		raw = r.config.Fetch.PublishedAfter
	}
	if raw == "" {
		return nil
	}

	cutoff, err := models.ParseCutoffDate(raw)
	if err != nil {
		r.logger.Warn("malformed cutoff date, fetching without date filtering",
			"date", raw, "error", err)
		return nil
	}
	return &cutoff
}

// watchProgress drains a progress channel to the output until it closes.
func (r *Runner) watchProgress(progressCh <-chan tasks.ProgressUpdate) {
	for update := range progressCh {
		switch update.Phase {
		case tasks.FetchPages:
			r.writePlain("📥 %s\n", update.Message)
		case tasks.ClassifyTitles:
			r.writePlain("🏷  %s\n", update.Message)
		case tasks.WriteSheet:
			r.writePlain("📝 %s\n", update.Message)
		}
	}
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
