// Package pipeline scrapes, cleans, exports and merges the star tables.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/aluiziolira/go-scrape-stars/config"
	"github.com/aluiziolira/go-scrape-stars/models"
	"github.com/aluiziolira/go-scrape-stars/parser"
)

// Dataset names. They label tables in logs, metrics and SQLite.
const (
	DatasetStars               = "brightest_stars"
	DatasetOriginalBrownDwarfs = "original_brown_dwarfs"
	DatasetCleanedBrownDwarfs  = "cleaned_brown_dwarfs"
	DatasetMerged              = "merged_stars"
)

// Drop reasons reported to the Recorder.
const (
	DropReasonIncomplete = "incomplete"
	DropReasonUnparsable = "unparsable"
)

// Fetcher returns the raw body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Recorder receives row counters.
type Recorder interface {
	AddRows(dataset string, n int)
	AddDropped(reason string, n int)
}

// TableStore persists exported tables alongside the files.
type TableStore interface {
	SaveTable(ctx context.Context, t *models.Table) error
}

type noopRecorder struct{}

func (noopRecorder) AddRows(string, int)    {}
func (noopRecorder) AddDropped(string, int) {}

// Runner executes the scrape, clean, export and merge stages in order. It
// holds no state between runs; every run rewrites all output files.
type Runner struct {
	cfg      *config.Config
	fetcher  Fetcher
	recorder Recorder
	store    TableStore
	logger   *slog.Logger
	runID    string
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder routes row counters to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithStore saves every exported table to store as well.
func WithStore(store TableStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLogger sets the logger. The run id is attached to it.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// NewRunner builds a runner. fetcher may be nil for Merge-only use.
func NewRunner(cfg *config.Config, fetcher Fetcher, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		recorder: noopRecorder{},
		logger:   slog.Default(),
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(slog.String("run_id", r.runID))
	return r
}

// RunID returns the id attached to this runner's logs and results.
func (r *Runner) RunID() string {
	return r.runID
}

// Run scrapes both sources, writes the stage files and the merged file.
// Any fetch, lookup, construction or write failure aborts the run.
func (r *Runner) Run(ctx context.Context) (*models.RunResult, error) {
	if r.fetcher == nil {
		return nil, fmt.Errorf("pipeline: no fetcher configured")
	}
	result := &models.RunResult{RunID: r.runID, StartTime: time.Now()}

	stars, err := r.scrapeStars(ctx)
	if err != nil {
		return nil, fmt.Errorf("brightest stars: %w", err)
	}
	if err := r.export(ctx, stars, config.BrightestStarsFile, result); err != nil {
		return nil, err
	}

	original, err := r.scrapeBrownDwarfs(ctx)
	if err != nil {
		return nil, fmt.Errorf("brown dwarfs: %w", err)
	}
	if err := r.export(ctx, original, config.OriginalBrownDwarfsFile, result); err != nil {
		return nil, err
	}

	cleaned := original.Clone(DatasetCleanedBrownDwarfs)
	stats, err := CleanBrownDwarfs(cleaned)
	if err != nil {
		return nil, fmt.Errorf("clean brown dwarfs: %w", err)
	}
	result.Cleaning = stats
	r.recorder.AddDropped(DropReasonIncomplete, stats.DroppedIncomplete)
	r.recorder.AddDropped(DropReasonUnparsable, stats.DroppedUnparsable)
	r.logger.Info("brown dwarfs cleaned",
		slog.Int("sentinel_cells", stats.SentinelCells),
		slog.Int("dropped_incomplete", stats.DroppedIncomplete),
		slog.Int("dropped_unparsable", stats.DroppedUnparsable),
		slog.Int("rows", cleaned.Len()),
	)
	if err := r.export(ctx, cleaned, config.CleanedBrownDwarfsFile, result); err != nil {
		return nil, err
	}
	result.BrownDwarfs, err = models.DecodeBrownDwarfs(cleaned)
	if err != nil {
		return nil, err
	}

	if err := r.merge(ctx, result); err != nil {
		return nil, err
	}
	result.EndTime = time.Now()
	return result, nil
}

// Merge rebuilds the merged file from previously exported stage files.
func (r *Runner) Merge(ctx context.Context) (*models.RunResult, error) {
	result := &models.RunResult{RunID: r.runID, StartTime: time.Now()}
	if err := r.merge(ctx, result); err != nil {
		return nil, err
	}
	result.EndTime = time.Now()
	return result, nil
}

func (r *Runner) merge(ctx context.Context, result *models.RunResult) error {
	stars, err := ReadCSV(r.cfg.Path(config.BrightestStarsFile), DatasetStars)
	if err != nil {
		return fmt.Errorf("reload stars: %w", err)
	}
	dwarfs, err := ReadCSV(r.cfg.Path(config.CleanedBrownDwarfsFile), DatasetCleanedBrownDwarfs)
	if err != nil {
		return fmt.Errorf("reload brown dwarfs: %w", err)
	}
	if stars.Len() != dwarfs.Len() {
		r.logger.Debug("merging tables of different length",
			slog.Int("stars", stars.Len()),
			slog.Int("brown_dwarfs", dwarfs.Len()),
		)
	}

	merged := MergeDatasets(DatasetMerged, stars, dwarfs)
	return r.export(ctx, merged, config.MergedStarsFile, result)
}

func (r *Runner) scrapeStars(ctx context.Context) (*models.Table, error) {
	table, err := r.locate(ctx, r.cfg.Stars)
	if err != nil {
		return nil, err
	}
	stars, err := parser.ExtractStars(table)
	if err != nil {
		return nil, err
	}
	records := make([][]string, len(stars))
	for i, star := range stars {
		records[i] = star.Fields()
	}
	return models.BuildTable(DatasetStars, models.StarColumns(), records)
}

func (r *Runner) scrapeBrownDwarfs(ctx context.Context) (*models.Table, error) {
	table, err := r.locate(ctx, r.cfg.BrownDwarfs)
	if err != nil {
		return nil, err
	}
	rows := parser.ExtractRows(table, parser.TextStripFragments)
	return models.BuildTable(DatasetOriginalBrownDwarfs, models.BrownDwarfColumns(), rows)
}

func (r *Runner) locate(ctx context.Context, src config.Source) (*goquery.Selection, error) {
	body, err := r.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	doc, err := parser.ParseDocument(body)
	if err != nil {
		return nil, err
	}
	sel := parser.Selector{
		Class:      src.TableClass,
		ExactClass: src.ExactClass,
		Index:      src.TableIndex,
		Caption:    src.TableCaption,
	}
	table, err := sel.Locate(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.URL, err)
	}
	r.logger.Debug("table located", slog.String("url", src.URL), slog.String("selector", sel.String()))
	return table, nil
}

func (r *Runner) export(ctx context.Context, t *models.Table, file string, result *models.RunResult) error {
	w, err := NewWriter(r.cfg.OutputFormat, r.cfg.Path(file))
	if err != nil {
		return fmt.Errorf("export %s: %w", t.Name, err)
	}
	if err := w.Write(t); err != nil {
		w.Close()
		return fmt.Errorf("export %s: %w", t.Name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("export %s: %w", t.Name, err)
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("export %s: %w", t.Name, err)
	}
	if r.store != nil {
		if err := r.store.SaveTable(ctx, t); err != nil {
			return fmt.Errorf("store %s: %w", t.Name, err)
		}
	}

	r.recorder.AddRows(t.Name, t.Len())
	result.Datasets = append(result.Datasets, models.DatasetResult{
		Name:  t.Name,
		Rows:  t.Len(),
		Files: w.Paths(),
	})
	r.logger.Info("dataset exported",
		slog.String("dataset", t.Name),
		slog.Int("rows", t.Len()),
		slog.Any("files", w.Paths()),
	)
	return nil
}
