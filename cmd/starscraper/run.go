package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-stars/config"
	"github.com/aluiziolira/go-scrape-stars/models"
	"github.com/aluiziolira/go-scrape-stars/pipeline"
	"github.com/aluiziolira/go-scrape-stars/report"
	"github.com/aluiziolira/go-scrape-stars/scraper"
	"github.com/aluiziolira/go-scrape-stars/storage"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape both tables and write all output files",
		Long: `Fetch the brightest-stars and brown-dwarfs pages, then write
brightest_stars_data.csv, original_brown_dwarfs_data.csv,
cleaned_brown_dwarfs_data.csv and merged_stars_data.csv to the output
directory. Existing files are overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runScrape(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	addOutputFlags(cmd)
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 10s)")
	cmd.Flags().Bool("respect-robots", false, "Respect robots.txt directives")
	cmd.Flags().Int("cache-size", 0, "Page cache entries, 0 disables (default 8)")
	cmd.Flags().String("user-agent", "", "User-Agent header sent with every request")
	cmd.Flags().String("stars-url", "", "Brightest-stars page URL")
	cmd.Flags().String("dwarfs-url", "", "Brown-dwarfs page URL")
	cmd.Flags().Int("dwarfs-index", 0, "Index of the brown-dwarfs table among matching tables (default 2)")
	cmd.Flags().String("dwarfs-caption", "", "Only consider brown-dwarf tables whose caption contains this text")
	cmd.Flags().String("metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")

	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "o", "", "Directory for the CSV files (default \".\")")
	cmd.Flags().String("format", "", "Output format: csv or dual (default csv)")
	cmd.Flags().String("sqlite", "", "Also store every table in this SQLite database")
	cmd.Flags().String("report", "", "Write a Markdown run summary to this file")
}

func runScrape(ctx context.Context, cfg *config.Config, out io.Writer, fetchOpts ...scraper.Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger := slog.Default().With(slog.String("run_id", runID))

	metrics := scraper.NewMetrics()
	opts := []scraper.Option{scraper.WithMetrics(metrics), scraper.WithLogger(logger)}
	fetcher, err := scraper.NewFetcher(cfg, append(opts, fetchOpts...)...)
	if err != nil {
		return fmt.Errorf("initialising fetcher: %w", err)
	}

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		logger.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", slog.Any("error", err))
			}
			cancel()
		}()
	}

	runOpts := []pipeline.Option{
		pipeline.WithRecorder(metrics),
		pipeline.WithLogger(slog.Default()),
		pipeline.WithRunID(runID),
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		runOpts = append(runOpts, pipeline.WithStore(store))
	}

	runner := pipeline.NewRunner(cfg, fetcher, runOpts...)
	logger.Info("starting scrape",
		slog.String("stars_url", cfg.Stars.URL),
		slog.String("brown_dwarfs_url", cfg.BrownDwarfs.URL),
		slog.String("output_dir", cfg.OutputDir),
	)

	result, err := runner.Run(ctx)
	if err != nil {
		logger.Error("scrape failed", slog.Any("error", err))
		return err
	}
	result.RequestCount = fetcher.RequestCount()

	if err := writeReport(cfg, result, logger); err != nil {
		return err
	}
	printSummary(out, result)
	return nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	if cfg.SQLitePath == "" {
		return nil, nil
	}
	store, err := storage.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	return store, nil
}

func writeReport(cfg *config.Config, result *models.RunResult, logger *slog.Logger) error {
	if cfg.ReportFile == "" {
		return nil
	}
	f, err := os.Create(cfg.ReportFile)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteRunSummary(f, result); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	logger.Info("report written", slog.String("path", cfg.ReportFile))
	return nil
}

func printSummary(w io.Writer, result *models.RunResult) {
	separator := "--------------------------------------------------"
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "Scrape complete")
	fmt.Fprintf(w, "  Run ID:        %s\n", result.RunID)
	for _, ds := range result.Datasets {
		fmt.Fprintf(w, "  %-22s %4d rows  %s\n", ds.Name+":", ds.Rows, strings.Join(ds.Files, ", "))
	}
	if result.Cleaning.Dropped() > 0 || result.Cleaning.SentinelCells > 0 {
		fmt.Fprintf(w, "  Dropped:       %d incomplete, %d unparsable\n",
			result.Cleaning.DroppedIncomplete, result.Cleaning.DroppedUnparsable)
	}
	if result.RequestCount > 0 {
		fmt.Fprintf(w, "  Requests:      %d\n", result.RequestCount)
	}
	fmt.Fprintf(w, "  Duration:      %v\n", result.Duration().Round(time.Millisecond))
	fmt.Fprintln(w, separator)
}
