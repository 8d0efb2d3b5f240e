package main

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-stars/config"
	"github.com/aluiziolira/go-scrape-stars/pipeline"
)

// NewMergeCmd creates the merge command.
func NewMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Rebuild the merged file from existing stage files",
		Long: `Read brightest_stars_data.csv and cleaned_brown_dwarfs_data.csv from
the output directory and write merged_stars_data.csv without fetching
anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runMerge(cmd.Context(), cfg)
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func runMerge(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.NewString()
	logger := slog.Default().With(slog.String("run_id", runID))

	opts := []pipeline.Option{pipeline.WithRunID(runID)}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, pipeline.WithStore(store))
	}

	runner := pipeline.NewRunner(cfg, nil, opts...)
	result, err := runner.Merge(ctx)
	if err != nil {
		logger.Error("merge failed", slog.Any("error", err))
		return err
	}
	return writeReport(cfg, result, logger)
}
