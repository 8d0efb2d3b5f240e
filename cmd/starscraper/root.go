package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-stars/config"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "starscraper",
		Short: "Scrape, clean and merge Wikipedia star tables",
		Long: `starscraper fetches the brightest-stars and brown-dwarfs tables from
Wikipedia, exports each stage as CSV and merges both tables side by side.

Configuration is read from starscraper.yaml when present, then from
STARS_* environment variables, then from command-line flags.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewMergeCmd())
	cmd.AddCommand(NewTablesCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for cmd and installs the default
// logger. Flags only override values when set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, level := newLogger(cfg.Verbose, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())
	return cfg, nil
}

// applyFlags copies every explicitly set output flag into cfg. Commands
// register only the flags they use; absent flags are skipped.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	stringFlags := map[string]*string{
		"output-dir":     &cfg.OutputDir,
		"format":         &cfg.OutputFormat,
		"sqlite":         &cfg.SQLitePath,
		"report":         &cfg.ReportFile,
		"metrics-addr":   &cfg.MetricsAddr,
		"stars-url":      &cfg.Stars.URL,
		"dwarfs-url":     &cfg.BrownDwarfs.URL,
		"dwarfs-caption": &cfg.BrownDwarfs.TableCaption,
		"user-agent":     &cfg.UserAgent,
	}
	for name, dst := range stringFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	intFlags := map[string]*int{
		"dwarfs-index": &cfg.BrownDwarfs.TableIndex,
		"cache-size":   &cfg.CacheSize,
	}
	for name, dst := range intFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if flags.Lookup("timeout") != nil && flags.Changed("timeout") {
		v, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = v
	}
	if flags.Lookup("respect-robots") != nil && flags.Changed("respect-robots") {
		v, err := flags.GetBool("respect-robots")
		if err != nil {
			return err
		}
		cfg.RespectRobotsTxt = v
	}
	return nil
}

func newLogger(verbose bool, w io.Writer) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler), level
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
