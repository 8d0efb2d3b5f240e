package main

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-stars/config"
	"github.com/aluiziolira/go-scrape-stars/parser"
	"github.com/aluiziolira/go-scrape-stars/report"
	"github.com/aluiziolira/go-scrape-stars/scraper"
)

// NewTablesCmd creates the tables command.
func NewTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables <url>",
		Short: "List the tables of a page with their selector indices",
		Long: `Fetch a page and print every <table> it contains as Markdown. The
Match column is the index to use as table_index for the given class and
caption filters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			class, _ := cmd.Flags().GetString("class")
			caption, _ := cmd.Flags().GetString("caption")
			exact, _ := cmd.Flags().GetBool("exact-class")
			sel := parser.Selector{Class: class, ExactClass: exact, Caption: caption}
			return listTables(cmd.Context(), cfg, args[0], sel, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("class", "wikitable", "Class list used to number matching tables")
	cmd.Flags().String("caption", "", "Caption filter used to number matching tables")
	cmd.Flags().Bool("exact-class", false, "Match the whole class attribute instead of each class")
	return cmd
}

func listTables(ctx context.Context, cfg *config.Config, rawURL string, sel parser.Selector, out io.Writer, fetchOpts ...scraper.Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return fmt.Errorf("invalid url %q", rawURL)
	}

	opts := append([]scraper.Option{scraper.WithAllowedHosts(u.Hostname())}, fetchOpts...)
	fetcher, err := scraper.NewFetcher(cfg, opts...)
	if err != nil {
		return fmt.Errorf("initialising fetcher: %w", err)
	}
	body, err := fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	doc, err := parser.ParseDocument(body)
	if err != nil {
		return err
	}
	return report.WriteTableList(out, rawURL, parser.ListTables(doc, sel))
}
