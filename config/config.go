package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"
)

// Output file names, relative to Config.OutputDir.
const (
	BrightestStarsFile      = "brightest_stars_data.csv"
	OriginalBrownDwarfsFile = "original_brown_dwarfs_data.csv"
	CleanedBrownDwarfsFile  = "cleaned_brown_dwarfs_data.csv"
	MergedStarsFile         = "merged_stars_data.csv"
)

// Default source pages.
const (
	BrightestStarsURL = "https://en.wikipedia.org/wiki/List_of_brightest_stars_and_other_record_stars"
	BrownDwarfsURL    = "https://en.wikipedia.org/wiki/List_of_brown_dwarfs"
)

// Source identifies a page and the table to read from it.
type Source struct {
	URL string `yaml:"url"`
	// TableClass is a space separated class list; every class must be present.
	TableClass string `yaml:"table_class"`
	// ExactClass requires the class attribute to equal TableClass instead.
	ExactClass bool `yaml:"exact_class"`
	// TableIndex picks among the tables matching TableClass and TableCaption.
	TableIndex int `yaml:"table_index"`
	// TableCaption, when set, restricts matches to tables whose caption
	// contains it (case-insensitive).
	TableCaption string `yaml:"table_caption"`
}

// Config holds scraper configuration.
type Config struct {
	Stars            Source        `yaml:"stars"`
	BrownDwarfs      Source        `yaml:"brown_dwarfs"`
	OutputDir        string        `yaml:"output_dir"`
	OutputFormat     string        `yaml:"output_format"` // csv or dual
	SQLitePath       string        `yaml:"sqlite_path"`
	ReportFile       string        `yaml:"report_file"`
	Timeout          time.Duration `yaml:"timeout"`
	UserAgent        string        `yaml:"user_agent"`
	RespectRobotsTxt bool          `yaml:"respect_robots_txt"`
	CacheSize        int           `yaml:"cache_size"`
	MetricsAddr      string        `yaml:"metrics_addr"`
	Verbose          bool          `yaml:"verbose"`
}

// DefaultConfig returns the settings that reproduce the reference run.
func DefaultConfig() *Config {
	return &Config{
		Stars: Source{
			URL:        BrightestStarsURL,
			TableClass: "wikitable sortable",
			ExactClass: true,
			TableIndex: 0,
		},
		BrownDwarfs: Source{
			URL:        BrownDwarfsURL,
			TableClass: "wikitable",
			TableIndex: 2,
		},
		OutputDir:        ".",
		OutputFormat:     "csv",
		Timeout:          10 * time.Second,
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		RespectRobotsTxt: false,
		CacheSize:        8,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if err := c.Stars.validate("stars"); err != nil {
		return err
	}
	if err := c.BrownDwarfs.validate("brown dwarfs"); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv or dual")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	return nil
}

func (s Source) validate(label string) error {
	if s.URL == "" {
		return fmt.Errorf("%s URL cannot be empty", label)
	}
	parsed, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("invalid %s URL: %w", label, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s URL must include a host", label)
	}
	if s.TableIndex < 0 {
		return fmt.Errorf("%s table index cannot be negative", label)
	}
	return nil
}

// Path resolves an output file name against OutputDir.
func (c *Config) Path(name string) string {
	return filepath.Join(c.OutputDir, name)
}

// Hosts returns the distinct hosts of the configured sources.
func (c *Config) Hosts() []string {
	var hosts []string
	seen := make(map[string]struct{}, 2)
	for _, s := range []Source{c.Stars, c.BrownDwarfs} {
		u, err := url.Parse(s.URL)
		if err != nil || u.Hostname() == "" {
			continue
		}
		if _, ok := seen[u.Hostname()]; ok {
			continue
		}
		seen[u.Hostname()] = struct{}{}
		hosts = append(hosts, u.Hostname())
	}
	return hosts
}
