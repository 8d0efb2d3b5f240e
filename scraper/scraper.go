// Package scraper fetches source pages through a colly collector.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-stars/config"
)

// Fetcher issues one blocking GET per page. It never retries; every failure
// is returned as a *FetchError.
type Fetcher struct {
	cfg       *config.Config
	collector *colly.Collector
	cache     *lru.Cache[string, []byte]
	logger    *slog.Logger
	Metrics   *Metrics

	requestCount int64
}

// Option configures a Fetcher.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	hosts     []string
	metrics   *Metrics
	transport http.RoundTripper
	logger    *slog.Logger
}

// WithAllowedHosts permits hosts beyond the configured sources.
func WithAllowedHosts(hosts ...string) Option {
	return func(o *fetcherOptions) {
		o.hosts = append(o.hosts, hosts...)
	}
}

// WithMetrics shares a metrics bundle instead of creating one.
func WithMetrics(m *Metrics) Option {
	return func(o *fetcherOptions) {
		o.metrics = m
	}
}

// WithTransport replaces the default HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *fetcherOptions) {
		o.transport = rt
	}
}

// WithLogger sets the logger used for fetch records. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *fetcherOptions) {
		o.logger = logger
	}
}

// NewFetcher builds a fetcher configured from cfg.
func NewFetcher(cfg *config.Config, opts ...Option) (*Fetcher, error) {
	var o fetcherOptions
	for _, opt := range opts {
		opt(&o)
	}
	hosts := append(cfg.Hosts(), o.hosts...)
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no source hosts configured")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(hosts...),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableKeepAlives:   true,
	})
	if o.transport != nil {
		collector.WithTransport(o.transport)
	}

	f := &Fetcher{
		cfg:       cfg,
		collector: collector,
		logger:    o.logger,
		Metrics:   o.metrics,
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.Metrics == nil {
		f.Metrics = NewMetrics()
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, []byte](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create page cache: %w", err)
		}
		f.cache = cache
	}
	return f, nil
}

// Fetch returns the raw body of rawURL. Bodies are cached per process by URL
// when the cache is enabled.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.cache != nil {
		if body, ok := f.cache.Get(rawURL); ok {
			f.Metrics.IncRequest("cached")
			f.logger.Debug("page cache hit", slog.String("url", rawURL))
			return body, nil
		}
	}

	c := f.collector.Clone()
	var (
		body     []byte
		status   int
		start    time.Time
		received bool
	)
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		start = time.Now()
		atomic.AddInt64(&f.requestCount, 1)
		f.logger.Debug("fetching page", slog.String("url", r.URL.String()))
	})
	c.OnResponse(func(r *colly.Response) {
		received = true
		status = r.StatusCode
		body = append([]byte{}, r.Body...)
		f.Metrics.ObserveDuration(time.Since(start))
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(rawURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		classified := classifyError(rawURL, err, status)
		f.Metrics.IncError(classified.Kind)
		f.logger.Error("fetch failed",
			slog.String("url", rawURL),
			slog.String("category", string(classified.Kind)),
			slog.Int("status", status),
			slog.Any("error", err),
		)
		return nil, classified
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !received {
		classified := classifyError(rawURL, fmt.Errorf("no response received"), status)
		f.Metrics.IncError(classified.Kind)
		return nil, classified
	}

	f.Metrics.IncRequest("fetched")
	f.logger.Debug("page fetched",
		slog.String("url", rawURL),
		slog.Int("status", status),
		slog.Int("bytes", len(body)),
	)
	if f.cache != nil {
		f.cache.Add(rawURL, body)
	}
	return body, nil
}

// RequestCount returns the number of HTTP requests issued so far.
func (f *Fetcher) RequestCount() int {
	return int(atomic.LoadInt64(&f.requestCount))
}
