package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/keywordtrends/internal/aggregate"
	"github.com/hyperifyio/keywordtrends/internal/cache"
	"github.com/hyperifyio/keywordtrends/internal/collect"
	"github.com/hyperifyio/keywordtrends/internal/fetch"
	"github.com/hyperifyio/keywordtrends/internal/query"
	"github.com/hyperifyio/keywordtrends/internal/report"
	"github.com/hyperifyio/keywordtrends/internal/search"
)

type App struct {
	cfg       Config
	runID     string
	searcher  search.Searcher
	store     cache.Store
	collector *collect.Collector
	out       io.Writer
}

// ErrRangesFailed is returned by Run when at least one range could not be
// collected or reported. The remaining ranges are still processed, and the
// CLI maps this error to a distinct exit code.
var ErrRangesFailed = errors.New("one or more ranges failed")

func New(ctx context.Context, cfg Config) (*App, error) {
	ApplyDefaults(&cfg)

	// Apply cache invalidation controls before the store is opened
	if cfg.CacheClear {
		if err := cache.Clear(cfg.CacheBackend, cfg.CacheDir); err != nil {
			return nil, fmt.Errorf("clear cache: %w", err)
		}
	}
	store, err := cache.Open(cfg.CacheBackend, cfg.CacheDir, cfg.CacheStrictPerms)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if cfg.CacheMaxAge > 0 {
		n, err := purgeStore(ctx, store, cfg.CacheDir, cfg.CacheMaxAge)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed; continuing")
		} else if n > 0 {
			log.Info().Int("removed", n).Dur("max_age", cfg.CacheMaxAge).Msg("purged stale cache entries")
		}
	}

	a := &App{
		cfg:      cfg,
		runID:    uuid.NewString(),
		searcher: newSearcher(cfg),
		store:    store,
		out:      os.Stdout,
	}
	a.collector = &collect.Collector{
		Searcher:          a.searcher,
		Store:             store,
		MaxPages:          cfg.MaxPages,
		Delay:             cfg.PageDelay,
		SkipTrailingDelay: cfg.SkipTrailingDelay,
	}
	if a.searcher == nil {
		log.Info().Msg("offline: only cached ranges will be reported")
	}
	log.Debug().Str("run_id", a.runID).Str("provider", a.providerName()).Str("cache", a.cacheBackend()).Msg("app ready")
	return a, nil
}

// purgeStore drops ranges older than maxAge from whichever backend is open.
func purgeStore(ctx context.Context, store cache.Store, dir string, maxAge time.Duration) (int, error) {
	if s, ok := store.(*cache.SQLiteStore); ok {
		return s.PurgeByAge(ctx, maxAge)
	}
	return cache.PurgeByAge(dir, maxAge)
}

// newSearcher picks the search backend: nothing when offline, the fixture
// file when one is configured, otherwise the remote article search.
func newSearcher(cfg Config) search.Searcher {
	switch {
	case cfg.Offline:
		return nil
	case strings.TrimSpace(cfg.SearchFile) != "":
		return &search.FileProvider{Path: cfg.SearchFile}
	default:
		return &search.ArticleSearch{
			BaseURL: cfg.SearchURL,
			Client: &fetch.Client{
				HTTPClient:        newHTTPClient(cfg.RequestTimeout),
				UserAgent:         cfg.UserAgent,
				PerRequestTimeout: cfg.RequestTimeout,
			},
		}
	}
}

// SetOutput redirects the console tables printed for each range.
func (a *App) SetOutput(w io.Writer) {
	if w != nil {
		a.out = w
	}
}

// RunID identifies this run in logs and in the manifest.
func (a *App) RunID() string { return a.runID }

func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Warn().Err(err).Msg("close cache")
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	outcomes := make([]rangeOutcome, 0, len(a.cfg.Ranges))
	var failures []string
	for _, r := range a.cfg.Ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info().Str("range", r.Key()).Msgf("now viewing the period of %s", r)
		o, err := a.processRange(ctx, r)
		if err != nil {
			var nf *cache.NotFoundError
			if errors.As(err, &nf) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Error().Err(err).Str("range", r.Key()).Msg("range failed")
			o.Status = statusFailed
			o.Error = err.Error()
			failures = append(failures, fmt.Sprintf("%s: %v", r, err))
		}
		outcomes = append(outcomes, o)
	}

	if err := a.writeManifest(outcomes); err != nil {
		log.Warn().Err(err).Msg("write run manifest")
	}
	if len(failures) > 0 {
		return fmt.Errorf("%w: %s", ErrRangesFailed, strings.Join(failures, "; "))
	}
	return nil
}

func (a *App) processRange(ctx context.Context, r query.DateRange) (rangeOutcome, error) {
	o := rangeOutcome{Range: r}
	q := query.NewSpec(r, a.cfg.APIKey)
	res, err := a.collector.Ensure(ctx, q)
	if err != nil {
		return o, err
	}
	o.Source = string(res.Source)
	o.Hits = res.Hits
	o.Pages = res.Pages
	o.Keywords = len(res.Keywords)
	o.SHA256 = computeSHA256Hex(res.Keywords)

	table := aggregate.Count(res.Keywords)
	top := aggregate.TopK(table, a.cfg.TopK)
	o.Distinct = table.Len()
	o.Top = top

	csvPath := report.CSVPath(a.cfg.OutputDir, r)
	if err := report.WriteCSV(csvPath, top); err != nil {
		return o, err
	}
	o.CSVPath = csvPath
	fmt.Fprintf(a.out, "%s\n%s\n", r, report.FormatTable(top))

	if !a.cfg.DisableChart {
		chartPath := report.ChartPath(a.cfg.OutputDir, r)
		if err := report.WriteChartPDF(chartPath, r, top); err != nil {
			return o, err
		}
		o.ChartPath = chartPath
	}
	o.Status = statusOK
	log.Info().Str("range", r.Key()).Str("source", o.Source).Int("keywords", o.Keywords).Int("distinct", o.Distinct).Msg("range reported")
	return o, nil
}

func (a *App) writeManifest(outcomes []rangeOutcome) error {
	meta := manifestMeta{
		RunID:        a.runID,
		Version:      BuildVersion,
		Commit:       BuildCommit,
		Provider:     a.providerName(),
		CacheBackend: a.cacheBackend(),
		Query:        query.Term,
		Sort:         query.Sort,
		Filter:       query.Filter,
		GeneratedAt:  time.Now().UTC(),
	}
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return err
	}
	data, err := marshalManifestJSON(meta, outcomes)
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath(a.cfg.OutputDir), data, 0o644); err != nil {
		return err
	}
	ok, cached := 0, 0
	for _, o := range outcomes {
		if o.Status == statusOK {
			ok++
		}
		if o.Source == string(collect.SourceCache) {
			cached++
		}
	}
	summary := appendReproFooter(renderSummaryMarkdown(meta, outcomes), a.runID, meta.Provider, meta.CacheBackend, ok, cached)
	return os.WriteFile(summaryPath(a.cfg.OutputDir), []byte(summary), 0o644)
}

func (a *App) providerName() string {
	if a.searcher == nil {
		return "offline"
	}
	return a.searcher.Name()
}

func (a *App) cacheBackend() string {
	if a.cfg.CacheBackend == "" {
		return cache.BackendFile
	}
	return a.cfg.CacheBackend
}

// ListCache returns the ranges currently stored in the configured cache.
func ListCache(ctx context.Context, cfg Config) ([]cache.Entry, error) {
	ApplyDefaults(&cfg)
	store, err := cache.Open(cfg.CacheBackend, cfg.CacheDir, cfg.CacheStrictPerms)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.List(ctx)
}

// ClearCache removes every range stored by the configured backend. Other
// files in the cache directory, such as reports, are left alone.
func ClearCache(cfg Config) error {
	ApplyDefaults(&cfg)
	return cache.Clear(cfg.CacheBackend, cfg.CacheDir)
}
