package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/keywordtrends/internal/cache"
	"github.com/hyperifyio/keywordtrends/internal/query"
	"github.com/hyperifyio/keywordtrends/internal/search"
)

const (
	// DefaultMaxPages bounds collection to the first pages of results no
	// matter how many more exist.
	DefaultMaxPages = 10
	// DefaultPageDelay keeps requests under the service's rate limit.
	DefaultPageDelay = 15 * time.Second
)

// ErrNoSearcher is returned by Collect when no remote searcher is
// configured, as in offline runs where only cached ranges can be reported.
var ErrNoSearcher = errors.New("no searcher configured; range not cached")

// Source tells where a range's keywords came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// Result is the outcome of Ensure for one range.
type Result struct {
	Keywords []string
	Source   Source
	Hits     int
	Pages    int
}

// Collector fetches every keyword occurrence for a range and stores the
// flattened sequence. Pages are fetched one at a time in ascending order.
type Collector struct {
	Searcher search.Searcher
	Store    cache.Store

	// MaxPages caps the page plan. Zero means DefaultMaxPages.
	MaxPages int
	// Delay is slept after each page. Zero disables the delay.
	Delay time.Duration
	// SkipTrailingDelay omits the delay after the final page.
	SkipTrailingDelay bool
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// PageCount returns min(maxPages, ceil(totalHits/PageSize)).
func PageCount(totalHits, maxPages int) int {
	if totalHits <= 0 {
		return 0
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	n := (totalHits + search.PageSize - 1) / search.PageSize
	if n > maxPages {
		n = maxPages
	}
	return n
}

// Ensure returns the cached sequence for q.Range when present, without any
// remote call. Otherwise it runs Collect.
func (c *Collector) Ensure(ctx context.Context, q query.Spec) (Result, error) {
	if c.Store == nil {
		return Result{}, errors.New("collector store not configured")
	}
	ok, err := c.Store.Exists(ctx, q.Range)
	if err != nil {
		return Result{}, fmt.Errorf("check cache: %w", err)
	}
	if ok {
		kws, err := c.Store.Read(ctx, q.Range)
		if err != nil {
			return Result{}, fmt.Errorf("read cache: %w", err)
		}
		log.Info().Str("range", q.Range.Key()).Int("keywords", len(kws)).Msg("using cached keywords")
		return Result{Keywords: kws, Source: SourceCache}, nil
	}
	return c.Collect(ctx, q)
}

// Collect counts hits once, fetches the planned pages and writes the complete
// sequence to the store. Any failure aborts before the write, leaving the
// range uncached.
func (c *Collector) Collect(ctx context.Context, q query.Spec) (Result, error) {
	if c.Searcher == nil {
		return Result{}, ErrNoSearcher
	}
	if c.Store == nil {
		return Result{}, errors.New("collector store not configured")
	}
	logger := log.With().Str("range", q.Range.Key()).Str("provider", c.Searcher.Name()).Logger()

	hits, err := c.Searcher.CountHits(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("count hits: %w", err)
	}
	pages := PageCount(hits, c.MaxPages)
	logger.Info().Int("hits", hits).Int("pages", pages).Msg("planned collection")

	keywords := []string{}
	for page := 0; page < pages; page++ {
		docs, err := c.Searcher.FetchPage(ctx, q, page)
		if err != nil {
			return Result{}, fmt.Errorf("fetch page %d: %w", page, err)
		}
		for _, d := range docs {
			keywords = append(keywords, d.Values()...)
		}
		logger.Info().Int("page", page+1).Int("of", pages).Int("docs", len(docs)).Int("keywords", len(keywords)).Msg("page completed")

		if page == pages-1 && c.SkipTrailingDelay {
			break
		}
		if err := c.sleep(ctx); err != nil {
			return Result{}, err
		}
	}

	if err := c.Store.Write(ctx, q.Range, keywords); err != nil {
		return Result{}, fmt.Errorf("write cache: %w", err)
	}
	return Result{Keywords: keywords, Source: SourceRemote, Hits: hits, Pages: pages}, nil
}

func (c *Collector) sleep(ctx context.Context) error {
	if c.Delay <= 0 {
		return ctx.Err()
	}
	if c.Sleep != nil {
		return c.Sleep(ctx, c.Delay)
	}
	t := time.NewTimer(c.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
