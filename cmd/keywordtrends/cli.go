package main

import (
	"github.com/urfave/cli/v2"

	"github.com/hyperifyio/keywordtrends/internal/app"
	"github.com/hyperifyio/keywordtrends/internal/cache"
)

func newCLI() *cli.App {
	runFlags := append(append(commonFlags(), outputFlags()...), searchFlags()...)
	return &cli.App{
		Name:    "keywordtrends",
		Usage:   "count the most frequent keyword tags on top \"AI\" articles per date range",
		Version: app.VersionString(),
		Flags:   runFlags,
		Action:  runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "collect uncached ranges from the search service and write reports",
				Flags:  runFlags,
				Action: runAction,
			},
			{
				Name:   "report",
				Usage:  "write reports from cached ranges only, never contacting the service",
				Flags:  append(commonFlags(), outputFlags()...),
				Action: reportAction,
			},
			{
				Name:  "cache",
				Usage: "inspect or clear stored keyword sequences",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list cached ranges as YAML",
						Flags:  commonFlags(),
						Action: cacheListAction,
					},
					{
						Name:   "clear",
						Usage:  "remove every cached range",
						Flags:  commonFlags(),
						Action: cacheClearAction,
					},
				},
			},
		},
	}
}

// commonFlags apply to every command that touches the cache.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "Path to YAML or JSON config file", EnvVars: []string{"KEYWORDTRENDS_CONFIG"}},
		&cli.StringSliceFlag{Name: "env-file", Usage: "Dotenv file(s) to load before reading the environment", Value: cli.NewStringSlice(".env")},
		&cli.BoolFlag{Name: "verbose", Usage: "Verbose logging", EnvVars: []string{"VERBOSE"}},
		&cli.StringFlag{Name: "cache.dir", Usage: "Cache directory path", DefaultText: app.DefaultCacheDir, EnvVars: []string{"CACHE_DIR"}},
		&cli.StringFlag{Name: "cache.backend", Usage: "Cache backend: file or sqlite", DefaultText: cache.BackendFile, EnvVars: []string{"CACHE_BACKEND"}},
		&cli.BoolFlag{Name: "cache.strictPerms", Usage: "Restrict cache permissions (0700 dirs, 0600 files)", EnvVars: []string{"CACHE_STRICT_PERMS"}},
		&cli.StringSliceFlag{Name: "range", Usage: "Date range BEGIN-END in YYYYMMDD; repeatable", EnvVars: []string{"DATE_RANGES"}},
	}
}

// outputFlags control report generation.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output.dir", Usage: "Directory for CSV and chart artifacts", DefaultText: app.DefaultOutputDir, EnvVars: []string{"OUTPUT_DIR"}},
		&cli.IntFlag{Name: "top", Usage: "Number of keywords to report per range", DefaultText: "10", EnvVars: []string{"TOP_K"}},
		&cli.BoolFlag{Name: "no-chart", Usage: "Skip the PDF bar chart", EnvVars: []string{"NO_CHART"}},
	}
}

// searchFlags configure remote collection.
func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "api-key", Usage: "Article search API key", EnvVars: []string{"NYT_API_KEY", "API_KEY"}},
		&cli.StringFlag{Name: "search.url", Usage: "Article search endpoint", DefaultText: "NYT Article Search", EnvVars: []string{"SEARCH_URL"}},
		&cli.StringFlag{Name: "search.file", Usage: "JSON fixture served instead of the remote service", EnvVars: []string{"SEARCH_FILE"}},
		&cli.StringFlag{Name: "search.ua", Usage: "User-Agent for search requests", DefaultText: app.DefaultUserAgent},
		&cli.DurationFlag{Name: "search.timeout", Usage: "Per-request timeout", DefaultText: app.DefaultRequestTimeout.String(), EnvVars: []string{"REQUEST_TIMEOUT"}},
		&cli.IntFlag{Name: "max-pages", Usage: "Upper bound on pages fetched per range", DefaultText: "10", EnvVars: []string{"MAX_PAGES"}},
		&cli.DurationFlag{Name: "page-delay", Usage: "Pause after each page request", DefaultText: app.DefaultPageDelay.String(), EnvVars: []string{"PAGE_DELAY"}},
		&cli.BoolFlag{Name: "skip-trailing-delay", Usage: "Do not pause after the last page of a range", EnvVars: []string{"SKIP_TRAILING_DELAY"}},
		&cli.BoolFlag{Name: "cache.clear", Usage: "Clear cache directory before run", EnvVars: []string{"CACHE_CLEAR"}},
		&cli.DurationFlag{Name: "cache.maxAge", Usage: "Max age for cached ranges before purge (e.g. 720h); 0 disables", EnvVars: []string{"CACHE_MAX_AGE"}},
	}
}
