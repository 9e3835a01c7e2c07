package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/keywordtrends/internal/app"
	"github.com/hyperifyio/keywordtrends/internal/query"
)

func runAction(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	return run(c, cfg)
}

func reportAction(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	cfg.Offline = true
	cfg.SearchFile = ""
	return run(c, cfg)
}

func run(c *cli.Context, cfg app.Config) error {
	if err := app.ValidateConfig(cfg); err != nil {
		return err
	}
	a, err := app.New(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()
	a.SetOutput(c.App.Writer)
	log.Info().Str("run_id", a.RunID()).Int("ranges", len(cfg.Ranges)).Msg("starting run")
	return a.Run(c.Context)
}

func cacheListAction(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	entries, err := app.ListCache(c.Context, cfg)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.Writer, "No cached ranges")
		return nil
	}
	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}

func cacheClearAction(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	if err := app.ClearCache(cfg); err != nil {
		return err
	}
	log.Info().Str("dir", cfg.CacheDir).Msg("cache cleared")
	return nil
}

// buildConfig resolves configuration in order: flags (and their env vars),
// config file, dotenv-loaded environment, built-in defaults.
func buildConfig(c *cli.Context) (app.Config, error) {
	if err := app.LoadEnvFiles(c.StringSlice("env-file")...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}

	cfg := app.Config{
		APIKey:            c.String("api-key"),
		SearchURL:         c.String("search.url"),
		SearchFile:        c.String("search.file"),
		UserAgent:         c.String("search.ua"),
		RequestTimeout:    c.Duration("search.timeout"),
		MaxPages:          c.Int("max-pages"),
		SkipTrailingDelay: c.Bool("skip-trailing-delay"),
		TopK:              c.Int("top"),
		CacheDir:          c.String("cache.dir"),
		CacheBackend:      c.String("cache.backend"),
		CacheClear:        c.Bool("cache.clear"),
		CacheMaxAge:       c.Duration("cache.maxAge"),
		CacheStrictPerms:  c.Bool("cache.strictPerms"),
		OutputDir:         c.String("output.dir"),
		DisableChart:      c.Bool("no-chart"),
		Verbose:           c.Bool("verbose"),
	}
	for _, raw := range c.StringSlice("range") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		r, err := query.ParseRange(raw)
		if err != nil {
			return app.Config{}, fmt.Errorf("--range: %w", err)
		}
		cfg.Ranges = append(cfg.Ranges, r)
	}

	var fc app.FileConfig
	if path := strings.TrimSpace(c.String("config")); path != "" {
		var err error
		fc, err = app.LoadConfigFile(path)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	delay, err := app.ResolvePageDelay(c.IsSet("page-delay"), c.Duration("page-delay"), fc)
	if err != nil {
		return app.Config{}, err
	}
	cfg.PageDelay = delay
	app.ApplyDefaults(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}
