package app

import (
	"time"

	"github.com/hyperifyio/keywordtrends/internal/query"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Search
	APIKey         string
	SearchURL      string
	SearchFile     string
	UserAgent      string
	RequestTimeout time.Duration

	// Collection
	Ranges            []query.DateRange
	MaxPages          int
	PageDelay         time.Duration
	SkipTrailingDelay bool
	TopK              int

	// Cache
	CacheDir         string
	CacheBackend     string
	CacheClear       bool
	CacheMaxAge      time.Duration
	CacheStrictPerms bool

	// Output
	OutputDir    string
	DisableChart bool

	// Behavior
	Offline bool
	Verbose bool
}

// Defaults shared by the CLI flags and the file config overlay.
const (
	DefaultCacheDir       = "kw dir"
	DefaultOutputDir      = "kw dir"
	DefaultUserAgent      = "keywordtrends/1.0 (+https://github.com/hyperifyio/keywordtrends)"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPageDelay      = 15 * time.Second
	DefaultMaxPages       = 10
	DefaultTopK           = 10
)

// ApplyDefaults fills zero-valued fields that have no meaningful zero.
// PageDelay is left alone: zero disables the delay.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if len(cfg.Ranges) == 0 {
		cfg.Ranges = query.DefaultRanges()
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.TopK == 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
}
