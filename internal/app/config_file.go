package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/keywordtrends/internal/cache"
    "github.com/hyperifyio/keywordtrends/internal/query"
)

// FileConfig represents the single-file configuration schema.
// Nested sections improve readability and map naturally to flags/env.
type FileConfig struct {
    Search struct {
        URL     string        `yaml:"url" json:"url"`
        Key     string        `yaml:"key" json:"key"`
        File    string        `yaml:"file" json:"file"`
        UA      string        `yaml:"ua" json:"ua"`
        Timeout time.Duration `yaml:"timeout" json:"timeout"`
    } `yaml:"search" json:"search"`

    Ranges []query.DateRange `yaml:"ranges" json:"ranges"`

    Collect struct {
        MaxPages          int            `yaml:"maxPages" json:"maxPages"`
        PageDelay         *time.Duration `yaml:"pageDelay" json:"pageDelay"`
        SkipTrailingDelay bool           `yaml:"skipTrailingDelay" json:"skipTrailingDelay"`
    } `yaml:"collect" json:"collect"`

    TopK int `yaml:"topK" json:"topK"`

    Cache struct {
        Dir         string        `yaml:"dir" json:"dir"`
        Backend     string        `yaml:"backend" json:"backend"`
        MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
        Clear       bool          `yaml:"clear" json:"clear"`
        StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
    } `yaml:"cache" json:"cache"`

    Output struct {
        Dir     string `yaml:"dir" json:"dir"`
        NoChart bool   `yaml:"noChart" json:"noChart"`
    } `yaml:"output" json:"output"`

    Offline bool `yaml:"offline" json:"offline"`
    Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset or still at their flag default. Flags should already have
// been parsed; this lets the file supply values while preserving explicit flags.
// PageDelay is not touched here: its zero value is meaningful, so it is
// settled by ResolvePageDelay.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if cfg.SearchURL == "" && fc.Search.URL != "" { cfg.SearchURL = fc.Search.URL }
    if cfg.APIKey == "" && fc.Search.Key != "" { cfg.APIKey = fc.Search.Key }
    if cfg.SearchFile == "" && fc.Search.File != "" { cfg.SearchFile = fc.Search.File }
    if (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent) && fc.Search.UA != "" { cfg.UserAgent = fc.Search.UA }
    if (cfg.RequestTimeout == 0 || cfg.RequestTimeout == DefaultRequestTimeout) && fc.Search.Timeout > 0 { cfg.RequestTimeout = fc.Search.Timeout }

    if len(cfg.Ranges) == 0 && len(fc.Ranges) > 0 { cfg.Ranges = append([]query.DateRange{}, fc.Ranges...) }

    if (cfg.MaxPages == 0 || cfg.MaxPages == DefaultMaxPages) && fc.Collect.MaxPages > 0 { cfg.MaxPages = fc.Collect.MaxPages }
    if !cfg.SkipTrailingDelay && fc.Collect.SkipTrailingDelay { cfg.SkipTrailingDelay = true }
    if (cfg.TopK == 0 || cfg.TopK == DefaultTopK) && fc.TopK > 0 { cfg.TopK = fc.TopK }

    if (cfg.CacheDir == "" || cfg.CacheDir == DefaultCacheDir) && fc.Cache.Dir != "" { cfg.CacheDir = fc.Cache.Dir }
    if (cfg.CacheBackend == "" || cfg.CacheBackend == cache.BackendFile) && fc.Cache.Backend != "" { cfg.CacheBackend = fc.Cache.Backend }
    if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 { cfg.CacheMaxAge = fc.Cache.MaxAge }
    if !cfg.CacheClear && fc.Cache.Clear { cfg.CacheClear = true }
    if !cfg.CacheStrictPerms && fc.Cache.StrictPerms { cfg.CacheStrictPerms = true }

    if (cfg.OutputDir == "" || cfg.OutputDir == DefaultOutputDir) && fc.Output.Dir != "" { cfg.OutputDir = fc.Output.Dir }
    if !cfg.DisableChart && fc.Output.NoChart { cfg.DisableChart = true }

    if !cfg.Offline && fc.Offline { cfg.Offline = true }
    if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }
}

// ResolvePageDelay picks the inter-page delay in order: an explicitly set flag
// (or its env var), the config file, the PAGE_DELAY environment variable,
// then DefaultPageDelay. An explicit zero at any level disables the delay.
func ResolvePageDelay(flagSet bool, flagValue time.Duration, fc FileConfig) (time.Duration, error) {
    if flagSet {
        return flagValue, nil
    }
    if fc.Collect.PageDelay != nil {
        return *fc.Collect.PageDelay, nil
    }
    if s := strings.TrimSpace(os.Getenv("PAGE_DELAY")); s != "" {
        d, err := time.ParseDuration(s)
        if err != nil {
            return 0, fmt.Errorf("PAGE_DELAY: %w", err)
        }
        return d, nil
    }
    return DefaultPageDelay, nil
}

// ValidateConfig performs minimal schema validation for required settings.
// Offline runs and fixture-backed runs need no API key.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.CacheDir) == "" {
        return errors.New("config: cache dir is required")
    }
    if strings.TrimSpace(cfg.OutputDir) == "" {
        return errors.New("config: output dir is required")
    }
    switch cfg.CacheBackend {
    case "", cache.BackendFile, cache.BackendSQLite:
    default:
        return fmt.Errorf("config: unknown cache backend %q (want %s or %s)", cfg.CacheBackend, cache.BackendFile, cache.BackendSQLite)
    }
    if len(cfg.Ranges) == 0 {
        return errors.New("config: at least one date range is required")
    }
    for i, r := range cfg.Ranges {
        if err := r.Validate(); err != nil {
            return fmt.Errorf("config: range %d: %w", i, err)
        }
    }
    if cfg.MaxPages < 0 || cfg.TopK < 0 || cfg.PageDelay < 0 || cfg.CacheMaxAge < 0 {
        return errors.New("config: negative limits are not allowed")
    }
    if !cfg.Offline && strings.TrimSpace(cfg.SearchFile) == "" && strings.TrimSpace(cfg.SearchURL) == "" && strings.TrimSpace(cfg.APIKey) == "" {
        return errors.New("config: search api key is required (or set NYT_API_KEY)")
    }
    return nil
}
