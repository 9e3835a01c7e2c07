package app

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/hyperifyio/keywordtrends/internal/query"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
    if cfg == nil { return }

    if cfg.APIKey == "" {
        // Support both NYT_API_KEY and API_KEY; prefer NYT_API_KEY if set
        v := os.Getenv("NYT_API_KEY")
        if v == "" { v = os.Getenv("API_KEY") }
        cfg.APIKey = v
    }
    if cfg.SearchURL == "" {
        cfg.SearchURL = os.Getenv("SEARCH_URL")
    }
    if cfg.SearchFile == "" {
        cfg.SearchFile = os.Getenv("SEARCH_FILE")
    }
    if cfg.CacheDir == "" {
        cfg.CacheDir = os.Getenv("CACHE_DIR")
    }
    if cfg.CacheBackend == "" {
        cfg.CacheBackend = os.Getenv("CACHE_BACKEND")
    }
    if cfg.OutputDir == "" {
        cfg.OutputDir = os.Getenv("OUTPUT_DIR")
    }

    // DATE_RANGES is a comma-separated list of BEGIN-END pairs
    if len(cfg.Ranges) == 0 {
        if rs, ok := rangesFromEnv(); ok {
            cfg.Ranges = rs
        }
    }

    if cfg.MaxPages == 0 {
        if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("MAX_PAGES"))); err == nil && n > 0 {
            cfg.MaxPages = n
        }
    }
    if cfg.TopK == 0 {
        if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("TOP_K"))); err == nil && n > 0 {
            cfg.TopK = n
        }
    }

    // Optional durations
    setDuration := func(dst *time.Duration, envKey string) {
        if *dst != 0 { return }
        if s := os.Getenv(envKey); s != "" {
            if d, err := time.ParseDuration(s); err == nil {
                *dst = d
            }
        }
    }
    setDuration(&cfg.PageDelay, "PAGE_DELAY")
    setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
    setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")

    // Booleans
    setBool := func(dst *bool, envKey string) {
        if *dst { return }
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            if s == "1" || s == "true" || s == "yes" || s == "on" {
                *dst = true
            }
        }
    }
    setBool(&cfg.Offline, "OFFLINE")
    setBool(&cfg.Verbose, "VERBOSE")
    setBool(&cfg.CacheClear, "CACHE_CLEAR")
    setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
    setBool(&cfg.SkipTrailingDelay, "SKIP_TRAILING_DELAY")
    setBool(&cfg.DisableChart, "NO_CHART")
}

func rangesFromEnv() ([]query.DateRange, bool) {
    raw := strings.TrimSpace(os.Getenv("DATE_RANGES"))
    if raw == "" {
        return nil, false
    }
    rs, err := ParseRanges(raw)
    if err != nil {
        log.Warn().Err(err).Msg("ignoring DATE_RANGES")
        return nil, false
    }
    return rs, len(rs) > 0
}

// ParseRanges splits a comma-separated list of BEGIN-END pairs.
func ParseRanges(raw string) ([]query.DateRange, error) {
    parts := strings.Split(raw, ",")
    out := make([]query.DateRange, 0, len(parts))
    for _, p := range parts {
        if strings.TrimSpace(p) == "" { continue }
        r, err := query.ParseRange(p)
        if err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    return out, nil
}
