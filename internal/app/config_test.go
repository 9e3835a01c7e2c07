package app

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/hyperifyio/keywordtrends/internal/query"
)

func TestLoadConfigFile_YAML(t *testing.T) {
    dir := t.TempDir()
    p := filepath.Join(dir, "keywordtrends.yaml")
    body := `search:
  key: from-file
  timeout: 5s
ranges:
  - 20180101-20200101
  - begin: 20200101
    end: 20220101
collect:
  maxPages: 3
  pageDelay: 0s
topK: 7
cache:
  backend: sqlite
output:
  dir: out
  noChart: true
`
    if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    fc, err := LoadConfigFile(p)
    if err != nil {
        t.Fatalf("load: %v", err)
    }

    cfg := Config{MaxPages: DefaultMaxPages, PageDelay: DefaultPageDelay}
    ApplyFileConfig(&cfg, fc)
    if cfg.APIKey != "from-file" || cfg.RequestTimeout != 5*time.Second {
        t.Fatalf("search section not applied: %+v", cfg)
    }
    want := []query.DateRange{{Begin: "20180101", End: "20200101"}, {Begin: "20200101", End: "20220101"}}
    if len(cfg.Ranges) != 2 || cfg.Ranges[0] != want[0] || cfg.Ranges[1] != want[1] {
        t.Fatalf("Ranges=%v, want %v", cfg.Ranges, want)
    }
    if cfg.MaxPages != 3 || cfg.TopK != 7 {
        t.Fatalf("collect section not applied: %+v", cfg)
    }
    if cfg.CacheBackend != "sqlite" || cfg.OutputDir != "out" || !cfg.DisableChart {
        t.Fatalf("cache/output not applied: %+v", cfg)
    }
}

func TestResolvePageDelay_Precedence(t *testing.T) {
    t.Setenv("PAGE_DELAY", "3s")
    zero := time.Duration(0)
    var withFile FileConfig
    withFile.Collect.PageDelay = &zero

    // An explicit 15s flag is not mistaken for the default.
    cfg := Config{PageDelay: DefaultPageDelay}
    ApplyFileConfig(&cfg, withFile)
    if cfg.PageDelay != DefaultPageDelay {
        t.Fatalf("file overrode explicit delay: %v", cfg.PageDelay)
    }
    if d, err := ResolvePageDelay(true, DefaultPageDelay, withFile); err != nil || d != DefaultPageDelay {
        t.Fatalf("flag: got %v %v, want %v", d, err, DefaultPageDelay)
    }
    if d, err := ResolvePageDelay(false, 0, withFile); err != nil || d != 0 {
        t.Fatalf("file zero: got %v %v", d, err)
    }
    if d, err := ResolvePageDelay(false, 0, FileConfig{}); err != nil || d != 3*time.Second {
        t.Fatalf("env: got %v %v", d, err)
    }
    t.Setenv("PAGE_DELAY", "")
    if d, err := ResolvePageDelay(false, 0, FileConfig{}); err != nil || d != DefaultPageDelay {
        t.Fatalf("default: got %v %v", d, err)
    }
    t.Setenv("PAGE_DELAY", "soon")
    if _, err := ResolvePageDelay(false, 0, FileConfig{}); err == nil {
        t.Fatalf("expected parse error")
    }
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
    var fc FileConfig
    fc.Search.Key = "file-key"
    fc.Cache.Dir = "file-cache"
    cfg := Config{APIKey: "flag-key", CacheDir: "flag-cache"}
    ApplyFileConfig(&cfg, fc)
    if cfg.APIKey != "flag-key" || cfg.CacheDir != "flag-cache" {
        t.Fatalf("file overrode explicit values: %+v", cfg)
    }
}

func TestValidateConfig(t *testing.T) {
    base := func() Config {
        c := Config{APIKey: "k"}
        ApplyDefaults(&c)
        return c
    }
    if err := ValidateConfig(base()); err != nil {
        t.Fatalf("valid config rejected: %v", err)
    }

    noKey := base()
    noKey.APIKey = ""
    if err := ValidateConfig(noKey); err == nil || !strings.Contains(err.Error(), "api key") {
        t.Fatalf("expected api key error, got %v", err)
    }
    noKey.Offline = true
    if err := ValidateConfig(noKey); err != nil {
        t.Fatalf("offline config should not need a key: %v", err)
    }

    badRange := base()
    badRange.Ranges = []query.DateRange{{Begin: "20200101", End: "20180101"}}
    if err := ValidateConfig(badRange); err == nil {
        t.Fatalf("expected reversed range to be rejected")
    }

    badBackend := base()
    badBackend.CacheBackend = "redis"
    if err := ValidateConfig(badBackend); err == nil {
        t.Fatalf("expected unknown backend to be rejected")
    }
}

func TestApplyDefaults_KeepsZeroDelay(t *testing.T) {
    var cfg Config
    ApplyDefaults(&cfg)
    if cfg.PageDelay != 0 {
        t.Fatalf("PageDelay=%v, zero must stay zero", cfg.PageDelay)
    }
    if len(cfg.Ranges) != 3 || cfg.MaxPages != DefaultMaxPages || cfg.TopK != DefaultTopK {
        t.Fatalf("defaults not applied: %+v", cfg)
    }
}
