package cache

import (
    "context"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/hyperifyio/keywordtrends/internal/query"
)

func TestPurgeByAge_RemovesOldKeywordFiles(t *testing.T) {
    dir := t.TempDir()
    s := &FileStore{Dir: dir}
    old := testRange
    fresh := query.DefaultRanges()[0]
    if err := s.Write(context.Background(), old, []string{"a"}); err != nil {
        t.Fatalf("write old: %v", err)
    }
    if err := s.Write(context.Background(), fresh, []string{"b"}); err != nil {
        t.Fatalf("write fresh: %v", err)
    }
    past := time.Now().Add(-48 * time.Hour)
    if err := os.Chtimes(s.PathFor(old), past, past); err != nil {
        t.Fatalf("chtimes: %v", err)
    }
    other := filepath.Join(dir, "notes.txt")
    _ = os.WriteFile(other, []byte("keep"), 0o644)
    _ = os.Chtimes(other, past, past)

    removed, err := PurgeByAge(dir, 24*time.Hour)
    if err != nil {
        t.Fatalf("purge: %v", err)
    }
    if removed != 1 {
        t.Fatalf("expected 1 removed, got %d", removed)
    }
    if ok, _ := s.Exists(context.Background(), old); ok {
        t.Fatalf("expected old range purged")
    }
    if ok, _ := s.Exists(context.Background(), fresh); !ok {
        t.Fatalf("expected fresh range kept")
    }
    if _, err := os.Stat(other); err != nil {
        t.Fatalf("unrelated file removed: %v", err)
    }
}

func TestPurgeByAge_ZeroDisables(t *testing.T) {
    n, err := PurgeByAge(t.TempDir(), 0)
    if err != nil || n != 0 {
        t.Fatalf("expected no-op, got %d %v", n, err)
    }
}

func TestClear_FileBackendKeepsReports(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "kw dir")
    s := &FileStore{Dir: dir}
    if err := s.Write(context.Background(), testRange, []string{"a"}); err != nil {
        t.Fatalf("write: %v", err)
    }
    leftover := s.PathFor(query.DefaultRanges()[0]) + ".tmp"
    keep := []string{"20200101_20220101_word_counts.csv", "20200101_20220101_chart.pdf", "run.manifest.json", "summary.md"}
    for _, name := range append(keep, filepath.Base(leftover)) {
        if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
            t.Fatalf("write %s: %v", name, err)
        }
    }

    if err := Clear(BackendFile, dir); err != nil {
        t.Fatalf("clear: %v", err)
    }
    if ok, _ := s.Exists(context.Background(), testRange); ok {
        t.Fatalf("expected cache cleared")
    }
    if _, err := os.Stat(leftover); !os.IsNotExist(err) {
        t.Fatalf("expected temp file removed, err=%v", err)
    }
    for _, name := range keep {
        if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
            t.Fatalf("report artifact %s removed: %v", name, err)
        }
    }
}

func TestClear_SQLiteBackendRemovesDatabaseOnly(t *testing.T) {
    dir := t.TempDir()
    s, err := OpenSQLite(filepath.Join(dir, DefaultSQLiteName))
    if err != nil {
        t.Fatalf("open: %v", err)
    }
    if err := s.Write(context.Background(), testRange, []string{"a"}); err != nil {
        t.Fatalf("write: %v", err)
    }
    if err := s.Close(); err != nil {
        t.Fatalf("close: %v", err)
    }
    csv := filepath.Join(dir, "20200101_20220101_word_counts.csv")
    if err := os.WriteFile(csv, []byte("Keyword,Count\n"), 0o644); err != nil {
        t.Fatalf("write csv: %v", err)
    }

    if err := Clear(BackendSQLite, dir); err != nil {
        t.Fatalf("clear: %v", err)
    }
    if _, err := os.Stat(filepath.Join(dir, DefaultSQLiteName)); !os.IsNotExist(err) {
        t.Fatalf("expected database removed, err=%v", err)
    }
    if _, err := os.Stat(csv); err != nil {
        t.Fatalf("csv removed: %v", err)
    }
}

func TestClear_Errors(t *testing.T) {
    if err := Clear(BackendFile, "  "); err == nil {
        t.Fatalf("expected error for empty dir")
    }
    if err := Clear("redis", t.TempDir()); err == nil {
        t.Fatalf("expected error for unknown backend")
    }
    if err := Clear(BackendFile, filepath.Join(t.TempDir(), "missing")); err != nil {
        t.Fatalf("missing dir should be a no-op: %v", err)
    }
}

func TestSQLiteStore_PurgeByAge(t *testing.T) {
    ctx := context.Background()
    s, err := OpenSQLite(filepath.Join(t.TempDir(), DefaultSQLiteName))
    if err != nil {
        t.Fatalf("open: %v", err)
    }
    defer s.Close()
    old := testRange
    fresh := query.DefaultRanges()[0]
    if err := s.Write(ctx, old, []string{"a", "b"}); err != nil {
        t.Fatalf("write old: %v", err)
    }
    if err := s.Write(ctx, fresh, []string{"c"}); err != nil {
        t.Fatalf("write fresh: %v", err)
    }
    past := time.Now().UTC().Add(-48 * time.Hour).Format(savedAtLayout)
    if _, err := s.db.Exec("UPDATE ranges SET saved_at = ? WHERE range_key = ?", past, old.Key()); err != nil {
        t.Fatalf("age row: %v", err)
    }

    if n, err := s.PurgeByAge(ctx, 0); err != nil || n != 0 {
        t.Fatalf("zero max age should be a no-op, got %d %v", n, err)
    }
    removed, err := s.PurgeByAge(ctx, 24*time.Hour)
    if err != nil {
        t.Fatalf("purge: %v", err)
    }
    if removed != 1 {
        t.Fatalf("expected 1 removed, got %d", removed)
    }
    if ok, _ := s.Exists(ctx, old); ok {
        t.Fatalf("expected old range purged")
    }
    if ok, _ := s.Exists(ctx, fresh); !ok {
        t.Fatalf("expected fresh range kept")
    }
    var orphans int
    if err := s.db.QueryRow("SELECT COUNT(1) FROM range_keywords WHERE range_key = ?", old.Key()).Scan(&orphans); err != nil {
        t.Fatalf("count keywords: %v", err)
    }
    if orphans != 0 {
        t.Fatalf("expected keywords deleted with their range, got %d", orphans)
    }
}
