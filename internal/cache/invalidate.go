package cache

import (
    "errors"
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// Clear removes the ranges stored by backend in dir and nothing else, so
// reports written next to the cache survive. The directory itself is kept.
func Clear(backend, dir string) error {
    if strings.TrimSpace(dir) == "" {
        return errors.New("empty dir")
    }
    switch backend {
    case "", BackendFile:
        entries, err := os.ReadDir(dir)
        if err != nil {
            if errors.Is(err, fs.ErrNotExist) {
                return nil
            }
            return err
        }
        for _, e := range entries {
            name := e.Name()
            if e.IsDir() || !(strings.HasSuffix(name, keywordsSuffix) || strings.HasSuffix(name, keywordsSuffix+".tmp")) {
                continue
            }
            if err := removeIfExists(filepath.Join(dir, name)); err != nil {
                return err
            }
        }
        return nil
    case BackendSQLite:
        // The journal files belong to the database and go with it
        for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
            if err := removeIfExists(filepath.Join(dir, DefaultSQLiteName+suffix)); err != nil {
                return err
            }
        }
        return nil
    default:
        return fmt.Errorf("unknown cache backend %q", backend)
    }
}

func removeIfExists(path string) error {
    if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
        return err
    }
    return nil
}

// PurgeByAge removes keyword files whose modification time is older than
// maxAge, so the next run collects those ranges again. Leftover temp files are
// removed regardless of age.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
    if maxAge <= 0 {
        return 0, nil
    }
    now := time.Now().UTC()
    removed := 0
    err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            if errors.Is(err, fs.ErrNotExist) {
                return nil
            }
            return err
        }
        if d.IsDir() {
            return nil
        }
        name := d.Name()
        if strings.HasSuffix(name, keywordsSuffix+".tmp") {
            _ = os.Remove(path)
            return nil
        }
        if !strings.HasSuffix(name, keywordsSuffix) {
            return nil
        }
        info, err := d.Info()
        if err != nil {
            return nil // skip unreadable
        }
        if now.Sub(info.ModTime().UTC()) <= maxAge {
            return nil
        }
        removed++
        _ = os.Remove(path)
        return nil
    })
    return removed, err
}
