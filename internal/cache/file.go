package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperifyio/keywordtrends/internal/query"
)

const keywordsSuffix = "_keywords.json"

// FileStore keeps one <begin>_<end>_keywords.json file per range holding the
// flat JSON array of keyword values.
type FileStore struct {
	Dir string
	// StrictPerms, when true, enforces 0700 on the cache directory and 0600 on
	// files to provide at-rest protection via restricted permissions.
	StrictPerms bool
}

var _ Store = (*FileStore)(nil)

func (c *FileStore) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if c.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(c.Dir, perm); err != nil {
		return err
	}
	// If directory already existed and StrictPerms is on, tighten perms
	if c.StrictPerms {
		if info, err := os.Stat(c.Dir); err == nil {
			if info.Mode()&0o777 != 0o700 {
				_ = os.Chmod(c.Dir, 0o700)
			}
		}
	}
	return nil
}

// PathFor returns the artifact path for r.
func (c *FileStore) PathFor(r query.DateRange) string {
	return filepath.Join(c.Dir, r.Key()+keywordsSuffix)
}

func (c *FileStore) Exists(_ context.Context, r query.DateRange) (bool, error) {
	if c == nil || c.Dir == "" {
		return false, errors.New("cache dir not configured")
	}
	info, err := os.Stat(c.PathFor(r))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Write stores keywords for r. The file is written to a temp name and renamed
// so a crash never leaves a half-written sequence behind.
func (c *FileStore) Write(_ context.Context, r query.DateRange, keywords []string) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	mode := os.FileMode(0o644)
	if c.StrictPerms {
		mode = 0o600
	}
	p := c.PathFor(r)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return fmt.Errorf("write keywords: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit keywords: %w", err)
	}
	return nil
}

func (c *FileStore) Read(_ context.Context, r query.DateRange) ([]string, error) {
	if c == nil || c.Dir == "" {
		return nil, errors.New("cache dir not configured")
	}
	b, err := os.ReadFile(c.PathFor(r))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Range: r}
		}
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(c.PathFor(r)), err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// List reports every stored range ordered by key.
func (c *FileStore) List(ctx context.Context) ([]Entry, error) {
	if c == nil || c.Dir == "" {
		return nil, errors.New("cache dir not configured")
	}
	des, err := os.ReadDir(c.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]Entry, 0, len(des))
	for _, de := range des {
		r, ok := rangeFromName(de.Name())
		if !ok || de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		kws, err := c.Read(ctx, r)
		if err != nil {
			continue
		}
		out = append(out, Entry{Range: r, Keywords: len(kws), SavedAt: info.ModTime().UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Key() < out[j].Range.Key() })
	return out, nil
}

func (c *FileStore) Close() error { return nil }

func rangeFromName(name string) (query.DateRange, bool) {
	if !strings.HasSuffix(name, keywordsSuffix) {
		return query.DateRange{}, false
	}
	key := strings.TrimSuffix(name, keywordsSuffix)
	parts := strings.Split(key, "_")
	if len(parts) != 2 {
		return query.DateRange{}, false
	}
	r := query.DateRange{Begin: parts[0], End: parts[1]}
	if r.Validate() != nil {
		return query.DateRange{}, false
	}
	return r, true
}
