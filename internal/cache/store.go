package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hyperifyio/keywordtrends/internal/query"
)

// Store is the durable per-range keyword store. A range is written once after
// a complete collection and read on every later run. Write overwrites silently;
// a single writer per range is assumed.
type Store interface {
	Exists(ctx context.Context, r query.DateRange) (bool, error)
	Write(ctx context.Context, r query.DateRange, keywords []string) error
	Read(ctx context.Context, r query.DateRange) ([]string, error)
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Entry describes one stored range.
type Entry struct {
	Range    query.DateRange `yaml:"range" json:"range"`
	Keywords int             `yaml:"keywords" json:"keywords"`
	SavedAt  time.Time       `yaml:"saved_at" json:"saved_at"`
}

// NotFoundError is returned by Read when nothing was written for a range.
// Callers check Exists first, so seeing it means the call order is wrong.
type NotFoundError struct {
	Range query.DateRange
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no cached keywords for range %s", e.Range)
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend rooted at dir. An empty backend selects
// the file store.
func Open(backend, dir string, strictPerms bool) (Store, error) {
	switch backend {
	case "", BackendFile:
		return &FileStore{Dir: dir, StrictPerms: strictPerms}, nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, DefaultSQLiteName))
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
