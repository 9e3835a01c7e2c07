package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/hyperifyio/keywordtrends/internal/query"
)

// DefaultSQLiteName is the database file created inside the cache directory
// when the sqlite backend is selected.
const DefaultSQLiteName = "keywords.db"

// insertBatchRows keeps a multi-row insert well below SQLite's bound
// parameter limit.
const insertBatchRows = 200

// savedAtLayout is fixed width so saved_at values compare correctly as text.
const savedAtLayout = "2006-01-02T15:04:05.000000000Z"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ranges (
	range_key     TEXT PRIMARY KEY,
	begin_date    TEXT NOT NULL,
	end_date      TEXT NOT NULL,
	keyword_count INTEGER NOT NULL,
	saved_at      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS range_keywords (
	range_key TEXT NOT NULL REFERENCES ranges(range_key) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	keyword   TEXT NOT NULL,
	PRIMARY KEY (range_key, position)
);
`

// SQLiteStore keeps keyword sequences in a SQLite database, one row per
// occurrence with its position so order survives the round trip.
type SQLiteStore struct {
	db   *sql.DB
	path string
	sb   sq.StatementBuilderType
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps the pragma in effect for every statement.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Exists(ctx context.Context, r query.DateRange) (bool, error) {
	q, args, err := s.sb.Select("COUNT(1)").From("ranges").Where(sq.Eq{"range_key": r.Key()}).ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check range: %w", err)
	}
	return n > 0, nil
}

// Write replaces everything stored for r in a single transaction.
func (s *SQLiteStore) Write(ctx context.Context, r query.DateRange, keywords []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del, args, err := s.sb.Delete("ranges").Where(sq.Eq{"range_key": r.Key()}).ToSql()
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("delete range: %w", err)
	}
	ins, args, err := s.sb.Insert("ranges").
		Columns("range_key", "begin_date", "end_date", "keyword_count", "saved_at").
		Values(r.Key(), r.Begin, r.End, len(keywords), time.Now().UTC().Format(savedAtLayout)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, ins, args...); err != nil {
		return fmt.Errorf("insert range: %w", err)
	}
	for start := 0; start < len(keywords); start += insertBatchRows {
		end := start + insertBatchRows
		if end > len(keywords) {
			end = len(keywords)
		}
		b := s.sb.Insert("range_keywords").Columns("range_key", "position", "keyword")
		for i := start; i < end; i++ {
			b = b.Values(r.Key(), i, keywords[i])
		}
		stmt, args, berr := b.ToSql()
		if berr != nil {
			return berr
		}
		if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert keywords: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context, r query.DateRange) ([]string, error) {
	ok, err := s.Exists(ctx, r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Range: r}
	}
	q, args, err := s.sb.Select("keyword").From("range_keywords").
		Where(sq.Eq{"range_key": r.Key()}).OrderBy("position").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		out = append(out, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	q, args, err := s.sb.Select("begin_date", "end_date", "keyword_count", "saved_at").
		From("ranges").OrderBy("range_key").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query ranges: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var saved string
		if err := rows.Scan(&e.Range.Begin, &e.Range.End, &e.Keywords, &saved); err != nil {
			return nil, fmt.Errorf("scan range: %w", err)
		}
		e.SavedAt, _ = time.Parse(savedAtLayout, saved)
		out = append(out, e)
	}
	return out, rows.Err()
}

// PurgeByAge deletes ranges saved more than maxAge ago, together with their
// keywords. A zero or negative maxAge disables the purge.
func (s *SQLiteStore) PurgeByAge(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-maxAge).Format(savedAtLayout)
	q, args, err := s.sb.Delete("ranges").Where(sq.Lt{"saved_at": cutoff}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("purge ranges: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
