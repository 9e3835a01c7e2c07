package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/keywordtrends/internal/query"
)

var testRange = query.DateRange{Begin: "20200101", End: "20220101"}

// storeFactories lets every contract test run against both backends.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"file": func() Store { return &FileStore{Dir: t.TempDir()} },
		"sqlite": func() Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), DefaultSQLiteName))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, mk := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := mk()
			seq := []string{"Artificial Intelligence", "Computers and the Internet", "Artificial Intelligence", "ChatGPT", "Ünïcode"}
			require.NoError(t, s.Write(ctx, testRange, seq))
			got, err := s.Read(ctx, testRange)
			require.NoError(t, err)
			require.Equal(t, seq, got)
		})
	}
}

func TestStore_EmptySequence(t *testing.T) {
	ctx := context.Background()
	for name, mk := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := mk()
			require.NoError(t, s.Write(ctx, testRange, nil))
			ok, err := s.Exists(ctx, testRange)
			require.NoError(t, err)
			require.True(t, ok)
			got, err := s.Read(ctx, testRange)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Empty(t, got)
		})
	}
}

func TestStore_ExistsAndNotFound(t *testing.T) {
	ctx := context.Background()
	for name, mk := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := mk()
			ok, err := s.Exists(ctx, testRange)
			require.NoError(t, err)
			require.False(t, ok)

			_, err = s.Read(ctx, testRange)
			var nf *NotFoundError
			require.True(t, errors.As(err, &nf), "expected NotFoundError, got %v", err)
			require.Equal(t, testRange, nf.Range)
		})
	}
}

func TestStore_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	for name, mk := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := mk()
			require.NoError(t, s.Write(ctx, testRange, []string{"a", "b", "c"}))
			require.NoError(t, s.Write(ctx, testRange, []string{"z"}))
			got, err := s.Read(ctx, testRange)
			require.NoError(t, err)
			require.Equal(t, []string{"z"}, got)
		})
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	for name, mk := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := mk()
			ranges := query.DefaultRanges()
			require.NoError(t, s.Write(ctx, ranges[2], []string{"x"}))
			require.NoError(t, s.Write(ctx, ranges[0], []string{"a", "b"}))
			got, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			require.Equal(t, ranges[0], got[0].Range)
			require.Equal(t, 2, got[0].Keywords)
			require.Equal(t, ranges[2], got[1].Range)
			require.False(t, got[1].SavedAt.IsZero())
		})
	}
}

func TestSQLiteStore_LargeSequenceBatches(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "k.db"))
	require.NoError(t, err)
	defer s.Close()
	seq := make([]string, 3*insertBatchRows+7)
	for i := range seq {
		seq[i] = string(rune('a' + i%26))
	}
	require.NoError(t, s.Write(ctx, testRange, seq))
	got, err := s.Read(ctx, testRange)
	require.NoError(t, err)
	require.Equal(t, seq, got)
}

func TestFileStore_ArtifactName(t *testing.T) {
	dir := t.TempDir()
	s := &FileStore{Dir: dir}
	require.NoError(t, s.Write(context.Background(), testRange, []string{"a"}))
	b, err := os.ReadFile(filepath.Join(dir, "20200101_20220101_keywords.json"))
	require.NoError(t, err)
	require.JSONEq(t, `["a"]`, string(b))
}

func TestFileStore_StrictPerms(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	dir := filepath.Join(base, "kw")
	s := &FileStore{Dir: dir, StrictPerms: true}
	if err := s.Write(context.Background(), testRange, []string{"a"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if got := info.Mode() & 0o777; got != 0o700 {
		t.Fatalf("dir mode = %o, want 0700", got)
	}
	finfo, err := os.Stat(s.PathFor(testRange))
	if err != nil {
		t.Fatalf("stat file: %v", err)
	}
	if got := finfo.Mode() & 0o777; got != 0o600 {
		t.Fatalf("file mode = %o, want 0600", got)
	}
}

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()
	s, err := Open("", dir, false)
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)

	s, err = Open(BackendSQLite, dir, false)
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())
	require.FileExists(t, filepath.Join(dir, DefaultSQLiteName))

	_, err = Open("redis", dir, false)
	require.Error(t, err)
}
