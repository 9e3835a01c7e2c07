package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hyperifyio/keywordtrends/internal/query"
)

// Fixture holds canned results keyed by DateRange.Key(). Each range lists its
// reported hit count and the documents of each page in order.
type Fixture struct {
	Ranges map[string]FixtureRange `json:"ranges"`
}

// FixtureRange is one range's canned search results.
type FixtureRange struct {
	Hits  int          `json:"hits"`
	Pages [][]Document `json:"pages"`
}

// wireFixture is the on-disk fixture shape. Documents go through the same
// wire types as live responses so both reject the same inputs.
type wireFixture struct {
	Ranges map[string]struct {
		Hits  int         `json:"hits"`
		Pages [][]wireDoc `json:"pages"`
	} `json:"ranges"`
}

// LoadFixture reads a fixture JSON file. A document without keywords or a
// keyword without a value makes the whole fixture malformed.
func LoadFixture(path string) (*Fixture, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("fixture path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wf wireFixture
	if err := json.Unmarshal(b, &wf); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	f := &Fixture{Ranges: make(map[string]FixtureRange, len(wf.Ranges))}
	for key, wr := range wf.Ranges {
		fr := FixtureRange{Hits: wr.Hits, Pages: make([][]Document, 0, len(wr.Pages))}
		for i, page := range wr.Pages {
			docs, err := convertDocs(fmt.Sprintf("ranges[%s].pages[%d]", key, i), page)
			if err != nil {
				return nil, err
			}
			fr.Pages = append(fr.Pages, docs)
		}
		f.Ranges[key] = fr
	}
	return f, nil
}

// Lookup returns the hit count and page documents for a range. Pages past the
// recorded ones are empty, as the live service answers.
func (f *Fixture) Lookup(r query.DateRange, page int) (int, []Document, bool) {
	if f == nil {
		return 0, nil, false
	}
	fr, ok := f.Ranges[r.Key()]
	if !ok {
		return 0, nil, false
	}
	if page < 0 || page >= len(fr.Pages) {
		return fr.Hits, []Document{}, true
	}
	return fr.Hits, fr.Pages[page], true
}

// FileProvider serves lookups from a local fixture file for offline runs and
// tests. Unknown ranges answer with zero hits.
type FileProvider struct {
	Path string

	fixture *Fixture
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) load() (*Fixture, error) {
	if f.fixture != nil {
		return f.fixture, nil
	}
	fx, err := LoadFixture(f.Path)
	if err != nil {
		return nil, err
	}
	f.fixture = fx
	return fx, nil
}

func (f *FileProvider) CountHits(_ context.Context, q query.Spec) (int, error) {
	fx, err := f.load()
	if err != nil {
		return 0, err
	}
	hits, _, _ := fx.Lookup(q.Range, 0)
	return hits, nil
}

func (f *FileProvider) FetchPage(_ context.Context, q query.Spec, page int) ([]Document, error) {
	fx, err := f.load()
	if err != nil {
		return nil, err
	}
	_, docs, _ := fx.Lookup(q.Range, page)
	for i, d := range docs {
		if d.Keywords == nil {
			return nil, missing(fmt.Sprintf("pages[%d][%d].keywords", page, i))
		}
	}
	return docs, nil
}
