package search

import (
	"context"

	"github.com/hyperifyio/keywordtrends/internal/query"
)

// Keyword is a single tag the service attaches to an article.
type Keyword struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Rank  int    `json:"rank"`
}

// Document is one article hit reduced to what keyword counting needs.
type Document struct {
	ID       string    `json:"_id"`
	WebURL   string    `json:"web_url,omitempty"`
	Keywords []Keyword `json:"keywords"`
}

// Values returns the keyword values in the order the service lists them.
func (d Document) Values() []string {
	out := make([]string, 0, len(d.Keywords))
	for _, k := range d.Keywords {
		out = append(out, k.Value)
	}
	return out
}

// Searcher is the remote article search capability. CountHits learns the total
// number of matches for a query; FetchPage returns one zero-based page of
// documents. Each call is a single lookup.
type Searcher interface {
	CountHits(ctx context.Context, q query.Spec) (int, error)
	FetchPage(ctx context.Context, q query.Spec, page int) ([]Document, error)
	Name() string
}
