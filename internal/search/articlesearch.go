package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/keywordtrends/internal/fetch"
	"github.com/hyperifyio/keywordtrends/internal/query"
)

// DefaultBaseURL is the New York Times Article Search endpoint.
const DefaultBaseURL = "https://api.nytimes.com/svc/search/v2/articlesearch.json"

// PageSize is the number of documents the service returns per page.
const PageSize = 10

// ArticleSearch implements Searcher against an Article Search compatible
// endpoint. The API key travels as the "api-key" query parameter.
type ArticleSearch struct {
	BaseURL string
	Client  *fetch.Client
}

func (s *ArticleSearch) Name() string { return "articlesearch" }

// CountHits performs one lookup for page 0 and returns response.meta.hits.
func (s *ArticleSearch) CountHits(ctx context.Context, q query.Spec) (int, error) {
	resp, err := s.lookup(ctx, q, 0)
	if err != nil {
		return 0, err
	}
	return resp.hits()
}

// FetchPage performs one lookup for the given zero-based page.
func (s *ArticleSearch) FetchPage(ctx context.Context, q query.Spec, page int) ([]Document, error) {
	if page < 0 {
		return nil, fmt.Errorf("negative page %d", page)
	}
	resp, err := s.lookup(ctx, q, page)
	if err != nil {
		return nil, err
	}
	return resp.documents()
}

func (s *ArticleSearch) lookup(ctx context.Context, q query.Spec, page int) (*wireResponse, error) {
	base := strings.TrimSpace(s.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	c := s.Client
	if c == nil {
		c = &fetch.Client{PerRequestTimeout: 30 * time.Second}
	}
	start := time.Now()
	resp, err := c.Get(ctx, base, Params(q, page))
	if err != nil {
		return nil, fmt.Errorf("article search request: %w", err)
	}
	log.Debug().
		Str("range", q.Range.Key()).
		Int("page", page).
		Int("status", resp.Status).
		Dur("took", time.Since(start)).
		Msg("article search lookup")
	if !resp.OK() {
		return nil, &ServiceError{Status: resp.Status, Message: faultMessage(resp.Body)}
	}
	if !fetch.IsJSONContentType(resp.ContentType) {
		return nil, &MalformedResponseError{Field: "content-type", Err: fmt.Errorf("unexpected %q", resp.ContentType)}
	}
	return decodeEnvelope(resp.Body)
}

// Params builds the query string for one lookup.
func Params(q query.Spec, page int) url.Values {
	v := url.Values{}
	v.Set("q", q.Term)
	v.Set("begin_date", q.Range.Begin)
	v.Set("end_date", q.Range.End)
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Filter != "" {
		v.Set("fq", q.Filter)
	}
	if q.APIKey != "" {
		v.Set("api-key", q.APIKey)
	}
	v.Set("page", strconv.Itoa(page))
	return v
}
