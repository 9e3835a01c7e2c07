package main

import (
	"net/http"
	"strconv"

	"github.com/hyperifyio/keywordtrends/internal/query"
	"github.com/hyperifyio/keywordtrends/internal/search"
)

// newHandler answers article search lookups from a fixture. When apiKey is
// set, requests without it get the service's 401 fault body.
func newHandler(fx *search.Fixture, apiKey string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if apiKey != "" && q.Get("api-key") != apiKey {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"fault":{"faultstring":"Invalid ApiKey","detail":{"errorcode":"oauth.v2.InvalidApiKey"}}}`))
			return
		}
		rng := query.DateRange{Begin: q.Get("begin_date"), End: q.Get("end_date")}
		if err := rng.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		page := 0
		if s := q.Get("page"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				http.Error(w, "invalid page", http.StatusBadRequest)
				return
			}
			page = n
		}
		hits, docs, _ := fx.Lookup(rng, page)
		if docs == nil {
			docs = []search.Document{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = search.WritePage(w, hits, page, docs)
	})
}
