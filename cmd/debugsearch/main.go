package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hyperifyio/keywordtrends/internal/fetch"
	"github.com/hyperifyio/keywordtrends/internal/query"
	"github.com/hyperifyio/keywordtrends/internal/search"
)

// debugsearch performs one hit-count lookup, optionally followed by one page,
// and prints what the service answered.
func main() {
	base := os.Getenv("SEARCH_URL")
	key := os.Getenv("NYT_API_KEY")
	r := query.DefaultRanges()[0]
	if len(os.Args) > 1 {
		pr, err := query.ParseRange(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "range:", err)
			os.Exit(2)
		}
		r = pr
	}
	client := &fetch.Client{PerRequestTimeout: 20 * time.Second, UserAgent: "debugsearch/1.0"}
	prov := &search.ArticleSearch{BaseURL: base, Client: client}
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	q := query.NewSpec(r, key)
	hits, err := prov.CountHits(ctx, q)
	fmt.Println("range:", r, "hits:", hits, "err:", err)
	if err != nil || len(os.Args) < 3 || os.Args[2] != "page" {
		return
	}
	docs, err := prov.FetchPage(ctx, q, 0)
	fmt.Println("page 0 err:", err)
	for i, d := range docs {
		fmt.Printf("%d. %s: %v\n", i+1, d.WebURL, d.Values())
	}
}
