package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/hyperifyio/keywordtrends/internal/search"
)

func main() {
	path := os.Getenv("SEARCH_FILE")
	if strings.TrimSpace(path) == "" {
		path = "fixtures/articlesearch.json"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8082"
	}
	fx, err := search.LoadFixture(path)
	if err != nil {
		log.Fatalf("load fixture: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/svc/search/v2/articlesearch.json", newHandler(fx, os.Getenv("STUB_API_KEY")))
	log.Printf("search stub listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
