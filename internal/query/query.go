package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fixed query parameters. The search term and ranking criterion are not
// user-selectable.
const (
	Term   = "AI"
	Sort   = "relevance"
	Filter = `document_type:("article")`
)

const dateLayout = "20060102"

// DateRange bounds one unit of collection and reporting work. Dates use the
// numeric YYYYMMDD form accepted by the article search service.
type DateRange struct {
	Begin string `yaml:"begin" json:"begin"`
	End   string `yaml:"end" json:"end"`
}

// DefaultRanges are the three periods compared by a run.
func DefaultRanges() []DateRange {
	return []DateRange{
		{Begin: "20180101", End: "20200101"},
		{Begin: "20200101", End: "20220101"},
		{Begin: "20220101", End: "20240101"},
	}
}

// Key identifies the range in caches and artifact names.
func (r DateRange) Key() string { return r.Begin + "_" + r.End }

func (r DateRange) String() string { return r.Begin + " ~ " + r.End }

// Validate checks both dates parse as YYYYMMDD and that End is not before Begin.
func (r DateRange) Validate() error {
	b, err := parseDate(r.Begin)
	if err != nil {
		return fmt.Errorf("begin date: %w", err)
	}
	e, err := parseDate(r.End)
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if e.Before(b) {
		return fmt.Errorf("date range %s: end before begin", r)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if len(s) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("%q: want YYYYMMDD", s)
	}
	return time.Parse(dateLayout, s)
}

// ParseRange accepts "BEGIN-END", "BEGIN_END" or "BEGIN:END".
func ParseRange(s string) (DateRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateRange{}, errors.New("empty date range")
	}
	sep := strings.IndexAny(s, "-_:")
	if sep <= 0 {
		return DateRange{}, fmt.Errorf("date range %q: want BEGIN-END", s)
	}
	r := DateRange{Begin: strings.TrimSpace(s[:sep]), End: strings.TrimSpace(s[sep+1:])}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Spec is the immutable set of parameters sent for one range.
type Spec struct {
	Term   string
	Range  DateRange
	Sort   string
	Filter string
	APIKey string
}

// NewSpec builds the fixed query for r.
func NewSpec(r DateRange, apiKey string) Spec {
	return Spec{Term: Term, Range: r, Sort: Sort, Filter: Filter, APIKey: apiKey}
}
