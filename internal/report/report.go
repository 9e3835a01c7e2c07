package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hyperifyio/keywordtrends/internal/aggregate"
	"github.com/hyperifyio/keywordtrends/internal/query"
)

// CSVPath and ChartPath name a range's artifacts inside dir.
func CSVPath(dir string, r query.DateRange) string {
	return filepath.Join(dir, r.Key()+"_word_counts.csv")
}

func ChartPath(dir string, r query.DateRange) string {
	return filepath.Join(dir, r.Key()+"_chart.pdf")
}

// WriteCSV writes a two column Keyword,Count table in entry order.
func WriteCSV(path string, entries []aggregate.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	w := csv.NewWriter(f)
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{"Keyword", "Count"})
	for _, e := range entries {
		rows = append(rows, []string{e.Keyword, strconv.Itoa(e.Count)})
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
