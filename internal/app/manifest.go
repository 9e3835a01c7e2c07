package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/keywordtrends/internal/aggregate"
	"github.com/hyperifyio/keywordtrends/internal/query"
)

const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// rangeOutcome is the record of one range's processing within a run.
type rangeOutcome struct {
	Range     query.DateRange   `json:"range"`
	Status    string            `json:"status"`
	Source    string            `json:"source,omitempty"`
	Hits      int               `json:"hits,omitempty"`
	Pages     int               `json:"pages,omitempty"`
	Keywords  int               `json:"keywords"`
	Distinct  int               `json:"distinct"`
	SHA256    string            `json:"sha256,omitempty"`
	Top       []aggregate.Entry `json:"top,omitempty"`
	CSVPath   string            `json:"csv,omitempty"`
	ChartPath string            `json:"chart,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// manifestMeta captures high-level run details that aid reproducibility.
type manifestMeta struct {
	RunID        string    `json:"run_id"`
	Version      string    `json:"version"`
	Commit       string    `json:"commit"`
	Provider     string    `json:"provider"`
	CacheBackend string    `json:"cache_backend"`
	Query        string    `json:"query"`
	Sort         string    `json:"sort"`
	Filter       string    `json:"filter"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of the keyword
// sequence, one value per line, so two runs can be compared without diffing.
func computeSHA256Hex(keywords []string) string {
	h := sha256.Sum256([]byte(strings.Join(keywords, "\n")))
	return hex.EncodeToString(h[:])
}

// marshalManifestJSON encodes the machine-readable run manifest.
func marshalManifestJSON(meta manifestMeta, outcomes []rangeOutcome) ([]byte, error) {
	payload := struct {
		Meta   manifestMeta   `json:"meta"`
		Ranges []rangeOutcome `json:"ranges"`
	}{Meta: meta, Ranges: outcomes}
	return json.MarshalIndent(payload, "", "  ")
}

func manifestPath(outputDir string) string { return filepath.Join(outputDir, "run.manifest.json") }

func summaryPath(outputDir string) string { return filepath.Join(outputDir, "summary.md") }

// renderSummaryMarkdown lists every range's top keywords side by side in
// run order, which is what the comparison across periods is read from.
func renderSummaryMarkdown(meta manifestMeta, outcomes []rangeOutcome) string {
	var b strings.Builder
	b.WriteString("# Top keywords in \"")
	b.WriteString(meta.Query)
	b.WriteString("\" articles\n\n")
	b.WriteString("Generated: ")
	b.WriteString(meta.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n")
	for _, o := range outcomes {
		b.WriteString("\n## ")
		b.WriteString(o.Range.String())
		b.WriteString("\n\n")
		if o.Status != statusOK {
			b.WriteString("> Collection failed: ")
			b.WriteString(o.Error)
			b.WriteString("\n")
			continue
		}
		b.WriteString("Keywords: ")
		b.WriteString(strconv.Itoa(o.Keywords))
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(o.Distinct))
		b.WriteString(" distinct), source: ")
		b.WriteString(o.Source)
		b.WriteString("\n\n| # | Keyword | Count |\n|---|---|---|\n")
		for i, e := range o.Top {
			b.WriteString("| ")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(" | ")
			b.WriteString(strings.ReplaceAll(e.Keyword, "|", "\\|"))
			b.WriteString(" | ")
			b.WriteString(strconv.Itoa(e.Count))
			b.WriteString(" |\n")
		}
	}
	return b.String()
}
