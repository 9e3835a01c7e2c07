package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/keywordtrends/internal/aggregate"
	"github.com/hyperifyio/keywordtrends/internal/query"
)

var testRange = query.DateRange{Begin: "20220101", End: "20240101"}

func sampleEntries() []aggregate.Entry {
	return []aggregate.Entry{
		{Keyword: "Artificial Intelligence", Count: 1234},
		{Keyword: "ChatGPT, the bot", Count: 40},
		{Keyword: "Computers and the Internet", Count: 40},
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	p := CSVPath(dir, testRange)
	require.Equal(t, filepath.Join(dir, "20220101_20240101_word_counts.csv"), p)
	require.NoError(t, WriteCSV(p, sampleEntries()))

	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Keyword", "Count"},
		{"Artificial Intelligence", "1234"},
		{"ChatGPT, the bot", "40"},
		{"Computers and the Internet", "40"},
	}, rows)
}

func TestWriteCSV_EmptyHasHeader(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "e.csv")
	require.NoError(t, WriteCSV(p, nil))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "Keyword,Count\n", string(b))
}

func TestWriteChartPDF(t *testing.T) {
	dir := t.TempDir()
	for name, entries := range map[string][]aggregate.Entry{
		"populated": sampleEntries(),
		"empty":     nil,
	} {
		p := filepath.Join(dir, name+".pdf")
		require.NoError(t, WriteChartPDF(p, testRange, entries))
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(b), "%PDF-"), "not a pdf")
	}
}

func TestChartTitle(t *testing.T) {
	require.Equal(t, "On Page 0 ~ 9, Top Ten Common Keywords In AI Articles During 20220101 ~ 20240101", ChartTitle(testRange))
}

func TestTickStep(t *testing.T) {
	cases := map[int]int{0: 1, 7: 1, 10: 1, 11: 2, 45: 5, 99: 10, 150: 20, 1234: 200}
	for max, want := range cases {
		require.Equal(t, want, tickStep(max), "max=%d", max)
	}
}

func TestFormatTable(t *testing.T) {
	out := FormatTable(sampleEntries())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "Keyword")
	require.Contains(t, lines[1], "Artificial Intelligence")
	require.True(t, strings.HasSuffix(lines[1], "1,234"), "grouped count: %q", lines[1])
	require.True(t, strings.HasPrefix(lines[3], "2  Computers"), "indexed row: %q", lines[3])
}
