package aggregate

import "sort"

// DefaultTopK is the number of keywords a report shows per range.
const DefaultTopK = 10

// Entry is one keyword and the number of times it occurred.
type Entry struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Table maps keyword values to occurrence counts and remembers the order in
// which each keyword was first seen. That order is the tie-break for TopK.
type Table struct {
	index   map[string]int
	entries []Entry
}

// Count tallies every occurrence in keywords. Values are compared exactly;
// no case folding or trimming is applied.
func Count(keywords []string) *Table {
	t := &Table{index: make(map[string]int, len(keywords)/2+1)}
	for _, kw := range keywords {
		t.Add(kw)
	}
	return t
}

// Add records one occurrence of kw.
func (t *Table) Add(kw string) {
	if t.index == nil {
		t.index = map[string]int{}
	}
	if i, ok := t.index[kw]; ok {
		t.entries[i].Count++
		return
	}
	t.index[kw] = len(t.entries)
	t.entries = append(t.entries, Entry{Keyword: kw, Count: 1})
}

// Get returns the count for kw, zero when absent.
func (t *Table) Get(kw string) int {
	if t == nil {
		return 0
	}
	if i, ok := t.index[kw]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Len is the number of distinct keywords.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Total is the sum of all counts, equal to the length of the counted input.
func (t *Table) Total() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, e := range t.entries {
		n += e.Count
	}
	return n
}

// Entries returns a copy of the table in first-seen order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// TopK returns at most k entries ordered by count descending. Entries with
// equal counts keep their first-seen order.
func TopK(t *Table, k int) []Entry {
	out := t.Entries()
	if out == nil {
		out = []Entry{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
