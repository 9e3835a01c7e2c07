package app

import (
    "strconv"
    "strings"
)

// appendReproFooter appends a minimal, deterministic footer that records
// configuration useful for reproducibility and auditing: run id, provider,
// cache backend, and how many ranges succeeded and came from cache.
func appendReproFooter(markdown string, runID string, provider string, cacheBackend string, rangesOK int, rangesCached int) string {
    if cacheBackend == "" {
        cacheBackend = "file"
    }
    var b strings.Builder
    b.WriteString(markdown)
    b.WriteString("\n\n---\n")
    b.WriteString("Reproducibility: ")
    b.WriteString("run_id=")
    b.WriteString(strings.TrimSpace(runID))
    b.WriteString("; provider=")
    b.WriteString(strings.TrimSpace(provider))
    b.WriteString("; cache=")
    b.WriteString(cacheBackend)
    b.WriteString("; ranges_ok=")
    b.WriteString(strconv.Itoa(rangesOK))
    b.WriteString("; ranges_cached=")
    b.WriteString(strconv.Itoa(rangesCached))
    b.WriteString("; version=")
    b.WriteString(BuildVersion)
    b.WriteString("\n")
    return b.String()
}
