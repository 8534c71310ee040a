package merge

import (
	"github.com/mwiater/k6merge/internal/report"
)

// ResolveDurationMs returns the longest run duration reported by any document.
// Workers run in parallel, so the longest one stands in for the wall-clock time of the whole batch.
func ResolveDurationMs(docs []report.Document) float64 {
	var maxMs float64
	for _, doc := range docs {
		if ms := doc.State.DurationMs(); ms > maxMs {
			maxMs = ms
		}
	}
	return maxMs
}

// TotalTimeSeconds is ResolveDurationMs in seconds.
func TotalTimeSeconds(docs []report.Document) float64 {
	return ResolveDurationMs(docs) / 1000
}
