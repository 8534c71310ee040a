// Package merge combines k6 summary documents from parallel workers into one report.
//
// The merge is a second aggregation pass over values that are already aggregated:
// counts are summed, extremes are global, and averages and percentiles are plain
// means of the per-document values. The result approximates, rather than reproduces,
// what a single run over all samples would have reported.
package merge

import (
	"encoding/json"
	"io"

	"github.com/mwiater/k6merge/internal/report"
	"github.com/sirupsen/logrus"
)

var emptyObject = json.RawMessage(`{}`)

// Merger merges batches of documents. It holds no state between calls and is safe for concurrent use.
type Merger struct {
	log logrus.FieldLogger
}

// NewMerger returns a Merger that logs through log.
func NewMerger(log logrus.FieldLogger) *Merger {
	return &Merger{log: log.WithField("component", "merger")}
}

// Merge merges docs with a silent logger.
func Merge(docs []report.Document) report.Document {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return NewMerger(quiet).Merge(docs)
}

// Merge combines docs into a single document. An empty batch yields the zero Document.
// Malformed or missing sections inside a document are treated as absent, never as errors.
func (m *Merger) Merge(docs []report.Document) report.Document {
	if len(docs) == 0 {
		m.log.Debug("no documents to merge")
		return report.Document{}
	}

	maxMs := ResolveDurationMs(docs)
	totalTimeS := maxMs / 1000

	reg := newRegistry()
	for i, doc := range docs {
		doc.Metrics.Each(func(name string, metric report.Metric) {
			acc, created := reg.getOrCreate(name, metric)
			if !created && acc.Type() != metric.Type {
				m.log.WithFields(logrus.Fields{
					"metric":   name,
					"document": i,
					"kept":     acc.Type(),
					"ignored":  metric.Type,
				}).Debug("metric type differs from first document, keeping first")
			}
			acc.Ingest(metric.Values)
		})
	}

	merged := report.NewMetricSet()
	reg.each(func(name string, acc *Accumulator) {
		merged.Set(name, acc.Finalize(totalTimeS))
	})

	first := docs[0]
	state := first.State.Clone()
	state.SetDurationMs(maxMs)

	m.log.WithFields(logrus.Fields{
		"documents":   len(docs),
		"metrics":     reg.len(),
		"duration_ms": maxMs,
	}).Debug("merged documents")

	return report.Document{
		RootGroup: rawOrEmpty(first.RootGroup),
		Options:   rawOrEmpty(first.Options),
		State:     state,
		Metrics:   merged,
	}
}

func rawOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return append(json.RawMessage(nil), emptyObject...)
	}
	return append(json.RawMessage(nil), raw...)
}
