package merge

import (
	"github.com/mwiater/k6merge/internal/report"
)

// registry owns the accumulators of a single merge call, keyed by metric name.
type registry struct {
	order []string
	byKey map[string]*Accumulator
}

func newRegistry() *registry {
	return &registry{byKey: make(map[string]*Accumulator)}
}

// getOrCreate returns the accumulator for name, creating it from m's type and contains
// the first time the name appears. The boolean reports whether it was created.
func (r *registry) getOrCreate(name string, m report.Metric) (*Accumulator, bool) {
	if acc, ok := r.byKey[name]; ok {
		return acc, false
	}
	acc := NewAccumulator(m.Type, m.Contains)
	r.byKey[name] = acc
	r.order = append(r.order, name)
	return acc, true
}

func (r *registry) len() int {
	return len(r.order)
}

// each visits accumulators in first-seen order.
func (r *registry) each(fn func(name string, acc *Accumulator)) {
	for _, name := range r.order {
		fn(name, r.byKey[name])
	}
}
