package merge

import (
	"github.com/mwiater/k6merge/internal/report"
)

// summedField adds up a count-like value and remembers whether any document reported it,
// so a field never reported stays absent instead of becoming 0.
type summedField struct {
	total   float64
	present bool
}

func (f *summedField) add(v *float64) {
	if v == nil {
		return
	}
	f.total += *v
	f.present = true
}

func (f summedField) result() *float64 {
	if !f.present {
		return nil
	}
	return report.Num(f.total)
}

// extremeField tracks a global min or max. The first value sets the baseline.
type extremeField struct {
	value   float64
	present bool
	better  func(candidate, current float64) bool
}

func (f *extremeField) observe(v *float64) {
	if v == nil {
		return
	}
	if !f.present || f.better(*v, f.value) {
		f.value = *v
	}
	f.present = true
}

func (f extremeField) result() *float64 {
	if !f.present {
		return nil
	}
	return report.Num(f.value)
}

// meanField is a naive cross-document mean: every document counts once,
// whatever sample size sat behind its value.
type meanField struct {
	sum float64
	n   int
}

func (f *meanField) add(v *float64) {
	if v == nil {
		return
	}
	f.sum += *v
	f.n++
}

func (f meanField) result() *float64 {
	if f.n == 0 {
		return nil
	}
	return report.Num(f.sum / float64(f.n))
}

// Accumulator merges one metric name across documents. Create it with NewAccumulator,
// feed it every document's values with Ingest, then call Finalize once.
type Accumulator struct {
	typ      report.MetricType
	contains string

	count  summedField
	passes summedField
	fails  summedField

	min extremeField
	max extremeField

	avg   meanField
	med   meanField
	p90   meanField
	p95   meanField
	value meanField

	gaugeMin   float64
	gaugeMax   float64
	gaugeValue float64

	hasRate bool
}

// NewAccumulator returns an empty accumulator for a metric first seen with the given type and contains.
func NewAccumulator(typ report.MetricType, contains string) *Accumulator {
	return &Accumulator{
		typ:      typ,
		contains: contains,
		min:      extremeField{better: func(c, cur float64) bool { return c < cur }},
		max:      extremeField{better: func(c, cur float64) bool { return c > cur }},
		hasRate:  typ.RateEligible(),
	}
}

// Type returns the metric type the accumulator was created with.
func (a *Accumulator) Type() report.MetricType {
	return a.typ
}

// Ingest adds one document's values. Fields that do not apply to the metric's kind are ignored.
func (a *Accumulator) Ingest(v report.Values) {
	switch a.typ.Kind() {
	case report.KindGauge:
		a.gaugeMin += valueOrZero(v.Min)
		a.gaugeMax += valueOrZero(v.Max)
		a.gaugeValue += valueOrZero(v.Value)
	default:
		a.count.add(v.Count)
		a.passes.add(v.Passes)
		a.fails.add(v.Fails)

		a.min.observe(v.Min)
		a.max.observe(v.Max)

		a.avg.add(v.Avg)
		a.med.add(v.Med)
		a.p90.add(v.P90)
		a.p95.add(v.P95)
		a.value.add(v.Value)
		// Rate is derived in Finalize; a reported rate is never carried over.
	}
}

// Finalize produces the merged metric. totalTimeS is the shared elapsed time used for rate.
func (a *Accumulator) Finalize(totalTimeS float64) report.Metric {
	out := report.Metric{Type: a.typ, Contains: a.contains}

	if a.typ.Kind() == report.KindGauge {
		out.Values = report.Values{
			Min:   report.Num(a.gaugeMin),
			Max:   report.Num(a.gaugeMax),
			Value: report.Num(a.gaugeValue),
		}
		return out
	}

	out.Values = report.Values{
		Count:  a.count.result(),
		Passes: a.passes.result(),
		Fails:  a.fails.result(),
		Min:    a.min.result(),
		Max:    a.max.result(),
		Avg:    a.avg.result(),
		Med:    a.med.result(),
		P90:    a.p90.result(),
		P95:    a.p95.result(),
		Value:  a.value.result(),
	}
	if a.hasRate && a.count.present && totalTimeS > 0 {
		out.Values.Rate = report.Num(a.count.total / totalTimeS)
	}
	return out
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
