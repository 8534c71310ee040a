package report

import (
	"encoding/json"
)

// MetricType is the k6 metric type tag. Unknown tags are kept as-is.
type MetricType string

const (
	MetricCounter MetricType = "counter"
	MetricGauge   MetricType = "gauge"
	MetricRate    MetricType = "rate"
	MetricTrend   MetricType = "trend"
)

// Kind groups metric types by how their values combine across documents.
type Kind int

const (
	// KindScalar covers every non-gauge type: counts are summed, extremes tracked, stats averaged.
	KindScalar Kind = iota
	// KindGauge values are pre-summed partial totals and are summed again.
	KindGauge
)

// Kind reports which merge rules apply to the type.
func (t MetricType) Kind() Kind {
	if t == MetricGauge {
		return KindGauge
	}
	return KindScalar
}

// RateEligible is true for types that get a derived per-second rate.
func (t MetricType) RateEligible() bool {
	return t == MetricCounter
}

// Metric is one entry of a document's metrics section.
type Metric struct {
	Type     MetricType `json:"type"`
	Contains string     `json:"contains"`
	Values   Values     `json:"values"`
}

// UnmarshalJSON decodes leniently: a missing or mistyped type or contains is left empty,
// and keys other than type, contains and values (thresholds, for example) are dropped.
func (m *Metric) UnmarshalJSON(data []byte) error {
	*m = Metric{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	if raw, ok := fields["type"]; ok {
		var typ string
		if json.Unmarshal(raw, &typ) == nil {
			m.Type = MetricType(typ)
		}
	}
	if raw, ok := fields["contains"]; ok {
		var contains string
		if json.Unmarshal(raw, &contains) == nil {
			m.Contains = contains
		}
	}
	if raw, ok := fields["values"]; ok {
		return m.Values.UnmarshalJSON(raw)
	}
	return nil
}

// Values holds the recognized statistical fields of a metric. A nil field was not reported.
type Values struct {
	Count  *float64 `json:"count,omitempty"`
	Passes *float64 `json:"passes,omitempty"`
	Fails  *float64 `json:"fails,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Avg    *float64 `json:"avg,omitempty"`
	Med    *float64 `json:"med,omitempty"`
	P90    *float64 `json:"p(90),omitempty"`
	P95    *float64 `json:"p(95),omitempty"`
	Value  *float64 `json:"value,omitempty"`
	Rate   *float64 `json:"rate,omitempty"`
}

// FieldNames lists the recognized value keys in output order.
var FieldNames = []string{"count", "passes", "fails", "min", "max", "avg", "med", "p(90)", "p(95)", "value", "rate"}

// Num returns a pointer to v, for building Values literals.
func Num(v float64) *float64 {
	return &v
}

func (v *Values) field(key string) **float64 {
	switch key {
	case "count":
		return &v.Count
	case "passes":
		return &v.Passes
	case "fails":
		return &v.Fails
	case "min":
		return &v.Min
	case "max":
		return &v.Max
	case "avg":
		return &v.Avg
	case "med":
		return &v.Med
	case "p(90)":
		return &v.P90
	case "p(95)":
		return &v.P95
	case "value":
		return &v.Value
	case "rate":
		return &v.Rate
	}
	return nil
}

// Get returns the named field, if recognized and present.
func (v Values) Get(key string) (float64, bool) {
	f := v.field(key)
	if f == nil || *f == nil {
		return 0, false
	}
	return **f, true
}

// Field is a present value paired with its key.
type Field struct {
	Name  string
	Value float64
}

// Fields returns the present values in output order.
func (v Values) Fields() []Field {
	var out []Field
	for _, name := range FieldNames {
		if val, ok := v.Get(name); ok {
			out = append(out, Field{Name: name, Value: val})
		}
	}
	return out
}

// UnmarshalJSON keeps recognized numeric keys and silently drops everything else,
// including recognized keys whose value is not a number.
func (v *Values) UnmarshalJSON(data []byte) error {
	*v = Values{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	for key, raw := range fields {
		target := v.field(key)
		if target == nil {
			continue
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			continue
		}
		*target = &n
	}
	return nil
}

// MetricSet maps metric names to entries, preserving the order names were first added.
type MetricSet struct {
	names   []string
	metrics map[string]Metric
}

// NewMetricSet returns an empty set.
func NewMetricSet() *MetricSet {
	return &MetricSet{metrics: make(map[string]Metric)}
}

// Len returns the number of metrics. A nil set is empty.
func (s *MetricSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns metric names in order.
func (s *MetricSet) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Get looks up a metric by name.
func (s *MetricSet) Get(name string) (Metric, bool) {
	if s == nil {
		return Metric{}, false
	}
	m, ok := s.metrics[name]
	return m, ok
}

// Set adds or replaces a metric. Replacing keeps the original position.
func (s *MetricSet) Set(name string, m Metric) {
	if s.metrics == nil {
		s.metrics = make(map[string]Metric)
	}
	if _, exists := s.metrics[name]; !exists {
		s.names = append(s.names, name)
	}
	s.metrics[name] = m
}

// Each calls fn for every metric in order.
func (s *MetricSet) Each(fn func(name string, m Metric)) {
	if s == nil {
		return
	}
	for _, name := range s.names {
		fn(name, s.metrics[name])
	}
}

// UnmarshalJSON keeps the document's key order. A non-object value yields an empty set.
func (s *MetricSet) UnmarshalJSON(data []byte) error {
	*s = MetricSet{metrics: make(map[string]Metric)}

	obj, err := decodeOrderedObject(data)
	if err != nil {
		return nil
	}
	for _, name := range obj.keys {
		var m Metric
		if err := json.Unmarshal(obj.values[name], &m); err != nil {
			return err
		}
		s.Set(name, m)
	}
	return nil
}

// MarshalJSON writes metrics in set order.
func (s MetricSet) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(s.names, func(name string) ([]byte, error) {
		return marshalUnescaped(s.metrics[name])
	})
}
