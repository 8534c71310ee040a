package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentKeepsMetricOrder(t *testing.T) {
	raw := `{"metrics":{
		"vus":{"type":"gauge","contains":"default","values":{"value":1,"min":1,"max":1}},
		"http_reqs":{"type":"counter","contains":"default","values":{"count":3,"rate":1.5},"thresholds":{"count>1":{"ok":true}}},
		"data_sent":{"type":"counter","contains":"data","values":{"count":100}}}}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, []string{"vus", "http_reqs", "data_sent"}, doc.Metrics.Names())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t,
		`{"metrics":{"vus":{"type":"gauge","contains":"default","values":{"min":1,"max":1,"value":1}},`+
			`"http_reqs":{"type":"counter","contains":"default","values":{"count":3,"rate":1.5}},`+
			`"data_sent":{"type":"counter","contains":"data","values":{"count":100}}}}`,
		string(out))
}

func TestStateDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "integer", raw: `{"testRunDurationMs":1200}`, want: 1200},
		{name: "fraction", raw: `{"testRunDurationMs":12.75}`, want: 12.75},
		{name: "missing", raw: `{"isStdErrTTY":true}`, want: 0},
		{name: "not a number", raw: `{"testRunDurationMs":"1200"}`, want: 0},
		{name: "not an object", raw: `[1,2]`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			assert.Equal(t, tt.want, s.DurationMs())
		})
	}

	var nilState *State
	assert.Equal(t, float64(0), nilState.DurationMs())
}

func TestStateSetDurationInPlace(t *testing.T) {
	var s State
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"testRunDurationMs":5,"z":{"x":[1]}}`), &s))

	clone := s.Clone()
	clone.SetDurationMs(2000)

	out, err := json.Marshal(clone)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"testRunDurationMs":2000,"z":{"x":[1]}}`, string(out))
	assert.Equal(t, float64(5), s.DurationMs(), "clone must not share storage")

	appended := NewState()
	appended.SetDurationMs(7)
	out, err = json.Marshal(appended)
	require.NoError(t, err)
	assert.Equal(t, `{"testRunDurationMs":7}`, string(out))
}

func TestValuesDecodeDropsUnknown(t *testing.T) {
	var v Values
	require.NoError(t, json.Unmarshal([]byte(`{"avg":1,"p(99)":9,"p(90)":2,"count":"x","thresholds":{}}`), &v))

	assert.Equal(t, Values{Avg: Num(1), P90: Num(2)}, v)
	assert.Equal(t, []Field{{Name: "avg", Value: 1}, {Name: "p(90)", Value: 2}}, v.Fields())

	got, ok := v.Get("p(90)")
	assert.True(t, ok)
	assert.Equal(t, float64(2), got)
	_, ok = v.Get("p(99)")
	assert.False(t, ok)
}

func TestMetricLenientDecode(t *testing.T) {
	var m Metric
	require.NoError(t, json.Unmarshal([]byte(`{"type":7,"contains":"time","values":{"max":3}}`), &m))

	assert.Equal(t, MetricType(""), m.Type)
	assert.Equal(t, "time", m.Contains)
	assert.Equal(t, Values{Max: Num(3)}, m.Values)
}

func TestMetricTypeKinds(t *testing.T) {
	assert.Equal(t, KindGauge, MetricGauge.Kind())
	for _, typ := range []MetricType{MetricCounter, MetricRate, MetricTrend, "", "custom"} {
		assert.Equal(t, KindScalar, typ.Kind(), string(typ))
	}
	assert.True(t, MetricCounter.RateEligible())
	assert.False(t, MetricRate.RateEligible())
	assert.False(t, MetricGauge.RateEligible())
}

func TestMetricSetReplaceKeepsPosition(t *testing.T) {
	s := NewMetricSet()
	s.Set("a", Metric{Type: MetricCounter})
	s.Set("b", Metric{Type: MetricTrend})
	s.Set("a", Metric{Type: MetricGauge})

	assert.Equal(t, []string{"a", "b"}, s.Names())
	m, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, MetricGauge, m.Type)
	assert.Equal(t, 2, s.Len())

	var nilSet *MetricSet
	assert.Equal(t, 0, nilSet.Len())
	nilSet.Each(func(string, Metric) { t.Fatal("nil set has no metrics") })
}

func TestMetricSetMarshalDoesNotEscapeHTML(t *testing.T) {
	s := NewMetricSet()
	s.Set("checks{scenario:<login>}", Metric{Type: MetricRate, Contains: "a&b", Values: Values{Passes: Num(3)}})

	raw, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"checks{scenario:<login>}":{"type":"rate","contains":"a&b","values":{"passes":3}}}`, string(raw))
}
