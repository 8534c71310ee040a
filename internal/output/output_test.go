package output

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mwiater/k6merge/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(t *testing.T) report.Document {
	t.Helper()
	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(`{
		"root_group":{"name":""},
		"options":{},
		"state":{"testRunDurationMs":2000},
		"metrics":{
			"req_dur":{"type":"trend","contains":"time","values":{"avg":20,"min":2,"max":25,"p(95)":20.12345}},
			"reqs":{"type":"counter","contains":"default","values":{"count":150,"rate":75}},
			"flag":{"type":"rate","contains":"default","values":{"value":1}}}}`), &doc))
	return doc
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "toml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteDocumentJSON(t *testing.T) {
	doc := sampleDocument(t)

	var pretty bytes.Buffer
	require.NoError(t, WriteDocument(&pretty, doc, Options{Format: FormatJSON}))
	assert.True(t, strings.HasPrefix(pretty.String(), "{\n  \"root_group\": {"))
	assert.True(t, strings.HasSuffix(pretty.String(), "}\n"))

	var compact bytes.Buffer
	require.NoError(t, WriteDocument(&compact, doc, Options{Compact: true}))
	assert.Equal(t, 1, strings.Count(compact.String(), "\n"))
	assert.JSONEq(t, pretty.String(), compact.String())

	// metric order survives the round trip
	out := compact.String()
	assert.Less(t, strings.Index(out, `"req_dur"`), strings.Index(out, `"reqs"`))
	assert.Less(t, strings.Index(out, `"reqs"`), strings.Index(out, `"flag"`))
}

func TestWriteDocumentYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, sampleDocument(t), Options{Format: FormatYAML}))

	out := buf.String()
	assert.Contains(t, out, "root_group:\n  name: \"\"\n")
	assert.Contains(t, out, "testRunDurationMs: 2000")
	assert.Contains(t, out, "p(95): 20.12345")
	assert.NotContains(t, out, "{\"")
	assert.Less(t, strings.Index(out, "req_dur:"), strings.Index(out, "reqs:"))
}

func TestWriteDocumentEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, report.Document{}, Options{}))
	assert.Equal(t, "{}\n", buf.String())
}

func TestWriteSummary(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleDocument(t)))

	out := buf.String()
	assert.Contains(t, out, "3 metrics over 2s")
	assert.Contains(t, out, "min=2ms max=25ms avg=20ms p(95)=20.123ms")
	assert.Contains(t, out, "count=150 rate=75")
	assert.Contains(t, out, "value=1")
	assert.Less(t, strings.Index(out, "req_dur"), strings.Index(out, "flag"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0ms", formatDuration(0))
	assert.Equal(t, "999.5ms", formatDuration(999.5))
	assert.Equal(t, "61.235s", formatDuration(61234.56))
}

func TestWriteDocumentKeepsHTMLCharacters(t *testing.T) {
	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(`{
		"root_group":{"name":"p95 < 500ms & ok"},
		"options":{"thresholds":{"http_req_duration":["p(95)<500"]}},
		"state":{"testRunDurationMs":1000},
		"metrics":{"checks{tag:<a&b>}":{"type":"rate","contains":"x<y","values":{"passes":1}}}}`), &doc))

	for _, compact := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, WriteDocument(&buf, doc, Options{Compact: compact}))

		out := buf.String()
		assert.Contains(t, out, `"p95 < 500ms & ok"`)
		assert.Contains(t, out, `"p(95)<500"`)
		assert.Contains(t, out, `"checks{tag:<a&b>}"`)
		assert.Contains(t, out, `"x<y"`)
		assert.NotContains(t, out, `\u003c`)
		assert.NotContains(t, out, `\u0026`)
	}
}

func TestEncodeDocumentNamesNonFiniteValue(t *testing.T) {
	metrics := report.NewMetricSet()
	metrics.Set("data_sent", report.Metric{
		Type:     report.MetricCounter,
		Contains: "data",
		Values:   report.Values{Count: report.Num(math.Inf(1))},
	})
	doc := report.Document{State: report.NewState(), Metrics: metrics}

	var buf bytes.Buffer
	err := WriteDocument(&buf, doc, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `metric "data_sent" field "count" is +Inf`)
	assert.Empty(t, buf.String())
}
