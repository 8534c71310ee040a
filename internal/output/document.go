// Package output writes merged documents and human-readable summaries.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mwiater/k6merge/internal/report"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a written document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json or yaml (also yml), case-insensitively. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want json or yaml)", s)
	}
}

// Options controls WriteDocument.
type Options struct {
	Format  Format
	Compact bool
}

// WriteDocument encodes doc fully before writing, so a failed encode writes nothing.
func WriteDocument(w io.Writer, doc report.Document, opts Options) error {
	data, err := EncodeDocument(doc, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// EncodeDocument returns the encoded document, newline-terminated.
func EncodeDocument(doc report.Document, opts Options) ([]byte, error) {
	if err := checkFinite(doc); err != nil {
		return nil, err
	}

	var encoded bytes.Buffer
	enc := json.NewEncoder(&encoded)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	raw := bytes.TrimSuffix(encoded.Bytes(), []byte("\n"))

	switch opts.Format {
	case FormatYAML:
		return jsonToYAML(raw)
	case FormatJSON, "":
		var buf bytes.Buffer
		if opts.Compact {
			buf.Write(raw)
		} else if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("indent document: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

// checkFinite names the first metric value JSON cannot represent. Sums of values near
// the float64 limit overflow to Inf.
func checkFinite(doc report.Document) error {
	var err error
	doc.Metrics.Each(func(name string, m report.Metric) {
		if err != nil {
			return
		}
		for _, f := range m.Values.Fields() {
			if math.IsInf(f.Value, 0) || math.IsNaN(f.Value) {
				err = fmt.Errorf("encode document: metric %q field %q is %v", name, f.Name, f.Value)
				return
			}
		}
	})
	return err
}

// jsonToYAML goes through yaml.Node so mapping keys keep the JSON order.
func jsonToYAML(raw []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles inherited from JSON syntax.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
