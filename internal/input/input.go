// Package input reads batches of k6 summary documents from stdin or files.
package input

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mwiater/k6merge/internal/report"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoInput means the payload was empty or only whitespace.
	ErrNoInput = errors.New("no input data")
	// ErrNotArray means the payload is not a JSON array of document objects.
	ErrNotArray = errors.New("input JSON is not an array of documents")
)

// batchSchema only checks the top level. Document contents are merged leniently.
var batchSchema = gojsonschema.NewGoLoader(map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "object"},
})

// ReadBatch reads a JSON array of documents. An empty array is valid and yields no documents.
func ReadBatch(r io.Reader) ([]report.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return DecodeBatch(raw)
}

// DecodeBatch decodes an already-read payload. See ReadBatch.
func DecodeBatch(raw []byte) ([]report.Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrNoInput
	}
	if err := validateBatch(raw); err != nil {
		return nil, err
	}

	var docs []report.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	return docs, nil
}

func validateBatch(raw []byte) error {
	result, err := gojsonschema.Validate(batchSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// Validate fails outright when the payload is not JSON at all.
		return fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrNotArray, strings.Join(details, "; "))
}

// Loader reads documents from files, several at a time.
type Loader struct {
	log         logrus.FieldLogger
	concurrency int
}

// NewLoader returns a Loader that reads up to concurrency files at once.
func NewLoader(log logrus.FieldLogger, concurrency int) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loader{
		log:         log.WithField("component", "input_loader"),
		concurrency: concurrency,
	}
}

// LoadFiles reads every path and returns their documents flattened in argument order.
// A file may hold one document object or an array of them.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) ([]report.Document, error) {
	perFile := make([][]report.Document, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs, err := loadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			l.log.WithFields(logrus.Fields{
				"path":      path,
				"documents": len(docs),
			}).Debug("loaded input file")
			perFile[i] = docs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []report.Document
	for _, docs := range perFile {
		all = append(all, docs...)
	}
	return all, nil
}

func loadFile(path string) ([]report.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrNoInput
	}

	// k6 --summary-export writes a single object; batches written by hand are arrays.
	if raw[0] == '{' {
		var doc report.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		return []report.Document{doc}, nil
	}
	return DecodeBatch(raw)
}
