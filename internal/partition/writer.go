package partition

import (
	"os"
	"path/filepath"

	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/brizzai/swagger-split/internal/models"
	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// Output is one rendered bucket document
type Output struct {
	Bucket  models.Bucket
	Path    string
	Data    []byte
	Entries int
}

// Writer renders bucket documents and writes them under <dir>/<bucket>/swagger.json
type Writer struct{}

// NewWriter creates a new Writer instance
func NewWriter() *Writer {
	return &Writer{}
}

// Render returns a copy of the document with its paths object replaced by
// paths. Compact output unless indent is set.
func (w *Writer) Render(doc *parser.Document, paths *PathMap, indent bool) ([]byte, error) {
	pathsJSON, err := paths.MarshalJSON()
	if err != nil {
		return nil, &parser.MalformedInputError{Input: doc.Source, Reason: "cannot encode paths", Cause: err}
	}

	raw := make([]byte, len(doc.Raw))
	copy(raw, doc.Raw)

	out, err := sjson.SetRawBytes(raw, "paths", pathsJSON)
	if err != nil {
		return nil, &parser.MalformedInputError{Input: doc.Source, Reason: "cannot replace paths", Cause: err}
	}

	if indent {
		return pretty.PrettyOptions(out, &pretty.Options{Indent: "  ", Width: 80}), nil
	}
	return pretty.Ugly(out), nil
}

// Build renders every bucket in result without touching the disk. Public
// comes first.
func (w *Writer) Build(doc *parser.Document, result *Result, dir string, indent bool) ([]Output, error) {
	buckets := []struct {
		bucket models.Bucket
		paths  *PathMap
	}{
		{models.BucketPublic, result.Public},
		{models.BucketAdmin, result.Admin},
	}

	outputs := make([]Output, 0, len(buckets))
	for _, b := range buckets {
		if b.paths == nil {
			continue
		}
		data, err := w.Render(doc, b.paths, indent)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{
			Bucket:  b.bucket,
			Path:    filepath.Join(dir, string(b.bucket), parser.SwaggerFileName),
			Data:    data,
			Entries: b.paths.Len(),
		})
	}
	return outputs, nil
}

// WriteAll writes each output, creating its directory first. The first failure
// aborts the run.
func (w *Writer) WriteAll(outputs []Output) error {
	for _, out := range outputs {
		dir := filepath.Dir(out.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &parser.OutputWriteError{Path: dir, Cause: err}
		}
		if err := os.WriteFile(out.Path, out.Data, 0o644); err != nil {
			return &parser.OutputWriteError{Path: out.Path, Cause: err}
		}
		logger.Info("Wrote swagger document",
			zap.String("bucket", string(out.Bucket)),
			zap.String("file", out.Path),
			zap.Int("paths", out.Entries))
	}
	return nil
}
