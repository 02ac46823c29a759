// Package render fills Handlebars templates from a JSON context, typically a
// swagger document turned into an HTML page.
package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/tidwall/gjson"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Request names the files of one render run
type Request struct {
	ContextFile  string
	TemplateFile string
	// OutputFile is optional, the caller prints the result when empty
	OutputFile string
}

// Renderer executes Handlebars templates with the swagger helpers registered
type Renderer struct{}

// NewRenderer creates a new Renderer instance
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render executes source against the JSON context. Objects are walked in
// document order by each and json.
func (r *Renderer) Render(source string, context []byte) (string, error) {
	if !gjson.ValidBytes(context) {
		return "", &parser.MalformedInputError{Input: "context", Reason: "invalid JSON"}
	}
	ctx := newTemplateContext(context)

	tpl, err := raymond.Parse(source)
	if err != nil {
		return "", &parser.MalformedInputError{Input: "template", Reason: "invalid template", Cause: err}
	}
	tpl.RegisterHelpers(ctx.helpers())

	out, err := tpl.Exec(ctx.root)
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return out, nil
}

// RenderFiles reads the context and template files, renders, and writes the
// result to OutputFile when one is set. The rendered text is always returned.
func (r *Renderer) RenderFiles(req Request) (string, error) {
	context, err := readInput(req.ContextFile, "context")
	if err != nil {
		return "", err
	}
	source, err := readInput(req.TemplateFile, "template")
	if err != nil {
		return "", err
	}

	out, err := r.Render(string(source), context)
	if err != nil {
		return "", err
	}

	if req.OutputFile != "" {
		if dir := filepath.Dir(req.OutputFile); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", &parser.OutputWriteError{Path: dir, Cause: err}
			}
		}
		if err := os.WriteFile(req.OutputFile, []byte(out), 0o644); err != nil {
			return "", &parser.OutputWriteError{Path: req.OutputFile, Cause: err}
		}
		logger.Info("Wrote rendered template", zap.String("file", req.OutputFile))
	}
	return out, nil
}

func readInput(path, what string) ([]byte, error) {
	if path == "" {
		return nil, &parser.NotFoundError{Path: "<" + what + ">", Cause: fmt.Errorf("%s file is required", what)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &parser.NotFoundError{Path: path, Cause: err}
		}
		return nil, fmt.Errorf("failed to read %s file: %w", what, err)
	}
	return data, nil
}

// ifeqHelper renders the block when both values are present and equal
func ifeqHelper(value, other interface{}, options *raymond.Options) string {
	if value == nil || other == nil {
		return options.Inverse()
	}
	if raymond.Str(value) == raymond.Str(other) {
		return options.Fn()
	}
	return options.Inverse()
}

// basenameHelper returns what follows the last '/'
func basenameHelper(value interface{}) string {
	if value == nil {
		return ""
	}
	s := raymond.Str(value)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func joinHelper(items interface{}, separator string) string {
	list, ok := items.([]interface{})
	if !ok {
		return raymond.Str(items)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, raymond.Str(item))
	}
	return strings.Join(parts, separator)
}

func lowerHelper(value interface{}) string {
	return strings.ToLower(raymond.Str(value))
}

// Module provides the render dependencies
var Module = fx.Module("render",
	fx.Provide(NewRenderer),
)
