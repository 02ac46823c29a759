// Package parser reads swagger documents and the rules used to split them.
package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/brizzai/swagger-split/internal/models"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// NewSwaggerLoader creates a new SwaggerLoader instance
func NewSwaggerLoader() *SwaggerLoader {
	return &SwaggerLoader{}
}

// Load reads <dir>/swagger.json
func (l *SwaggerLoader) Load(dir string) (*Document, error) {
	if dir == "" {
		return nil, &NotFoundError{Path: SwaggerFileName, Cause: errors.New("no input directory given")}
	}
	return l.LoadFile(filepath.Join(dir, SwaggerFileName))
}

// LoadFile reads a swagger document from an explicit file path
func (l *SwaggerLoader) LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Cause: err}
		}
		return nil, fmt.Errorf("failed to read swagger file: %w", err)
	}

	doc, err := ParseDocument(path, data)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded swagger document",
		zap.String("file", path),
		zap.Int("paths", len(doc.Entries)))
	return doc, nil
}

// ParseDocument builds a Document from raw JSON. The document must be a JSON
// object with a paths object; nothing else in it is interpreted.
func ParseDocument(source string, data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, &MalformedInputError{Input: source, Reason: "invalid JSON"}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &MalformedInputError{Input: source, Reason: "document is not a JSON object"}
	}

	paths := root.Get("paths")
	if !paths.Exists() || !paths.IsObject() {
		return nil, &NotFoundError{Path: source, Field: "paths"}
	}

	entries := make([]models.PathEntry, 0)
	paths.ForEach(func(key, value gjson.Result) bool {
		entries = append(entries, models.PathEntry{
			Key:   key.String(),
			Value: []byte(value.Raw),
		})
		return true
	})

	return &Document{
		Source:  source,
		Raw:     data,
		Entries: entries,
	}, nil
}

// Inspect loads data with kin-openapi and reports what it found. Swagger 2.0
// documents are converted to OpenAPI 3 first. With validate set the loaded
// document must also pass OpenAPI validation.
func Inspect(ctx context.Context, data []byte, validate bool) (*Summary, error) {
	swaggerVersion := gjson.GetBytes(data, "swagger")
	openapiVersion := gjson.GetBytes(data, "openapi")

	if !swaggerVersion.Exists() && !openapiVersion.Exists() {
		return nil, fmt.Errorf("document is missing 'swagger' or 'openapi' version field")
	}

	var (
		doc         *openapi3.T
		specVersion string
		err         error
	)
	if swaggerVersion.Exists() {
		specVersion = swaggerVersion.String()
		doc, err = convertOpenAPI2to3(data, specVersion)
		if err != nil {
			return nil, err
		}
	} else {
		specVersion = openapiVersion.String()
		if !strings.HasPrefix(specVersion, "3.") {
			return nil, fmt.Errorf("unsupported OpenAPI version: %s", specVersion)
		}
		loader := openapi3.NewLoader()
		loader.Context = ctx
		doc, err = loader.LoadFromData(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
		}
	}

	if validate {
		if err := doc.Validate(ctx); err != nil {
			return nil, fmt.Errorf("OpenAPI validation failed: %w", err)
		}
	}

	summary := &Summary{SpecVersion: specVersion}
	if doc.Info != nil {
		summary.Title = doc.Info.Title
		summary.Version = doc.Info.Version
	}
	if doc.Paths != nil {
		summary.Paths = doc.Paths.Len()
	}
	return summary, nil
}

// convertOpenAPI2to3 converts an OpenAPI 2.0 specification to OpenAPI 3.0
func convertOpenAPI2to3(data []byte, swaggerVersion string) (*openapi3.T, error) {
	if swaggerVersion != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %s", swaggerVersion)
	}

	var swagger2Doc openapi2.T
	if err := json.Unmarshal(data, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI 2.0 spec: %w", err)
	}

	convertedDoc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		logger.Error("Failed to convert OpenAPI 2.0 to 3.0", zap.Error(err))
		return nil, fmt.Errorf("failed to convert OpenAPI 2.0 to 3.0: %w", err)
	}

	logger.Debug("Converted OpenAPI 2.0 spec to 3.0")
	return convertedDoc, nil
}
