package parser

import (
	"github.com/brizzai/swagger-split/internal/models"
)

// SwaggerFileName is the document read from, and written into, every split directory
const SwaggerFileName = "swagger.json"

// Loader reads swagger documents from disk
type Loader interface {
	// Load reads <dir>/swagger.json
	Load(dir string) (*Document, error)
	// LoadFile reads a swagger document from an explicit file path
	LoadFile(path string) (*Document, error)
}

// Document is a swagger document held as raw JSON. Entries is a read-only,
// ordered view of its paths object; Raw is never modified.
type Document struct {
	Source  string
	Raw     []byte
	Entries []models.PathEntry
}

// Summary describes a document as understood by an OpenAPI loader
type Summary struct {
	SpecVersion string // "2.0" or "3.x.y"
	Title       string
	Version     string
	Paths       int
}

// SwaggerLoader is the file-backed Loader
type SwaggerLoader struct{}
