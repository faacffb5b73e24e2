// Package ingest loads batch documents of companies from JSON or YAML.
// Every document is validated against an embedded JSON Schema before it is decoded.
package ingest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/celerio/scout/schema"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed batch.schema.json
var batchSchema []byte

// Format is the encoding of a batch document.
type Format string

// Supported document formats.
const (
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

// ErrUnsupportedFormat is returned for document extensions other than json/yaml/yml.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is a batch of companies plus optional run defaults.
type Document struct {
	AsOf      string              `json:"as_of,omitempty"`
	Filter    *schema.BatchFilter `json:"filter,omitempty"`
	Companies []schema.Company    `json:"companies"`
}

// FieldError is a single schema violation at a document path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every schema violation in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("batch document failed validation:")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, err.Field, err.Message)
	}
	return sb.String()
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(batchSchema))
})

// FormatOf picks the document format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFormat, nil
	case ".yaml", ".yml":
		return YAMLFormat, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .json, .yaml or .yml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads, validates and decodes the batch document at path.
func LoadFile(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch document: %w", err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse validates and decodes a batch document. Homepage HTML snapshots are
// resolved into their text fields before the document is returned.
func Parse(data []byte, format Format) (*Document, error) {
	jsonData, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	if err := validate(jsonData); err != nil {
		return nil, err
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode batch document: %w", err)
	}

	for i := range doc.Companies {
		if err := ResolveHomepage(doc.Companies[i].Signals.Homepage); err != nil {
			return nil, fmt.Errorf("company %d: %w", i, err)
		}
	}
	return &doc, nil
}

// ParseCompany validates and decodes a single {profile, signals} object.
func ParseCompany(data []byte) (schema.Company, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return schema.Company{}, fmt.Errorf("failed to decode company: %w", err)
	}
	wrapped, err := json.Marshal(map[string]any{"companies": []json.RawMessage{raw}})
	if err != nil {
		return schema.Company{}, err
	}
	doc, err := Parse(wrapped, JSONFormat)
	if err != nil {
		return schema.Company{}, err
	}
	return doc.Companies[0], nil
}

// toJSON normalizes a document into JSON bytes for schema validation.
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case JSONFormat:
		return data, nil
	case YAMLFormat:
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		out, err := json.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// validate checks JSON bytes against the embedded batch schema.
func validate(jsonData []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to load batch schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to parse batch document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
