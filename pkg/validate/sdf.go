package validate

import (
	"fmt"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// Schema codes.
const (
	CodeSchema = "SCHEMA"
)

// Schema is a compiled JSON Schema.
type Schema struct {
	path   string
	schema *gojsonschema.Schema
}

// LoadSchema compiles the JSON Schema at path. Relative $refs resolve
// against the schema's directory.
func LoadSchema(path string) (*Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving schema path %s: %w", path, err)
	}
	loader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	s, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", path, err)
	}
	return &Schema{path: path, schema: s}, nil
}

// ParseSchema compiles a JSON Schema held in memory.
func ParseSchema(data []byte) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// Path returns the file the schema was loaded from, or "".
func (s *Schema) Path() string { return s.path }

// Validate checks a JSON document. An error means the document could not
// be validated at all, for example because it is not JSON.
func (s *Schema) Validate(doc []byte) (*Result, error) {
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}
	out := newResult()
	for _, e := range res.Errors() {
		out.AddError(CodeSchema, e.Field(), "%s", e.Description())
	}
	return out, nil
}

// SDF validates a JSON document against the schema file at schemaPath.
func SDF(doc []byte, schemaPath string) (*Result, error) {
	s, err := LoadSchema(schemaPath)
	if err != nil {
		return nil, err
	}
	return s.Validate(doc)
}
