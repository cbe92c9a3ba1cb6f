// Package schema validates run-request bodies against a fixed JSON
// Schema before they ever reach option parsing.
package schema

import (
	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed request.json
var requestSchemaJSON []byte

var requestSchemaLoader = gojsonschema.NewBytesLoader(requestSchemaJSON)

// RequestSchema validates a decoded run-request body.
type RequestSchema struct {
	schema *gojsonschema.Schema
}

// NewRequestSchema compiles the embedded run-request schema once, at
// construction time, so a malformed schema fails fast instead of on
// the first request.
func NewRequestSchema() (*RequestSchema, error) {
	compiled, err := gojsonschema.NewSchema(requestSchemaLoader)
	if err != nil {
		return nil, err
	}
	return &RequestSchema{schema: compiled}, nil
}

// Validate checks data (already decoded from the request body) against
// the schema and returns the gojsonschema result, whose Errors() lists
// every violation found.
func (s *RequestSchema) Validate(data map[string]any) (*gojsonschema.Result, error) {
	return s.schema.Validate(gojsonschema.NewGoLoader(data))
}
