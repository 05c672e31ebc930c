package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON schema a model response must conform to.
type Schema struct {
	Name       string
	Definition map[string]any
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Validate checks raw JSON against the schema. A violation is returned as
// an error carrying the offending document.
func (s *Schema) Validate(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return goerr.Wrap(ErrParseResponse, err.Error(), goerr.V("raw", string(raw)))
	}

	compiled, err := s.compiled()
	if err != nil {
		return goerr.Wrap(err, "failed to compile response schema", goerr.V("schema", s.Name))
	}

	if err := compiled.Validate(parsed); err != nil {
		return goerr.Wrap(err, "model response violates schema",
			goerr.V("schema", s.Name),
			goerr.V("raw", string(raw)),
		)
	}

	return nil
}

// compiled returns a cached compiled schema or compiles and caches it.
func (s *Schema) compiled() (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value, not raw bytes.
	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal schema definition")
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse schema definition")
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, goerr.Wrap(err, "failed to add schema resource")
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile schema")
	}

	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}
