// Package schema validates raw oracle responses against embedded JSON Schemas.
package schema

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Name identifies one of the embedded schemas.
type Name string

const (
	Extraction Name = "extraction"
	Questions  Name = "questions"
	Evaluation Name = "evaluation"
)

//go:embed schemas/*.json
var files embed.FS

var (
	compileMu sync.Mutex
	compiled  = map[Name]*gojsonschema.Schema{}
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema Name
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s response failed validation:", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Validate checks the JSON document against the named schema. A document that
// is not valid JSON is reported as an error from gojsonschema itself.
func Validate(name Name, document []byte) error {
	s, err := load(name)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("validate %s response: %w", name, err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name}
	for _, re := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return ve
}

func load(name Name) (*gojsonschema.Schema, error) {
	compileMu.Lock()
	defer compileMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	raw, err := files.ReadFile("schemas/" + string(name) + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	compiled[name] = s
	return s, nil
}
