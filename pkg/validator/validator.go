package validator

import (
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

type Problem struct {
	Field   string
	Message string
}

// Schema validates JSON documents. Messages overrides the library's
// description per field.
type Schema struct {
	schema   *gojsonschema.Schema
	messages map[string]string
}

func NewSchema(schemaJSON string, messages map[string]string) (*Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, err
	}

	return &Schema{schema: schema, messages: messages}, nil
}

func MustSchema(schemaJSON string, messages map[string]string) *Schema {
	s, err := NewSchema(schemaJSON, messages)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate returns at most one problem per field, sorted by field name. The
// document must already be valid JSON.
func (s *Schema) Validate(document []byte) ([]Problem, error) {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, err
	}

	if result.Valid() {
		return nil, nil
	}

	seen := map[string]bool{}
	problems := []Problem{}

	for _, desc := range result.Errors() {
		field := fieldOf(desc)
		if seen[field] {
			continue
		}
		seen[field] = true

		message, ok := s.messages[field]
		if !ok {
			message = desc.Description()
		}

		problems = append(problems, Problem{Field: field, Message: message})
	}

	sort.Slice(problems, func(i, j int) bool {
		return problems[i].Field < problems[j].Field
	})

	return problems, nil
}

const rootField = "(root)"

// fieldOf names the offending property. Missing required properties are
// reported against the parent, so the name comes from the error details.
func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field != rootField {
		return field
	}
	if property, ok := desc.Details()["property"].(string); ok {
		return property
	}
	return "body"
}
