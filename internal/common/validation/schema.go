// Package validation validates worker job variables against JSON schemas
// before they are unmarshalled into typed inputs.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

type Result struct {
	Valid  bool    `json:"valid"`
	Errors []Error `json:"errors,omitempty"`
}

type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (r *Result) ErrorString() string {
	if r.Valid {
		return ""
	}
	msg := ""
	for i, e := range r.Errors {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return msg
}

// ValidateJSON validates a JSON document against a JSON schema. A schema
// compilation failure is reported as an invalid result rather than an error;
// schemas are package constants and a broken one should fail loudly in tests.
func ValidateJSON(document, schema string) *Result {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(document)

	res, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &Result{
			Valid:  false,
			Errors: []Error{{Field: "(document)", Message: err.Error()}},
		}
	}

	if res.Valid() {
		return &Result{Valid: true}
	}

	result := &Result{Valid: false}
	for _, e := range res.Errors() {
		result.Errors = append(result.Errors, Error{
			Field:   e.Field(),
			Message: e.Description(),
		})
	}
	return result
}
