package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// mealRecordSchema validates records submitted through the dataset ingestion
// API. List-valued fields must already be arrays; the catalog invariant is
// enforced before anything reaches the engine.
const mealRecordSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"id": {"type": "string"},
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"region": {"type": "string"},
		"meal_type": {"type": "string"},
		"tags": {"type": "array", "items": {"type": "string"}},
		"ingredients": {"type": "array", "items": {"type": "string"}},
		"suitable_for": {"type": "array", "items": {"type": "string"}},
		"calories": {"type": "string"}
	},
	"additionalProperties": true
}`

// SchemaValidator validates dataset payloads against their JSON schemas.
type SchemaValidator struct {
	mealRecord *gojsonschema.Schema
}

func NewSchemaValidator() (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(mealRecordSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile meal record schema: %w", err)
	}
	return &SchemaValidator{mealRecord: schema}, nil
}

// ValidateMealRecord checks one record document.
func (sv *SchemaValidator) ValidateMealRecord(data interface{}) *ValidationResult {
	var loader gojsonschema.JSONLoader
	switch v := data.(type) {
	case string:
		loader = gojsonschema.NewStringLoader(v)
	case []byte:
		loader = gojsonschema.NewBytesLoader(v)
	default:
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   "data",
					Message: fmt.Sprintf("failed to marshal data to JSON: %v", err),
				}},
			}
		}
		loader = gojsonschema.NewBytesLoader(jsonBytes)
	}

	result, err := sv.mealRecord.Validate(loader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "document",
				Message: err.Error(),
			}},
		}
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, resultErr := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
		})
	}
	return vr
}

// ValidationResult is the outcome of validating one document.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field %q: %s", ve.Field, ve.Message)
}
