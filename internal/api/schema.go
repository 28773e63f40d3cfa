package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	metadataSchema = mustSchema(`{
		"type": "object",
		"additionalProperties": {
			"type": ["array", "null"],
			"items": {"type": "string"}
		}
	}`)

	predictionSchema = mustSchema(`{
		"type": "object",
		"required": ["prediction", "probability"],
		"properties": {
			"prediction": {"type": "string"},
			"probability": {"type": "number", "minimum": 0, "maximum": 1}
		}
	}`)

	healthSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"message": {"type": "string"}
		}
	}`)
)

func mustSchema(def string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def))
	if err != nil {
		panic(fmt.Sprintf("api: invalid response schema: %v", err))
	}
	return schema
}

// validate checks a response body against schema, wrapping every violation
// into a single ErrInvalidResponse.
func validate(schema *gojsonschema.Schema, body []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if res.Valid() {
		return nil
	}
	var details []string
	for _, desc := range res.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(details, "; "))
}
