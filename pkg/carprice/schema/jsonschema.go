package schema

import (
	"fmt"
	"strconv"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema returns the JSON Schema of a prediction request body.
func JSONSchema() map[string]interface{} {
	props := map[string]interface{}{
		"explain": map[string]interface{}{"type": "boolean"},
	}
	required := make([]interface{}, 0, len(Fields))

	for _, f := range Fields {
		p := map[string]interface{}{"description": f.Label}
		switch f.Kind {
		case KindInt:
			p["type"] = "integer"
			p["minimum"] = f.Min
			p["maximum"] = f.Max
		case KindFloat:
			p["type"] = "number"
			p["minimum"] = f.Min
			p["maximum"] = f.Max
		case KindSelect:
			enum := make([]interface{}, len(f.Choices))
			for i, c := range f.Choices {
				if f.IntChoices {
					n, _ := strconv.Atoi(c)
					enum[i] = n
				} else {
					enum[i] = c
				}
			}
			if f.IntChoices {
				p["type"] = "integer"
			} else {
				p["type"] = "string"
			}
			p["enum"] = enum
		}
		props[f.Name] = p
		required = append(required, f.Name)
	}

	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "PredictRequest",
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

var requestSchema = mustCompile()

func mustCompile() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(JSONSchema()))
	if err != nil {
		panic(fmt.Sprintf("compile request schema: %v", err))
	}
	return s
}

// ValidateJSON checks a request body against JSONSchema.
func ValidateJSON(body []byte) error {
	result, err := requestSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("malformed json: %v", err)}
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		details[i] = desc.String()
	}
	return &ValidationError{Reason: "request does not match schema", Details: details}
}
