package bank

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const bankSchemaURL = "schema://question-bank.json"

// bankSchemaJSON accepts both the flat question list and the passage list.
// Field names are resolved later, so only container shapes are checked.
const bankSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "options": {"type": "array"},
      "Options": {"type": "array"},
      "choices": {"type": "array"},
      "error_analysis": {"type": "object"},
      "questions": {
        "type": "array",
        "items": {
          "type": "object",
          "properties": {
            "options": {"type": "array"},
            "error_analysis": {"type": "object"}
          }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func bankSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(bankSchemaJSON)))
		if err != nil {
			schemaErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(bankSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(bankSchemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDoc checks a parsed JSON bank against the bank schema.
func validateDoc(doc any) error {
	s, err := bankSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
