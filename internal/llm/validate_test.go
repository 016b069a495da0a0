package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func explanationSchema() *Schema {
	return &Schema{
		Name: "validate-test-explanation",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"explanation": map[string]any{"type": "string", "minLength": 1},
				"category":    map[string]any{"type": "string", "enum": []any{"Tense", "Vocabulary"}},
			},
			"required":             []any{"explanation"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"explanation":"Use past simple.","category":"Tense"}`, true},
		{"optional omitted", `{"explanation":"ok"}`, true},
		{"missing required", `{"category":"Tense"}`, false},
		{"empty string", `{"explanation":""}`, false},
		{"bad enum", `{"explanation":"x","category":"Spelling"}`, false},
		{"extra field", `{"explanation":"x","score":1}`, false},
		{"not json", `explanation: x`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(explanationSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.True(t, errors.As(err, &inv), "got %v", err)
			assert.Equal(t, tt.raw, string(inv.Content))
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not json`)))
}

func TestValidateResponse_BadSchema(t *testing.T) {
	bad := &Schema{Name: "validate-test-bad", Definition: map[string]any{"type": 12}}
	err := validateResponse(bad, json.RawMessage(`{}`))
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}
