package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuestions(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{name: "three questions", doc: `{"questions": ["a", "b", "c"]}`, valid: true},
		{name: "five questions", doc: `{"questions": ["a", "b", "c", "d", "e"]}`, valid: true},
		{name: "too few", doc: `{"questions": ["a", "b"]}`},
		{name: "too many", doc: `{"questions": ["a", "b", "c", "d", "e", "f"]}`},
		{name: "empty string", doc: `{"questions": ["a", "", "c"]}`},
		{name: "not strings", doc: `{"questions": [1, 2, 3]}`},
		{name: "missing key", doc: `{"items": ["a", "b", "c"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Questions, []byte(tt.doc))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.Error(t, err)
			assert.True(t, errors.As(err, &ve), "expected ValidationError, got %T", err)
		})
	}
}

func TestValidateEvaluation(t *testing.T) {
	valid := `{"score": 7, "verdict": "PASS", "summary": "ok", "strengths": ["x"], "weaknesses": []}`
	assert.NoError(t, Validate(Evaluation, []byte(valid)))

	invalid := map[string]string{
		"score out of range": `{"score": 12, "verdict": "PASS", "summary": "", "strengths": [], "weaknesses": []}`,
		"fractional score":   `{"score": 6.5, "verdict": "BORDERLINE", "summary": "", "strengths": [], "weaknesses": []}`,
		"unknown verdict":    `{"score": 5, "verdict": "MAYBE", "summary": "", "strengths": [], "weaknesses": []}`,
		"missing summary":    `{"score": 5, "verdict": "BORDERLINE", "strengths": [], "weaknesses": []}`,
	}
	for name, doc := range invalid {
		err := Validate(Evaluation, []byte(doc))
		assert.Error(t, err, name)
	}
}

func TestValidateExtractionRequiresObject(t *testing.T) {
	assert.NoError(t, Validate(Extraction, []byte(`{}`)))
	assert.NoError(t, Validate(Extraction, []byte(`{"name": "Jane", "phone": 12345}`)))
	assert.Error(t, Validate(Extraction, []byte(`["Jane"]`)))
	assert.Error(t, Validate(Extraction, []byte(`not json`)))
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate(Name("nope"), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidationErrorMessage(t *testing.T) {
	ve := &ValidationError{Schema: Questions, Errors: []FieldError{{Field: "questions", Message: "too short"}}}
	assert.Equal(t, "questions response failed validation: 1. questions: too short", ve.Error())
}
