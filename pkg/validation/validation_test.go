package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type tokenForm struct {
	Label      string `validate:"required,trimmed_min=3,max=100"`
	Visibility string `validate:"omitempty,visibility"`
	Hours      int    `validate:"min=1,max=720"`
}

func TestTrimmedMin(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(tokenForm{Label: "ACME", Hours: 72}))
	assert.Error(t, v.Struct(tokenForm{Label: "  ab  ", Hours: 72}))
	assert.NoError(t, v.Struct(tokenForm{Label: " abc ", Hours: 72}))
	// rune count, not bytes
	assert.NoError(t, v.Struct(tokenForm{Label: "été", Hours: 72}))
}

func TestVisibilityRule(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(tokenForm{Label: "ACME", Hours: 1, Visibility: "Recruiter"}))
	assert.Error(t, v.Struct(tokenForm{Label: "ACME", Hours: 1, Visibility: "recruiter"}))
}

func TestFormatValidationErrors(t *testing.T) {
	v := New()
	err := v.Struct(tokenForm{Label: "ab", Hours: 721})

	msgs := FormatValidationErrors(err)
	assert.Contains(t, msgs, "Name: must be at least 3 characters")
	assert.Contains(t, msgs, "Hours: must be at most 720")
}
