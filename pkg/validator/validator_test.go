package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatInput struct {
	FlatNo string  `validate:"required,notblank"`
	Role   *string `validate:"omitempty,notblank"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, v.RegisterValidation("notblank", notBlank))
	return v
}

func TestNotBlankRejectsWhitespace(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(flatInput{FlatNo: "   "})
	require.Error(t, err)
	assert.Equal(t, "flat_no is required", FormatValidationError(err))

	assert.NoError(t, v.Struct(flatInput{FlatNo: "A-12"}))
}

func TestNotBlankOnPointer(t *testing.T) {
	v := newValidate(t)
	blank := " "

	err := v.Struct(flatInput{FlatNo: "1", Role: &blank})
	require.Error(t, err)
	assert.Contains(t, FormatValidationError(err), "role is required")
}
