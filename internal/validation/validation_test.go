package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string   `validate:"notblank"`
	Tags  []string `validate:"dive,notblank"`
}

func TestNotBlank(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("notblank", NotBlank))

	assert.NoError(t, v.Struct(sample{Title: "quiz", Tags: []string{"a"}}))
	assert.Error(t, v.Struct(sample{Title: "   ", Tags: []string{"a"}}))
	assert.Error(t, v.Struct(sample{Title: "quiz", Tags: []string{"a", "\t"}}))
}

func TestRegister(t *testing.T) {
	require.NoError(t, Register())
}
