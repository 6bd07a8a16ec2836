package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCollectionRequest struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Color *string `json:"color" validate:"omitempty,max=32"`
	Level string  `json:"level" validate:"omitempty,oneof=low medium high"`
}

// Feature: request-validation, Property 1: Required fields are enforced
func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a missing name is rejected, a present one accepted", prop.ForAll(
		func(includeName bool, name string) bool {
			body := map[string]interface{}{}
			if includeName {
				body["name"] = name
			}
			raw, _ := json.Marshal(body)

			var req testCollectionRequest
			err := DecodeAndValidate(httptest.NewRequest("POST", "/test", bytes.NewReader(raw)), &req)
			if includeName {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) <= 255 }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors(t *testing.T) {
	raw := `{"name": "` + strings.Repeat("x", 300) + `", "level": "extreme"}`

	var req testCollectionRequest
	err := DecodeAndValidate(httptest.NewRequest("POST", "/test", strings.NewReader(raw)), &req)
	require.Error(t, err)

	formatted := FormatValidationErrors(err)
	require.Len(t, formatted, 2)
	assert.Equal(t, "Name", formatted[0].Field)
	assert.Equal(t, "Value is too long", formatted[0].Message)
	assert.Equal(t, "Level", formatted[1].Field)
	assert.Equal(t, "Value must be one of: low medium high", formatted[1].Message)
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	var req testCollectionRequest
	err := DecodeAndValidate(httptest.NewRequest("POST", "/test", strings.NewReader("{")), &req)
	require.Error(t, err)
	assert.Empty(t, FormatValidationErrors(err))
}
