// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSpecification(t *testing.T) {
	payload := map[string]any{
		"api_name":  "Pets",
		"base_url":  "https://pets.example.com/",
		"auth_type": "api_key",
		"endpoints": []any{
			map[string]any{
				"path":        "/pets/{petId}",
				"method":      "get",
				"description": "Fetch one pet by its identifier",
				"parameters": []any{
					map[string]any{"name": "petId", "type": "string", "required": true, "location": "path"},
				},
				"response_schema": map[string]any{
					"type":    "object",
					"example": map[string]any{"id": "p1"},
				},
			},
		},
	}

	spec, err := DecodeSpecification(payload)
	require.NoError(t, err)

	assert.Equal(t, "https://pets.example.com", spec.BaseURL)
	require.Len(t, spec.Endpoints, 1)
	e := spec.Endpoints[0]
	assert.Equal(t, MethodGet, e.Method)
	assert.True(t, e.AuthRequired)
	assert.Equal(t, 1.0, e.ConfidenceScore)
	assert.True(t, e.ResponseSchema.HasExample())
}

func TestDecodeSpecification_Errors(t *testing.T) {
	t.Run("wrong json type", func(t *testing.T) {
		_, err := DecodeSpecification(map[string]any{"api_name": 12})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match the specification model")
	})

	t.Run("invariant violation", func(t *testing.T) {
		_, err := DecodeSpecification(map[string]any{
			"api_name":  "Pets",
			"base_url":  "unclear",
			"auth_type": "none",
			"endpoints": []any{},
		})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.GreaterOrEqual(t, len(verrs), 2)
	})
}
