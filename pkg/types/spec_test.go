// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() APISpecification {
	list := validEndpoint()
	list.Path = "/users"
	list.Parameters = nil
	list.Description = "List every user in the account"

	return APISpecification{
		APIName:       "Example API",
		BaseURL:       "https://api.example.com/v1/",
		AuthType:      AuthBearer,
		GlobalHeaders: map[string]string{"Content-Type": "application/json"},
		Endpoints:     []Endpoint{list, validEndpoint()},
		Metadata:      map[string]any{"version": "1.0.0"},
	}
}

func TestNewAPISpecification(t *testing.T) {
	spec, err := NewAPISpecification(validSpec())
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", spec.BaseURL)
	assert.Len(t, spec.Endpoints, 2)
}

func TestNewAPISpecification_DuplicateEndpoint(t *testing.T) {
	s := validSpec()
	dup := validEndpoint()
	dup.Description = "Another description of the same operation"
	s.Endpoints = append(s.Endpoints, dup)

	_, err := NewAPISpecification(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate endpoint: GET /users/{user_id}")
}

func TestNewAPISpecification_DuplicateAfterCanonicalMethod(t *testing.T) {
	s := validSpec()
	dup := validEndpoint()
	dup.Method = "get"
	s.Endpoints = append(s.Endpoints, dup)

	_, err := NewAPISpecification(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /users/{user_id}")
}

func TestNewAPISpecification_SamePathDifferentMethod(t *testing.T) {
	s := validSpec()
	update := validEndpoint()
	update.Method = MethodPut
	update.Description = "Replace a single user by identifier"
	s.Endpoints = append(s.Endpoints, update)

	_, err := NewAPISpecification(s)
	assert.NoError(t, err)
}

func TestAPISpecification_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *APISpecification)
		wantErr string
	}{
		{"empty name", func(s *APISpecification) { s.APIName = " " }, "api_name"},
		{"relative base url", func(s *APISpecification) { s.BaseURL = "api.example.com" }, "base_url"},
		{"sentinel base url", func(s *APISpecification) { s.BaseURL = "unclear" }, "base_url"},
		{"ftp base url", func(s *APISpecification) { s.BaseURL = "ftp://files.example.com" }, "base_url"},
		{"unknown auth", func(s *APISpecification) { s.AuthType = "jwt" }, "auth_type"},
		{"no endpoints", func(s *APISpecification) { s.Endpoints = nil }, "at least one endpoint"},
		{"invalid endpoint", func(s *APISpecification) { s.Endpoints[0].Description = "short" }, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSpec()
			s.Endpoints = append([]Endpoint(nil), s.Endpoints...)
			tt.mutate(&s)

			_, err := NewAPISpecification(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAPISpecification_Lookup(t *testing.T) {
	spec, err := NewAPISpecification(validSpec())
	require.NoError(t, err)

	e, ok := spec.Endpoint("get", "/users")
	require.True(t, ok)
	assert.Equal(t, "List every user in the account", e.Description)

	_, ok = spec.Endpoint(MethodDelete, "/users")
	assert.False(t, ok)

	assert.Len(t, spec.EndpointsByMethod("GET"), 2)
	assert.Empty(t, spec.EndpointsByMethod(MethodPost))
	assert.Equal(t, []string{"Content-Type"}, spec.HeaderNames())
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "no validation errors", errs.Error())

	errs = append(errs, invalid("endpoint", "path", "x", "must start with \"/\""))
	assert.Equal(t, `invalid endpoint: path: must start with "/" (got x)`, errs.Error())

	errs = append(errs, invalid("endpoint", "method", nil, "is required"))
	assert.Contains(t, errs.Error(), "validation errors:\n")
	assert.Contains(t, errs.Error(), "  - invalid endpoint: method: is required\n")
}
