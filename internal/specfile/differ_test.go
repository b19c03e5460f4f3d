// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package specfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/docs2sdk/pkg/types"
)

func TestDiffer_Diff_NoDifferences(t *testing.T) {
	result := NewDiffer().Diff(testSpec(), testSpec())

	assert.True(t, result.IsEmpty())
	assert.False(t, result.HasBreakingChanges)
	assert.Equal(t, "No changes detected", result.Summary)
	assert.Equal(t, "No differences found.", FormatDiff(result))
}

func TestDiffer_Diff_AddedEndpoint(t *testing.T) {
	b := testSpec()
	b.Endpoints = append(b.Endpoints, types.Endpoint{
		Path:           "/users",
		Method:         types.MethodGet,
		Description:    "List every user",
		ResponseSchema: &types.Schema{Kind: types.KindArray},
	})

	result := NewDiffer().Diff(testSpec(), b)

	require.Len(t, result.EndpointChanges, 1)
	assert.Equal(t, EndpointChange{Type: DiffTypeAdded, Method: types.MethodGet, Path: "/users"}, result.EndpointChanges[0])
	assert.False(t, result.HasBreakingChanges)
	assert.Equal(t, "1 endpoint(s) added", result.Summary)
}

func TestDiffer_Diff_RemovedEndpoint(t *testing.T) {
	b := testSpec()
	b.Endpoints = b.Endpoints[:1]

	result := NewDiffer().Diff(testSpec(), b)

	require.Len(t, result.EndpointChanges, 1)
	assert.Equal(t, DiffTypeRemoved, result.EndpointChanges[0].Type)
	assert.Equal(t, types.MethodPost, result.EndpointChanges[0].Method)
	assert.True(t, result.HasBreakingChanges)
	assert.Equal(t, "1 endpoint(s) removed [BREAKING CHANGES DETECTED]", result.Summary)
}

func TestDiffer_Diff_ModifiedEndpoint(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(e *types.Endpoint)
		wantDetails  []string
		wantBreaking bool
	}{
		{
			name:        "description",
			modify:      func(e *types.Endpoint) { e.Description = "Fetch a single user" },
			wantDetails: []string{"description changed"},
		},
		{
			name: "required parameter added",
			modify: func(e *types.Endpoint) {
				e.Parameters = append(e.Parameters, types.Parameter{Name: "expand", Kind: types.KindString, Required: true, Location: types.LocationQuery})
			},
			wantDetails:  []string{"required parameter added: expand"},
			wantBreaking: true,
		},
		{
			name: "optional parameter added",
			modify: func(e *types.Endpoint) {
				e.Parameters = append(e.Parameters, types.Parameter{Name: "expand", Kind: types.KindString, Location: types.LocationQuery})
			},
			wantDetails: []string{"optional parameter added: expand"},
		},
		{
			name:         "parameter type changed",
			modify:       func(e *types.Endpoint) { e.Parameters[0].Kind = types.KindNumber },
			wantDetails:  []string{"parameter id type changed from string to number"},
			wantBreaking: true,
		},
		{
			name:        "response property added",
			modify:      func(e *types.Endpoint) { e.ResponseSchema.Properties = map[string]any{"id": "string", "name": "string"} },
			wantDetails: []string{"response schema changed"},
		},
		{
			name:         "response kind changed",
			modify:       func(e *types.Endpoint) { e.ResponseSchema = &types.Schema{Kind: types.KindArray} },
			wantDetails:  []string{"response schema changed"},
			wantBreaking: true,
		},
		{
			name:         "request body added",
			modify:       func(e *types.Endpoint) { e.RequestBody = &types.Schema{Kind: types.KindObject} },
			wantDetails:  []string{"request body added"},
			wantBreaking: true,
		},
		{
			name:        "auth no longer required",
			modify:      func(e *types.Endpoint) { e.AuthRequired = false },
			wantDetails: []string{"auth_required changed from true to false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testSpec()
			tt.modify(&b.Endpoints[0])

			result := NewDiffer().Diff(testSpec(), b)

			require.Len(t, result.EndpointChanges, 1)
			change := result.EndpointChanges[0]
			assert.Equal(t, DiffTypeModified, change.Type)
			assert.Equal(t, "/users/{id}", change.Path)
			assert.Equal(t, tt.wantDetails, change.Details)
			assert.Equal(t, tt.wantBreaking, change.Breaking)
			assert.Equal(t, tt.wantBreaking, result.HasBreakingChanges)
		})
	}
}

func TestDiffer_Diff_FieldChanges(t *testing.T) {
	b := testSpec()
	b.BaseURL = "https://api.example.com/v2"
	b.APIName = "Accounts API"
	b.GlobalHeaders = map[string]string{"X-Version": "2"}

	result := NewDiffer().Diff(testSpec(), b)

	assert.Equal(t, []FieldChange{
		{Type: DiffTypeModified, Field: "api_name", Old: "Users API", New: "Accounts API"},
		{Type: DiffTypeModified, Field: "base_url", Old: "https://api.example.com/v1", New: "https://api.example.com/v2", Breaking: true},
		{Type: DiffTypeRemoved, Field: "global_headers.Accept", Old: "application/json"},
		{Type: DiffTypeAdded, Field: "global_headers.X-Version", New: "2"},
	}, result.FieldChanges)
	assert.True(t, result.HasBreakingChanges)
	assert.Equal(t, "4 field(s) changed [BREAKING CHANGES DETECTED]", result.Summary)
}

func TestDiffer_Diff_NilSpecs(t *testing.T) {
	result := NewDiffer().Diff(nil, testSpec())

	assert.Len(t, result.EndpointChanges, 2)
	for _, c := range result.EndpointChanges {
		assert.Equal(t, DiffTypeAdded, c.Type)
	}
}

func TestFormatDiff(t *testing.T) {
	b := testSpec()
	b.Endpoints = []types.Endpoint{b.Endpoints[0], {
		Path:           "/health",
		Method:         types.MethodGet,
		Description:    "Service health check",
		ResponseSchema: &types.Schema{Kind: types.KindObject},
	}}
	b.Endpoints[0].Description = "Fetch a single user"
	b.AuthType = types.AuthAPIKey

	out := FormatDiff(NewDiffer().Diff(testSpec(), b))

	want := "=== Specification Diff ===\n\n" +
		"1 endpoint(s) added, 1 endpoint(s) removed, 1 endpoint(s) modified, 1 field(s) changed [BREAKING CHANGES DETECTED]\n" +
		"\n--- Field Changes ---\n" +
		"~ auth_type: \"bearer\" -> \"api_key\"\n" +
		"\n--- Endpoint Changes ---\n" +
		"+ GET /health\n" +
		"- POST /users\n" +
		"~ GET /users/{id}\n" +
		"    description changed\n"
	assert.Equal(t, want, out)
}
