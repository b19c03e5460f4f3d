// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spaces", "Example API", "ExampleAPI"},
		{"hyphens", "open-weather", "openweather"},
		{"mixed", "My Cool-API", "MyCoolAPI"},
		{"already clean", "Stripe", "Stripe"},
		{"underscores kept", "pay_pal", "pay_pal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassName(tt.input))
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "example-api", Slug("Example API"))
	assert.Equal(t, "test-api", Slug("Test API"))
	assert.Equal(t, "already-slug", Slug("already-slug"))
}

func TestToLowerCamelCase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"single uppercase", "A", "a"},
		{"PascalCase", "UserName", "userName"},
		{"already camelCase", "userName", "userName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToLowerCamelCase(tt.input))
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Usage Examples", TitleCase("usage_examples"))
	assert.Equal(t, "Getting Started", TitleCase("getting-started"))
	assert.Equal(t, "Api", TitleCase("api"))
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "stripe-payments-api-sdk", PackageName("Stripe Payments API"))
	assert.Equal(t, "acme-v2-sdk", PackageName("  Acme (v2) "))
	assert.Equal(t, "api-sdk", PackageName("!!!"))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "userId", Identifier("user id"))
	assert.Equal(t, "userId", Identifier("user_id"))
	assert.Equal(t, "getUsersById", Identifier("get", "users", "by", "id"))
	assert.Equal(t, "listHTTPLogs", Identifier("list", "HTTPLogs"))
}
