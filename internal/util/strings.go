// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides naming helpers shared by the renderer, assembler and CLI.
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ClassName derives the client class name from an API name by removing spaces and hyphens.
// Every generated file must use this derivation so cross-file references stay consistent.
// For example: "My Cool-API" returns "MyCoolAPI".
func ClassName(apiName string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(apiName)
}

// Slug lower-cases name and replaces spaces with hyphens.
// For example: "Example API" returns "example-api".
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// ToLowerCamelCase converts PascalCase to camelCase.
func ToLowerCamelCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// TitleCase turns a snake_case or kebab-case identifier into title words.
// For example: "usage_examples" returns "Usage Examples".
func TitleCase(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

// PackageName derives an npm package name from an API name.
// For example: "Stripe Payments API" returns "stripe-payments-api-sdk".
func PackageName(apiName string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(apiName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			sb.WriteRune('-')
			lastHyphen = true
		}
	}
	name := strings.TrimSuffix(sb.String(), "-")
	if name == "" {
		return "api-sdk"
	}
	return name + "-sdk"
}

// Identifier converts arbitrary words into a camelCase identifier.
// For example: "user id" and "user_id" both return "userId".
func Identifier(words ...string) string {
	var parts []string
	for _, w := range words {
		parts = append(parts, strings.FieldsFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})...)
	}
	caser := cases.Title(language.English, cases.NoLower)
	var sb strings.Builder
	for i, p := range parts {
		if i == 0 {
			sb.WriteString(ToLowerCamelCase(p))
			continue
		}
		sb.WriteString(caser.String(p))
	}
	return sb.String()
}
