// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package normalize repairs raw extraction payloads before they are decoded into the data model.
//
// Extraction backends are unreliable: they mark unknown values with the sentinel "unclear"
// and mislabel schema types. Normalize fixes those known-bad patterns and nothing else;
// remaining ambiguity is reported by the confidence engine.
package normalize

// Unclear is the sentinel extraction backends use for values they could not determine.
const Unclear = "unclear"

// PlaceholderBaseURL replaces an unclear base URL.
const PlaceholderBaseURL = "https://api.example.com/v1"

const (
	keyBaseURL        = "base_url"
	keyEndpoints      = "endpoints"
	keyRequestBody    = "request_body"
	keyResponseSchema = "response_schema"
	keyType           = "type"
	keyProperties     = "properties"
	typeObject        = "object"
)

// Normalize returns a repaired copy of raw. The input is never modified.
func Normalize(raw map[string]any) map[string]any {
	out := copyMap(raw)
	if out == nil {
		return map[string]any{}
	}

	if s, ok := out[keyBaseURL].(string); ok && s == Unclear {
		out[keyBaseURL] = PlaceholderBaseURL
	}

	endpoints, ok := out[keyEndpoints].([]any)
	if !ok {
		return out
	}
	for _, item := range endpoints {
		endpoint, ok := item.(map[string]any)
		if !ok {
			continue
		}
		normalizeRequestBody(endpoint)
		normalizeResponseSchema(endpoint)
	}

	return out
}

// normalizeRequestBody drops an unclear request body: it means "no body".
func normalizeRequestBody(endpoint map[string]any) {
	body, ok := endpoint[keyRequestBody].(map[string]any)
	if !ok || len(body) == 0 {
		return
	}
	if body[keyType] == Unclear {
		delete(endpoint, keyRequestBody)
		return
	}
	fixSchemaType(body)
}

// normalizeResponseSchema defaults an unclear response to an object.
func normalizeResponseSchema(endpoint map[string]any) {
	schema, ok := endpoint[keyResponseSchema].(map[string]any)
	if !ok || len(schema) == 0 {
		return
	}
	if schema[keyType] == Unclear {
		schema[keyType] = typeObject
		return
	}
	fixSchemaType(schema)
}

// fixSchemaType forces schemas with properties to be objects and drops empty property maps.
func fixSchemaType(schema map[string]any) {
	props, hasProps := schema[keyProperties].(map[string]any)
	declared, hasType := schema[keyType]

	switch {
	case hasProps && len(props) > 0 && declared != typeObject:
		schema[keyType] = typeObject
	case hasType && declared != nil && declared != "" && hasProps && len(props) == 0:
		delete(schema, keyProperties)
	}
}

// copyMap deep-copies the maps and slices of a decoded JSON value.
func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return val
	}
}
