// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package openapi converts between API specifications and OpenAPI 3 documents.
package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// unclear is the placeholder the normalizer repairs.
const unclear = "unclear"

// Import reads an OpenAPI 3 document (JSON or YAML) and returns the equivalent raw
// specification payload. The payload has the shape extraction backends produce and
// still has to be normalized and decoded.
func Import(data []byte) (map[string]any, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument converts a loaded OpenAPI document into a raw specification payload.
func FromDocument(doc *openapi3.T) map[string]any {
	payload := map[string]any{
		"api_name":  unclear,
		"base_url":  unclear,
		"auth_type": string(authType(doc)),
		"endpoints": endpoints(doc),
	}

	metadata := map[string]any{"source": "openapi"}
	if doc.Info != nil {
		if title := strings.TrimSpace(doc.Info.Title); title != "" {
			payload["api_name"] = title
		}
		if doc.Info.Version != "" {
			metadata["version"] = doc.Info.Version
		}
		if doc.Info.Description != "" {
			metadata["description"] = doc.Info.Description
		}
	}
	payload["metadata"] = metadata

	if len(doc.Servers) > 0 && doc.Servers[0] != nil && doc.Servers[0].URL != "" {
		payload["base_url"] = doc.Servers[0].URL
	}
	return payload
}

// authType maps the first security scheme, by name, onto an AuthType.
func authType(doc *openapi3.T) types.AuthType {
	if doc.Components == nil || len(doc.Components.SecuritySchemes) == 0 {
		return types.AuthNone
	}

	names := make([]string, 0, len(doc.Components.SecuritySchemes))
	for name := range doc.Components.SecuritySchemes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := doc.Components.SecuritySchemes[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		switch strings.ToLower(ref.Value.Type) {
		case "apikey":
			return types.AuthAPIKey
		case "oauth2", "openidconnect":
			return types.AuthOAuth2
		case "http":
			if strings.EqualFold(ref.Value.Scheme, "basic") {
				return types.AuthBasic
			}
			return types.AuthBearer
		}
	}
	return types.AuthNone
}

func endpoints(doc *openapi3.T) []any {
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	globalAuth := len(doc.Security) > 0
	out := []any{}
	for _, p := range paths {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		for _, m := range types.HTTPMethods {
			op := item.GetOperation(string(m))
			if op == nil {
				continue
			}
			out = append(out, endpoint(p, m, item, op, globalAuth))
		}
	}
	return out
}

func endpoint(path string, method types.HTTPMethod, item *openapi3.PathItem, op *openapi3.Operation, globalAuth bool) map[string]any {
	description := strings.TrimSpace(op.Description)
	if description == "" {
		description = strings.TrimSpace(op.Summary)
	}
	if len(description) < types.MinDescriptionLength {
		description = fmt.Sprintf("%s %s endpoint", method, path)
	}

	authRequired := globalAuth
	if op.Security != nil {
		authRequired = len(*op.Security) > 0
	}

	e := map[string]any{
		"path":            path,
		"method":          string(method),
		"description":     description,
		"parameters":      parameters(item.Parameters, op.Parameters),
		"response_schema": responseSchema(op.Responses),
		"auth_required":   authRequired,
	}
	if body := requestBody(op.RequestBody); body != nil {
		e["request_body"] = body
	}
	return e
}

// parameters merges path-level and operation-level parameters. Operation-level
// entries win; cookie parameters are dropped.
func parameters(pathLevel, opLevel openapi3.Parameters) []any {
	type key struct{ in, name string }
	merged := make(map[key]*openapi3.Parameter)
	var order []key
	for _, list := range []openapi3.Parameters{pathLevel, opLevel} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			p := ref.Value
			if !types.ParameterLocation(p.In).Valid() {
				continue
			}
			k := key{p.In, p.Name}
			if _, seen := merged[k]; !seen {
				order = append(order, k)
			}
			merged[k] = p
		}
	}

	out := make([]any, 0, len(order))
	for _, k := range order {
		p := merged[k]
		param := map[string]any{
			"name":     p.Name,
			"type":     string(kindOf(p.Schema)),
			"required": p.Required || p.In == openapi3.ParameterInPath,
			"location": p.In,
		}
		if p.Description != "" {
			param["description"] = p.Description
		}
		switch {
		case p.Example != nil:
			param["example"] = p.Example
		case p.Schema != nil && p.Schema.Value != nil && p.Schema.Value.Example != nil:
			param["example"] = p.Schema.Value.Example
		}
		out = append(out, param)
	}
	return out
}

func requestBody(ref *openapi3.RequestBodyRef) map[string]any {
	if ref == nil || ref.Value == nil {
		return nil
	}
	return mediaSchema(ref.Value.Content)
}

// responseSchema returns the schema of the first 2xx response, or an empty object.
func responseSchema(responses openapi3.Responses) map[string]any {
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		ref := responses[code]
		if !strings.HasPrefix(code, "2") || ref == nil || ref.Value == nil {
			continue
		}
		if s := mediaSchema(ref.Value.Content); s != nil {
			return s
		}
		break
	}
	return map[string]any{"type": string(types.KindObject)}
}

// mediaSchema prefers application/json and falls back to the first media type by name.
func mediaSchema(content openapi3.Content) map[string]any {
	if len(content) == 0 {
		return nil
	}
	mt := content.Get("application/json")
	if mt == nil {
		mimes := make([]string, 0, len(content))
		for mime := range content {
			mimes = append(mimes, mime)
		}
		sort.Strings(mimes)
		mt = content[mimes[0]]
	}
	if mt == nil || mt.Schema == nil {
		return nil
	}

	s := schemaPayload(mt.Schema, 0)
	if mt.Example != nil {
		s["example"] = mt.Example
	}
	return s
}

// maxDepth bounds recursion through self-referencing schemas.
const maxDepth = 8

func schemaPayload(ref *openapi3.SchemaRef, depth int) map[string]any {
	kind := kindOf(ref)
	s := map[string]any{"type": string(kind)}
	if ref == nil || ref.Value == nil || depth >= maxDepth {
		return s
	}

	v := ref.Value
	if v.Description != "" {
		s["description"] = v.Description
	}
	if v.Example != nil {
		s["example"] = v.Example
	}
	switch kind {
	case types.KindArray:
		if v.Items != nil {
			s["items"] = schemaPayload(v.Items, depth+1)
		}
	case types.KindObject:
		if len(v.Properties) > 0 {
			required := make(map[string]bool, len(v.Required))
			for _, name := range v.Required {
				required[name] = true
			}
			props := make(map[string]any, len(v.Properties))
			for name, prop := range v.Properties {
				p := schemaPayload(prop, depth+1)
				if len(v.Required) > 0 && !required[name] {
					p["required"] = false
				}
				props[name] = p
			}
			s["properties"] = props
		}
	}
	return s
}

// kindOf maps an OpenAPI schema type onto a SchemaKind. Untyped schemas with
// properties are objects; anything else untyped is a string.
func kindOf(ref *openapi3.SchemaRef) types.SchemaKind {
	if ref == nil || ref.Value == nil {
		return types.KindString
	}
	switch ref.Value.Type {
	case "integer", "number":
		return types.KindNumber
	case "boolean":
		return types.KindBoolean
	case "array":
		return types.KindArray
	case "object":
		return types.KindObject
	case "string":
		return types.KindString
	}
	if len(ref.Value.Properties) > 0 || len(ref.Value.AllOf) > 0 {
		return types.KindObject
	}
	return types.KindString
}
