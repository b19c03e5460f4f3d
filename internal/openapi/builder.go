// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/api2spec/docs2sdk/internal/util"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// DefaultVersion is the OpenAPI version of built documents.
const DefaultVersion = "3.0.3"

// Security scheme names used in built documents.
const (
	SchemeAPIKey = "apiKeyAuth"
	SchemeBearer = "bearerAuth"
	SchemeBasic  = "basicAuth"
	SchemeOAuth2 = "oauth2"
)

// Builder constructs OpenAPI documents from API specifications.
type Builder struct {
	// Version is written to the openapi field
	Version string
}

// NewBuilder creates a Builder for DefaultVersion.
func NewBuilder() *Builder {
	return &Builder{Version: DefaultVersion}
}

// Build creates an OpenAPI document describing spec.
func (b *Builder) Build(spec *types.APISpecification) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: b.Version,
		Info:    buildInfo(spec),
		Servers: openapi3.Servers{{URL: spec.BaseURL}},
		Paths:   openapi3.Paths{},
	}

	scheme := securityScheme(spec)
	if scheme != nil {
		name := schemeName(spec.AuthType)
		doc.Components = &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				name: &openapi3.SecuritySchemeRef{Value: scheme},
			},
		}
		doc.Security = openapi3.SecurityRequirements{
			openapi3.NewSecurityRequirement().Authenticate(name),
		}
	}

	for _, e := range spec.Endpoints {
		item := doc.Paths[e.Path]
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths[e.Path] = item
		}
		if item.GetOperation(string(e.Method)) != nil {
			return nil, fmt.Errorf("duplicate operation %s", e.Key())
		}
		item.SetOperation(string(e.Method), b.operation(e, scheme != nil))
	}

	return doc, nil
}

func buildInfo(spec *types.APISpecification) *openapi3.Info {
	info := &openapi3.Info{
		Title:   spec.APIName,
		Version: "1.0.0",
	}
	if v, ok := spec.Metadata["version"].(string); ok && v != "" && v != "unclear" {
		info.Version = v
	}
	if d, ok := spec.Metadata["description"].(string); ok && d != "unclear" {
		info.Description = d
	}
	return info
}

func schemeName(auth types.AuthType) string {
	switch auth {
	case types.AuthAPIKey:
		return SchemeAPIKey
	case types.AuthBasic:
		return SchemeBasic
	case types.AuthOAuth2:
		return SchemeOAuth2
	}
	return SchemeBearer
}

// securityScheme returns the scheme for the specification's auth type, or nil for none.
func securityScheme(spec *types.APISpecification) *openapi3.SecurityScheme {
	switch spec.AuthType {
	case types.AuthAPIKey:
		return openapi3.NewSecurityScheme().WithType("apiKey").WithIn("header").WithName("X-API-Key")
	case types.AuthBearer:
		return openapi3.NewJWTSecurityScheme()
	case types.AuthBasic:
		return openapi3.NewSecurityScheme().WithType("http").WithScheme("basic")
	case types.AuthOAuth2:
		return &openapi3.SecurityScheme{
			Type: "oauth2",
			Flows: &openapi3.OAuthFlows{
				ClientCredentials: &openapi3.OAuthFlow{
					TokenURL: strings.TrimRight(spec.BaseURL, "/") + "/oauth/token",
					Scopes:   map[string]string{},
				},
			},
		}
	}
	return nil
}

func (b *Builder) operation(e types.Endpoint, secured bool) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: operationID(e),
		Summary:     firstSentence(e.Description),
		Description: e.Description,
		Responses: openapi3.Responses{
			"200": &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Successful response").
					WithJSONSchema(toSchema(e.ResponseSchema)),
			},
		},
	}

	for _, p := range e.Parameters {
		if p.Location == types.LocationBody {
			continue
		}
		param := &openapi3.Parameter{
			Name:        p.Name,
			In:          string(p.Location),
			Description: p.Description,
			Required:    p.Required || p.Location == types.LocationPath,
			Schema:      openapi3.NewSchemaRef("", withItems(&openapi3.Schema{Type: kindName(p.Kind)})),
			Example:     p.Example,
		}
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: param})
	}

	if body := requestSchema(e); body != nil {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
		}
	}

	if secured && !e.AuthRequired {
		op.Security = openapi3.NewSecurityRequirements()
	}
	return op
}

// requestSchema returns the request body schema, or one built from body parameters.
func requestSchema(e types.Endpoint) *openapi3.Schema {
	if e.RequestBody != nil {
		return toSchema(e.RequestBody)
	}
	params := e.ParametersIn(types.LocationBody)
	if len(params) == 0 {
		return nil
	}
	s := openapi3.NewObjectSchema()
	for _, p := range params {
		prop := &openapi3.Schema{Type: kindName(p.Kind), Description: p.Description, Example: p.Example}
		s.WithProperty(p.Name, withItems(prop))
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

func operationID(e types.Endpoint) string {
	words := []string{strings.ToLower(string(e.Method))}
	for _, seg := range strings.Split(e.Path, "/") {
		if strings.HasPrefix(seg, "{") {
			words = append(words, "by", strings.Trim(seg, "{}"))
			continue
		}
		words = append(words, seg)
	}
	return util.Identifier(words...)
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}

func kindName(k types.SchemaKind) string {
	if k.Valid() {
		return string(k)
	}
	return string(types.KindString)
}

// toSchema converts a Schema. Property descriptors are opaque: a type name or a map
// with "type", "description", "items" and "properties".
func toSchema(s *types.Schema) *openapi3.Schema {
	if s == nil {
		return openapi3.NewObjectSchema()
	}
	out := &openapi3.Schema{Type: kindName(s.Kind), Example: s.Example}
	if s.Items != nil {
		out.Items = openapi3.NewSchemaRef("", toSchema(s.Items))
	}
	for _, name := range s.PropertyNames() {
		out.WithProperty(name, descriptorSchema(s.Properties[name], 0))
	}
	return withItems(out)
}

// withItems gives item-less arrays an unconstrained item schema, which OpenAPI requires.
func withItems(s *openapi3.Schema) *openapi3.Schema {
	if s.Type == "array" && s.Items == nil {
		s.Items = openapi3.NewSchemaRef("", &openapi3.Schema{})
	}
	return s
}

func descriptorSchema(v any, depth int) *openapi3.Schema {
	switch d := v.(type) {
	case string:
		return withItems(&openapi3.Schema{Type: typeName(d)})
	case map[string]any:
		t, _ := d["type"].(string)
		out := &openapi3.Schema{Type: typeName(t)}
		if desc, ok := d["description"].(string); ok {
			out.Description = desc
		}
		if depth >= maxDepth {
			return withItems(out)
		}
		if items, ok := d["items"]; ok && out.Type == "array" {
			out.Items = openapi3.NewSchemaRef("", descriptorSchema(items, depth+1))
		}
		if props, ok := d["properties"].(map[string]any); ok && len(props) > 0 {
			out.Type = "object"
			names := make([]string, 0, len(props))
			for name := range props {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				out.WithProperty(name, descriptorSchema(props[name], depth+1))
			}
		}
		return withItems(out)
	}
	return &openapi3.Schema{Type: "string"}
}

func typeName(t string) string {
	switch strings.ToLower(t) {
	case "integer", "int":
		return "integer"
	case "number", "float":
		return "number"
	case "boolean", "bool":
		return "boolean"
	case "array", "object", "string":
		return strings.ToLower(t)
	}
	return "string"
}
