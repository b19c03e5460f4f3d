// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// analysisSampleLimit bounds the documentation sent for analysis.
const analysisSampleLimit = 10000

const extractionSystemPrompt = `You read API documentation and return its structure as JSON.

Be thorough and accurate. When a value cannot be determined from the text, use the string "unclear" instead of guessing.

For every endpoint capture the HTTP method (GET, POST, PUT, DELETE, PATCH), the path (starting with /), a detailed description, the parameters with name, type, requiredness and location, the request body and response schemas, whether authentication is required and any rate limit.

Pay particular attention to the base URL, the authentication scheme, parameter types (string, number, boolean, array, object) and parameter locations (query, path, header, body). Include example values where the documentation shows them.`

const extractionUserPrompt = `Extract the API described by the documentation below.

Answer with a single JSON object of this shape:
{
  "api_name": "name of the API",
  "base_url": "absolute base URL, e.g. https://api.example.com/v1",
  "auth_type": "api_key | oauth2 | bearer | basic | none",
  "global_headers": {"Header-Name": "value"},
  "endpoints": [
    {
      "path": "/users/{id}",
      "method": "GET | POST | PUT | DELETE | PATCH",
      "description": "at least 10 characters",
      "parameters": [
        {
          "name": "id",
          "type": "string | number | boolean | array | object",
          "required": true,
          "location": "query | path | header | body",
          "description": "optional",
          "example": "optional"
        }
      ],
      "request_body": {"type": "object", "properties": {}, "example": {}},
      "response_schema": {"type": "object", "properties": {}, "example": {}},
      "auth_required": true,
      "rate_limit": "optional, e.g. 100 requests per minute"
    }
  ],
  "metadata": {"version": "optional", "description": "optional"}
}

Rules:
- base_url must be a valid absolute URL. Infer it from examples when it is not stated; never answer "unclear" for it.
- Every path parameter in braces must appear in "parameters" with location "path".
- Omit request_body or response_schema when the documentation does not describe one.
- Only use "properties" when the type is "object".
- Include every endpoint the documentation mentions.

Documentation:

{documentation}`

const methodSystemPrompt = "You are an expert TypeScript developer."

const methodUserPrompt = `Write one TypeScript async method for a client class.

API:
- Base URL: {base_url}
- Authentication: {auth_type}

Endpoint:
- Method: {method}
- Path: {path}
- Description: {description}
- Parameters: {parameters}
- Request body: {request_body}
- Response schema: {response_schema}

The method must:
1. Have a descriptive camelCase name such as getUser or createPayment.
2. Take typed parameters and validate the required ones with this.requireParam(value, 'name').
3. Build the URL from this.baseURL and the path parameters.
4. Call this.request<T>({ method, url, params, data }) and return its result.
5. Carry a JSDoc comment with the description.

Return only the method code.`

const typesUserPrompt = `Write TypeScript type definitions for these endpoints:

{endpoints}

Declare one exported interface per distinct parameter set (e.g. GetUserParams) and one per response body (e.g. UserResponse). Use precise types instead of any, mark optional fields with ?, and add a JSDoc comment to every declaration.

Return only the type definitions.`

const usageSystemPrompt = "You are a technical documentation writer."

const usageUserPrompt = `Write the "Usage Examples" section of a README for a TypeScript SDK.

API name: {api_name}
Client class: {class_name}
Package: {package_name}
Base URL: {base_url}
Authentication: {auth_type}
Endpoints:
{endpoints}

Start with the heading "## Usage Examples". Add one "###" subsection per endpoint with a short TypeScript snippet calling the client method and a sentence about the response. Return only markdown.`

const analysisSystemPrompt = "You assess API documentation."

const analysisUserPrompt = `Assess the documentation below before it is parsed.

Answer with a single JSON object:
{
  "document_type": "api_reference | guide | setup_instructions | mixed",
  "endpoints_found": {"count": 0, "list": [{"method": "GET", "path": "/x", "description": "..."}]},
  "is_complete_api": true,
  "api_name": "optional",
  "base_url": "optional",
  "navigation_detected": {"has_more_endpoints": false, "other_sections": [], "reference_urls": []},
  "user_message": "one or two friendly sentences about what was found",
  "recommendations": ["actionable next steps"]
}

Documentation:

{documentation}`

// fill replaces {name} placeholders in tmpl. kv alternates names and values.
func fill(tmpl string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func methodPrompt(e types.Endpoint, spec *types.APISpecification) string {
	body := "null"
	if e.RequestBody != nil {
		body = indentJSON(e.RequestBody)
	}
	response := "null"
	if e.ResponseSchema != nil {
		response = indentJSON(e.ResponseSchema)
	}
	params := e.Parameters
	if params == nil {
		params = []types.Parameter{}
	}

	return fill(methodUserPrompt,
		"base_url", spec.BaseURL,
		"auth_type", string(spec.AuthType),
		"method", string(e.Method),
		"path", e.Path,
		"description", e.Description,
		"parameters", indentJSON(params),
		"request_body", body,
		"response_schema", response,
	)
}

// endpointDigest is the part of an endpoint the type prompt needs.
type endpointDigest struct {
	Path           string            `json:"path"`
	Method         types.HTTPMethod  `json:"method"`
	Parameters     []types.Parameter `json:"parameters"`
	RequestBody    *types.Schema     `json:"request_body,omitempty"`
	ResponseSchema *types.Schema     `json:"response_schema"`
}

func typesPrompt(spec *types.APISpecification) string {
	digests := make([]endpointDigest, 0, len(spec.Endpoints))
	for _, e := range spec.Endpoints {
		digests = append(digests, endpointDigest{
			Path:           e.Path,
			Method:         e.Method,
			Parameters:     e.Parameters,
			RequestBody:    e.RequestBody,
			ResponseSchema: e.ResponseSchema,
		})
	}
	return fill(typesUserPrompt, "endpoints", indentJSON(digests))
}

func endpointSummary(spec *types.APISpecification) string {
	var b strings.Builder
	for _, e := range spec.Endpoints {
		fmt.Fprintf(&b, "- %s %s: %s\n", e.Method, e.Path, e.Description)
	}
	return b.String()
}

// truncate returns at most limit bytes of s without splitting a UTF-8 sequence.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && limit < len(s) && s[limit]&0xC0 == 0x80 {
		limit--
	}
	return s[:limit]
}
