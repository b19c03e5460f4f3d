// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// HTTPMethod is an HTTP verb supported by generated clients.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodDelete HTTPMethod = "DELETE"
	MethodPatch  HTTPMethod = "PATCH"
)

// HTTPMethods lists the supported methods.
var HTTPMethods = []HTTPMethod{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch}

// Valid reports whether m is a supported method.
func (m HTTPMethod) Valid() bool {
	for _, method := range HTTPMethods {
		if m == method {
			return true
		}
	}
	return false
}

// ParameterLocation is where a parameter travels in the request.
type ParameterLocation string

const (
	LocationQuery  ParameterLocation = "query"
	LocationPath   ParameterLocation = "path"
	LocationHeader ParameterLocation = "header"
	LocationBody   ParameterLocation = "body"
)

// Valid reports whether l is a supported location.
func (l ParameterLocation) Valid() bool {
	switch l {
	case LocationQuery, LocationPath, LocationHeader, LocationBody:
		return true
	}
	return false
}

// MinDescriptionLength is the shortest accepted endpoint description.
const MinDescriptionLength = 10

// pathParamPattern matches {name} placeholders in an endpoint path.
var pathParamPattern = regexp.MustCompile(`\{(\w+)\}`)

// Parameter represents one request parameter.
type Parameter struct {
	// Name is the parameter name
	Name string `json:"name" yaml:"name"`

	// Kind is the parameter data type
	Kind SchemaKind `json:"type" yaml:"type"`

	// Required indicates whether the caller must supply the parameter
	Required bool `json:"required" yaml:"required"`

	// Location is where the parameter is sent (query, path, header, body)
	Location ParameterLocation `json:"location" yaml:"location"`

	// Description is a brief description of the parameter
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// DefaultValue is used when the caller omits the parameter
	DefaultValue any `json:"default_value,omitempty" yaml:"default_value,omitempty"`

	// Example is an example value
	Example any `json:"example,omitempty" yaml:"example,omitempty"`
}

// Validate checks the parameter on its own. Name uniqueness is checked by the owning Endpoint.
func (p Parameter) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, invalid("parameter", "name", nil, "must not be empty"))
	}
	if !p.Kind.Valid() {
		errs = append(errs, invalid("parameter", "type", string(p.Kind), "must be one of string, number, boolean, array, object"))
	}
	if !p.Location.Valid() {
		errs = append(errs, invalid("parameter", "location", string(p.Location), "must be one of query, path, header, body"))
	}
	return errs.orNil()
}

// Endpoint represents one documented API operation.
type Endpoint struct {
	// Path is the URL path relative to the base URL (e.g., "/users/{id}")
	Path string `json:"path" yaml:"path"`

	// Method is the HTTP method
	Method HTTPMethod `json:"method" yaml:"method"`

	// Description explains what the endpoint does
	Description string `json:"description" yaml:"description"`

	// Parameters are the request parameters, in documentation order
	Parameters []Parameter `json:"parameters" yaml:"parameters"`

	// RequestBody describes the request payload, if any
	RequestBody *Schema `json:"request_body,omitempty" yaml:"request_body,omitempty"`

	// ResponseSchema describes the success response
	ResponseSchema *Schema `json:"response_schema" yaml:"response_schema"`

	// AuthRequired indicates whether the endpoint needs credentials
	AuthRequired bool `json:"auth_required" yaml:"auth_required"`

	// RateLimit is free-text rate limit information
	RateLimit string `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`

	// ConfidenceScore is the extraction quality score in [0,1]
	ConfidenceScore float64 `json:"confidence_score" yaml:"confidence_score"`
}

// endpointAlias drops Endpoint's methods so decoding does not recurse.
type endpointAlias Endpoint

func defaultEndpoint() endpointAlias {
	return endpointAlias{AuthRequired: true, ConfidenceScore: 1.0}
}

// UnmarshalJSON applies field defaults before decoding.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	aux := defaultEndpoint()
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Endpoint(aux)
	return nil
}

// UnmarshalYAML applies field defaults before decoding.
func (e *Endpoint) UnmarshalYAML(value *yaml.Node) error {
	aux := defaultEndpoint()
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*e = Endpoint(aux)
	return nil
}

// NewEndpoint canonicalizes the method and validates every invariant of e.
func NewEndpoint(e Endpoint) (Endpoint, error) {
	e.Method = HTTPMethod(strings.ToUpper(string(e.Method)))
	if err := e.Validate(); err != nil {
		return Endpoint{}, err
	}
	return e, nil
}

// Validate checks the endpoint's fields and the cross-field path parameter invariant.
func (e Endpoint) Validate() error {
	var errs ValidationErrors

	if !strings.HasPrefix(e.Path, "/") {
		errs = append(errs, invalid("endpoint", "path", e.Path, "must start with \"/\""))
	}
	if !e.Method.Valid() {
		errs = append(errs, invalid("endpoint", "method", string(e.Method), "must be one of GET, POST, PUT, DELETE, PATCH"))
	}
	if len(e.Description) < MinDescriptionLength {
		errs = append(errs, invalid("endpoint", "description", e.Description, "must be at least %d characters", MinDescriptionLength))
	}
	if e.ConfidenceScore < 0 || e.ConfidenceScore > 1 {
		errs = append(errs, invalid("endpoint", "confidence_score", e.ConfidenceScore, "must be between 0 and 1"))
	}

	seen := make(map[string]bool, len(e.Parameters))
	for _, p := range e.Parameters {
		if err := p.Validate(); err != nil {
			errs = append(errs, flatten(err)...)
			continue
		}
		if seen[p.Name] {
			errs = append(errs, invalid("endpoint", "parameters", p.Name, "duplicate parameter name"))
		}
		seen[p.Name] = true
	}

	if e.RequestBody != nil {
		if err := e.RequestBody.Validate(); err != nil {
			errs = append(errs, flatten(err)...)
		}
	}
	if e.ResponseSchema == nil {
		errs = append(errs, invalid("endpoint", "response_schema", nil, "is required"))
	} else if err := e.ResponseSchema.Validate(); err != nil {
		errs = append(errs, flatten(err)...)
	}

	if err := e.checkPathParameters(); err != nil {
		errs = append(errs, err)
	}

	return errs.orNil()
}

// checkPathParameters requires the {name} placeholders in the path to match the
// declared path parameters exactly.
func (e Endpoint) checkPathParameters() *ValidationError {
	inPath := make(map[string]bool)
	for _, name := range PathParameterNames(e.Path) {
		inPath[name] = true
	}
	declared := make(map[string]bool)
	for _, p := range e.PathParameters() {
		declared[p.Name] = true
	}

	var missing, extra []string
	for name := range inPath {
		if !declared[name] {
			missing = append(missing, name)
		}
	}
	for name := range declared {
		if !inPath[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	switch {
	case len(missing) > 0:
		return invalid("endpoint", "parameters", e.Path, "path parameters missing from parameter list: %s", strings.Join(missing, ", "))
	case len(extra) > 0:
		return invalid("endpoint", "parameters", e.Path, "path parameters declared but not in path: %s", strings.Join(extra, ", "))
	}
	return nil
}

// PathParameters returns the parameters located in the path.
func (e Endpoint) PathParameters() []Parameter {
	return e.ParametersIn(LocationPath)
}

// ParametersIn returns the parameters declared at the given location, in order.
func (e Endpoint) ParametersIn(loc ParameterLocation) []Parameter {
	var params []Parameter
	for _, p := range e.Parameters {
		if p.Location == loc {
			params = append(params, p)
		}
	}
	return params
}

// Key returns the "METHOD /path" identity of the endpoint.
func (e Endpoint) Key() string {
	return string(e.Method) + " " + e.Path
}

// PathParameterNames extracts the {name} placeholders from path, in order of appearance.
func PathParameterNames(path string) []string {
	matches := pathParamPattern.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// flatten turns a ValidationErrors or single ValidationError into a slice.
func flatten(err error) ValidationErrors {
	switch e := err.(type) {
	case ValidationErrors:
		return e
	case *ValidationError:
		return ValidationErrors{e}
	}
	return ValidationErrors{{Message: err.Error()}}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
