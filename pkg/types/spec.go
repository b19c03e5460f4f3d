// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"net/url"
	"strings"
)

// AuthType is the authentication scheme an API expects.
type AuthType string

const (
	AuthAPIKey AuthType = "api_key"
	AuthOAuth2 AuthType = "oauth2"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthNone   AuthType = "none"
)

// Valid reports whether a is a supported authentication type.
func (a AuthType) Valid() bool {
	switch a {
	case AuthAPIKey, AuthOAuth2, AuthBearer, AuthBasic, AuthNone:
		return true
	}
	return false
}

// APISpecification is the complete contract extracted from documentation.
// It owns its endpoints and their schemas.
type APISpecification struct {
	// APIName is the human-readable API name
	APIName string `json:"api_name" yaml:"api_name"`

	// BaseURL is the absolute base URL without a trailing slash
	BaseURL string `json:"base_url" yaml:"base_url"`

	// AuthType is the authentication scheme
	AuthType AuthType `json:"auth_type" yaml:"auth_type"`

	// GlobalHeaders are sent with every request
	GlobalHeaders map[string]string `json:"global_headers,omitempty" yaml:"global_headers,omitempty"`

	// Endpoints are the documented operations, in documentation order
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`

	// Metadata holds extraction provenance such as the detected API version
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewAPISpecification canonicalizes s (base URL, endpoint methods) and validates it.
func NewAPISpecification(s APISpecification) (*APISpecification, error) {
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")

	endpoints := make([]Endpoint, len(s.Endpoints))
	var errs ValidationErrors
	for i, e := range s.Endpoints {
		canonical, err := NewEndpoint(e)
		if err != nil {
			errs = append(errs, flatten(err)...)
			endpoints[i] = e
			continue
		}
		endpoints[i] = canonical
	}
	if len(errs) > 0 {
		return nil, errs
	}
	s.Endpoints = endpoints

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the specification and every endpoint it owns.
func (s *APISpecification) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(s.APIName) == "" {
		errs = append(errs, invalid("specification", "api_name", nil, "must not be empty"))
	}
	if !isAbsoluteURL(s.BaseURL) {
		errs = append(errs, invalid("specification", "base_url", s.BaseURL, "must be an absolute http(s) URL"))
	}
	if !s.AuthType.Valid() {
		errs = append(errs, invalid("specification", "auth_type", string(s.AuthType), "must be one of api_key, oauth2, bearer, basic, none"))
	}
	if len(s.Endpoints) == 0 {
		errs = append(errs, invalid("specification", "endpoints", nil, "at least one endpoint is required"))
	}

	seen := make(map[string]bool, len(s.Endpoints))
	for _, e := range s.Endpoints {
		if err := e.Validate(); err != nil {
			errs = append(errs, flatten(err)...)
		}
		if seen[e.Key()] {
			errs = append(errs, invalid("specification", "endpoints", nil, "duplicate endpoint: %s %s", e.Method, e.Path))
		}
		seen[e.Key()] = true
	}

	return errs.orNil()
}

// Endpoint returns the endpoint with the given method and path.
func (s *APISpecification) Endpoint(method HTTPMethod, path string) (Endpoint, bool) {
	method = HTTPMethod(strings.ToUpper(string(method)))
	for _, e := range s.Endpoints {
		if e.Method == method && e.Path == path {
			return e, true
		}
	}
	return Endpoint{}, false
}

// EndpointsByMethod returns the endpoints using method, in order.
func (s *APISpecification) EndpointsByMethod(method HTTPMethod) []Endpoint {
	method = HTTPMethod(strings.ToUpper(string(method)))
	var endpoints []Endpoint
	for _, e := range s.Endpoints {
		if e.Method == method {
			endpoints = append(endpoints, e)
		}
	}
	return endpoints
}

// HeaderNames returns the global header names in sorted order.
func (s *APISpecification) HeaderNames() []string {
	return sortedKeys(s.GlobalHeaders)
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
