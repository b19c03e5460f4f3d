// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

// DocumentType classifies a piece of documentation.
type DocumentType string

const (
	DocumentAPIReference DocumentType = "api_reference"
	DocumentGuide        DocumentType = "guide"
	DocumentSetup        DocumentType = "setup_instructions"
	DocumentMixed        DocumentType = "mixed"
)

// EndpointSummary is a short description of an endpoint spotted during analysis.
type EndpointSummary struct {
	Method      string `json:"method" yaml:"method"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
}

// EndpointsFound groups the endpoints spotted during analysis.
type EndpointsFound struct {
	Count int               `json:"count" yaml:"count"`
	List  []EndpointSummary `json:"list" yaml:"list"`
}

// NavigationDetection reports hints that more endpoints live elsewhere.
type NavigationDetection struct {
	HasMoreEndpoints bool     `json:"has_more_endpoints" yaml:"has_more_endpoints"`
	OtherSections    []string `json:"other_sections" yaml:"other_sections"`
	ReferenceURLs    []string `json:"reference_urls" yaml:"reference_urls"`
}

// DocumentationAnalysis is a pre-extraction assessment of documentation.
type DocumentationAnalysis struct {
	// DocumentType is the kind of documentation provided
	DocumentType DocumentType `json:"document_type" yaml:"document_type"`

	// EndpointsFound lists the endpoints spotted in the text
	EndpointsFound EndpointsFound `json:"endpoints_found" yaml:"endpoints_found"`

	// IsCompleteAPI indicates whether the text looks like a complete API reference
	IsCompleteAPI bool `json:"is_complete_api" yaml:"is_complete_api"`

	// APIName is the detected API name
	APIName string `json:"api_name,omitempty" yaml:"api_name,omitempty"`

	// BaseURL is the detected base URL
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// NavigationDetected reports links to other reference pages
	NavigationDetected NavigationDetection `json:"navigation_detected" yaml:"navigation_detected"`

	// UserMessage is a short explanation for the user
	UserMessage string `json:"user_message" yaml:"user_message"`

	// Recommendations are suggested next steps
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}
