// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package confidence scores how complete and unambiguous an extracted specification is.
// Scores are advisory: they never block generation.
package confidence

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// Score adjustments for endpoints and specifications.
const (
	shortDescriptionPenalty = 0.10
	ambiguousWordPenalty    = 0.20
	noParametersPenalty     = 0.15
	paramDescriptionPenalty = 0.05
	paramExamplePenalty     = 0.03
	responseExampleAdjust   = 0.10
	rateLimitBonus          = 0.05
	minDescriptionLength    = 20
	specMissingBaseURL      = 0.30
	specNoAuthPenalty       = 0.10
	specUnclearMetadata     = 0.20
	specNoEndpointsPenalty  = 0.50
	specOwnWeight           = 0.3
	specEndpointWeight      = 0.7
	specHeadersBonus        = 0.05
	specMetadataBonus       = 0.05
)

// Level thresholds.
const (
	CompleteThreshold     = 0.90
	ReviewNeededThreshold = 0.70
)

// ScoreEndpoint scores a single endpoint in [0,1]. All adjustments are applied before
// the result is clamped once.
func ScoreEndpoint(e types.Endpoint) float64 {
	score := 1.0

	if len(e.Description) < minDescriptionLength {
		score -= shortDescriptionPenalty
	}
	desc := strings.ToLower(e.Description)
	if strings.Contains(desc, "unclear") || strings.Contains(desc, "todo") {
		score -= ambiguousWordPenalty
	}

	if len(e.Parameters) == 0 {
		score -= noParametersPenalty
	}
	for _, p := range e.Parameters {
		if p.Description == "" {
			score -= paramDescriptionPenalty
		}
		if p.Example == nil && p.DefaultValue == nil {
			score -= paramExamplePenalty
		}
	}

	if e.ResponseSchema.HasExample() {
		score += responseExampleAdjust
	} else {
		score -= responseExampleAdjust
	}

	if e.RateLimit != "" {
		score += rateLimitBonus
	}

	return clamp(score)
}

// ScoreSpecification scores a whole specification in [0,1], blending its own
// completeness with the mean endpoint score.
func ScoreSpecification(spec *types.APISpecification) float64 {
	if spec == nil {
		return 0
	}
	score := 1.0

	if spec.BaseURL == "" {
		score -= specMissingBaseURL
	}
	if spec.AuthType == types.AuthNone {
		score -= specNoAuthPenalty
	}
	if strings.Contains(strings.ToLower(serialize(spec.Metadata)), "unclear") {
		score -= specUnclearMetadata
	}

	if len(spec.Endpoints) > 0 {
		var total float64
		for _, e := range spec.Endpoints {
			total += ScoreEndpoint(e)
		}
		avg := total / float64(len(spec.Endpoints))
		score = score*specOwnWeight + avg*specEndpointWeight
	} else {
		score -= specNoEndpointsPenalty
	}

	if len(spec.GlobalHeaders) > 0 {
		score += specHeadersBonus
	}
	if len(spec.Metadata) > 0 {
		score += specMetadataBonus
	}

	return clamp(score)
}

// serialize renders metadata as text for substring checks.
func serialize(metadata map[string]any) string {
	if len(metadata) == 0 {
		return ""
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Sprint(metadata)
	}
	return string(data)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
