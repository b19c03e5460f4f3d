// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package gateway is the boundary to the extraction and code generation backends.
//
// A Gateway turns documentation text into a raw specification payload and produces the
// generated fragments of an SDK. Backends are unreliable by nature: every failure is an
// *UpstreamError whose Kind tells the caller whether a retry can help.
package gateway

import (
	"context"
	"io"
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// Gateway is implemented by every extraction backend.
type Gateway interface {
	// Extract returns the raw specification payload found in documentation. The payload
	// still has to be normalized and decoded.
	Extract(ctx context.Context, documentation string) (map[string]any, error)

	// GenerateEndpointMethod returns the TypeScript client method for one endpoint.
	GenerateEndpointMethod(ctx context.Context, endpoint types.Endpoint, spec *types.APISpecification) (string, error)

	// GenerateTypeDefinitions returns the contents of the types module.
	GenerateTypeDefinitions(ctx context.Context, spec *types.APISpecification) (string, error)

	// EstimateCost estimates what processing documentation costs.
	EstimateCost(documentation string) Cost
}

// Analyzer is implemented by backends that can assess documentation before extraction.
type Analyzer interface {
	AnalyzeDocumentation(ctx context.Context, documentation string) (*types.DocumentationAnalysis, error)
}

// KeyValidator is implemented by backends that authenticate with an API key.
type KeyValidator interface {
	ValidateAPIKey(ctx context.Context) error
}

// UsageWriter is implemented by backends that can write the README usage section.
type UsageWriter interface {
	GenerateUsageExamples(ctx context.Context, spec *types.APISpecification, packageName string) (string, error)
}

// Logger receives diagnostic output. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// DiscardLogger drops everything.
var DiscardLogger Logger = log.New(io.Discard, "", 0)

// DefaultCostMultiplier scales the extraction estimate into a generation estimate.
const DefaultCostMultiplier = 2.0

// Pricing per 1000 tokens, in USD.
const (
	inputPricePer1K  = 0.01
	outputPricePer1K = 0.03
	outputRatio      = 0.5
	charsPerToken    = 4
)

// Cost is an estimate in USD.
type Cost struct {
	Tokens     int
	Extraction float64
	Generation float64
}

// Total is the estimated cost of extraction plus generation.
func (c Cost) Total() float64 {
	return round4(c.Extraction + c.Generation)
}

// EstimateCost estimates the cost of processing text: about four characters per token,
// output assumed to be half the input, generation scaled by multiplier.
func EstimateCost(text string, multiplier float64) Cost {
	tokens := len(text) / charsPerToken

	input := float64(tokens) / 1000 * inputPricePer1K
	output := float64(tokens) * outputRatio / 1000 * outputPricePer1K
	extraction := round4(input + output)

	return Cost{
		Tokens:     tokens,
		Extraction: extraction,
		Generation: round4(extraction * multiplier),
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

var fencePattern = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*?)```")

// StripCodeFence returns the body of the first fenced code block in s, or s itself
// when it has none. The result is trimmed.
func StripCodeFence(s string) string {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	s = strings.TrimSpace(s)
	// unterminated fence: drop the opening line
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			return strings.TrimSpace(s[i+1:])
		}
		return ""
	}
	return s
}
