// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/api2spec/docs2sdk/internal/util"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// Defaults for HTTPGateway.
const (
	DefaultBaseURL       = "https://api.openai.com/v1"
	DefaultModel         = "gpt-4-turbo"
	DefaultAnalysisModel = "gpt-4o-mini"
	DefaultTimeout       = 120 * time.Second
	DefaultTemperature   = 0.2
	DefaultMaxTokens     = 16000

	analysisTemperature = 0.3
	analysisMaxTokens   = 2000
	maxResponseBytes    = 8 << 20
	userAgent           = "docs2sdk"
)

// Operation names reported in UpstreamError.Op.
const (
	OpExtract  = "extract"
	OpMethod   = "generate method"
	OpTypes    = "generate types"
	OpUsage    = "generate usage"
	OpAnalyze  = "analyze"
	OpValidate = "validate key"
)

// HTTPGateway talks to an OpenAI-compatible chat completions API.
type HTTPGateway struct {
	apiKey         string
	baseURL        string
	model          string
	analysisModel  string
	temperature    float64
	maxTokens      int
	costMultiplier float64
	httpClient     *http.Client
	retry          RetryPolicy
	logger         Logger
}

var (
	_ Gateway      = (*HTTPGateway)(nil)
	_ Analyzer     = (*HTTPGateway)(nil)
	_ KeyValidator = (*HTTPGateway)(nil)
	_ UsageWriter  = (*HTTPGateway)(nil)
)

// Option configures an HTTPGateway.
type Option func(g *HTTPGateway)

// WithBaseURL sets the API root, e.g. https://api.openai.com/v1.
func WithBaseURL(baseURL string) Option {
	return func(g *HTTPGateway) {
		g.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithModel sets the model used for extraction and generation.
func WithModel(model string) Option {
	return func(g *HTTPGateway) {
		g.model = model
	}
}

// WithAnalysisModel sets the model used for documentation analysis.
func WithAnalysisModel(model string) Option {
	return func(g *HTTPGateway) {
		g.analysisModel = model
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) {
		g.httpClient = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) {
		g.httpClient.Timeout = d
	}
}

// WithRetryPolicy replaces DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *HTTPGateway) {
		g.retry = p
	}
}

// WithCostMultiplier sets the generation cost multiplier.
func WithCostMultiplier(m float64) Option {
	return func(g *HTTPGateway) {
		g.costMultiplier = m
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l Logger) Option {
	return func(g *HTTPGateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithTrace dumps every request and response to the gateway logger.
func WithTrace() Option {
	return func(g *HTTPGateway) {
		prev := g.httpClient.Transport
		if prev == nil {
			prev = http.DefaultTransport
		}
		g.httpClient.Transport = &tracingRoundTripper{proxied: prev, gateway: g}
	}
}

// NewHTTPGateway creates a gateway authenticating with apiKey.
func NewHTTPGateway(apiKey string, opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		apiKey:         apiKey,
		baseURL:        DefaultBaseURL,
		model:          DefaultModel,
		analysisModel:  DefaultAnalysisModel,
		temperature:    DefaultTemperature,
		maxTokens:      DefaultMaxTokens,
		costMultiplier: DefaultCostMultiplier,
		httpClient:     &http.Client{Timeout: DefaultTimeout},
		retry:          DefaultRetryPolicy,
		logger:         DiscardLogger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// errorResponse is the error body returned by the API.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (g *HTTPGateway) chat(system, user string) chatRequest {
	return chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}
}

// Extract asks the model for the specification payload in JSON mode.
func (g *HTTPGateway) Extract(ctx context.Context, documentation string) (map[string]any, error) {
	req := g.chat(extractionSystemPrompt, fill(extractionUserPrompt, "documentation", documentation))
	req.ResponseFormat = &responseFormat{Type: "json_object"}

	content, err := g.complete(ctx, OpExtract, req)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &payload); err != nil {
		return nil, malformed(OpExtract, fmt.Errorf("response is not a JSON object: %w", err))
	}
	return payload, nil
}

// GenerateEndpointMethod asks the model for one client method.
func (g *HTTPGateway) GenerateEndpointMethod(ctx context.Context, endpoint types.Endpoint, spec *types.APISpecification) (string, error) {
	req := g.chat(methodSystemPrompt, methodPrompt(endpoint, spec))
	return g.completeCode(ctx, OpMethod, req)
}

// GenerateTypeDefinitions asks the model for the types module.
func (g *HTTPGateway) GenerateTypeDefinitions(ctx context.Context, spec *types.APISpecification) (string, error) {
	req := g.chat(methodSystemPrompt, typesPrompt(spec))
	return g.completeCode(ctx, OpTypes, req)
}

// GenerateUsageExamples asks the model for the README usage section.
func (g *HTTPGateway) GenerateUsageExamples(ctx context.Context, spec *types.APISpecification, packageName string) (string, error) {
	prompt := fill(usageUserPrompt,
		"api_name", spec.APIName,
		"class_name", util.ClassName(spec.APIName),
		"package_name", packageName,
		"base_url", spec.BaseURL,
		"auth_type", string(spec.AuthType),
		"endpoints", endpointSummary(spec),
	)
	content, err := g.complete(ctx, OpUsage, g.chat(usageSystemPrompt, prompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// AnalyzeDocumentation assesses a sample of the documentation with the analysis model.
func (g *HTTPGateway) AnalyzeDocumentation(ctx context.Context, documentation string) (*types.DocumentationAnalysis, error) {
	req := chatRequest{
		Model: g.analysisModel,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: fill(analysisUserPrompt, "documentation", truncate(documentation, analysisSampleLimit))},
		},
		Temperature:    analysisTemperature,
		MaxTokens:      analysisMaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	content, err := g.complete(ctx, OpAnalyze, req)
	if err != nil {
		return nil, err
	}

	var analysis types.DocumentationAnalysis
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &analysis); err != nil {
		return nil, malformed(OpAnalyze, fmt.Errorf("decode analysis: %w", err))
	}
	return &analysis, nil
}

// ValidateAPIKey checks the key by listing the available models.
func (g *HTTPGateway) ValidateAPIKey(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	_, err = g.do(OpValidate, req)
	return err
}

// EstimateCost estimates the cost of processing documentation.
func (g *HTTPGateway) EstimateCost(documentation string) Cost {
	return EstimateCost(documentation, g.costMultiplier)
}

func (g *HTTPGateway) completeCode(ctx context.Context, op string, req chatRequest) (string, error) {
	content, err := g.complete(ctx, op, req)
	if err != nil {
		return "", err
	}
	code := StripCodeFence(content)
	if code == "" {
		return "", malformed(op, errors.New("response contains no code"))
	}
	return code, nil
}

// complete sends a chat request under the retry policy and returns the first choice.
func (g *HTTPGateway) complete(ctx context.Context, op string, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", op, err)
	}

	var content string
	err = g.retry.Do(ctx, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		data, err := g.do(op, httpReq)
		if err != nil {
			if IsRetryable(err) {
				g.logger.Printf("%s: retryable failure: %v", op, err)
			}
			return err
		}

		var resp chatResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return malformed(op, fmt.Errorf("decode response: %w", err))
		}
		if len(resp.Choices) == 0 {
			return malformed(op, errors.New("response has no choices"))
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	return content, err
}

// do sends req and returns the body of a successful response. Failures are classified
// into UpstreamErrors.
func (g *HTTPGateway) do(op string, req *http.Request) (data []byte, err error) {
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: op, Kind: classifyTransport(err), Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{Op: op, Kind: classifyTransport(err), StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Op:         op,
			Kind:       classifyStatus(resp.StatusCode, data),
			StatusCode: resp.StatusCode,
			Err:        errors.New(errorMessage(resp.StatusCode, data)),
		}
	}
	return data, nil
}

func errorMessage(status int, body []byte) string {
	var errRes errorResponse
	if err := json.Unmarshal(body, &errRes); err == nil && errRes.Error.Message != "" {
		return errRes.Error.Message
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "unknown error"
}

// tracingRoundTripper logs every request and response through the gateway logger.
type tracingRoundTripper struct {
	proxied http.RoundTripper
	gateway *HTTPGateway
}

func (t *tracingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := t.gateway.logger
	if dump, err := httputil.DumpRequestOut(req, true); err != nil {
		logger.Printf("error dumping request: %v", err)
	} else {
		logger.Printf("HTTP Request:\n%s", redact(string(dump), t.gateway.apiKey))
	}

	res, err := t.proxied.RoundTrip(req)
	if err != nil {
		logger.Printf("error during round trip: %v", err)
		return nil, err
	}

	if dump, err := httputil.DumpResponse(res, true); err != nil {
		logger.Printf("error dumping response: %v", err)
	} else {
		logger.Printf("HTTP Response:\n%s", string(dump))
	}
	return res, nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "[REDACTED]")
}
