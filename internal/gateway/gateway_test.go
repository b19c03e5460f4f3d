// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateCost(t *testing.T) {
	cost := EstimateCost(strings.Repeat("x", 4000), DefaultCostMultiplier)

	assert.Equal(t, 1000, cost.Tokens)
	assert.InDelta(t, 0.025, cost.Extraction, 1e-9)
	assert.InDelta(t, 0.05, cost.Generation, 1e-9)
	assert.InDelta(t, 0.075, cost.Total(), 1e-9)
}

func TestEstimateCost_Multiplier(t *testing.T) {
	cost := EstimateCost(strings.Repeat("x", 4000), 3)
	assert.InDelta(t, 0.075, cost.Generation, 1e-9)

	empty := EstimateCost("", DefaultCostMultiplier)
	assert.Zero(t, empty.Tokens)
	assert.Zero(t, empty.Total())
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"typescript fence", "Here you go:\n```typescript\nconst x = 1;\n```\nDone.", "const x = 1;"},
		{"bare fence", "```\nconst x = 1;\n```", "const x = 1;"},
		{"unterminated", "```ts\nconst x = 1;", "const x = 1;"},
		{"only opening", "```", ""},
		{"surrounding space", "  \n const x = 1; \n", "const x = 1;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   Kind
	}{
		{401, "", KindAuth},
		{403, "", KindAuth},
		{429, `{"error":{"message":"slow down"}}`, KindRateLimited},
		{429, `{"error":{"message":"You exceeded your current Quota"}}`, KindQuota},
		{408, "", KindTimeout},
		{504, "", KindTimeout},
		{502, "", KindConnection},
		{503, "", KindConnection},
		{500, "", KindServer},
		{400, "", KindUnknown},
		{404, "", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, classifyStatus(tt.status, []byte(tt.body)))
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestClassifyTransport(t *testing.T) {
	assert.Equal(t, KindUnknown, classifyTransport(fmt.Errorf("do: %w", context.Canceled)))
	assert.Equal(t, KindTimeout, classifyTransport(fmt.Errorf("do: %w", context.DeadlineExceeded)))
	assert.Equal(t, KindTimeout, classifyTransport(timeoutError{}))
	assert.Equal(t, KindConnection, classifyTransport(errors.New("connection refused")))
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("bad key")
	err := &UpstreamError{Op: OpExtract, Kind: KindAuth, StatusCode: 401, Err: cause}

	assert.Equal(t, "extract: auth (HTTP 401): bad key", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.Retryable())

	noStatus := &UpstreamError{Op: OpTypes, Kind: KindConnection, Err: cause}
	assert.Equal(t, "generate types: connection: bad key", noStatus.Error())
	assert.True(t, noStatus.Retryable())

	wrapped := fmt.Errorf("pipeline: %w", noStatus)
	assert.True(t, IsRetryable(wrapped))
	assert.Equal(t, KindConnection, KindOf(wrapped))

	assert.False(t, IsRetryable(cause))
	assert.Equal(t, KindUnknown, KindOf(cause))
}

func TestUpstreamError_Retryable(t *testing.T) {
	retryable := map[Kind]bool{
		KindTimeout:     true,
		KindRateLimited: true,
		KindConnection:  true,
		KindAuth:        false,
		KindQuota:       false,
		KindMalformed:   false,
		KindServer:      false,
		KindUnknown:     false,
	}
	for kind, want := range retryable {
		err := &UpstreamError{Kind: kind, Err: errors.New("x")}
		assert.Equal(t, want, err.Retryable(), kind)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abc", 2))
	// "é" is two bytes; cutting in the middle backs off to the rune start
	assert.Equal(t, "a", truncate("aé", 2))
}

func TestFill(t *testing.T) {
	got := fill("{a} and {b}, not {c}", "a", "x", "b", "{a}")
	assert.Equal(t, "x and {a}, not {c}", got)
}

func TestMethodPrompt(t *testing.T) {
	spec := sampleSpec()
	prompt := methodPrompt(spec.Endpoints[0], spec)

	assert.Contains(t, prompt, "Base URL: https://api.example.com/v1")
	assert.Contains(t, prompt, "Authentication: bearer")
	assert.Contains(t, prompt, "Method: GET")
	assert.Contains(t, prompt, "Path: /users/{id}")
	assert.Contains(t, prompt, `"name": "limit"`)
	assert.Contains(t, prompt, "Request body: null")
}

func TestTypesPrompt(t *testing.T) {
	prompt := typesPrompt(sampleSpec())
	require.Contains(t, prompt, `"path": "/users/{id}"`)
	assert.Contains(t, prompt, `"path": "/users"`)
	assert.NotContains(t, prompt, "{endpoints}")
}
