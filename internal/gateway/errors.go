// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies an upstream failure.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindRateLimited Kind = "rate_limited"
	KindConnection  Kind = "connection"
	KindAuth        Kind = "auth"
	KindQuota       Kind = "quota"
	KindMalformed   Kind = "malformed"
	KindServer      Kind = "server"
	KindUnknown     Kind = "unknown"
)

// UpstreamError is returned by every backend call that fails.
type UpstreamError struct {
	// Op is the gateway operation, e.g. "extract"
	Op string

	// Kind classifies the failure
	Kind Kind

	// StatusCode is the HTTP status, or 0 when no response was received
	StatusCode int

	// Err is the underlying error
	Err error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient. Authentication, quota and
// malformed-response failures never are.
func (e *UpstreamError) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindRateLimited, KindConnection:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is a transient upstream failure.
func IsRetryable(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Retryable()
	}
	return false
}

// KindOf returns the kind of an upstream failure, or KindUnknown.
func KindOf(err error) Kind {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Kind
	}
	return KindUnknown
}

func malformed(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Kind: KindMalformed, Err: err}
}

// classifyStatus maps an HTTP error status onto a Kind. body is consulted to tell
// a quota exhaustion apart from ordinary rate limiting.
func classifyStatus(status int, body []byte) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		if strings.Contains(strings.ToLower(string(body)), "quota") {
			return KindQuota
		}
		return KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		return KindConnection
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// classifyTransport maps an error returned by http.Client.Do onto a Kind.
func classifyTransport(err error) Kind {
	if errors.Is(err, context.Canceled) {
		return KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindConnection
}
