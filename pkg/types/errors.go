// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"fmt"
	"strings"
)

// ValidationError reports a violated data model invariant.
type ValidationError struct {
	// Entity is the kind of value being constructed (schema, parameter, endpoint, ...)
	Entity string

	// Field is the offending field, using its wire name
	Field string

	// Value is the offending value, if any
	Value any

	// Message describes the violation
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("invalid %s: %s: %s (got %v)", e.Entity, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("invalid %s: %s: %s", e.Entity, e.Field, e.Message)
}

// ValidationErrors collects several violations found on the same value.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// orNil returns nil for an empty collection so callers can compare against nil.
func (e ValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func invalid(entity, field string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Entity:  entity,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}
