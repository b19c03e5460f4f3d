// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"encoding/json"
	"fmt"
)

// DecodeSpecification converts a normalized extraction payload into a validated
// APISpecification. Decoding failures (wrong JSON types) and invariant violations
// are both returned as errors; invariant violations are ValidationErrors.
func DecodeSpecification(payload map[string]any) (*APISpecification, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	var spec APISpecification
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("payload does not match the specification model: %w", err)
	}

	return NewAPISpecification(spec)
}
