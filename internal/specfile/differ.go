// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package specfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new item was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates an item was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeModified indicates an item was modified.
	DiffTypeModified DiffType = "modified"
)

// EndpointChange represents a change to an endpoint.
type EndpointChange struct {
	Type   DiffType
	Method types.HTTPMethod
	Path   string

	// Details lists what changed on a modified endpoint
	Details []string

	// Breaking is set when existing callers of the generated SDK could fail
	Breaking bool
}

// FieldChange represents a change to a specification-level field.
type FieldChange struct {
	Type     DiffType
	Field    string
	Old      string
	New      string
	Breaking bool
}

// DiffResult contains the differences between two specifications.
type DiffResult struct {
	// EndpointChanges contains all endpoint changes.
	EndpointChanges []EndpointChange

	// FieldChanges contains changes to the API name, base URL, auth type and headers.
	FieldChanges []FieldChange

	// HasBreakingChanges indicates if any breaking changes were detected.
	HasBreakingChanges bool

	// Summary provides a human-readable summary of changes.
	Summary string
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.EndpointChanges) == 0 && len(d.FieldChanges) == 0
}

// Differ compares two specifications.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares two specifications and returns the differences. Either may be nil.
func (d *Differ) Diff(a, b *types.APISpecification) *DiffResult {
	if a == nil {
		a = &types.APISpecification{}
	}
	if b == nil {
		b = &types.APISpecification{}
	}

	result := &DiffResult{
		EndpointChanges: []EndpointChange{},
		FieldChanges:    []FieldChange{},
	}

	d.diffFields(a, b, result)
	d.diffEndpoints(a, b, result)

	result.HasBreakingChanges = d.detectBreakingChanges(result)
	result.Summary = d.generateSummary(result)

	return result
}

func (d *Differ) diffFields(a, b *types.APISpecification, result *DiffResult) {
	fields := []struct {
		name     string
		old, new string
		breaking bool
	}{
		{"api_name", a.APIName, b.APIName, false},
		{"base_url", a.BaseURL, b.BaseURL, true},
		{"auth_type", string(a.AuthType), string(b.AuthType), true},
	}
	for _, f := range fields {
		if f.old != f.new {
			result.FieldChanges = append(result.FieldChanges, FieldChange{
				Type:     DiffTypeModified,
				Field:    f.name,
				Old:      f.old,
				New:      f.new,
				Breaking: f.breaking,
			})
		}
	}

	for _, name := range a.HeaderNames() {
		if _, ok := b.GlobalHeaders[name]; !ok {
			result.FieldChanges = append(result.FieldChanges, FieldChange{
				Type: DiffTypeRemoved, Field: "global_headers." + name, Old: a.GlobalHeaders[name],
			})
		} else if a.GlobalHeaders[name] != b.GlobalHeaders[name] {
			result.FieldChanges = append(result.FieldChanges, FieldChange{
				Type: DiffTypeModified, Field: "global_headers." + name, Old: a.GlobalHeaders[name], New: b.GlobalHeaders[name],
			})
		}
	}
	for _, name := range b.HeaderNames() {
		if _, ok := a.GlobalHeaders[name]; !ok {
			result.FieldChanges = append(result.FieldChanges, FieldChange{
				Type: DiffTypeAdded, Field: "global_headers." + name, New: b.GlobalHeaders[name],
			})
		}
	}
}

// diffEndpoints compares endpoints by (method, path).
func (d *Differ) diffEndpoints(a, b *types.APISpecification, result *DiffResult) {
	for _, ae := range a.Endpoints {
		be, exists := b.Endpoint(ae.Method, ae.Path)
		if !exists {
			result.EndpointChanges = append(result.EndpointChanges, EndpointChange{
				Type:     DiffTypeRemoved,
				Method:   ae.Method,
				Path:     ae.Path,
				Breaking: true,
			})
			continue
		}
		if details, breaking := d.endpointModified(ae, be); len(details) > 0 {
			result.EndpointChanges = append(result.EndpointChanges, EndpointChange{
				Type:     DiffTypeModified,
				Method:   ae.Method,
				Path:     ae.Path,
				Details:  details,
				Breaking: breaking,
			})
		}
	}

	for _, be := range b.Endpoints {
		if _, exists := a.Endpoint(be.Method, be.Path); !exists {
			result.EndpointChanges = append(result.EndpointChanges, EndpointChange{
				Type:   DiffTypeAdded,
				Method: be.Method,
				Path:   be.Path,
			})
		}
	}
}

// endpointModified lists the differences between two versions of one endpoint.
func (d *Differ) endpointModified(a, b types.Endpoint) (details []string, breaking bool) {
	if a.Description != b.Description {
		details = append(details, "description changed")
	}
	if a.AuthRequired != b.AuthRequired {
		details = append(details, fmt.Sprintf("auth_required changed from %t to %t", a.AuthRequired, b.AuthRequired))
	}
	if a.RateLimit != b.RateLimit {
		details = append(details, "rate limit changed")
	}

	aParams := make(map[string]types.Parameter, len(a.Parameters))
	for _, p := range a.Parameters {
		aParams[p.Name] = p
	}
	bParams := make(map[string]types.Parameter, len(b.Parameters))
	for _, p := range b.Parameters {
		bParams[p.Name] = p
	}

	for _, p := range a.Parameters {
		bp, ok := bParams[p.Name]
		switch {
		case !ok:
			details = append(details, "parameter removed: "+p.Name)
			breaking = true
		case bp.Kind != p.Kind:
			details = append(details, fmt.Sprintf("parameter %s type changed from %s to %s", p.Name, p.Kind, bp.Kind))
			breaking = true
		case bp.Location != p.Location:
			details = append(details, fmt.Sprintf("parameter %s moved from %s to %s", p.Name, p.Location, bp.Location))
			breaking = true
		case bp.Required && !p.Required:
			details = append(details, fmt.Sprintf("parameter %s is now required", p.Name))
			breaking = true
		case !bp.Required && p.Required:
			details = append(details, fmt.Sprintf("parameter %s is now optional", p.Name))
		}
	}
	for _, p := range b.Parameters {
		if _, ok := aParams[p.Name]; ok {
			continue
		}
		if p.Required {
			details = append(details, "required parameter added: "+p.Name)
			breaking = true
		} else {
			details = append(details, "optional parameter added: "+p.Name)
		}
	}

	switch {
	case a.RequestBody == nil && b.RequestBody != nil:
		details = append(details, "request body added")
		breaking = true
	case a.RequestBody != nil && b.RequestBody == nil:
		details = append(details, "request body removed")
	case a.RequestBody != nil && schemaChanged(a.RequestBody, b.RequestBody):
		details = append(details, "request body changed")
	}

	if schemaChanged(a.ResponseSchema, b.ResponseSchema) {
		details = append(details, "response schema changed")
		if kindOf(a.ResponseSchema) != kindOf(b.ResponseSchema) {
			breaking = true
		}
	}

	return details, breaking
}

func kindOf(s *types.Schema) types.SchemaKind {
	if s == nil {
		return ""
	}
	return s.Kind
}

// schemaChanged compares kinds and property names, recursing into array items.
func schemaChanged(a, b *types.Schema) bool {
	if a == nil || b == nil {
		return a != b
	}
	if a.Kind != b.Kind {
		return true
	}
	if strings.Join(a.PropertyNames(), ",") != strings.Join(b.PropertyNames(), ",") {
		return true
	}
	return schemaChanged(a.Items, b.Items)
}

// detectBreakingChanges checks if any changes are breaking.
func (d *Differ) detectBreakingChanges(result *DiffResult) bool {
	for _, change := range result.EndpointChanges {
		if change.Breaking {
			return true
		}
	}
	for _, change := range result.FieldChanges {
		if change.Breaking {
			return true
		}
	}
	return false
}

// generateSummary creates a human-readable summary of changes.
func (d *Differ) generateSummary(result *DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected"
	}

	added, removed, modified := 0, 0, 0
	for _, c := range result.EndpointChanges {
		switch c.Type {
		case DiffTypeAdded:
			added++
		case DiffTypeRemoved:
			removed++
		case DiffTypeModified:
			modified++
		}
	}

	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d endpoint(s) added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d endpoint(s) removed", removed))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d endpoint(s) modified", modified))
	}
	if n := len(result.FieldChanges); n > 0 {
		parts = append(parts, fmt.Sprintf("%d field(s) changed", n))
	}

	summary := strings.Join(parts, ", ")
	if result.HasBreakingChanges {
		summary += " [BREAKING CHANGES DETECTED]"
	}
	return summary
}

// FormatDiff returns a formatted string representation of the diff.
func FormatDiff(result *DiffResult) string {
	if result.IsEmpty() {
		return "No differences found."
	}

	var sb strings.Builder

	sb.WriteString("=== Specification Diff ===\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n")

	if len(result.FieldChanges) > 0 {
		sb.WriteString("\n--- Field Changes ---\n")
		for _, c := range result.FieldChanges {
			switch c.Type {
			case DiffTypeAdded:
				fmt.Fprintf(&sb, "+ %s: %q\n", c.Field, c.New)
			case DiffTypeRemoved:
				fmt.Fprintf(&sb, "- %s: %q\n", c.Field, c.Old)
			default:
				fmt.Fprintf(&sb, "~ %s: %q -> %q\n", c.Field, c.Old, c.New)
			}
		}
	}

	if len(result.EndpointChanges) > 0 {
		sb.WriteString("\n--- Endpoint Changes ---\n")

		// Sort changes for deterministic output
		changes := make([]EndpointChange, len(result.EndpointChanges))
		copy(changes, result.EndpointChanges)
		sort.SliceStable(changes, func(i, j int) bool {
			if changes[i].Path != changes[j].Path {
				return changes[i].Path < changes[j].Path
			}
			return changes[i].Method < changes[j].Method
		})

		for _, c := range changes {
			symbol := "  "
			switch c.Type {
			case DiffTypeAdded:
				symbol = "+ "
			case DiffTypeRemoved:
				symbol = "- "
			case DiffTypeModified:
				symbol = "~ "
			}
			fmt.Fprintf(&sb, "%s%s %s\n", symbol, c.Method, c.Path)
			for _, detail := range c.Details {
				fmt.Fprintf(&sb, "    %s\n", detail)
			}
		}
	}

	return sb.String()
}
