// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/internal/util"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// Offline is a deterministic backend that needs no network. Extract accepts structured
// documentation only: a specification payload or an OpenAPI 3 document, as JSON or YAML.
// Generated methods and types are scaffolding derived from the specification itself.
type Offline struct {
	// CostMultiplier scales generation estimates. Zero means DefaultCostMultiplier.
	CostMultiplier float64
}

var (
	_ Gateway     = (*Offline)(nil)
	_ Analyzer    = (*Offline)(nil)
	_ UsageWriter = (*Offline)(nil)
)

// Extract decodes structured documentation into a raw specification payload.
func (o *Offline) Extract(ctx context.Context, documentation string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := []byte(StripCodeFence(documentation))
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, malformed(OpExtract, fmt.Errorf("documentation is not structured JSON or YAML: %w", err))
	}
	if len(payload) == 0 {
		return nil, malformed(OpExtract, errors.New("documentation is empty"))
	}

	if _, ok := payload["openapi"]; ok {
		imported, err := openapi.Import(data)
		if err != nil {
			return nil, malformed(OpExtract, err)
		}
		return imported, nil
	}
	return payload, nil
}

// GenerateEndpointMethod writes a client method that validates required parameters and
// delegates to request.
func (o *Offline) GenerateEndpointMethod(ctx context.Context, e types.Endpoint, spec *types.APISpecification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := MethodNames(spec)[e.Key()]
	if name == "" {
		name = methodName(e)
	}
	base := pascal(name)
	hasParams := len(nonBodyParameters(e)) > 0
	hasBody := hasRequestBody(e)

	var args []string
	if hasParams {
		arg := "params: " + base + "Params"
		if !anyRequired(nonBodyParameters(e)) {
			arg += " = {}"
		}
		args = append(args, arg)
	}
	if hasBody {
		args = append(args, "body: "+base+"Request")
	}

	var b strings.Builder
	b.WriteString("  /**\n")
	fmt.Fprintf(&b, "   * %s\n", docLine(e.Description))
	fmt.Fprintf(&b, "   *\n   * %s %s\n", e.Method, e.Path)
	b.WriteString("   */\n")
	fmt.Fprintf(&b, "  async %s(%s): Promise<%sResponse> {\n", name, strings.Join(args, ", "), base)

	for _, p := range nonBodyParameters(e) {
		if p.Required {
			fmt.Fprintf(&b, "    this.requireParam(%s, %s);\n", access("params", p.Name), quote(p.Name))
		}
	}

	fmt.Fprintf(&b, "    const url = `${this.baseURL}%s`;\n", urlTemplate(e.Path))

	headers := e.ParametersIn(types.LocationHeader)
	if len(headers) > 0 {
		b.WriteString("    const headers: Record<string, string> = {};\n")
		for _, p := range headers {
			value := access("params", p.Name)
			fmt.Fprintf(&b, "    if (%s !== undefined) {\n", value)
			fmt.Fprintf(&b, "      headers[%s] = String(%s);\n", quote(p.Name), value)
			b.WriteString("    }\n")
		}
	}

	fmt.Fprintf(&b, "    return this.request<%sResponse>({\n", base)
	fmt.Fprintf(&b, "      method: '%s',\n", e.Method)
	b.WriteString("      url,\n")
	if query := e.ParametersIn(types.LocationQuery); len(query) > 0 {
		fields := make([]string, 0, len(query))
		for _, p := range query {
			fields = append(fields, fmt.Sprintf("%s: %s", key(p.Name), access("params", p.Name)))
		}
		fmt.Fprintf(&b, "      params: { %s },\n", strings.Join(fields, ", "))
	}
	if hasBody {
		b.WriteString("      data: body,\n")
	}
	if len(headers) > 0 {
		b.WriteString("      headers,\n")
	}
	b.WriteString("    });\n")
	b.WriteString("  }")
	return b.String(), nil
}

// GenerateTypeDefinitions writes the params, request and response types of every endpoint.
func (o *Offline) GenerateTypeDefinitions(ctx context.Context, spec *types.APISpecification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	names := MethodNames(spec)
	var blocks []string
	for _, e := range spec.Endpoints {
		base := pascal(names[e.Key()])

		if params := nonBodyParameters(e); len(params) > 0 {
			blocks = append(blocks, parameterInterface(base+"Params", "Parameters of "+e.Key()+".", params))
		}
		if hasRequestBody(e) {
			doc := "Request body of " + e.Key() + "."
			if e.RequestBody != nil {
				blocks = append(blocks, schemaDeclaration(base+"Request", doc, e.RequestBody))
			} else {
				blocks = append(blocks, parameterInterface(base+"Request", doc, e.ParametersIn(types.LocationBody)))
			}
		}
		blocks = append(blocks, schemaDeclaration(base+"Response", "Response of "+e.Key()+".", e.ResponseSchema))
	}

	return fmt.Sprintf("// Type definitions for the %s.\n\n%s\n", spec.APIName, strings.Join(blocks, "\n\n")), nil
}

// GenerateUsageExamples writes a README section with one call per endpoint.
func (o *Offline) GenerateUsageExamples(ctx context.Context, spec *types.APISpecification, packageName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	className := util.ClassName(spec.APIName)
	names := MethodNames(spec)

	var b strings.Builder
	b.WriteString("## Usage Examples\n\n")
	b.WriteString("```typescript\n")
	fmt.Fprintf(&b, "import { %s } from '%s';\n\n", className, packageName)
	if spec.AuthType == types.AuthNone {
		fmt.Fprintf(&b, "const client = new %s();\n", className)
	} else {
		fmt.Fprintf(&b, "const client = new %s({ apiKey: process.env.API_KEY });\n", className)
	}
	b.WriteString("```\n")

	for _, e := range spec.Endpoints {
		fmt.Fprintf(&b, "\n### %s\n\n%s\n\n", names[e.Key()], e.Description)
		b.WriteString("```typescript\n")
		fmt.Fprintf(&b, "const result = await client.%s(%s);\n", names[e.Key()], exampleArgs(e))
		b.WriteString("```\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

var (
	analysisEndpointPattern = regexp.MustCompile(`\b(GET|POST|PUT|DELETE|PATCH)\s+(/[^\s` + "`" + `'"<>),]*)`)
	analysisBaseURLPattern  = regexp.MustCompile(`https?://[^\s'"<>)\]]+`)
	setupWords              = []string{"install", "getting started", "quickstart", "setup"}
)

// AnalyzeDocumentation looks for "METHOD /path" lines and an absolute URL.
func (o *Offline) AnalyzeDocumentation(ctx context.Context, documentation string) (*types.DocumentationAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sample := truncate(documentation, analysisSampleLimit)
	analysis := &types.DocumentationAnalysis{
		EndpointsFound: types.EndpointsFound{List: []types.EndpointSummary{}},
		NavigationDetected: types.NavigationDetection{
			OtherSections: []string{},
			ReferenceURLs: []string{},
		},
		Recommendations: []string{},
	}

	seen := make(map[string]bool)
	for _, m := range analysisEndpointPattern.FindAllStringSubmatch(sample, -1) {
		k := m[1] + " " + m[2]
		if seen[k] {
			continue
		}
		seen[k] = true
		analysis.EndpointsFound.List = append(analysis.EndpointsFound.List, types.EndpointSummary{Method: m[1], Path: m[2]})
	}
	analysis.EndpointsFound.Count = len(analysis.EndpointsFound.List)

	if u := analysisBaseURLPattern.FindString(sample); u != "" {
		analysis.BaseURL = strings.TrimRight(u, "/.,;:")
	}

	lower := strings.ToLower(sample)
	setup := false
	for _, w := range setupWords {
		if strings.Contains(lower, w) {
			setup = true
			break
		}
	}

	count := analysis.EndpointsFound.Count
	switch {
	case count > 0 && setup:
		analysis.DocumentType = types.DocumentMixed
	case count > 0:
		analysis.DocumentType = types.DocumentAPIReference
	case setup:
		analysis.DocumentType = types.DocumentSetup
	default:
		analysis.DocumentType = types.DocumentGuide
	}
	analysis.IsCompleteAPI = count > 0 && len(documentation) <= analysisSampleLimit
	analysis.NavigationDetected.HasMoreEndpoints = len(documentation) > analysisSampleLimit

	switch count {
	case 0:
		analysis.UserMessage = "No endpoints were found in this documentation."
		analysis.Recommendations = append(analysis.Recommendations, "Provide the API reference section that lists the endpoints.")
	case 1:
		analysis.UserMessage = "Found 1 endpoint."
	default:
		analysis.UserMessage = fmt.Sprintf("Found %d endpoints.", count)
	}
	if analysis.BaseURL == "" {
		analysis.Recommendations = append(analysis.Recommendations, "State the base URL of the API.")
	}
	if analysis.NavigationDetected.HasMoreEndpoints {
		analysis.Recommendations = append(analysis.Recommendations, "Only the first part of the documentation was analyzed; split it into smaller files.")
	}
	return analysis, nil
}

// EstimateCost estimates the cost of processing documentation.
func (o *Offline) EstimateCost(documentation string) Cost {
	m := o.CostMultiplier
	if m == 0 {
		m = DefaultCostMultiplier
	}
	return EstimateCost(documentation, m)
}

// MethodNames returns the client method name of every endpoint keyed by Endpoint.Key.
// Colliding names get a numeric suffix in endpoint order.
func MethodNames(spec *types.APISpecification) map[string]string {
	names := make(map[string]string, len(spec.Endpoints))
	used := make(map[string]int)
	for _, e := range spec.Endpoints {
		name := methodName(e)
		used[name]++
		if n := used[name]; n > 1 {
			name += strconv.Itoa(n)
		}
		names[e.Key()] = name
	}
	return names
}

// methodName derives a name such as getUsersById from the method and path.
func methodName(e types.Endpoint) string {
	var statics, params []string
	for _, seg := range strings.Split(strings.Trim(e.Path, "/"), "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			params = append(params, strings.Trim(seg, "{}"))
			continue
		}
		if seg != "" {
			statics = append(statics, seg)
		}
	}

	words := append([]string{verb(e, len(params))}, statics...)
	for i, p := range params {
		if i == 0 {
			words = append(words, "by")
		} else {
			words = append(words, "and")
		}
		words = append(words, p)
	}
	return util.Identifier(words...)
}

func verb(e types.Endpoint, pathParams int) string {
	switch e.Method {
	case types.MethodGet:
		if e.ResponseSchema != nil && e.ResponseSchema.Kind == types.KindArray && !strings.HasSuffix(e.Path, "}") {
			return "list"
		}
		return "get"
	case types.MethodPost:
		return "create"
	case types.MethodPut:
		return "update"
	case types.MethodPatch:
		return "patch"
	case types.MethodDelete:
		return "delete"
	}
	return strings.ToLower(string(e.Method))
}

func pascal(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func nonBodyParameters(e types.Endpoint) []types.Parameter {
	var params []types.Parameter
	for _, p := range e.Parameters {
		if p.Location != types.LocationBody {
			params = append(params, p)
		}
	}
	return params
}

func hasRequestBody(e types.Endpoint) bool {
	return e.RequestBody != nil || len(e.ParametersIn(types.LocationBody)) > 0
}

func anyRequired(params []types.Parameter) bool {
	for _, p := range params {
		if p.Required {
			return true
		}
	}
	return false
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// key renders s as an object key.
func key(s string) string {
	if identPattern.MatchString(s) {
		return s
	}
	return quote(s)
}

// access renders a property read of s on obj.
func access(obj, s string) string {
	if identPattern.MatchString(s) {
		return obj + "." + s
	}
	return obj + "[" + quote(s) + "]"
}

func urlTemplate(path string) string {
	var b strings.Builder
	rest := path
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			break
		}
		end += start
		b.WriteString(escapeTemplate(rest[:start]))
		fmt.Fprintf(&b, "${encodeURIComponent(String(%s))}", access("params", rest[start+1:end]))
		rest = rest[end+1:]
	}
	b.WriteString(escapeTemplate(rest))
	return b.String()
}

func escapeTemplate(s string) string {
	return strings.NewReplacer("`", "\\`", "$", "\\$").Replace(s)
}

func docLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "*/", "*\\/")
}

func parameterInterface(name, doc string, params []types.Parameter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "/** %s */\nexport interface %s {\n", docLine(doc), name)
	for _, p := range params {
		if p.Description != "" {
			fmt.Fprintf(&b, "  /** %s */\n", docLine(p.Description))
		}
		optional := "?"
		if p.Required {
			optional = ""
		}
		fmt.Fprintf(&b, "  %s%s: %s;\n", key(p.Name), optional, kindType(p.Kind))
	}
	b.WriteString("}")
	return b.String()
}

func schemaDeclaration(name, doc string, s *types.Schema) string {
	if s != nil && s.Kind == types.KindObject && len(s.Properties) > 0 {
		return fmt.Sprintf("/** %s */\nexport interface %s %s", docLine(doc), name, objectBody(s.Properties, ""))
	}
	return fmt.Sprintf("/** %s */\nexport type %s = %s;", docLine(doc), name, schemaType(s))
}

func kindType(k types.SchemaKind) string {
	switch k {
	case types.KindString:
		return "string"
	case types.KindNumber:
		return "number"
	case types.KindBoolean:
		return "boolean"
	case types.KindArray:
		return "unknown[]"
	case types.KindObject:
		return "Record<string, unknown>"
	}
	return "unknown"
}

func schemaType(s *types.Schema) string {
	if s == nil {
		return "void"
	}
	switch s.Kind {
	case types.KindArray:
		if s.Items != nil {
			return "Array<" + schemaType(s.Items) + ">"
		}
	case types.KindObject:
		if len(s.Properties) > 0 {
			return objectBody(s.Properties, "")
		}
	}
	return kindType(s.Kind)
}

// objectBody renders properties as an object type literal. Property descriptors are
// opaque: a type name string, or a map with "type" and optionally "items",
// "properties", "description" and "required".
func objectBody(props map[string]any, indent string) string {
	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{\n")
	for _, n := range names {
		desc, _ := props[n].(map[string]any)
		if text, ok := desc["description"].(string); ok && text != "" {
			fmt.Fprintf(&b, "%s  /** %s */\n", indent, docLine(text))
		}
		optional := ""
		if req, ok := desc["required"].(bool); ok && !req {
			optional = "?"
		}
		fmt.Fprintf(&b, "%s  %s%s: %s;\n", indent, key(n), optional, descriptorType(props[n], indent+"  "))
	}
	b.WriteString(indent + "}")
	return b.String()
}

func descriptorType(v any, indent string) string {
	switch d := v.(type) {
	case string:
		return typeName(d)
	case map[string]any:
		t, _ := d["type"].(string)
		switch t {
		case "array":
			if items, ok := d["items"]; ok {
				return "Array<" + descriptorType(items, indent) + ">"
			}
			return "unknown[]"
		case "object", "":
			if props, ok := d["properties"].(map[string]any); ok && len(props) > 0 {
				return objectBody(props, indent)
			}
			if t == "object" {
				return "Record<string, unknown>"
			}
		default:
			return typeName(t)
		}
	}
	return "unknown"
}

func typeName(t string) string {
	switch strings.ToLower(t) {
	case "string":
		return "string"
	case "number", "integer", "float", "int":
		return "number"
	case "boolean", "bool":
		return "boolean"
	case "array":
		return "unknown[]"
	case "object":
		return "Record<string, unknown>"
	}
	return "unknown"
}

func exampleArgs(e types.Endpoint) string {
	var args []string
	if params := nonBodyParameters(e); len(params) > 0 {
		var fields []string
		for _, p := range params {
			if p.Required {
				fields = append(fields, key(p.Name)+": "+exampleValue(p.Example, p.Kind))
			}
		}
		if len(fields) > 0 {
			args = append(args, "{ "+strings.Join(fields, ", ")+" }")
		} else {
			args = append(args, "{}")
		}
	}
	if hasRequestBody(e) {
		var example any
		if e.RequestBody != nil {
			example = e.RequestBody.Example
		}
		args = append(args, exampleValue(example, types.KindObject))
	}
	return strings.Join(args, ", ")
}

func exampleValue(example any, kind types.SchemaKind) string {
	if example != nil {
		if data, err := json.Marshal(example); err == nil {
			return string(data)
		}
	}
	switch kind {
	case types.KindString:
		return "'example'"
	case types.KindNumber:
		return "1"
	case types.KindBoolean:
		return "true"
	case types.KindArray:
		return "[]"
	}
	return "{}"
}
