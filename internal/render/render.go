// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package render turns a specification and SDK configuration into the static files of a
// generated TypeScript SDK. Templates are embedded and rendered with text/template;
// a missing template or an unresolvable variable fails the whole render.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"text/template"

	"github.com/api2spec/docs2sdk/internal/util"
	"github.com/api2spec/docs2sdk/pkg/types"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// Template names, without the .tmpl suffix.
const (
	TemplateErrors      = "errors.ts"
	TemplateLogger      = "logger.ts"
	TemplateRetry       = "retry.ts"
	TemplateRateLimiter = "rateLimiter.ts"
	TemplatePackageJSON = "package.json"
	TemplateTSConfig    = "tsconfig.json"
	TemplateGitignore   = "gitignore"
	TemplateClient      = "client.ts"
	TemplateIndex       = "index.ts"
	TemplateReadme      = "README.md"
	TemplateExample     = "example.ts"
	TemplateTest        = "client.test.ts"
)

// Output paths of rendered files inside the SDK.
const (
	PathErrors      = "src/errors.ts"
	PathLogger      = "src/utils/logger.ts"
	PathRetry       = "src/utils/retry.ts"
	PathRateLimiter = "src/utils/rateLimiter.ts"
	PathPackageJSON = "package.json"
	PathTSConfig    = "tsconfig.json"
	PathGitignore   = ".gitignore"
	PathClient      = "src/client.ts"
	PathTypes       = "src/types.ts"
	PathIndex       = "src/index.ts"
	PathReadme      = "README.md"
	PathExample     = "examples/basic.ts"
	PathTest        = "tests/client.test.ts"
)

// UsageFallback is the README section used when no usage examples are supplied.
const UsageFallback = "## Usage Examples\n\nDocumentation coming soon."

const templateExt = ".tmpl"

// ErrMissingTemplate is wrapped by Error when a template file does not exist.
var ErrMissingTemplate = errors.New("template not found")

// Error reports a failed render. No partial output accompanies it.
type Error struct {
	Template string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Renderer renders SDK templates.
type Renderer struct {
	fsys fs.FS
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplates replaces the embedded templates with the *.tmpl files at the root of fsys.
func WithTemplates(fsys fs.FS) Option {
	return func(r *Renderer) {
		r.fsys = fsys
	}
}

// New creates a Renderer backed by the embedded templates unless overridden.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.fsys == nil {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			// embedded paths are fixed at compile time
			panic(err)
		}
		r.fsys = sub
	}
	return r
}

var funcs = template.FuncMap{
	"json":     toJSON,
	"ms":       milliseconds,
	"join":     strings.Join,
	"joinInts": joinInts,
	"cell":     tableCell,
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) (string, error) {
	file := name + templateExt

	src, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &Error{Template: name, Err: ErrMissingTemplate}
		}
		return "", &Error{Template: name, Err: err}
	}

	tmpl, err := template.New(name).Option("missingkey=error").Funcs(funcs).Parse(string(src))
	if err != nil {
		return "", &Error{Template: name, Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &Error{Template: name, Err: err}
	}
	return buf.String(), nil
}

// ReadmeData carries the generated parts of the README.
type ReadmeData struct {
	UsageExamples string
	TypeNames     []string
}

// target maps a template onto the SDK path it renders to.
type target struct {
	path string
	name string
}

// RenderBase renders the files that need no generated code: errors, logger, package
// manifest, compiler settings and ignore file, plus the retry and rate limiting modules
// when enabled.
func (r *Renderer) RenderBase(spec *types.APISpecification, cfg types.SDKConfig) (map[string]string, error) {
	data := baseData(spec, cfg)

	targets := []target{
		{PathErrors, TemplateErrors},
		{PathLogger, TemplateLogger},
		{PathPackageJSON, TemplatePackageJSON},
		{PathTSConfig, TemplateTSConfig},
		{PathGitignore, TemplateGitignore},
	}
	if cfg.EnableRetryLogic {
		targets = append(targets, target{PathRetry, TemplateRetry})
	}
	if cfg.EnableRateLimiting {
		targets = append(targets, target{PathRateLimiter, TemplateRateLimiter})
	}

	files := make(map[string]string, len(targets))
	for _, t := range targets {
		out, err := r.Render(t.name, data)
		if err != nil {
			return nil, err
		}
		files[t.path] = out
	}
	return files, nil
}

// RenderClient renders the client class with methods embedded verbatim. typeNames,
// when given, are imported from the types module.
func (r *Renderer) RenderClient(spec *types.APISpecification, cfg types.SDKConfig, methods string, typeNames ...string) (string, error) {
	data := baseData(spec, cfg)
	data["Methods"] = strings.TrimRight(methods, "\n")
	data["TypeNames"] = typeNames
	return r.Render(TemplateClient, data)
}

// RenderIndex renders the package entry point.
func (r *Renderer) RenderIndex(spec *types.APISpecification, cfg types.SDKConfig) (string, error) {
	return r.Render(TemplateIndex, baseData(spec, cfg))
}

// RenderReadme renders the README. An empty usage section is replaced by UsageFallback.
func (r *Renderer) RenderReadme(spec *types.APISpecification, cfg types.SDKConfig, readme ReadmeData) (string, error) {
	data := baseData(spec, cfg)

	usage := strings.TrimSpace(readme.UsageExamples)
	if usage == "" {
		usage = UsageFallback
	}
	data["UsageExamples"] = usage
	data["TypeNames"] = readme.TypeNames
	return r.Render(TemplateReadme, data)
}

// RenderExample renders examples/basic.ts.
func (r *Renderer) RenderExample(spec *types.APISpecification, cfg types.SDKConfig) (string, error) {
	return r.Render(TemplateExample, baseData(spec, cfg))
}

// RenderTest renders tests/client.test.ts.
func (r *Renderer) RenderTest(spec *types.APISpecification, cfg types.SDKConfig) (string, error) {
	return r.Render(TemplateTest, baseData(spec, cfg))
}

// baseData builds the variables shared by every template.
func baseData(spec *types.APISpecification, cfg types.SDKConfig) map[string]any {
	return map[string]any{
		"APIName":             spec.APIName,
		"ClassName":           util.ClassName(spec.APIName),
		"BaseURL":             spec.BaseURL,
		"AuthType":            string(spec.AuthType),
		"GlobalHeaders":       spec.GlobalHeaders,
		"Endpoints":           spec.Endpoints,
		"PackageName":         cfg.PackageName,
		"Version":             cfg.Version,
		"Author":              cfg.Author,
		"License":             string(cfg.License),
		"EnableRetryLogic":    cfg.EnableRetryLogic,
		"EnableRateLimiting":  cfg.EnableRateLimiting,
		"EnableErrorHandling": cfg.EnableErrorHandling,
		"Retry":               cfg.Retry,
		"RateLimit":           cfg.RateLimit,
		"Methods":             "",
		"TypeNames":           []string(nil),
		"UsageExamples":       "",
	}
}

func toJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// milliseconds converts a delay in seconds to whole milliseconds.
func milliseconds(seconds float64) int {
	return int(seconds*1000 + 0.5)
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

// tableCell makes text safe for a single markdown table cell.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
