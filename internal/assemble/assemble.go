// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package assemble merges generated code fragments with rendered templates into the
// complete file set of an SDK, and packages that file set.
//
// Assembly is purely structural. Fragments are embedded as they are; checking them is
// left to the validate package.
package assemble

import (
	"fmt"
	"strings"

	"github.com/api2spec/docs2sdk/internal/render"
	"github.com/api2spec/docs2sdk/internal/validate"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// noTypesReason is reported when type generation produced nothing and no error.
const noTypesReason = "no type definitions were generated"

// Fragments are the generated parts of an SDK.
type Fragments struct {
	// Methods holds one generated client method per endpoint, in endpoint order
	Methods []string

	// Types is the generated contents of src/types.ts
	Types string

	// TypesErr is set when type generation failed; Types is ignored then
	TypesErr error

	// UsageExamples is the generated README usage section
	UsageExamples string

	// TypeNames are the exported names declared in Types
	TypeNames []string
}

// TypesPlaceholder is the src/types.ts content written when type generation failed.
func TypesPlaceholder(reason string) string {
	return fmt.Sprintf("// Types generation failed: %s\nexport {};\n", reason)
}

// Assemble builds the complete file set: the base files, the client with every method,
// the types module or its placeholder, the entry point, the README, and the example and
// test files when enabled.
func Assemble(r *render.Renderer, spec *types.APISpecification, cfg types.SDKConfig, frags Fragments) (FileSet, error) {
	base, err := r.RenderBase(spec, cfg)
	if err != nil {
		return nil, err
	}

	files := make(FileSet, len(base)+6)
	for p, content := range base {
		files[p] = content
	}

	methods := strings.Join(frags.Methods, "\n\n")
	client, err := r.RenderClient(spec, cfg, methods, frags.TypeNames...)
	if err != nil {
		return nil, err
	}
	files[render.PathClient] = validate.Format(client)

	files[render.PathTypes] = typesFile(frags)

	index, err := r.RenderIndex(spec, cfg)
	if err != nil {
		return nil, err
	}
	files[render.PathIndex] = index

	readme, err := r.RenderReadme(spec, cfg, render.ReadmeData{
		UsageExamples: frags.UsageExamples,
		TypeNames:     frags.TypeNames,
	})
	if err != nil {
		return nil, err
	}
	files[render.PathReadme] = readme

	if cfg.IncludeExamples {
		example, err := r.RenderExample(spec, cfg)
		if err != nil {
			return nil, err
		}
		files[render.PathExample] = example
	}

	if cfg.IncludeTests {
		test, err := r.RenderTest(spec, cfg)
		if err != nil {
			return nil, err
		}
		files[render.PathTest] = test
	}

	return files, nil
}

func typesFile(frags Fragments) string {
	if frags.TypesErr != nil {
		return TypesPlaceholder(frags.TypesErr.Error())
	}
	if strings.TrimSpace(frags.Types) == "" {
		return TypesPlaceholder(noTypesReason)
	}
	return validate.Format(frags.Types)
}
