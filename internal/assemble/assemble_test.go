// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package assemble

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/docs2sdk/internal/render"
	"github.com/api2spec/docs2sdk/pkg/types"
)

func testSpec() *types.APISpecification {
	return &types.APISpecification{
		APIName:  "Users API",
		BaseURL:  "https://api.example.com/v1",
		AuthType: types.AuthAPIKey,
		Endpoints: []types.Endpoint{
			{
				Path:           "/users",
				Method:         types.MethodGet,
				Description:    "List all users",
				ResponseSchema: &types.Schema{Kind: types.KindArray},
			},
		},
	}
}

func TestAssemble(t *testing.T) {
	cfg := types.DefaultSDKConfig("users-api-sdk")

	files, err := Assemble(render.New(), testSpec(), cfg, Fragments{
		Methods: []string{
			"  async listUsers(): Promise<User[]> {   \n    return this.request<User[]>({ method: 'GET', url: `${this.baseURL}/users` });\n  }",
			"  async ping(): Promise<void> {\n\n\n    return;\n  }",
		},
		Types:     "export interface User {\n  id: string;\n}",
		TypeNames: []string{"User"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		".gitignore",
		"README.md",
		"examples/basic.ts",
		"package.json",
		"src/client.ts",
		"src/errors.ts",
		"src/index.ts",
		"src/types.ts",
		"src/utils/logger.ts",
		"src/utils/rateLimiter.ts",
		"src/utils/retry.ts",
		"tsconfig.json",
	}, files.Paths())

	client := files[render.PathClient]
	assert.Contains(t, client, "async listUsers(): Promise<User[]> {\n")
	assert.Contains(t, client, "  }\n\n  async ping(): Promise<void> {\n\n    return;")
	assert.Contains(t, client, "import type { User } from './types';")
	assert.True(t, strings.HasSuffix(client, "}\n"))

	assert.Equal(t, "export interface User {\n  id: string;\n}\n", files[render.PathTypes])
	assert.Contains(t, files[render.PathReadme], "- `User`")
}

func TestAssemble_TypesPlaceholder(t *testing.T) {
	cfg := types.DefaultSDKConfig("users-api-sdk")

	files, err := Assemble(render.New(), testSpec(), cfg, Fragments{TypesErr: errors.New("upstream timeout")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(files[render.PathTypes], "// Types generation failed: upstream timeout\n"))

	files, err = Assemble(render.New(), testSpec(), cfg, Fragments{Types: "  \n"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(files[render.PathTypes], "// Types generation failed: "))
}

func TestAssemble_OptionalFiles(t *testing.T) {
	cfg := types.DefaultSDKConfig("users-api-sdk")
	cfg.IncludeExamples = false
	cfg.IncludeTests = true
	cfg.EnableRetryLogic = false

	files, err := Assemble(render.New(), testSpec(), cfg, Fragments{})
	require.NoError(t, err)

	assert.NotContains(t, files, render.PathExample)
	assert.NotContains(t, files, render.PathRetry)
	assert.Contains(t, files, render.PathTest)
	assert.Contains(t, files, render.PathRateLimiter)
	assert.Contains(t, files[render.PathReadme], render.UsageFallback)
}

func TestAssemble_RenderFailure(t *testing.T) {
	r := render.New(render.WithTemplates(os.DirFS(t.TempDir())))

	files, err := Assemble(r, testSpec(), types.DefaultSDKConfig("x"), Fragments{})
	require.Error(t, err)
	assert.Nil(t, files)

	var renderErr *render.Error
	assert.ErrorAs(t, err, &renderErr)
}

func TestFileSet_TotalSizeAndBundle(t *testing.T) {
	files := FileSet{"package.json": "{}", "src/index.ts": "export {}"}

	assert.Equal(t, len("{}")+len("export {}"), files.TotalSize())

	data, err := files.Bundle("Users API")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "users-api/package.json", zr.File[0].Name)
	assert.Equal(t, "users-api/src/index.ts", zr.File[1].Name)
	assert.Equal(t, zip.Deflate, zr.File[1].Method)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "export {}", string(content))

	again, err := files.Bundle("Users API")
	require.NoError(t, err)
	assert.Equal(t, data, again, "bundles must be reproducible")
}

func TestFileSet_DisplayTree(t *testing.T) {
	files := FileSet{
		"package.json":        "{}",
		"src/index.ts":        "",
		"src/utils/logger.ts": "",
		".gitignore":          "",
	}

	expected := "├── .gitignore\n" +
		"├── package.json\n" +
		"└── src/\n" +
		"    ├── index.ts\n" +
		"    └── utils/\n" +
		"        └── logger.ts\n"
	assert.Equal(t, expected, files.DisplayTree())
	assert.Equal(t, "", FileSet{}.DisplayTree())
}

func TestFileSet_Plan(t *testing.T) {
	files := FileSet{"b.ts": "abc", "a.ts": "z"}
	assert.Equal(t, []PlannedFile{{Path: "a.ts", Size: 1}, {Path: "b.ts", Size: 3}}, files.Plan())
}

func TestFileSet_WriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sdk")
	files := FileSet{"package.json": "{}", "src/index.ts": "export {}"}

	require.NoError(t, files.WriteDir(dir, false))

	data, err := os.ReadFile(filepath.Join(dir, "src", "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export {}", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files may remain")

	err = files.WriteDir(dir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not empty")

	files["package.json"] = `{"name":"x"}`
	require.NoError(t, files.WriteDir(dir, true))
	data, err = os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, string(data))
}

func TestFileSet_WriteDirRejectsEscapingPaths(t *testing.T) {
	for _, p := range []string{"../evil.ts", "/abs.ts", "src/../../evil.ts"} {
		err := FileSet{p: "x"}.WriteDir(t.TempDir(), false)
		assert.Error(t, err, p)
	}
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "users-api-sdk.zip", ArchiveName("Users API"))
	assert.Equal(t, "sdk-sdk.zip", ArchiveName(""))
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size     int
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatSize(tt.size))
	}
}
