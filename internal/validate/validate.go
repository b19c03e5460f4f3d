// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package validate runs lightweight, regex-based checks over generated TypeScript.
//
// The checks are heuristics. Bracket counting does not understand strings or comments,
// and nothing here type-checks the code. Findings are advisory and never block packaging.
package validate

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

// MaxRelativeDepth is the number of "../" segments a relative import may contain
// before it is reported.
const MaxRelativeDepth = 3

var (
	importPattern    = regexp.MustCompile(`import\s+.*?\s+from\s+['"](.+?)['"]`)
	looseTypePattern = regexp.MustCompile(`:\s*any\b`)
)

// pattern pairs a regular expression with the message reported when it matches.
type pattern struct {
	re      *regexp.Regexp
	message string
}

var dangerousPatterns = []pattern{
	{regexp.MustCompile(`(?i)\beval\s*\(`), "Use of eval() detected - potential security risk"},
	{regexp.MustCompile(`(?i)\bFunction\s*\(`), "Use of Function() constructor detected - potential security risk"},
	{regexp.MustCompile(`(?i)\.innerHTML\s*=`), "Direct innerHTML assignment detected - potential XSS risk"},
	{regexp.MustCompile(`(?i)document\.write\s*\(`), "Use of document.write() detected - not recommended"},
	{regexp.MustCompile(`(?i)dangerouslySetInnerHTML`), "Use of dangerouslySetInnerHTML detected"},
	{regexp.MustCompile(`(?i)__proto__`), "Direct __proto__ manipulation detected"},
}

var secretPatterns = []pattern{
	{regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*["'][\w-]{20,}["']`), "Potential hardcoded API key detected"},
	{regexp.MustCompile(`(?i)password\s*[:=]\s*["'].+["']`), "Potential hardcoded password detected"},
	{regexp.MustCompile(`(?i)secret\s*[:=]\s*["'].+["']`), "Potential hardcoded secret detected"},
	{regexp.MustCompile(`(?i)token\s*[:=]\s*["'][\w-]{20,}["']`), "Potential hardcoded token detected"},
}

// pair is an opening/closing delimiter checked by CheckBalance.
type pair struct {
	name  string
	open  string
	close string
}

var pairs = []pair{
	{"braces", "{", "}"},
	{"parentheses", "(", ")"},
	{"brackets", "[", "]"},
}

// CheckBalance compares the number of opening and closing braces, parentheses and
// brackets. Each mismatched kind yields one issue.
func CheckBalance(code string) []string {
	var issues []string
	for _, p := range pairs {
		opening := strings.Count(code, p.open)
		closing := strings.Count(code, p.close)
		if opening != closing {
			issues = append(issues, fmt.Sprintf("Mismatched %s: %d opening, %d closing", p.name, opening, closing))
		}
	}
	return issues
}

// CheckImports reports relative imports that climb more than MaxRelativeDepth directories.
func CheckImports(code string) []string {
	var issues []string
	for _, m := range importPattern.FindAllStringSubmatch(code, -1) {
		target := m[1]
		if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
			continue
		}
		if strings.Count(target, "../") > MaxRelativeDepth {
			issues = append(issues, "Suspiciously deep relative import: "+target)
		}
	}
	return issues
}

// ScanSecurity reports dangerous constructs and literals that look like hardcoded
// credentials. Matching is case-insensitive and each pattern is reported at most once.
func ScanSecurity(code string) []string {
	var warnings []string
	for _, p := range dangerousPatterns {
		if p.re.MatchString(code) {
			warnings = append(warnings, p.message)
		}
	}
	for _, p := range secretPatterns {
		if p.re.MatchString(code) {
			warnings = append(warnings, p.message)
		}
	}
	return warnings
}

// CheckLooseTyping reports how many type annotations use `any`.
func CheckLooseTyping(code string) []string {
	count := len(looseTypePattern.FindAllStringIndex(code, -1))
	if count == 0 {
		return nil
	}
	return []string{fmt.Sprintf("Found %d uses of 'any' type - consider using specific types", count)}
}

// Format strips trailing whitespace, collapses runs of blank lines into one and
// ends the text with exactly one newline. Format is idempotent.
func Format(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))

	prevBlank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r\f\v")
		blank := line == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n"
}

// Result holds the findings for one piece of code.
type Result struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

// HasFindings reports whether any error or warning was produced.
func (r Result) HasFindings() bool {
	return len(r.Errors) > 0 || len(r.Warnings) > 0
}

// ValidateAll runs every check over code. Balance problems are errors; everything
// else is a warning. Messages are prefixed with label.
func ValidateAll(code, label string) Result {
	res := Result{File: label}

	res.Errors = prefix(label, CheckBalance(code))
	res.Warnings = append(res.Warnings, prefix(label, CheckImports(code))...)
	res.Warnings = append(res.Warnings, prefix(label, ScanSecurity(code))...)
	res.Warnings = append(res.Warnings, prefix(label, CheckLooseTyping(code))...)

	res.Valid = len(res.Errors) == 0
	return res
}

// DefaultExtensions are the file extensions ValidateFileSet checks when none are given.
var DefaultExtensions = []string{".ts"}

// ValidateFileSet validates every file whose extension is in exts and returns the
// results sorted by path.
func ValidateFileSet(files map[string]string, exts ...string) []Result {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		if hasExtension(p, exts) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		results = append(results, ValidateAll(files[p], p))
	}
	return results
}

// Summary counts the files, errors and warnings across results.
type Summary struct {
	Files    int
	Invalid  int
	Errors   int
	Warnings int
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if !r.Valid {
			s.Invalid++
		}
		s.Errors += len(r.Errors)
		s.Warnings += len(r.Warnings)
	}
	return s
}

func prefix(label string, msgs []string) []string {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = label + ": " + m
	}
	return out
}

func hasExtension(p string, exts []string) bool {
	ext := path.Ext(p)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
