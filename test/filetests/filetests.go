// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filetests houses a test harness for annotating templates and asserting
the expected rendered plan.
*/
package filetests

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/values"
	"github.com/k14s/difflib"
)

const (
	valuesSeparator   = "\n---values---\n"
	expectedSeparator = "\n+++\n\n"
	directivePrefix   = "#! "
)

// EvaluateTemplate turns a test case into text that is compared against
// the expected output.
type EvaluateTemplate func(tc TestCase) (string, error)

// TestCase is a single parsed fixture.
type TestCase struct {
	Template   string
	Values     string
	HasValues  bool
	Opts       annotate.Opts
	TextOpts   annotate.TextOpts
	Directives []string
}

// FileTests contain a suite of test cases, each described in a separate file, verifying annotation of templates.
//
// Test cases:
// - are found within the directory at "PathToTests"
// - conventionally have a .tpltest extension
// - top-half is the template, optionally followed by `---values---` and a values YAML document;
// bottom-half is the expected output; divided by `+++` and a blank line.
// - may start with `#! ` directive lines which are not part of the template:
// `#! experiments: root-scope paren-trim template-comments`, `#! docs`, `#! annotated-only`
//
// Expected output starting with `ERR:` indicates that expected output is an error message;
// otherwise it is the text rendering of the plan (see annotate.WriteText).
//
// For example:
//
//	#! my-test.tpltest
//	port: {{ .Values.port }}
//	---values---
//	port: 80
//	+++
//
//	   1 | port: {{ .Values.port }}
//	     |          ^^^^^^^^^^^^ values-reference: 80
type FileTests struct {
	PathToTests string
	EvalFunc    EvaluateTemplate
}

// Run runs each test: enumerates each file within FileTests.PathToTests, splits and evaluates it
// using FileTests.EvalFunc.
func (f FileTests) Run(t *testing.T) {
	var files []string

	err := filepath.Walk(f.PathToTests, func(walkedPath string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		if filepath.Ext(walkedPath) == ".tpltest" {
			files = append(files, walkedPath)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to enumerate filetests: %s", err)
	}
	if len(files) == 0 {
		t.Fatalf("Expected to find filetests in '%s'", f.PathToTests)
	}

	if f.EvalFunc == nil {
		f.EvalFunc = DefaultEvalTemplate
	}

	for _, filePath := range files {
		t.Run(filePath, func(t *testing.T) {
			contents, err := os.ReadFile(filePath)
			if err != nil {
				t.Fatal(err)
			}

			tc, expectedStr, err := ParseTestCase(string(contents))
			if err != nil {
				t.Fatalf("Parsing %s: %s", filePath, err)
			}

			resultStr, evalErr := f.EvalFunc(tc)

			switch {
			case strings.HasPrefix(expectedStr, "ERR:"):
				if evalErr == nil {
					err = fmt.Errorf("expected eval error, but did not receive it")
				} else {
					expectedStr = strings.TrimPrefix(strings.TrimPrefix(expectedStr, "ERR:"), " ")
					err = expectEquals(TrimTrailingMultilineWhitespace(evalErr.Error()), TrimTrailingMultilineWhitespace(expectedStr))
				}
			default:
				if evalErr != nil {
					err = fmt.Errorf("eval error: %s", evalErr)
				} else {
					err = expectEquals(TrimTrailingMultilineWhitespace(resultStr), TrimTrailingMultilineWhitespace(expectedStr))
				}
			}

			if err != nil {
				t.Fatalf("%s", err)
			}
		})
	}
}

// ParseTestCase splits fixture contents into a test case and its expected output.
func ParseTestCase(contents string) (TestCase, string, error) {
	pieces := strings.SplitN(contents, expectedSeparator, 2)
	if len(pieces) != 2 {
		return TestCase{}, "", fmt.Errorf("expected file to include +++ separator")
	}

	tc := TestCase{}
	src := pieces[0]

	for strings.HasPrefix(src, directivePrefix) {
		directive := src
		if idx := strings.Index(src, "\n"); idx >= 0 {
			directive, src = src[:idx], src[idx+1:]
		} else {
			src = ""
		}

		err := tc.applyDirective(strings.TrimPrefix(directive, directivePrefix))
		if err != nil {
			return TestCase{}, "", err
		}
	}

	tplAndValues := strings.SplitN(src, valuesSeparator, 2)
	tc.Template = tplAndValues[0]
	if len(tplAndValues) == 2 {
		tc.Values = tplAndValues[1]
		tc.HasValues = true
	}

	return tc, pieces[1], nil
}

func (tc *TestCase) applyDirective(directive string) error {
	tc.Directives = append(tc.Directives, directive)

	name, args, _ := strings.Cut(directive, ":")

	switch strings.TrimSpace(name) {
	case "docs":
		tc.TextOpts.Docs = true
	case "annotated-only":
		tc.TextOpts.AnnotatedOnly = true
	case "values-format":
		format, err := values.ParseFormat(strings.TrimSpace(args))
		if err != nil {
			return err
		}
		tc.Opts.Render.Format = format
	case "experiments":
		for _, name := range strings.Fields(args) {
			switch name {
			case "root-scope":
				tc.Opts.Classifier.RootScope = true
			case "paren-trim":
				tc.Opts.Trim.ParenTrim = true
			case "template-comments":
				tc.Opts.TemplateComments = true
			default:
				return fmt.Errorf("unknown experiment '%s'", name)
			}
		}
	default:
		// free form comment (eg file name)
	}
	return nil
}

// DefaultEvalTemplate annotates the template with the values of a test case and renders the plan as text.
func DefaultEvalTemplate(tc TestCase) (string, error) {
	var vals *values.Value

	if tc.HasValues {
		var err error
		vals, err = values.FromYAML([]byte(tc.Values))
		if err != nil {
			return "", err
		}
	}

	plan := annotate.Annotate(annotate.NewTemplate("test.yaml", []byte(tc.Template)), vals, tc.Opts)

	if plan.AsString() != tc.Template {
		return "", fmt.Errorf("expected plan to reproduce template, but was:\n%s", plan.AsString())
	}

	var out strings.Builder

	err := annotate.WriteText(&out, plan, tc.TextOpts)
	if err != nil {
		return "", err
	}

	return out.String(), nil
}

func expectEquals(resultStr, expectedStr string) error {
	if resultStr != expectedStr {
		diff := difflib.PPDiff(strings.Split(expectedStr, "\n"), strings.Split(resultStr, "\n"))
		return fmt.Errorf("not equal\n\n### result %d chars:\n>>>%s<<<\n###expected %d chars:\n>>>%s<<<\n### diff expected...result:\n%s",
			len(resultStr), resultStr, len(expectedStr), expectedStr, diff)
	}
	return nil
}

// TrimTrailingMultilineWhitespace returns a string with trailing whitespace trimmed from every line as well
// as trimmed trailing empty lines
func TrimTrailingMultilineWhitespace(s string) string {
	var trimmedLines []string
	for _, line := range strings.Split(s, "\n") {
		trimmedLine := strings.TrimRight(line, "\t ")
		trimmedLines = append(trimmedLines, trimmedLine)
	}
	multiline := strings.Join(trimmedLines, "\n")
	return strings.TrimRight(multiline, "\n")
}
