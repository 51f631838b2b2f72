// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"carvel.dev/chartnote/pkg/definitions"
	"carvel.dev/chartnote/pkg/values"
)

type TextOpts struct {
	// Docs includes the first line of each definition
	Docs bool
	// AnnotatedOnly skips lines without classified spans
	AnnotatedOnly bool
}

// WriteText prints each line followed by a marker line for every
// classified span, e.g.
//
//	   3 | {{- with .Values.rules }}
//	     |     ^^^^ flow-control
//	     |          ^^^^^^^^^^^^^ values-reference: []
func WriteText(w io.Writer, plan *Plan, opts TextOpts) error {
	for _, line := range plan.Lines {
		if opts.AnnotatedOnly && !line.hasAnnotations() {
			continue
		}

		_, err := fmt.Fprintf(w, "%4d | %s\n", line.Number, line.Raw)
		if err != nil {
			return err
		}

		for _, span := range line.Spans {
			if span.Kind == PlainText {
				continue
			}
			_, err := io.WriteString(w, textMarker(line, span, opts))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (l Line) hasAnnotations() bool {
	for _, span := range l.Spans {
		if span.Kind != PlainText {
			return true
		}
	}
	return false
}

const textGutter = "     | "

func textMarker(line Line, span Span, opts TextOpts) string {
	offset := 0
	if span.Column > 1 && span.Column-1 <= len(line.Raw) {
		offset = utf8.RuneCountInString(line.Raw[:span.Column-1])
	}
	indent := strings.Repeat(" ", offset)

	var result strings.Builder
	result.WriteString(textGutter + indent)
	result.WriteString(strings.Repeat("^", utf8.RuneCountInString(span.Text)))
	result.WriteString(" " + span.Kind.String())

	switch {
	case span.Default != nil:
		switch span.Default.Kind {
		case values.DefaultNone:
			result.WriteString(": " + NoDefaultText + "\n")
		case values.DefaultBlock:
			result.WriteString(":\n")
			for _, blockLine := range strings.Split(span.Default.Text, "\n") {
				result.WriteString(textGutter + indent + "  " + blockLine + "\n")
			}
		default:
			result.WriteString(": " + span.Default.Text + "\n")
		}
		if span.Default.Description != "" {
			result.WriteString(textGutter + indent + "  # " + span.Default.Description + "\n")
		}

	case span.Doc != nil && opts.Docs:
		result.WriteString(": " + docSummary(span.Doc) + "\n")

	default:
		result.WriteString("\n")
	}

	return result.String()
}

func docSummary(def *definitions.Definition) string {
	return definitions.Summary(def.Markdown)
}
