// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"fmt"
	"html"
	"io"
	"strings"

	"carvel.dev/chartnote/pkg/definitions"
	"carvel.dev/chartnote/pkg/values"
)

// WriteHTML renders a plan as a <pre> block. Classified spans get a
// class named after their kind; spans with a disclosure carry it in a
// hidden element next to the token.
func WriteHTML(w io.Writer, plan *Plan) error {
	var result strings.Builder

	fmt.Fprintf(&result, "<pre class=\"chartnote\" data-name=\"%s\">", html.EscapeString(plan.Name))

	for i, line := range plan.Lines {
		if i > 0 {
			result.WriteString("\n")
		}
		fmt.Fprintf(&result, "<span class=\"line\" data-line=\"%d\">", line.Number)
		for _, span := range line.Spans {
			err := writeHTMLSpan(&result, span)
			if err != nil {
				return fmt.Errorf("Rendering line %d: %s", line.Number, err)
			}
		}
		result.WriteString("</span>")
	}

	result.WriteString("</pre>\n")

	_, err := io.WriteString(w, result.String())
	return err
}

func writeHTMLSpan(result *strings.Builder, span Span) error {
	text := html.EscapeString(span.Text)

	if span.Kind == PlainText {
		result.WriteString(text)
		return nil
	}

	fmt.Fprintf(result, "<span class=\"token %s\">%s", span.Kind, text)

	switch {
	case span.Default != nil:
		class := "default default-" + string(span.Default.Kind)
		body, _ := span.Disclosure()
		if span.Default.Kind == values.DefaultNone {
			class += " no-default"
		}
		fmt.Fprintf(result, "<span class=\"%s\" hidden>%s", class, html.EscapeString(body))
		if span.Default.Description != "" {
			fmt.Fprintf(result, "<span class=\"description\">%s</span>", html.EscapeString(span.Default.Description))
		}
		result.WriteString("</span>")

	case span.Doc != nil:
		doc, err := definitions.RenderHTML(span.Doc.Markdown)
		if err != nil {
			return err
		}
		fmt.Fprintf(result, "<span class=\"doc\" hidden>%s</span>", doc)
	}

	result.WriteString("</span>")
	return nil
}
