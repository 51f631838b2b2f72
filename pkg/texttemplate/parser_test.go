// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate_test

import (
	"fmt"
	"strings"
	"testing"

	"carvel.dev/chartnote/pkg/texttemplate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// describe renders line items as T(...) and C(...) for compact assertions
func describe(line *texttemplate.NodeLine) string {
	if line.Comment {
		return "#(" + line.Raw + ")"
	}
	var pieces []string
	for _, item := range line.Items {
		switch typedItem := item.(type) {
		case *texttemplate.NodeText:
			pieces = append(pieces, fmt.Sprintf("T(%s)", typedItem.Content))
		case *texttemplate.NodeCode:
			pieces = append(pieces, fmt.Sprintf("C(%s)", typedItem.Content))
		}
	}
	return strings.Join(pieces, " ")
}

func TestParseLine(t *testing.T) {
	cases := []struct {
		line     string
		expected string
	}{
		{"plain: text", "T(plain: text)"},
		{"  port: {{ .Values.port }}", "T(  port: ) C( .Values.port )"},
		{"{{- include \"chart.labels\" . | nindent 4 }}", "C(- include \"chart.labels\" . | nindent 4 )"},
		{"a: {{ .A }}-{{ .B }}", "T(a: ) C( .A ) T(-) C( .B )"},
		{"{{}}", "C()"},
		{"name: {{ .Values.name", "T(name: {{ .Values.name)"},
		{"x: {{ a {{ b }}", "T(x: {{ a ) C( b )"},
		{"x: }} {{ a }}", "T(x: }} ) C( a )"},
		{"{{ a }}}", "C( a ) T(})"},
		{"# {{ .Values.commented }}", "#(# {{ .Values.commented }})"},
		{"   # indented comment", "#(   # indented comment)"},
		{"", ""},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			line := texttemplate.NewParser().ParseLine(tc.line, 1)
			assert.Equal(t, tc.expected, describe(line))
			assert.Equal(t, tc.line, line.AsString())
		})
	}
}

func TestParseRecordsColumns(t *testing.T) {
	line := texttemplate.NewParser().ParseLine("a: {{ .A }} {{ .B }}", 3)

	require.Len(t, line.Items, 4)
	assert.Equal(t, 1, line.Items[0].(*texttemplate.NodeText).Position.Col())
	assert.Equal(t, 4, line.Items[1].(*texttemplate.NodeCode).Position.Col())
	assert.Equal(t, 12, line.Items[2].(*texttemplate.NodeText).Position.Col())
	assert.Equal(t, 13, line.Items[3].(*texttemplate.NodeCode).Position.Col())
	assert.Equal(t, 3, line.Items[3].(*texttemplate.NodeCode).Position.LineNum())
}

func TestParseDocument(t *testing.T) {
	data := "apiVersion: v1\n# comment\nkind: {{ .Values.kind }}\n"

	doc := texttemplate.NewParser().Parse([]byte(data), "tpl.yaml")

	require.Len(t, doc.Lines, 3)
	assert.True(t, doc.TrailingNewline)
	assert.True(t, doc.Lines[1].Comment)
	assert.Equal(t, "tpl.yaml:3", doc.Lines[2].Position.AsCompactString())
	assert.Len(t, doc.Lines[2].Codes(), 1)
	assert.Equal(t, data, doc.AsString())
}

func TestParseEmptyDocument(t *testing.T) {
	doc := texttemplate.NewParser().Parse(nil, "empty.yaml")
	assert.Empty(t, doc.Lines)
	assert.Equal(t, "", doc.AsString())
}

func TestTrimMarkers(t *testing.T) {
	line := texttemplate.NewParser().ParseLine("{{- .A -}}{{ .B }}", 1)
	codes := line.Codes()
	require.Len(t, codes, 2)

	assert.True(t, codes[0].TrimLeft())
	assert.True(t, codes[0].TrimRight())
	assert.False(t, codes[1].TrimLeft())
	assert.False(t, codes[1].TrimRight())
}
