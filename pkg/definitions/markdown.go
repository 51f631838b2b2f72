// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package definitions

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// IconLinkLabel is the link label that is rendered as an icon instead of text,
// keeping long reference URLs out of the documentation body.
const IconLinkLabel = "iconLink"

const (
	iconSVG  = `<svg class="icon-link" aria-hidden="true" width="12" height="12" viewBox="0 0 24 24"><path fill="currentColor" d="M14 3h7v7h-2V6.41l-9.29 9.3-1.42-1.42L17.59 5H14V3zM5 5h5v2H5v12h12v-5h2v5a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V7a2 2 0 0 1 2-2z"/></svg>`
	iconText = "↗"
)

var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(util.Prioritized(&iconLinkRenderer{}, 100)),
	),
)

// RenderHTML renders definition Markdown as HTML.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer

	err := markdown.Convert([]byte(md), &buf)
	if err != nil {
		return "", fmt.Errorf("Rendering markdown: %s", err)
	}
	return buf.String(), nil
}

// iconLinkRenderer replaces the default link renderer.
type iconLinkRenderer struct{}

var _ renderer.NodeRenderer = &iconLinkRenderer{}

func (r *iconLinkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
}

func (r *iconLinkRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)

	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	if !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')

	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}

	if isIconLink(n, source) {
		_, _ = w.WriteString(` class="icon-link" target="_blank" rel="noopener noreferrer">`)
		_, _ = w.WriteString(iconSVG)
		return ast.WalkSkipChildren, nil
	}

	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func isIconLink(n *ast.Link, source []byte) bool {
	return linkLabel(n, source) == IconLinkLabel
}

func linkLabel(n ast.Node, source []byte) string {
	var label strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			label.Write(t.Segment.Value(source))
		} else {
			label.WriteString(linkLabel(c, source))
		}
	}
	return label.String()
}

// RenderText renders definition Markdown as plain text for terminals.
// Icon links become an arrow followed by the URL.
func RenderText(md string) string {
	source := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var out strings.Builder

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				out.Write(n.Segment.Value(source))
				switch {
				case n.HardLineBreak():
					out.WriteString("\n")
				case n.SoftLineBreak():
					out.WriteString(" ")
				}
			}

		case *ast.String:
			if entering {
				out.Write(n.Value)
			}

		case *ast.CodeSpan:
			out.WriteString("`")

		case *ast.Link:
			if isIconLink(n, source) {
				if entering {
					out.WriteString(iconText + " " + string(n.Destination))
				}
				return ast.WalkSkipChildren, nil
			}
			if !entering {
				out.WriteString(" (" + string(n.Destination) + ")")
			}

		case *ast.AutoLink:
			if entering {
				out.Write(n.URL(source))
			}

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					out.WriteString("    ")
					out.Write(seg.Value(source))
				}
				out.WriteString("\n")
				return ast.WalkSkipChildren, nil
			}

		case *ast.ListItem:
			if entering {
				out.WriteString("- ")
			} else {
				out.WriteString("\n")
			}

		case *ast.Paragraph, *ast.Heading:
			if !entering && n.Parent() != nil && n.Parent().Kind() != ast.KindListItem {
				out.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(out.String())
}

// Summary is the first line of the plain text rendering.
func Summary(md string) string {
	result := RenderText(md)
	if idx := strings.Index(result, "\n"); idx >= 0 {
		result = result[:idx]
	}
	return result
}
