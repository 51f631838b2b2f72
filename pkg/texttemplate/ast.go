// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"
	"strings"

	"carvel.dev/chartnote/pkg/filepos"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// NodeDocument is a whole template split into lines.
type NodeDocument struct {
	Name  string
	Lines []*NodeLine

	// TrailingNewline records whether the source ended with "\n"
	// (that final empty line is not kept in Lines)
	TrailingNewline bool
}

// NodeLine is a single line of a template. Comment lines carry no items.
type NodeLine struct {
	Position *filepos.Position
	Raw      string
	Comment  bool
	Items    []interface{}
}

// NodeText is literal text passed through unchanged.
type NodeText struct {
	Position *filepos.Position
	Content  string
}

// NodeCode is a single {{ ... }} expression; Content excludes delimiters.
type NodeCode struct {
	Position *filepos.Position
	Content  string
}

func (n *NodeDocument) AsString() string {
	var result strings.Builder
	for i, line := range n.Lines {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(line.AsString())
	}
	if n.TrailingNewline {
		result.WriteString("\n")
	}
	return result.String()
}

func (n *NodeLine) AsString() string {
	if n.Comment {
		return n.Raw
	}
	var result strings.Builder
	for _, item := range n.Items {
		switch typedItem := item.(type) {
		case *NodeText:
			result.WriteString(typedItem.Content)
		case *NodeCode:
			result.WriteString(typedItem.AsString())
		default:
			panic(fmt.Sprintf("unknown line node type %T", typedItem))
		}
	}
	return result.String()
}

// Codes returns expressions found on the line in order.
func (n *NodeLine) Codes() []*NodeCode {
	var result []*NodeCode
	for _, item := range n.Items {
		if typedItem, ok := item.(*NodeCode); ok {
			result = append(result, typedItem)
		}
	}
	return result
}

func (n *NodeCode) AsString() string { return openDelim + n.Content + closeDelim }

// TrimLeft reports whether expression starts with a "{{- " trim marker.
func (n *NodeCode) TrimLeft() bool {
	return strings.HasPrefix(n.Content, "- ") || n.Content == "-"
}

// TrimRight reports whether expression ends with a " -}}" trim marker.
func (n *NodeCode) TrimRight() bool {
	return strings.HasSuffix(n.Content, " -") || n.Content == "-"
}
