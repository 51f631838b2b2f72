// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"strings"

	"carvel.dev/chartnote/pkg/filepos"
)

type lexState int

const (
	stateText lexState = iota
	stateCode
)

type Parser struct {
	associatedName string
}

func NewParser() *Parser {
	return &Parser{}
}

// Parse splits template data into lines and extracts expressions from each.
// It never fails: malformed expressions are kept as text.
func (p *Parser) Parse(dataBs []byte, associatedName string) *NodeDocument {
	p.associatedName = associatedName

	data := string(dataBs)
	doc := &NodeDocument{Name: associatedName}

	if len(data) == 0 {
		return doc
	}
	if strings.HasSuffix(data, "\n") {
		doc.TrailingNewline = true
		data = strings.TrimSuffix(data, "\n")
	}

	for i, line := range strings.Split(data, "\n") {
		doc.Lines = append(doc.Lines, p.ParseLine(line, i+1))
	}

	return doc
}

// ParseLine runs the expression lexer over a single line.
//
// In text state "{{" opens an expression. In code state "}}" closes it, while
// another "{{" abandons the pending opener (it stays part of the text) and
// opens again at the new position, so each expression is the shortest span
// not containing a second "{{". A line that ends in code state keeps the
// unmatched remainder as text.
func (p *Parser) ParseLine(line string, lineNum int) *NodeLine {
	pos := p.newPosition(lineNum)

	result := &NodeLine{Position: pos, Raw: line}

	if IsCommentLine(line) {
		result.Comment = true
		return result
	}

	state := stateText
	textStart := 0
	codeStart := 0

	for i := 0; i < len(line); {
		switch {
		case strings.HasPrefix(line[i:], openDelim):
			state = stateCode
			codeStart = i
			i += len(openDelim)

		case state == stateCode && strings.HasPrefix(line[i:], closeDelim):
			if codeStart > textStart {
				result.Items = append(result.Items, &NodeText{
					Position: pos.WithCol(textStart + 1),
					Content:  line[textStart:codeStart],
				})
			}
			result.Items = append(result.Items, &NodeCode{
				Position: pos.WithCol(codeStart + 1),
				Content:  line[codeStart+len(openDelim) : i],
			})
			i += len(closeDelim)
			textStart = i
			state = stateText

		default:
			i++
		}
	}

	// close last node; unterminated opener is part of it
	if textStart < len(line) {
		result.Items = append(result.Items, &NodeText{
			Position: pos.WithCol(textStart + 1),
			Content:  line[textStart:],
		})
	}

	return result
}

// IsCommentLine reports whether the first non-blank character is '#'.
func IsCommentLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

func (p *Parser) newPosition(line int) *filepos.Position {
	pos := filepos.NewPosition(line)
	pos.SetFile(p.associatedName)
	return pos
}
