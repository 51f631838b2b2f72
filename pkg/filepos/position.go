// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package filepos

import (
	"fmt"
)

// Position points at a line, and optionally a column, of a template.
type Position struct {
	file    string
	lineNum int // 1 based
	col     int // 1 based, in bytes; 0 when not recorded
}

func NewPosition(lineNum int) *Position {
	if lineNum <= 0 {
		panic("Lines are 1 based")
	}
	return &Position{lineNum: lineNum}
}

func (p *Position) SetFile(file string) { p.file = file }

// WithCol returns a copy of p pointing at the given column of the same line.
func (p *Position) WithCol(col int) *Position {
	if col <= 0 {
		panic("Columns are 1 based")
	}
	newPos := *p
	newPos.col = col
	return &newPos
}

func (p *Position) File() string { return p.file }
func (p *Position) LineNum() int { return p.lineNum }

// Col returns the 1 based column, or 0 if it was never recorded.
func (p *Position) Col() int {
	if p == nil {
		return 0
	}
	return p.col
}

// AsCompactString formats as file:line[:col], e.g. templates/a.yaml:3:12
func (p *Position) AsCompactString() string {
	filePrefix := p.file
	if len(filePrefix) > 0 {
		filePrefix += ":"
	}
	if p.col > 0 {
		return fmt.Sprintf("%s%d:%d", filePrefix, p.lineNum, p.col)
	}
	return fmt.Sprintf("%s%d", filePrefix, p.lineNum)
}

func (p *Position) String() string { return "line " + p.AsCompactString() }
