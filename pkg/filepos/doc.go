// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos provides the concept of Position: a source name (usually a
template file), a line number and, for spans inside a line, a column.

Positions travel with every segment and span produced while annotating a
template so that a presentation layer can anchor a disclosure panel to the
exact token the user points at. The zero-value of Position (created using
NewUnknownPosition()) represents a location that is not backed by a file.
*/
package filepos
