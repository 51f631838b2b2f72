// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package filepos_test

import (
	"testing"

	"carvel.dev/chartnote/pkg/filepos"
	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	pos := filepos.NewPosition(3)
	pos.SetFile("templates/a.yaml")

	assert.Equal(t, "templates/a.yaml:3", pos.AsCompactString())
	assert.Equal(t, 0, pos.Col())

	withCol := pos.WithCol(12)
	assert.Equal(t, "line templates/a.yaml:3:12", withCol.String())
	assert.Equal(t, 12, withCol.Col())
	assert.Equal(t, 3, withCol.LineNum())
	assert.Equal(t, 0, pos.Col(), "Expected original position to be unchanged")

	assert.Equal(t, "7", filepos.NewPosition(7).AsCompactString())
	assert.Panics(t, func() { filepos.NewPosition(0) })
	assert.Panics(t, func() { pos.WithCol(0) })
}
