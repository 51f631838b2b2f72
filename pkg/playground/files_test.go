// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package playground

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamplesAreBundled(t *testing.T) {
	examples := Examples()
	require.Len(t, examples, 3)

	var ids []string
	for _, example := range examples {
		ids = append(ids, example.ID)
		assert.NotEmpty(t, example.DisplayName)
		assert.NotEmpty(t, example.Description)
	}
	assert.Equal(t, []string{"service", "flow-control", "structured"}, ids)

	example, found := FindExample("service")
	require.True(t, found)
	require.Len(t, example.Files, 2)
	assert.Equal(t, "templates/service.yaml", example.Files[0].Name)
	assert.Equal(t, "values.yaml", example.Files[1].Name)
	assert.Contains(t, example.Files[1].Content, "# -- Kubernetes service type\n")

	_, found = FindExample("missing")
	assert.False(t, found)
}

func TestLoadExamples(t *testing.T) {
	fsys := fstest.MapFS{
		"ex/index.toml":              {Data: []byte("[[example]]\nid = \"a\"\ndisplay_name = \"A\"\n")},
		"ex/a/values.yaml":           {Data: []byte("x: 1\n")},
		"ex/a/templates/config.yaml": {Data: []byte("x: {{ .Values.x }}\n")},
	}

	examples, err := loadExamples(fsys, "ex")
	require.NoError(t, err)
	require.Equal(t, []Example{{
		ID:          "a",
		DisplayName: "A",
		Files: []File{
			{Name: "templates/config.yaml", Content: "x: {{ .Values.x }}\n"},
			{Name: "values.yaml", Content: "x: 1\n"},
		},
	}}, examples)
}

func TestLoadExamplesErrors(t *testing.T) {
	testCases := []struct {
		desc        string
		fsys        fstest.MapFS
		expectedErr string
	}{
		{
			desc: "missing id",
			fsys: fstest.MapFS{
				"ex/index.toml": {Data: []byte("[[example]]\ndisplay_name = \"A\"\n")},
			},
			expectedErr: "Expected example #1 to have an id",
		},
		{
			desc: "missing directory",
			fsys: fstest.MapFS{
				"ex/index.toml": {Data: []byte("[[example]]\nid = \"a\"\n")},
			},
			expectedErr: "Reading example 'a': ",
		},
		{
			desc: "bad index",
			fsys: fstest.MapFS{
				"ex/index.toml": {Data: []byte("[[example]\n")},
			},
			expectedErr: "Unmarshaling index: ",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := loadExamples(tc.fsys, "ex")
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}
