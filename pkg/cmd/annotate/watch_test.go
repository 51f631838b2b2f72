// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"bytes"
	"testing"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySource struct {
	files map[string]string
}

func (s *memorySource) HasInput() bool  { return true }
func (s *memorySource) HasOutput() bool { return true }
func (s *memorySource) Output(AnnotateOutput) error {
	return nil
}

func (s *memorySource) Input() (AnnotateInput, error) {
	var result []*files.File
	for _, name := range []string{"values.yaml", "templates/a.yaml", "templates/b.yaml"} {
		if data, found := s.files[name]; found {
			result = append(result, files.MustNewFileFromSource(files.NewBytesSource(name, []byte(data))))
		}
	}
	return AnnotateInput{Files: result}, nil
}

func TestWatcherRebuildsOnlyChangedPlans(t *testing.T) {
	src := &memorySource{files: map[string]string{
		"values.yaml":      "a: 1\nb: 2\n",
		"templates/a.yaml": "a: {{ .Values.a }}\n",
		"templates/b.yaml": "b: {{ .Values.b }}\n",
	}}

	var stderr bytes.Buffer
	w := NewWatcher(NewOptions(), annotate.Opts{}, ui.NewCustomTTY(true, nil, &bytes.Buffer{}, &stderr))

	out := w.annotate(src)
	require.NoError(t, out.Err)
	require.Len(t, out.Plans, 2)
	assert.Contains(t, stderr.String(), "watch: rebuilt 2 of 2 plans\n")

	stderr.Reset()
	out = w.annotate(src)
	require.NoError(t, out.Err)
	assert.Contains(t, stderr.String(), "watch: rebuilt 0 of 2 plans\n")

	stderr.Reset()
	src.files["templates/b.yaml"] = "b: {{ .Values.b }} # changed\n"
	out = w.annotate(src)
	require.NoError(t, out.Err)
	assert.Contains(t, stderr.String(), "watch: rebuilt 1 of 2 plans\n")
	assert.Equal(t, "b: {{ .Values.b }} # changed", out.Plans[1].Lines[0].Raw)

	stderr.Reset()
	src.files["values.yaml"] = "a: 3\nb: 2\n"
	out = w.annotate(src)
	require.NoError(t, out.Err)
	assert.Contains(t, stderr.String(), "watch: rebuilt 2 of 2 plans\n")
	assert.Equal(t, "3", out.Plans[0].Lines[0].Spans[1].Default.Text)
}

func TestWatcherRequiresRegularFiles(t *testing.T) {
	w := NewWatcher(NewOptions(), annotate.Opts{}, ui.NewCustomTTY(false, nil, &bytes.Buffer{}, &bytes.Buffer{}))

	err := w.Run(&BulkFilesSource{}, &BulkFilesSource{})
	require.EqualError(t, err, "Expected --watch to be used with files specified via -f")
}
