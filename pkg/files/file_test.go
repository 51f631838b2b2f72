// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"carvel.dev/chartnote/pkg/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChart(t *testing.T) string {
	dir := t.TempDir()
	contents := map[string]string{
		"Chart.yaml":                   "name: hub\nversion: 1.2.3\n",
		"values.yaml":                  "port: 80\n",
		"values.schema.json":           "{}",
		"README.md":                    "# hub\n",
		"templates/service.yaml":       "port: {{ .Values.port }}\n",
		"templates/_helpers.tpl":       "{{- define \"hub.name\" -}}hub{{- end }}\n",
		"templates/NOTES.txt":          "Installed {{ .Release.Name }}\n",
		"templates/tests/test-pod.yml": "kind: Pod\n",
		"charts/db/values.yaml":        "a: 1\n",
		"charts/db/templates/db.yaml":  "kind: StatefulSet\n",
	}
	for path, content := range contents {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0700))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0600))
	}
	return dir
}

func TestNewFilesFromChartDirectory(t *testing.T) {
	dir := writeChart(t)

	filesList, err := files.NewFiles([]string{dir}, files.FilesOpts{})
	require.NoError(t, err)

	roles := map[string]string{}
	for _, file := range filesList {
		roles[file.RelativePath()] = file.Role().String()
	}

	assert.Equal(t, map[string]string{
		"Chart.yaml":                   "chart",
		"values.yaml":                  "values",
		"values.schema.json":           "ignored",
		"README.md":                    "ignored",
		"templates/service.yaml":       "template",
		"templates/_helpers.tpl":       "template",
		"templates/NOTES.txt":          "template",
		"templates/tests/test-pod.yml": "template",
		"charts/db/values.yaml":        "ignored",
		"charts/db/templates/db.yaml":  "ignored",
	}, roles)

	chart := files.NewChart(filesList)
	require.Len(t, chart.Values, 1)

	var templatePaths []string
	for _, tpl := range chart.Templates {
		templatePaths = append(templatePaths, tpl.RelativePath())
	}
	// walked in sorted order
	assert.Equal(t, []string{
		"templates/NOTES.txt", "templates/_helpers.tpl", "templates/service.yaml", "templates/tests/test-pod.yml",
	}, templatePaths)

	meta, err := chart.ReadMetadata()
	require.NoError(t, err)
	assert.Equal(t, "hub", meta.Name)
	assert.Equal(t, "1.2.3", meta.Version)

	svc, found := chart.FindTemplate("templates/service.yaml")
	require.True(t, found)
	data, err := svc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "port: {{ .Values.port }}\n", string(data))

	localPath, ok := svc.LocalPath()
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "templates", "service.yaml"), localPath)
}

func TestNewFilesSingleFiles(t *testing.T) {
	dir := writeChart(t)

	filesList, err := files.NewFiles([]string{
		filepath.Join(dir, "templates", "service.yaml"),
		filepath.Join(dir, "values.yaml"),
	}, files.FilesOpts{})
	require.NoError(t, err)
	require.Len(t, filesList, 2)

	assert.Equal(t, "service.yaml", filesList[0].RelativePath())
	assert.Equal(t, files.RoleTemplate, filesList[0].Role())
	assert.Equal(t, files.RoleValues, filesList[1].Role())

	filesList[1].MarkRole(files.RoleTemplate)
	assert.Equal(t, files.RoleTemplate, filesList[1].Role())
}

func TestNewFilesMissing(t *testing.T) {
	_, err := files.NewFiles([]string{filepath.Join(t.TempDir(), "nope")}, files.FilesOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Checking file")
}

func TestNewFilesSymlinks(t *testing.T) {
	dir := writeChart(t)
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "cm.yaml"), []byte("kind: ConfigMap\n"), 0600))
	require.NoError(t, os.Symlink(filepath.Join(outside, "cm.yaml"), filepath.Join(dir, "templates", "cm.yaml")))

	_, err := files.NewFiles([]string{dir}, files.FilesOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to be allowed, but was not")

	filesList, err := files.NewFiles([]string{dir}, files.FilesOpts{
		Symlinks: files.SymlinkAllowOpts{AllowedDstPaths: []string{outside}},
	})
	require.NoError(t, err)
	_, found := files.NewChart(filesList).FindTemplate("templates/cm.yaml")
	assert.True(t, found)
}

type recordingUI struct{ printed []string }

func (u *recordingUI) Printf(str string, args ...interface{}) { u.printed = append(u.printed, str) }
func (u *recordingUI) Debugf(string, ...interface{})           {}
func (u *recordingUI) DebugWriter() io.Writer                  { return io.Discard }

func TestOutputDirectory(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	ui := &recordingUI{}

	outputs := []files.OutputFile{
		files.NewOutputFileForTemplate("templates/service.yaml", ".html", []byte("<pre></pre>")),
		files.NewOutputFile("index.json", []byte("[]")),
	}
	require.NoError(t, files.NewOutputDirectory(outDir, outputs, ui).Write())

	data, err := os.ReadFile(filepath.Join(outDir, "templates", "service.yaml.html"))
	require.NoError(t, err)
	assert.Equal(t, "<pre></pre>", string(data))
	assert.Len(t, ui.printed, 2)

	err = files.NewOutputDirectory(".", outputs, ui).Write()
	require.Error(t, err)

	dup := []files.OutputFile{files.NewOutputFile("a", nil), files.NewOutputFile("a", nil)}
	err = files.NewOutputDirectory(outDir, dup, ui).Write()
	require.EqualError(t, err, "Expected templates to have unique output paths, but 'a' repeats")
}
