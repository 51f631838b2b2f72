// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"carvel.dev/chartnote/pkg/annotate"
	cmdann "carvel.dev/chartnote/pkg/cmd/annotate"
	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/files"
	"carvel.dev/chartnote/pkg/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceTpl = `apiVersion: v1
kind: Service
spec:
  type: {{ .Values.hub.service.type }}
  ports:
    - port: {{ .Values.hub.service.port }}
`

const chartValues = `hub:
  service:
    # -- Service type
    type: ClusterIP
    port: 80
`

func chartFiles() []*files.File {
	return []*files.File{
		files.MustNewFileFromSource(files.NewBytesSource("Chart.yaml", []byte("name: hub\n"))),
		files.MustNewFileFromSource(files.NewBytesSource("values.yaml", []byte(chartValues))),
		files.MustNewFileFromSource(files.NewBytesSource("templates/service.yaml", []byte(serviceTpl))),
	}
}

func testUI() (ui.TTY, *bytes.Buffer) {
	var stdout bytes.Buffer
	return ui.NewCustomTTY(false, nil, &stdout, &bytes.Buffer{}), &stdout
}

func defaultFor(t *testing.T, plan *annotate.Plan, lineNum int) *values.Default {
	for _, span := range plan.Lines[lineNum-1].Spans {
		if span.Kind == annotate.ValuesReference {
			return span.Default
		}
	}
	t.Fatalf("Expected line %d to contain values reference", lineNum)
	return nil
}

func TestRunWithFiles(t *testing.T) {
	tty, _ := testUI()
	opts := cmdann.NewOptions()

	out := opts.RunWithFiles(cmdann.AnnotateInput{Files: chartFiles()}, annotate.Opts{}, tty)
	require.NoError(t, out.Err)
	require.Len(t, out.Plans, 1)

	plan := out.Plans[0]
	assert.Equal(t, "templates/service.yaml", plan.Name)
	assert.Equal(t, "ClusterIP", defaultFor(t, plan, 4).Text)
	assert.Equal(t, "Service type", defaultFor(t, plan, 4).Description)
	assert.Equal(t, "80", defaultFor(t, plan, 6).Text)
}

func TestRunWithFilesValuesFlags(t *testing.T) {
	tty, _ := testUI()
	opts := cmdann.NewOptions()
	opts.ValuesFlags.KVsFromStrings = []string{"hub.service.type=NodePort"}
	opts.ValuesFlags.KVsFromYAML = []string{"hub.service.port=8080"}

	t.Setenv("CHARTNOTE_TEST_hub__extra", "yes")
	opts.ValuesFlags.EnvFromStrings = []string{"CHARTNOTE_TEST"}

	out := opts.RunWithFiles(cmdann.AnnotateInput{Files: chartFiles()}, annotate.Opts{}, tty)
	require.NoError(t, out.Err)

	plan := out.Plans[0]
	assert.Equal(t, "NodePort", defaultFor(t, plan, 4).Text)
	assert.Equal(t, "8080", defaultFor(t, plan, 6).Text)

	vals, err := opts.Values(files.NewChart(chartFiles()))
	require.NoError(t, err)
	extra, found := vals.Lookup("hub.extra")
	require.True(t, found)
	assert.Equal(t, "yes", extra.Scalar())
}

func TestRunWithFilesValuesFiles(t *testing.T) {
	dir := t.TempDir()
	overridePath := filepath.Join(dir, "prod.toml")
	require.NoError(t, os.WriteFile(overridePath, []byte("[hub.service]\nport = 443\n"), 0600))

	configPath := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(configPath, []byte("a=b\n"), 0600))

	tty, _ := testUI()
	opts := cmdann.NewOptions()
	opts.ValuesFlags.ValuesFiles = []string{overridePath}
	opts.ValuesFlags.KVsFromFiles = []string{"hub.config=" + configPath}

	vals, err := opts.Values(files.NewChart(chartFiles()))
	require.NoError(t, err)

	port, _ := vals.Lookup("hub.service.port")
	assert.Equal(t, "443", port.Scalar())
	svcType, _ := vals.Lookup("hub.service.type")
	assert.Equal(t, "ClusterIP", svcType.Scalar())
	cfg, _ := vals.Lookup("hub.config")
	assert.Equal(t, "a=b\n", cfg.Scalar())

	out := opts.RunWithFiles(cmdann.AnnotateInput{Files: chartFiles()}, annotate.Opts{}, tty)
	require.NoError(t, out.Err)
}

func TestRunWithFilesValuesFlagsErrors(t *testing.T) {
	tty, _ := testUI()

	opts := cmdann.NewOptions()
	opts.ValuesFlags.KVsFromStrings = []string{"novalue"}
	out := opts.RunWithFiles(cmdann.AnnotateInput{Files: chartFiles()}, annotate.Opts{}, tty)
	require.EqualError(t, out.Err, "Extracting value from KV: Expected format key=value")

	opts = cmdann.NewOptions()
	opts.ValuesFlags.KVsFromStrings = []string{"a..b=1"}
	out = opts.RunWithFiles(cmdann.AnnotateInput{Files: chartFiles()}, annotate.Opts{}, tty)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "empty segments")
}

func TestRunWithFilesWithoutTemplates(t *testing.T) {
	tty, _ := testUI()
	filesToProcess := []*files.File{
		files.MustNewFileFromSource(files.NewBytesSource("values.yaml", []byte(chartValues))),
	}

	out := cmdann.NewOptions().RunWithFiles(cmdann.AnnotateInput{Files: filesToProcess}, annotate.Opts{}, tty)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "Expected at least one template")
}

func TestRunWithFilesInspect(t *testing.T) {
	tty, stdout := testUI()
	opts := cmdann.NewOptions()
	opts.ValuesFlags.Inspect = true
	opts.ValuesFlags.KVsFromYAML = []string{"hub.service.port=9090"}

	out := opts.RunWithFiles(cmdann.AnnotateInput{Files: chartFiles()}, annotate.Opts{}, tty)
	require.NoError(t, out.Err)
	assert.True(t, out.Empty)
	assert.Equal(t, "hub:\n  service:\n    type: ClusterIP\n    port: 9090\n", stdout.String())
}

func TestBulkInputOutput(t *testing.T) {
	bulkIn, err := json.Marshal(cmdann.BulkFiles{Files: []cmdann.BulkFile{
		{Name: "values.yaml", Data: "port: 80\n"},
		{Name: "templates/svc.yaml", Data: "port: {{ .Values.port }}"},
	}})
	require.NoError(t, err)

	in, err := cmdann.NewBulkInput(bulkIn)
	require.NoError(t, err)

	tty, _ := testUI()
	out := cmdann.NewOptions().RunWithFiles(in, annotate.Opts{}, tty)
	require.NoError(t, out.Err)

	result, err := cmdann.NewBulkOutput(out)
	require.NoError(t, err)

	var plans cmdann.BulkPlans
	require.NoError(t, json.Unmarshal(result, &plans))
	require.Len(t, plans.Plans, 1)
	assert.Equal(t, "templates/svc.yaml", plans.Plans[0].Name)
	assert.Equal(t, annotate.ValuesReference, plans.Plans[0].Lines[0].Spans[1].Kind)
	assert.Equal(t, "80", plans.Plans[0].Lines[0].Spans[1].Default.Text)

	result, err = cmdann.NewBulkOutput(cmdann.AnnotateOutput{Err: assert.AnError})
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors": "`+assert.AnError.Error()+`"}`, string(result))

	_, err = cmdann.NewBulkInput([]byte("{"))
	require.Error(t, err)
}

func TestOutputFormats(t *testing.T) {
	tty, _ := testUI()
	out := cmdann.NewOptions().RunWithFiles(cmdann.AnnotateInput{Files: chartFiles()}, annotate.Opts{}, tty)
	require.NoError(t, out.Err)

	text, err := cmdann.OutputOpts{Format: cmdann.OutputText, AnnotatedOnly: true}.Combined(out.Plans)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text), "--- templates/service.yaml\n   4 |   type: {{ .Values.hub.service.type }}\n"), string(text))
	assert.NotContains(t, string(text), "kind: Service")

	jsonBytes, err := cmdann.OutputOpts{Format: cmdann.OutputJSON}.Combined(out.Plans)
	require.NoError(t, err)
	var plans []*annotate.Plan
	require.NoError(t, json.Unmarshal(jsonBytes, &plans))
	assert.Equal(t, out.Plans[0].AsString(), plans[0].AsString())

	htmlBytes, err := cmdann.OutputOpts{Format: cmdann.OutputHTML}.Combined(out.Plans)
	require.NoError(t, err)
	assert.Contains(t, string(htmlBytes), "<h2>templates/service.yaml</h2>")

	outputFiles, err := cmdann.OutputOpts{Format: cmdann.OutputHTML}.Files(out.Plans)
	require.NoError(t, err)
	require.Len(t, outputFiles, 1)
	assert.Equal(t, "templates/service.yaml.html", outputFiles[0].RelativePath())

	require.Error(t, cmdann.OutputOpts{Format: "pdf"}.Validate())
}

func TestRegularFilesSourceFilter(t *testing.T) {
	dir := t.TempDir()
	for path, content := range map[string]string{
		"values.yaml":            chartValues,
		"templates/service.yaml": serviceTpl,
		"templates/other.yaml":   "a: {{ .Values.a }}\n",
	} {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0700))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0600))
	}

	tty, stdout := testUI()
	opts := cmdann.NewOptions()
	srcCmd := cmdann.NewCmd(opts)
	require.NoError(t, srcCmd.Flags().Parse([]string{"-f", dir, "--template", "templates/service.yaml", "-o", "json"}))

	src := cmdann.NewRegularFilesSource(opts.RegularFilesSourceOpts, tty)
	require.True(t, src.HasInput())

	in, err := src.Input()
	require.NoError(t, err)

	out := opts.RunWithFiles(in, annotate.Opts{}, tty)
	require.NoError(t, out.Err)
	require.Len(t, out.Plans, 1)
	assert.Equal(t, "templates/service.yaml", out.Plans[0].Name)

	require.NoError(t, src.Output(out))
	assert.True(t, strings.HasPrefix(stdout.String(), "[\n  {\n    \"name\": \"templates/service.yaml\""), stdout.String())
}
