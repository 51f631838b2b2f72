// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"carvel.dev/chartnote/pkg/files"
	"carvel.dev/chartnote/pkg/values"
	"github.com/spf13/cobra"
)

// ValuesFlags layer overrides on top of a chart's values files, the
// same way they would be passed to helm.
type ValuesFlags struct {
	ValuesFiles []string

	EnvFromStrings []string
	EnvFromYAML    []string

	KVsFromStrings []string
	KVsFromYAML    []string
	KVsFromFiles   []string

	Inspect bool
}

func (s *ValuesFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&s.ValuesFiles, "values", nil, "Values file layered on top of chart values (YAML, JSON or TOML; local path, HTTP URL) (can be specified multiple times)")

	cmd.Flags().StringArrayVar(&s.EnvFromStrings, "values-env", nil, "Extract values (as strings) from prefixed env vars (format: PREFIX for PREFIX_hub__port=str) (can be specified multiple times)")
	cmd.Flags().StringArrayVar(&s.EnvFromYAML, "values-env-yaml", nil, "Extract values (parsed as YAML) from prefixed env vars (format: PREFIX for PREFIX_hub__port=80) (can be specified multiple times)")

	cmd.Flags().StringArrayVar(&s.KVsFromStrings, "set", nil, "Set specific value, as string (format: hub.service.type=NodePort) (can be specified multiple times)")
	cmd.Flags().StringArrayVar(&s.KVsFromYAML, "set-yaml", nil, "Set specific value, parsed as YAML (format: hub.service.port=80) (can be specified multiple times)")
	cmd.Flags().StringArrayVar(&s.KVsFromFiles, "set-file", nil, "Set specific value to given file contents, as string (format: hub.config=/file/path) (can be specified multiple times)")

	cmd.Flags().BoolVar(&s.Inspect, "values-inspect", false, "Print final values instead of annotating")
}

type valuesFlagsSource struct {
	Values        []string
	TransformFunc func(string) (*values.Value, error)
}

// Values returns base with all overrides applied in order: values files,
// env vars, then key-values and files.
func (s *ValuesFlags) Values(base *values.Value) (*values.Value, error) {
	plainValFunc := func(rawVal string) (*values.Value, error) { return values.NewString(rawVal), nil }

	yamlValFunc := func(rawVal string) (*values.Value, error) {
		val, err := values.FromYAML([]byte(rawVal))
		if err != nil {
			return nil, fmt.Errorf("Deserializing YAML value: %s", err)
		}
		return val, nil
	}

	result := base

	overrideFiles, err := files.NewFiles(s.ValuesFiles, files.FilesOpts{})
	if err != nil {
		return nil, err
	}
	for _, file := range overrideFiles {
		vals, err := ValuesFromFile(file)
		if err != nil {
			return nil, err
		}
		result = values.Merge(result, vals)
	}

	for _, src := range []valuesFlagsSource{{s.EnvFromStrings, plainValFunc}, {s.EnvFromYAML, yamlValFunc}} {
		for _, envPrefix := range src.Values {
			vals, err := s.env(envPrefix, src.TransformFunc)
			if err != nil {
				return nil, fmt.Errorf("Extracting values from env under prefix '%s': %s", envPrefix, err)
			}
			result = values.Merge(result, vals)
		}
	}

	// KVs and files take precedence over environment variables
	for _, src := range []valuesFlagsSource{{s.KVsFromStrings, plainValFunc}, {s.KVsFromYAML, yamlValFunc}} {
		for _, kv := range src.Values {
			vals, err := s.kv(kv, src.TransformFunc)
			if err != nil {
				return nil, fmt.Errorf("Extracting value from KV: %s", err)
			}
			result = values.Merge(result, vals)
		}
	}

	for _, file := range s.KVsFromFiles {
		vals, err := s.kv(file, s.fileContents)
		if err != nil {
			return nil, fmt.Errorf("Extracting value from file: %s", err)
		}
		result = values.Merge(result, vals)
	}

	return result, nil
}

func (s *ValuesFlags) env(prefix string, valueFunc func(string) (*values.Value, error)) (*values.Value, error) {
	var result *values.Value

	envVars := os.Environ()
	sort.Strings(envVars)

	for _, envVar := range envVars {
		pieces := strings.SplitN(envVar, "=", 2)
		if len(pieces) != 2 {
			return nil, fmt.Errorf("Expected env variable to be key-value pair (format: key=value)")
		}

		if !strings.HasPrefix(pieces[0], prefix+"_") {
			continue
		}

		val, err := valueFunc(pieces[1])
		if err != nil {
			return nil, fmt.Errorf("Extracting value from env variable '%s': %s", pieces[0], err)
		}

		// '__' gets translated into a '.' since periods may not be liked by shells
		key := strings.Replace(strings.TrimPrefix(pieces[0], prefix+"_"), "__", ".", -1)

		nested, err := values.NewFromPath(key, val)
		if err != nil {
			return nil, err
		}
		result = values.Merge(result, nested)
	}

	return result, nil
}

func (s *ValuesFlags) kv(kv string, valueFunc func(string) (*values.Value, error)) (*values.Value, error) {
	pieces := strings.SplitN(kv, "=", 2)
	if len(pieces) != 2 {
		return nil, fmt.Errorf("Expected format key=value")
	}

	val, err := valueFunc(pieces[1])
	if err != nil {
		return nil, fmt.Errorf("Deserializing value for key '%s': %s", pieces[0], err)
	}

	return values.NewFromPath(pieces[0], val)
}

func (s *ValuesFlags) fileContents(path string) (*values.Value, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Reading file '%s': %s", path, err)
	}
	return values.NewString(string(contents)), nil
}

// ValuesFromFile decodes a values file based on its extension.
func ValuesFromFile(file *files.File) (*values.Value, error) {
	data, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("Reading %s: %s", file.Description(), err)
	}

	vals, err := values.FromFile(file.RelativePath(), data)
	if err != nil {
		return nil, fmt.Errorf("Decoding values %s: %s", file.Description(), err)
	}
	return vals, nil
}
