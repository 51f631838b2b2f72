// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	cmdann "carvel.dev/chartnote/pkg/cmd/annotate"
	"carvel.dev/chartnote/pkg/files"
	"carvel.dev/chartnote/pkg/values"
	"github.com/spf13/cobra"
)

// ChartFlags selects a chart and its values for commands that work
// with a single template or path instead of annotating everything.
type ChartFlags struct {
	Files       []string
	ValuesFlags cmdann.ValuesFlags
	ConfigFlags cmdann.ConfigFlags
}

func (s *ChartFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&s.Files, "file", "f", nil, "Chart directory or file (ie local path, HTTP URL) (can be specified multiple times)")
	s.ValuesFlags.Set(cmd)
	s.ConfigFlags.Set(cmd)

	cmd.Flags().MarkHidden("values-inspect")
}

func (s *ChartFlags) Load() ([]*files.File, error) {
	return files.NewFiles(s.Files, files.FilesOpts{})
}

func (s *ChartFlags) Values(chart *files.Chart) (*values.Value, error) {
	opts := cmdann.NewOptions()
	opts.ValuesFlags = s.ValuesFlags
	return opts.Values(chart)
}
