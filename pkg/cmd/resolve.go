// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/files"
	"carvel.dev/chartnote/pkg/values"
	"github.com/spf13/cobra"
)

type ResolveOptions struct {
	ChartFlags ChartFlags
	Path       string
	Format     string
}

func NewResolveOptions() *ResolveOptions {
	return &ResolveOptions{}
}

func NewResolveCmd(o *ResolveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolve",
		Aliases: []string{"r"},
		Short:   "Print default value for a values reference",
		Example: "chartnote resolve -f chart/ --path .Values.hub.service.port",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	o.ChartFlags.Set(cmd)
	cmd.Flags().StringVar(&o.Path, "path", "", "Values reference (eg .Values.hub.port) or plain key path (eg hub.port)")
	cmd.Flags().StringVar(&o.Format, "format", "", "Format of structured defaults (json, yaml) (defaults to config values_format)")
	return cmd
}

func (o *ResolveOptions) Run() error {
	filesToProcess, err := o.ChartFlags.Load()
	if err != nil {
		return err
	}
	return o.RunWithFiles(filesToProcess, ui.NewTTY(false))
}

func (o *ResolveOptions) RunWithFiles(filesToProcess []*files.File, ui ui.UI) error {
	if len(o.Path) == 0 {
		return fmt.Errorf("Expected --path to be specified")
	}

	conf, err := o.ChartFlags.ConfigFlags.Load()
	if err != nil {
		return err
	}

	formatName := o.Format
	if len(formatName) == 0 {
		formatName = conf.ValuesFormat
	}

	format, err := values.ParseFormat(formatName)
	if err != nil {
		return err
	}

	vals, err := o.ChartFlags.Values(files.NewChart(filesToProcess))
	if err != nil {
		return err
	}

	def := values.Resolve(vals, o.valuesPath(), values.RenderOpts{Format: format})

	if len(def.Description) > 0 {
		ui.Printf("# %s\n", def.Description)
	}
	if !def.Found() {
		ui.Printf("%s\n", annotate.NoDefaultText)
		return nil
	}

	ui.Printf("%s\n", def.Text)

	return nil
}

func (o *ResolveOptions) valuesPath() string {
	classifier := annotate.NewClassifier(annotate.ClassifierOpts{RootScope: true})

	word := annotate.TrimmedWord{Identifier: o.Path}
	if classifier.Classify(word, false) == annotate.ValuesReference {
		return classifier.ValuesPath(o.Path)
	}
	return o.Path
}
