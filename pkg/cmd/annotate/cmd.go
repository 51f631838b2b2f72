// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"fmt"
	"time"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/files"
	"carvel.dev/chartnote/pkg/values"
	"github.com/spf13/cobra"
)

type AnnotateOptions struct {
	Debug bool
	Watch bool

	ConfigFlags            ConfigFlags
	BulkFilesSourceOpts    BulkFilesSourceOpts
	RegularFilesSourceOpts RegularFilesSourceOpts
	ValuesFlags            ValuesFlags
}

type AnnotateInput struct {
	Files []*files.File
}

type AnnotateOutput struct {
	Plans []*annotate.Plan
	Err   error
	Empty bool
}

type FileSource interface {
	HasInput() bool
	HasOutput() bool
	Input() (AnnotateInput, error)
	Output(AnnotateOutput) error
}

var _ []FileSource = []FileSource{&BulkFilesSource{}, &RegularFilesSource{}}

func NewOptions() *AnnotateOptions {
	return &AnnotateOptions{}
}

func NewCmd(o *AnnotateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "annotate",
		Aliases: []string{"a", "ann"},
		Short:   "Annotate chart templates with values defaults and definitions",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	cmd.Flags().BoolVar(&o.Watch, "watch", false, "Annotate again whenever local files change")
	o.ConfigFlags.Set(cmd)
	o.BulkFilesSourceOpts.Set(cmd)
	o.RegularFilesSourceOpts.Set(cmd)
	o.ValuesFlags.Set(cmd)
	return cmd
}

func (o *AnnotateOptions) Run() error {
	ui := ui.NewTTY(o.Debug)
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Now().Sub(t1))
	}()

	annotateOpts, err := o.AnnotateOpts()
	if err != nil {
		return err
	}

	srcs := []FileSource{
		NewBulkFilesSource(o.BulkFilesSourceOpts, ui),
		NewRegularFilesSource(o.RegularFilesSourceOpts, ui),
	}

	inSrc := o.pickSource(srcs, func(s FileSource) bool { return s.HasInput() })
	outSrc := o.pickSource(srcs, func(s FileSource) bool { return s.HasOutput() })

	if o.Watch {
		return NewWatcher(o, annotateOpts, ui).Run(inSrc, outSrc)
	}

	in, err := inSrc.Input()
	if err != nil {
		return err
	}

	out := o.RunWithFiles(in, annotateOpts, ui)
	if out.Empty {
		return nil
	}

	return outSrc.Output(out)
}

// AnnotateOpts loads the config file and validates output flags.
func (o *AnnotateOptions) AnnotateOpts() (annotate.Opts, error) {
	conf, err := o.ConfigFlags.Load()
	if err != nil {
		return annotate.Opts{}, err
	}

	err = o.RegularFilesSourceOpts.OutputOpts.Validate()
	if err != nil {
		return annotate.Opts{}, err
	}

	return conf.AnnotateOpts()
}

func (o *AnnotateOptions) RunWithFiles(in AnnotateInput, opts annotate.Opts, ui ui.UI) AnnotateOutput {
	chart := files.NewChart(in.Files)

	vals, err := o.Values(chart)
	if err != nil {
		return AnnotateOutput{Err: err}
	}

	if o.ValuesFlags.Inspect {
		return o.inspectValues(vals, ui)
	}

	if len(chart.Templates) == 0 {
		return AnnotateOutput{Err: fmt.Errorf("Expected at least one template (files under templates/ or passed directly with -f)")}
	}

	var plans []*annotate.Plan

	for _, file := range chart.Templates {
		tpl, err := NewTemplate(file)
		if err != nil {
			return AnnotateOutput{Err: err}
		}

		ui.Debugf("annotating: %s\n", file.RelativePath())
		plans = append(plans, annotate.Annotate(tpl, vals, opts))
	}

	return AnnotateOutput{Plans: plans}
}

// Values merges chart values files in order and applies overrides.
func (o *AnnotateOptions) Values(chart *files.Chart) (*values.Value, error) {
	var result *values.Value

	for _, file := range chart.Values {
		vals, err := ValuesFromFile(file)
		if err != nil {
			return nil, err
		}
		result = values.Merge(result, vals)
	}

	return o.ValuesFlags.Values(result)
}

func NewTemplate(file *files.File) (*annotate.Template, error) {
	data, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("Reading %s: %s", file.Description(), err)
	}
	return annotate.NewTemplate(file.RelativePath(), data), nil
}

func (o *AnnotateOptions) pickSource(srcs []FileSource, pickFunc func(FileSource) bool) FileSource {
	for _, src := range srcs {
		if pickFunc(src) {
			return src
		}
	}
	return srcs[len(srcs)-1]
}

func (o *AnnotateOptions) inspectValues(vals *values.Value, ui ui.UI) AnnotateOutput {
	if vals == nil {
		vals = values.NewMap(nil)
	}

	ui.Printf("%s\n", values.AsYAML(vals))

	return AnnotateOutput{Empty: true}
}
