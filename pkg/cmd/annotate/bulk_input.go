// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"encoding/json"

	"carvel.dev/chartnote/pkg/annotate"
	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/files"
	"github.com/spf13/cobra"
)

type BulkFilesSourceOpts struct {
	bulkIn  string
	bulkOut bool
}

func (s *BulkFilesSourceOpts) Set(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.bulkIn, "bulk-in", "", "Accept chart files in bulk format")
	cmd.Flags().BoolVar(&s.bulkOut, "bulk-out", false, "Output plans in bulk format")
}

type BulkFilesSource struct {
	opts BulkFilesSourceOpts
	ui   ui.UI
}

// BulkFiles is the request format of the website and --bulk-in.
// File names are relative to the chart root (eg templates/a.yaml).
type BulkFiles struct {
	Files  []BulkFile `json:"files,omitempty"`
	Errors string     `json:"errors,omitempty"`
}

type BulkFile struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// BulkPlans is the response format of the website and --bulk-out.
type BulkPlans struct {
	Plans  []*annotate.Plan `json:"plans,omitempty"`
	Errors string           `json:"errors,omitempty"`
}

func NewBulkFilesSource(opts BulkFilesSourceOpts, ui ui.UI) *BulkFilesSource {
	return &BulkFilesSource{opts, ui}
}

func (s *BulkFilesSource) HasInput() bool  { return len(s.opts.bulkIn) > 0 }
func (s *BulkFilesSource) HasOutput() bool { return s.opts.bulkOut }

func (s BulkFilesSource) Input() (AnnotateInput, error) {
	return NewBulkInput([]byte(s.opts.bulkIn))
}

func NewBulkInput(data []byte) (AnnotateInput, error) {
	var fs BulkFiles
	err := json.Unmarshal(data, &fs)
	if err != nil {
		return AnnotateInput{}, err
	}

	var result []*files.File

	for _, f := range fs.Files {
		file, err := files.NewFileFromSource(files.NewBytesSource(f.Name, []byte(f.Data)))
		if err != nil {
			return AnnotateInput{}, err
		}

		result = append(result, file)
	}

	return AnnotateInput{Files: result}, nil
}

func (s *BulkFilesSource) Output(out AnnotateOutput) error {
	resultBytes, err := NewBulkOutput(out)
	if err != nil {
		return err
	}

	s.ui.Debugf("### result\n")
	s.ui.Printf("%s", resultBytes)

	return nil
}

func NewBulkOutput(out AnnotateOutput) ([]byte, error) {
	result := BulkPlans{Plans: out.Plans}

	if out.Err != nil {
		result.Plans = nil
		result.Errors = out.Err.Error()
	}

	return json.Marshal(result)
}
