// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"fmt"

	"carvel.dev/chartnote/pkg/cmd/ui"
	"carvel.dev/chartnote/pkg/files"
	"github.com/spf13/cobra"
)

type RegularFilesSourceOpts struct {
	files           []string
	filterTemplates []string
	outputDir       string

	symlinkAllowAll bool
	symlinkAllowDst []string

	OutputOpts OutputOpts
}

func (s *RegularFilesSourceOpts) Set(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&s.files, "file", "f", nil, "Chart directory or file (ie local path, HTTP URL, -) (can be specified multiple times)")
	cmd.Flags().StringArrayVar(&s.filterTemplates, "template", nil, "Only annotate template with given relative path (eg templates/service.yaml) (can be specified multiple times)")
	cmd.Flags().StringVar(&s.outputDir, "output-files", "", "Directory to write one annotated file per template to")

	cmd.Flags().BoolVar(&s.symlinkAllowAll, "dangerous-allow-all-symlinks", false, "Follow symlinks to any destination")
	cmd.Flags().StringArrayVar(&s.symlinkAllowDst, "allow-symlink-destination", nil, "Allow symlinks pointing into given directory (can be specified multiple times)")

	s.OutputOpts.Set(cmd)
}

// Files returns the local and remote paths given with -f.
func (s *RegularFilesSourceOpts) Files() []string { return s.files }

type RegularFilesSource struct {
	opts RegularFilesSourceOpts
	ui   ui.UI
}

func NewRegularFilesSource(opts RegularFilesSourceOpts, ui ui.UI) *RegularFilesSource {
	return &RegularFilesSource{opts, ui}
}

func (s *RegularFilesSource) HasInput() bool  { return len(s.opts.files) > 0 }
func (s *RegularFilesSource) HasOutput() bool { return true }

func (s *RegularFilesSource) Input() (AnnotateInput, error) {
	filesOpts := files.FilesOpts{
		Symlinks: files.SymlinkAllowOpts{
			AllowAll:        s.opts.symlinkAllowAll,
			AllowedDstPaths: s.opts.symlinkAllowDst,
		},
	}

	filesToProcess, err := files.NewFiles(s.opts.files, filesOpts)
	if err != nil {
		return AnnotateInput{}, err
	}

	if len(s.opts.filterTemplates) > 0 {
		for _, file := range filesToProcess {
			if file.Role() == files.RoleTemplate && !s.selected(file) {
				file.MarkRole(files.RoleIgnored)
			}
		}
	}

	return AnnotateInput{Files: filesToProcess}, nil
}

func (s *RegularFilesSource) selected(file *files.File) bool {
	for _, path := range s.opts.filterTemplates {
		if path == file.RelativePath() {
			return true
		}
	}
	return false
}

func (s *RegularFilesSource) Output(out AnnotateOutput) error {
	if out.Err != nil {
		return out.Err
	}

	if len(s.opts.outputDir) > 0 {
		outputFiles, err := s.opts.OutputOpts.Files(out.Plans)
		if err != nil {
			return err
		}
		return files.NewOutputDirectory(s.opts.outputDir, outputFiles, s.ui).Write()
	}

	resultBytes, err := s.opts.OutputOpts.Combined(out.Plans)
	if err != nil {
		return fmt.Errorf("Rendering annotations: %s", err)
	}

	s.ui.Debugf("### result\n")
	s.ui.Printf("%s", resultBytes) // no newline

	return nil
}
