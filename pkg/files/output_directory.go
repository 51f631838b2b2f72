// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"strings"
)

// Paths that --output-files refuses to empty.
var unsafeOutputDirs = []string{"/", ".", "./", ""}

// OutputDirectory is emptied and then receives one file per annotated template.
type OutputDirectory struct {
	path  string
	files []OutputFile
	ui    UI
}

func NewOutputDirectory(path string, files []OutputFile, ui UI) *OutputDirectory {
	return &OutputDirectory{path, files, ui}
}

func (d *OutputDirectory) Files() []OutputFile { return d.files }

func (d *OutputDirectory) Write() error {
	err := d.validate()
	if err != nil {
		return err
	}

	err = os.RemoveAll(d.path)
	if err != nil {
		return fmt.Errorf("Emptying output directory: %s", err)
	}

	err = os.MkdirAll(d.path, 0700)
	if err != nil {
		return fmt.Errorf("Creating output directory: %s", err)
	}

	for _, file := range d.files {
		d.ui.Printf("annotated: %s\n", file.Path(d.path))

		err := file.Create(d.path)
		if err != nil {
			return fmt.Errorf("Writing '%s': %s", file.RelativePath(), err)
		}
	}

	return nil
}

func (d *OutputDirectory) validate() error {
	for _, unsafePath := range unsafeOutputDirs {
		if d.path == unsafePath {
			return fmt.Errorf("Expected output directory path to not be one of '%s'",
				strings.Join(unsafeOutputDirs, "', '"))
		}
	}

	seen := map[string]struct{}{}

	for _, file := range d.files {
		if _, found := seen[file.RelativePath()]; found {
			return fmt.Errorf("Expected templates to have unique output paths, but '%s' repeats", file.RelativePath())
		}
		seen[file.RelativePath()] = struct{}{}
	}

	return nil
}
