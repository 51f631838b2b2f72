// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package playground

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed examples
var examplesFS embed.FS

const examplesDir = "examples"

type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type Example struct {
	ID          string `json:"id" toml:"id"`
	DisplayName string `json:"display_name" toml:"display_name"`
	Description string `json:"description" toml:"description"`
	Files       []File `json:"files,omitempty" toml:"-"`
}

type exampleIndex struct {
	Examples []Example `toml:"example"`
}

var (
	examplesOnce sync.Once
	examples     []Example
)

// Examples returns the bundled example charts in display order.
func Examples() []Example {
	examplesOnce.Do(func() {
		var err error
		examples, err = loadExamples(examplesFS, examplesDir)
		if err != nil {
			panic(fmt.Sprintf("Loading bundled examples: %s", err))
		}
	})
	return examples
}

// FindExample returns the example with given id, including its files.
func FindExample(id string) (Example, bool) {
	for _, example := range Examples() {
		if example.ID == id {
			return example, true
		}
	}
	return Example{}, false
}

func loadExamples(fsys fs.FS, dir string) ([]Example, error) {
	indexBytes, err := fs.ReadFile(fsys, path.Join(dir, "index.toml"))
	if err != nil {
		return nil, err
	}

	var index exampleIndex

	_, err = toml.Decode(string(indexBytes), &index)
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling index: %s", err)
	}

	for i, example := range index.Examples {
		if example.ID == "" {
			return nil, fmt.Errorf("Expected example #%d to have an id", i+1)
		}

		exampleDir := path.Join(dir, example.ID)

		err := fs.WalkDir(fsys, exampleDir, func(filePath string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			content, err := fs.ReadFile(fsys, filePath)
			if err != nil {
				return err
			}
			// WalkDir visits in lexical order
			index.Examples[i].Files = append(index.Examples[i].Files, File{
				Name:    filePath[len(exampleDir)+1:],
				Content: string(content),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("Reading example '%s': %s", example.ID, err)
		}

		if len(index.Examples[i].Files) == 0 {
			return nil, fmt.Errorf("Expected example '%s' to have files", example.ID)
		}
	}

	return index.Examples, nil
}
