// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package website

import (
	"embed"
	"io/fs"
	"path"
)

type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

//go:embed assets
var assetsFS embed.FS

// Files maps asset paths (eg templates/index.html) to their contents.
var Files = mustLoadFiles()

func mustLoadFiles() map[string]File {
	result := map[string]File{}

	err := fs.WalkDir(assetsFS, "assets", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := assetsFS.ReadFile(p)
		if err != nil {
			return err
		}
		name := p[len("assets/"):]
		result[name] = File{Name: path.Base(name), Content: string(content)}
		return nil
	})
	if err != nil {
		panic("Loading website assets: " + err.Error())
	}

	return result
}
