// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	templatesDir = "templates"
	subchartsDir = "charts"
	chartFile    = "Chart.yaml"
	valuesSchema = "values.schema.json"
)

var (
	templateExts = []string{".yaml", ".yml", ".tpl", ".txt"}
	valuesExts   = []string{".yaml", ".yml", ".json", ".toml"}
)

type Role int

const (
	RoleIgnored Role = iota
	RoleTemplate
	RoleValues
	RoleChartMetadata
)

func (r Role) String() string {
	switch r {
	case RoleTemplate:
		return "template"
	case RoleValues:
		return "values"
	case RoleChartMetadata:
		return "chart"
	default:
		return "ignored"
	}
}

type FilesOpts struct {
	Symlinks SymlinkAllowOpts
}

type File struct {
	src     Source
	relPath string
	role    Role
}

// NewFiles expands paths into files. "-" reads stdin, http(s) URLs are
// fetched, and directories are walked in sorted order with paths
// relative to the directory (a chart root).
func NewFiles(paths []string, opts FilesOpts) ([]*File, error) {
	var fileSrcs []Source

	for _, path := range paths {
		switch {
		case path == "-":
			fileSrcs = append(fileSrcs, NewStdinSource())

		case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
			fileSrcs = append(fileSrcs, NewHTTPSource(path))

		default:
			fileInfo, err := os.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("Checking file '%s': %s", path, err)
			}

			if !fileInfo.IsDir() {
				fileSrcs = append(fileSrcs, NewLocalSource(path, ""))
				continue
			}

			var selectedPaths []string

			err = filepath.Walk(path, func(walkedPath string, fi os.FileInfo, err error) error {
				if err != nil || fi.IsDir() {
					return err
				}
				if fi.Mode()&os.ModeSymlink != 0 {
					err := Symlink{walkedPath}.IsAllowed(opts.Symlinks)
					if err != nil {
						return err
					}
					target, err := os.Stat(walkedPath)
					if err != nil || target.IsDir() {
						return err
					}
				}
				selectedPaths = append(selectedPaths, walkedPath)
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("Listing files '%s': %s", path, err)
			}

			sort.Strings(selectedPaths)

			for _, selectedPath := range selectedPaths {
				fileSrcs = append(fileSrcs, NewLocalSource(selectedPath, path))
			}
		}
	}

	var files []*File

	for _, fileSrc := range fileSrcs {
		file, err := NewFileFromSource(fileSrc)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func NewFileFromSource(fileSrc Source) (*File, error) {
	relPath, err := fileSrc.RelativePath()
	if err != nil {
		return nil, fmt.Errorf("Calculating relative path for '%s': %s", fileSrc.Description(), err)
	}

	return &File{src: fileSrc, relPath: relPath, role: roleForPath(relPath)}, nil
}

func MustNewFileFromSource(fileSrc Source) *File {
	file, err := NewFileFromSource(fileSrc)
	if err != nil {
		panic(err)
	}
	return file
}

func (r *File) Description() string    { return r.src.Description() }
func (r *File) RelativePath() string   { return r.relPath }
func (r *File) Bytes() ([]byte, error) { return r.src.Bytes() }
func (r *File) Role() Role             { return r.role }

// MarkRole overrides the role derived from the file path.
func (r *File) MarkRole(role Role) { r.role = role }

// LocalPath returns the filesystem path for local files.
func (r *File) LocalPath() (string, bool) {
	if src, ok := r.src.(LocalSource); ok {
		return src.path, true
	}
	return "", false
}

func roleForPath(relPath string) Role {
	dir, name := path.Split(relPath)
	dir = strings.TrimSuffix(dir, "/")

	switch {
	case dir == subchartsDir || strings.HasPrefix(dir, subchartsDir+"/"):
		return RoleIgnored
	case dir == "" && name == chartFile:
		return RoleChartMetadata
	case dir == "" && isValuesFileName(name):
		return RoleValues
	case (dir == "" || dir == templatesDir || strings.HasPrefix(dir, templatesDir+"/")) && matchesExt(name, templateExts):
		return RoleTemplate
	default:
		return RoleIgnored
	}
}

func isValuesFileName(name string) bool {
	return name != valuesSchema && strings.HasPrefix(name, "values") && matchesExt(name, valuesExts)
}

func matchesExt(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
