// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Chart groups files by their role in a chart directory.
type Chart struct {
	Metadata  *File
	Templates []*File
	Values    []*File
}

type ChartMetadata struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	AppVersion  string `yaml:"appVersion"`
	Description string `yaml:"description"`
}

func NewChart(files []*File) *Chart {
	chart := &Chart{}
	for _, file := range files {
		switch file.Role() {
		case RoleChartMetadata:
			chart.Metadata = file
		case RoleTemplate:
			chart.Templates = append(chart.Templates, file)
		case RoleValues:
			chart.Values = append(chart.Values, file)
		}
	}
	return chart
}

// ReadMetadata returns an empty ChartMetadata when Chart.yaml is absent.
func (c *Chart) ReadMetadata() (ChartMetadata, error) {
	var meta ChartMetadata
	if c.Metadata == nil {
		return meta, nil
	}

	data, err := c.Metadata.Bytes()
	if err != nil {
		return meta, fmt.Errorf("Reading %s: %s", c.Metadata.Description(), err)
	}

	err = yaml.Unmarshal(data, &meta)
	if err != nil {
		return meta, fmt.Errorf("Unmarshaling %s: %s", c.Metadata.Description(), err)
	}

	return meta, nil
}

// FindTemplate looks up a template by its relative path.
func (c *Chart) FindTemplate(relPath string) (*File, bool) {
	for _, file := range c.Templates {
		if file.RelativePath() == relPath {
			return file, true
		}
	}
	return nil, false
}
