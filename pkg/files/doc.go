// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files provides primitives for enumerating and loading chart files
from various file or file-like Source's and for writing annotated output
to filesystem directories.

Each File gets a Role from its path relative to the chart root: Chart.yaml
is chart metadata, values*.yaml (or .json, .toml) next to it are values and
files under templates/ are templates. Files in charts/ (subcharts) are
ignored.
*/
package files
