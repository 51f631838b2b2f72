// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package definitions holds the documentation shown for built-in objects and
template functions.

Two tables are bundled with the binary (tables/builtins.toml and
tables/functions.toml), decoded once on first use and never modified
afterwards. Lookups are exact and case-sensitive. Documentation is Markdown;
a link labelled "iconLink" is rendered as an icon rather than as its label.
*/
package definitions
