// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package website serves the chartnote playground and its JSON API.

	POST /annotate                   bulk chart files in, render plans out
	GET  /definitions/{kind}/{name}  definition Markdown and rendered HTML
	GET  /search?q=...               fuzzy search over definitions
	GET  /health
*/
package website
