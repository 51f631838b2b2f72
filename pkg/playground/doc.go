// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package playground bundles the example charts offered by the website.

Each example lives in examples/<id>/ as a tiny chart (values.yaml and
templates/) and is listed in examples/index.toml.
*/
package playground
