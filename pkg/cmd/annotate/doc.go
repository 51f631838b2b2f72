// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package annotate implements the "annotate" command: it loads a chart (or
individual templates), layers values overrides given as flags and prints a
render plan per template.
*/
package annotate
