// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map).

Values trees keep the key order of the chart's values file so that structured
defaults render in the same order the chart author wrote them, and so that
annotating the same input twice always yields byte-identical output.
*/
package orderedmap
