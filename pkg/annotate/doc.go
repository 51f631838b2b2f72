// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package annotate turns chart templates into render plans.

Every expression found by texttemplate is split into words, each word is
trimmed down to its identifier and classified as a values reference,
built-in object, variable, flow control keyword, function or plain text.
Values references carry the default resolved from the values tree;
built-ins and functions carry their definition.
*/
package annotate
