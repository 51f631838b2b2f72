// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package values models a chart's values tree and resolves default values for
".Values.<path>" references.

A values tree is a Value: a tagged variant that is either a scalar (string,
number, bool or null), a list, or a map whose keys keep their source order.
Trees are decoded from YAML, JSON or TOML and are read-only once built;
Merge produces new trees when overrides are layered on top.

Resolve walks a dot separated path and returns a Default. A path that does not
exist resolves to DefaultNone, which is distinct from a stored null ("null")
or an empty string (`""`).
*/
package values
