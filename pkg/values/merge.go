// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"fmt"
	"strings"

	"carvel.dev/chartnote/pkg/orderedmap"
)

// Merge layers overlay on top of base without modifying either.
// Maps merge key by key; any other overlay value replaces the base value.
// Descriptions stay with their key unless the overlay brings its own.
func Merge(base, overlay *Value) *Value {
	switch {
	case overlay == nil:
		return base
	case base == nil:
		return overlay
	case base.Kind() != KindMap || overlay.Kind() != KindMap:
		return overlay
	}

	result := orderedmap.NewMap[*Value]()
	base.Map().Iterate(func(k string, v *Value) { result.Set(k, v) })

	overlay.Map().Iterate(func(k string, v *Value) {
		existing, found := result.Get(k)
		if found && existing.Kind() == KindMap && v.Kind() == KindMap {
			merged := Merge(existing, v)
			merged.Description = v.Description
			if merged.Description == "" {
				merged.Description = existing.Description
			}
			result.Set(k, merged)
			return
		}
		if found && v.Description == "" && existing.Description != "" {
			described := *v
			described.Description = existing.Description
			v = &described
		}
		result.Set(k, v)
	})

	return NewMap(result)
}

// NewFromPath wraps val into nested maps following a dot separated
// path, e.g. "a.b" => {a: {b: val}}.
func NewFromPath(path string, val *Value) (*Value, error) {
	pieces := strings.Split(path, ".")
	for _, piece := range pieces {
		if piece == "" {
			return nil, fmt.Errorf("Expected key '%s' to not contain empty segments", path)
		}
	}

	result := val
	for i := len(pieces) - 1; i >= 0; i-- {
		dict := orderedmap.NewMap[*Value]()
		dict.Set(pieces[i], result)
		result = NewMap(dict)
	}
	return result, nil
}
