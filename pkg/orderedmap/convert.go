// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"sort"
)

// SortedKeys returns keys of a native Go map in a stable order so that
// converting it into a Map is deterministic.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromUnordered builds a Map out of a native Go map, ordering keys
// alphabetically and converting each value with convertFunc.
func FromUnordered[In, Out any](m map[string]In, convertFunc func(In) Out) *Map[Out] {
	result := NewMap[Out]()
	for _, key := range SortedKeys(m) {
		result.Set(key, convertFunc(m[key]))
	}
	return result
}
