// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package definitions

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search ranks identifiers of both tables against a query (case
// insensitive, closest first). Lookups used for annotation never search.
func Search(query string, limit int) []Definition {
	var candidates []string
	byName := map[string]Definition{}

	for _, table := range []*Table{BuiltIns(), Functions()} {
		for _, name := range table.Names() {
			def, _ := table.Get(name)
			byName[name] = def
			candidates = append(candidates, name)
		}
	}

	ranks := fuzzy.RankFindFold(query, candidates)
	sort.Stable(ranks)

	var result []Definition
	for _, rank := range ranks {
		if limit > 0 && len(result) == limit {
			break
		}
		result = append(result, byName[rank.Target])
	}
	return result
}
