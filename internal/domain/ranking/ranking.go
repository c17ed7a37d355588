// Package ranking turns a prior into an ordered recommendation list.
package ranking

import (
	"sort"

	"github.com/kailas-cloud/jobrec/internal/domain/prior"
)

// DefaultLimit is the number of recommendations returned when no limit is given.
const DefaultLimit = 5

// Rank orders ids by descending weight in p, drops anything in history and
// keeps at most limit ids. Ties keep the order of ids. Ids missing from p
// weigh 0. A limit <= 0 means DefaultLimit. An empty prior ranks nothing.
func Rank(p prior.Prior, ids, history []string, limit int) []string {
	if len(p) == 0 {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	seen := make(map[string]struct{}, len(history))
	for _, id := range history {
		seen[id] = struct{}{}
	}

	candidates := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		candidates = append(candidates, id)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return p[candidates[i]] > p[candidates[j]]
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
