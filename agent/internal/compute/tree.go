package compute

import (
	"sort"
	"strings"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// FlatItem is one answered node of a checklist tree with its prompt cleaned
// for keyword matching.
type FlatItem struct {
	Node       *types.ItemResult
	CleanTitle string
	RawTitle   string
}

// titleCutMarkers end the meaningful part of a prompt. Anything after the
// first one is a constraint suffix such as "Min: 160".
var titleCutMarkers = []string{"Min:", "Max:", "Range:"}

// Walk calls fn for every node of the tree in pre-order, descending into
// sublists regardless of the node's kind.
func Walk(items []types.ItemResult, fn func(*types.ItemResult)) {
	for i := range items {
		fn(&items[i])
		if items[i].SubList != nil {
			Walk(items[i].SubList.ItemResults, fn)
		}
	}
}

// Flatten collects every node that carries an answer, descending into each
// node's sublist before capturing the node itself.
func Flatten(items []types.ItemResult) []FlatItem {
	var out []FlatItem
	var visit func([]types.ItemResult)
	visit = func(nodes []types.ItemResult) {
		for i := range nodes {
			n := &nodes[i]
			if n.SubList != nil {
				visit(n.SubList.ItemResults)
			}
			if !n.HasValue() {
				continue
			}
			raw := n.Prompt()
			out = append(out, FlatItem{Node: n, CleanTitle: CleanTitle(raw), RawTitle: raw})
		}
	}
	visit(items)
	return out
}

// CleanTitle strips markdown markers and constraint suffixes from a prompt:
// "### Eggs *** Min: 160" becomes "Eggs".
func CleanTitle(s string) string {
	s = strings.NewReplacer("#", "", "*", "").Replace(s)
	for _, m := range titleCutMarkers {
		if i := strings.Index(s, m); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// completionTimes returns every completion timestamp > 0 in the tree, sorted
// ascending.
func completionTimes(items []types.ItemResult) []int64 {
	var ts []int64
	Walk(items, func(it *types.ItemResult) {
		if it.CompletionTimestamp > 0 {
			ts = append(ts, it.CompletionTimestamp)
		}
	})
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
	return ts
}

// spread returns last-first of sorted timestamps. Callers pass at least two.
func spread(ts []int64) int64 {
	return ts[len(ts)-1] - ts[0]
}

// containsAny reports whether s contains any of the keywords.
func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
