package graph

import (
	"slices"
	"strings"
)

// LabelIndex supports case-insensitive substring search over node labels.
// It is built once per data load; search-as-you-type queries then run
// against the prepared lowercase labels without touching the store.
type LabelIndex struct {
	ids    []string
	labels []string // lowercased display labels, parallel to ids
}

// BuildLabelIndex prepares a label index from the current node set.
// Rebuild after loading new data; the index does not track store mutation.
func BuildLabelIndex(s Store) *LabelIndex {
	nodes := s.Nodes()
	idx := &LabelIndex{
		ids:    make([]string, len(nodes)),
		labels: make([]string, len(nodes)),
	}
	for i, n := range nodes {
		idx.ids[i] = n.ID
		idx.labels[i] = strings.ToLower(n.DisplayLabel())
	}
	return idx
}

// Search returns the sorted IDs of nodes whose label contains query,
// case-insensitively. An empty query matches nothing, not everything.
func (idx *LabelIndex) Search(query string) []string {
	if idx == nil || query == "" {
		return nil
	}
	q := strings.ToLower(query)
	var out []string
	for i, label := range idx.labels {
		if strings.Contains(label, q) {
			out = append(out, idx.ids[i])
		}
	}
	slices.Sort(out)
	return out
}

// Len returns the number of indexed labels.
func (idx *LabelIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.ids)
}
