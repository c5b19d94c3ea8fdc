package packager

import (
	"sort"

	"loanpack/internal/libby"
)

// OrderSpine computes the final reading order for catalog spine entries.
//
// The curated TOC is treated as ground truth: entries whose path appears in
// tocPages sort by TOC index; entries absent from the TOC take a sentinel
// rank after all TOC-matched entries and fall back to catalog position
// between themselves. The catalog-declared order is occasionally wrong
// relative to the TOC in real magazine issues.
//
// For magazines, entries absent from the TOC are excluded entirely.
func OrderSpine(entries []libby.SpineEntry, tocPages []string, magazine bool) []libby.SpineEntry {
	rankByPath := make(map[string]int, len(tocPages))
	for i, p := range tocPages {
		if _, seen := rankByPath[p]; !seen {
			rankByPath[p] = i
		}
	}
	sentinel := len(tocPages)

	type keyed struct {
		entry libby.SpineEntry
		rank  int
	}
	keys := make([]keyed, 0, len(entries))
	for _, entry := range entries {
		rank, matched := rankByPath[entry.OriginalPath]
		if !matched {
			if magazine {
				continue
			}
			rank = sentinel
		}
		keys = append(keys, keyed{entry: entry, rank: rank})
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].rank != keys[j].rank {
			return keys[i].rank < keys[j].rank
		}
		return keys[i].entry.SpinePosition < keys[j].entry.SpinePosition
	})

	ordered := make([]libby.SpineEntry, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, k.entry)
	}
	return ordered
}
