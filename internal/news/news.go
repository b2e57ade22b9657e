// Package news holds the normalized item shape and the pure pipeline steps:
// recency filtering and deduplication.
package news

import (
	"sort"
	"strings"
	"time"
	"unicode"
)

// Item is one normalized news entry. Source is the feed it came from;
// Sources lists every feed that carried the story once duplicates are merged.
type Item struct {
	Title     string
	Summary   string
	Link      string
	Published time.Time
	Source    string
	Sources   []string

	TitleTranslated   string
	SummaryTranslated string
}

// FilterRecent keeps items published inside the window [now-window, now+skew].
// Slightly future timestamps survive (feed clocks drift); anything beyond the
// skew tolerance is dropped.
func FilterRecent(items []Item, now time.Time, window, skew time.Duration) []Item {
	oldest := now.Add(-window)
	newest := now.Add(skew)

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Published.Before(oldest) || it.Published.After(newest) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// normalizeTitle reduces a title to its letters and digits, lowercased, so
// the same story syndicated with different punctuation or tracking-link
// formats still matches.
func normalizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Deduplicate partitions items into equivalence classes (same link, or same
// normalized title) and emits one representative per class: the earliest
// published member, ties broken by source name then link. The representative
// carries the sorted union of all contributing source names.
//
// The result does not depend on input order, and running Deduplicate on its
// own output changes nothing.
func Deduplicate(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}

	// Union-find over item indexes; link and title matches both join classes,
	// so chains like (link A/title X) + (link A/title Y) + (link B/title Y)
	// collapse into one story.
	parent := make([]int, len(items))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	byLink := make(map[string]int)
	byTitle := make(map[string]int)
	for i, it := range items {
		if link := strings.TrimSpace(it.Link); link != "" {
			if j, ok := byLink[link]; ok {
				union(j, i)
			} else {
				byLink[link] = i
			}
		}
		if key := normalizeTitle(it.Title); key != "" {
			if j, ok := byTitle[key]; ok {
				union(j, i)
			} else {
				byTitle[key] = i
			}
		}
	}

	classes := make(map[int][]Item)
	for i, it := range items {
		root := find(i)
		classes[root] = append(classes[root], it)
	}

	out := make([]Item, 0, len(classes))
	for _, members := range classes {
		// Stable membership order makes representative selection
		// deterministic regardless of how the input was permuted.
		sort.Slice(members, func(a, b int) bool {
			if !members[a].Published.Equal(members[b].Published) {
				return members[a].Published.Before(members[b].Published)
			}
			if members[a].Source != members[b].Source {
				return members[a].Source < members[b].Source
			}
			return members[a].Link < members[b].Link
		})

		rep := members[0]
		rep.Sources = mergeSources(members)
		out = append(out, rep)
	}

	sort.Slice(out, func(a, b int) bool {
		if !out[a].Published.Equal(out[b].Published) {
			return out[a].Published.Before(out[b].Published)
		}
		if out[a].Source != out[b].Source {
			return out[a].Source < out[b].Source
		}
		return out[a].Link < out[b].Link
	})
	return out
}

// mergeSources collects the unique source names across class members, sorted
// for reproducible "via A, B" rendering.
func mergeSources(members []Item) []string {
	seen := make(map[string]struct{})
	for _, m := range members {
		if len(m.Sources) > 0 {
			for _, s := range m.Sources {
				seen[s] = struct{}{}
			}
			continue
		}
		if m.Source != "" {
			seen[m.Source] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SortNewestFirst orders items for rendering: newest published first, name
// and link tie-breaks keep the order deterministic.
func SortNewestFirst(items []Item) {
	sort.Slice(items, func(a, b int) bool {
		if !items[a].Published.Equal(items[b].Published) {
			return items[a].Published.After(items[b].Published)
		}
		if items[a].Source != items[b].Source {
			return items[a].Source < items[b].Source
		}
		return items[a].Link < items[b].Link
	})
}
