package store

import (
	"sort"

	"kboard/internal/service"
)

func boardID(b service.Board) string { return b.ID }
func listID(l service.List) string   { return l.ID }
func cardID(c service.Card) string   { return c.ID }

// uniqueByID returns items with one entry per identity. The first
// occurrence keeps its slot and takes the value of the last occurrence.
func uniqueByID[T any](items []T, id func(T) string) []T {
	out := make([]T, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if i, ok := index[id(it)]; ok {
			out[i] = it
			continue
		}
		index[id(it)] = len(out)
		out = append(out, it)
	}
	return out
}

// mergeByID drops every cached entry whose identity appears in fetched and
// appends fetched. Entries absent from fetched are kept untouched and in
// their original order.
func mergeByID[T any](cached, fetched []T, id func(T) string) []T {
	fetched = uniqueByID(fetched, id)
	incoming := make(map[string]struct{}, len(fetched))
	for _, it := range fetched {
		incoming[id(it)] = struct{}{}
	}
	out := make([]T, 0, len(cached)+len(fetched))
	for _, it := range cached {
		if _, ok := incoming[id(it)]; !ok {
			out = append(out, it)
		}
	}
	return append(out, fetched...)
}

// replaceByID swaps in updated at the index of the entry with the same
// identity. It reports false and leaves items unchanged if none matches.
func replaceByID[T any](items []T, updated T, id func(T) string) bool {
	want := id(updated)
	for i := range items {
		if id(items[i]) == want {
			items[i] = updated
			return true
		}
	}
	return false
}

// removeByID returns items without the entries whose identity is target.
func removeByID[T any](items []T, target string, id func(T) string) []T {
	out := items[:0:0]
	for _, it := range items {
		if id(it) != target {
			out = append(out, it)
		}
	}
	return out
}

// appendUnique appends item, or replaces the entry with its identity.
func appendUnique[T any](items []T, item T, id func(T) string) []T {
	if replaceByID(items, item, id) {
		return items
	}
	return append(items, item)
}

// Renumber assigns dense positions (index × PositionStep) to the
// destination sequence and applies them, along with destination membership,
// to the matching cached cards. Cards not in dest are untouched.
func Renumber(cards []service.Card, destListID string, dest []service.Card) []service.Card {
	pos := make(map[string]int, len(dest))
	for i, c := range dest {
		if _, seen := pos[c.ID]; !seen {
			pos[c.ID] = i * service.PositionStep
		}
	}
	out := make([]service.Card, len(cards))
	for i, c := range cards {
		if p, ok := pos[c.ID]; ok {
			c.ListID = destListID
			c.Position = p
		}
		out[i] = c
	}
	return out
}

// sortCards orders cards by position, keeping cache order for ties.
func sortCards(cards []service.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Position < cards[j].Position
	})
}
