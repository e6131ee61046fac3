// Package pipeline implements the catalog filter/sort pipeline: a pure
// function from a catalog snapshot and a FilterState to the ordered visible
// subset. It never mutates its inputs and is deterministic for identical
// inputs.
package pipeline

import (
	"sort"
	"strings"

	"vidarc/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Apply filters and sorts a catalog snapshot according to state.
//
// Search keeps records whose title or description contains the term,
// case-insensitively. A non-empty playlist selection keeps records whose
// membership intersects it (union across selected playlists). Date and view
// sorts are stable: records that compare equal keep their relative order.
func Apply(videos []*model.Video, state model.FilterState) []*model.Video {
	result := make([]*model.Video, 0, len(videos))

	term := strings.ToLower(strings.TrimSpace(state.Search))
	selected := make(map[string]bool, len(state.Playlists))
	for _, p := range state.Playlists {
		selected[p] = true
	}

	for _, v := range videos {
		if term != "" &&
			!strings.Contains(strings.ToLower(v.Title), term) &&
			!strings.Contains(strings.ToLower(v.Description), term) {
			continue
		}
		if len(selected) > 0 && !intersects(v.Playlists, selected) {
			continue
		}
		result = append(result, v)
	}

	switch state.SortBy {
	case model.SortNewest:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].AddedOn().After(result[j].AddedOn())
		})
	case model.SortOldest:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].AddedOn().Before(result[j].AddedOn())
		})
	case model.SortTitle:
		// A Collator is not safe for concurrent use, so build one per call.
		titleCollator := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(result, func(i, j int) bool {
			return titleCollator.CompareString(result[i].Title, result[j].Title) < 0
		})
	case model.SortMostViewed:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Views > result[j].Views
		})
	}

	return result
}

func intersects(memberships []string, selected map[string]bool) bool {
	for _, m := range memberships {
		if selected[m] {
			return true
		}
	}
	return false
}
