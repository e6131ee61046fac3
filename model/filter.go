package model

// SortOption enumerates the catalog sort keys.
type SortOption string

const (
	SortNewest     SortOption = "newest"     // date added, descending
	SortOldest     SortOption = "oldest"     // date added, ascending
	SortTitle      SortOption = "title"      // title, case-insensitive ascending
	SortMostViewed SortOption = "mostViewed" // view counter, descending
)

// ValidSort reports whether s is a known sort option.
func ValidSort(s SortOption) bool {
	switch s {
	case SortNewest, SortOldest, SortTitle, SortMostViewed:
		return true
	}
	return false
}

// FilterState is the full filter/sort selection applied to the catalog.
// An empty playlist set means "match all".
type FilterState struct {
	Search    string     `json:"search"`
	Playlists []string   `json:"playlists"`
	SortBy    SortOption `json:"sortBy"`
}
