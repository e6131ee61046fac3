package model

// Playlist represents a named grouping of videos.
// VideoCount is computed from actual catalog membership when the playlist is
// served; it is never stored.
type Playlist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	VideoCount   int    `json:"videoCount"`
}
