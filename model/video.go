package model

import "time"

// DateLayout is the calendar-date format used for DateAdded (no time-of-day).
const DateLayout = "2006-01-02"

// SourceType tells how a video's playback reference was obtained.
type SourceType string

const (
	SourceDirectURL SourceType = "direct" // direct media URL
	SourceEmbed     SourceType = "embed"  // third-party platform embed URL
	SourceLocalFile SourceType = "local"  // uploaded file; reference is ephemeral
)

// DurationUnknown is the sentinel for a duration that has not been detected yet.
const DurationUnknown = 0

// Video represents a single video record in the gallery catalog.
type Video struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	VideoURL     string     `json:"videoUrl"`
	SourceType   SourceType `json:"sourceType"`
	Duration     int        `json:"duration"` // whole seconds, DurationUnknown until detected
	DateAdded    string     `json:"dateAdded"`
	Playlists    []string   `json:"playlists"`
	Views        int64      `json:"views"`
}

// AddedOn parses DateAdded. The zero time is returned for a malformed date so
// such records sort oldest rather than failing the pipeline.
func (v *Video) AddedOn() time.Time {
	t, err := time.Parse(DateLayout, v.DateAdded)
	if err != nil {
		return time.Time{}
	}
	return t
}

// InPlaylist reports whether the video is a member of the given playlist.
func (v *Video) InPlaylist(playlistID string) bool {
	for _, p := range v.Playlists {
		if p == playlistID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand records out without sharing
// the playlist-membership slice.
func (v *Video) Clone() *Video {
	c := *v
	c.Playlists = append([]string(nil), v.Playlists...)
	return &c
}
