package repository

import (
	"vidarc/model"
)

// PlaylistRepository serves the playlist metadata. Playlists are a fixed set;
// their video counts are computed from actual catalog membership on demand.
type PlaylistRepository interface {
	List(videos []*model.Video) []*model.Playlist
	Exists(id string) bool
}

type playlistRepository struct {
	playlists []*model.Playlist
}

// NewPlaylistRepository creates a repository over the given playlist set.
func NewPlaylistRepository(playlists []*model.Playlist) PlaylistRepository {
	return &playlistRepository{playlists: playlists}
}

// List returns the playlists with counts computed against the given catalog
// snapshot.
func (r *playlistRepository) List(videos []*model.Video) []*model.Playlist {
	out := make([]*model.Playlist, 0, len(r.playlists))
	for _, p := range r.playlists {
		count := 0
		for _, v := range videos {
			if v.InPlaylist(p.ID) {
				count++
			}
		}
		out = append(out, &model.Playlist{
			ID:           p.ID,
			Name:         p.Name,
			ThumbnailURL: p.ThumbnailURL,
			VideoCount:   count,
		})
	}
	return out
}

// Exists reports whether the playlist ID names a known playlist.
func (r *playlistRepository) Exists(id string) bool {
	for _, p := range r.playlists {
		if p.ID == id {
			return true
		}
	}
	return false
}
