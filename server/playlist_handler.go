package server

import (
	"net/http"
)

// GetPlaylistsHandler lists the playlists. Video counts are computed from the
// current catalog snapshot, never from a stored counter.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	playlists := h.playlists.List(h.catalog.List())
	writeJSON(w, http.StatusOK, map[string]interface{}{"playlists": playlists})
}
