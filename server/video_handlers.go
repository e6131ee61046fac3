package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vidarc/core/intake"
	"vidarc/core/pipeline"
	"vidarc/logger"
	"vidarc/model"
	"vidarc/repository"

	"github.com/gorilla/mux"
)

// GetVideosHandler lists the catalog filtered and sorted by query parameters:
// ?search=...&playlists=p1,p2&sort=newest|oldest|title|mostViewed
func (h *APIHandler) GetVideosHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	state := model.FilterState{
		Search: q.Get("search"),
		SortBy: model.SortOption(q.Get("sort")),
	}
	if raw := strings.TrimSpace(q.Get("playlists")); raw != "" {
		state.Playlists = strings.Split(raw, ",")
	}
	if state.SortBy == "" {
		state.SortBy = model.SortNewest
	}
	if !model.ValidSort(state.SortBy) {
		writeError(w, http.StatusBadRequest, "Unknown sort option")
		return
	}

	// Always recompute from the latest snapshot; an intake completing
	// between calls simply shows up on the next one.
	videos := pipeline.Apply(h.catalog.List(), state)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"videos": videos,
		"total":  len(videos),
	})
}

// AddVideoRequest is the JSON intake body for embed-link and direct-URL
// sources. Local files go through UploadVideoHandler instead.
type AddVideoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SourceType  string   `json:"sourceType"` // "embed" or "direct"
	VideoURL    string   `json:"videoUrl"`
	Playlists   []string `json:"playlists"`
}

// AddVideoHandler admits a new embed-link or direct-URL video.
func (h *APIHandler) AddVideoHandler(w http.ResponseWriter, r *http.Request) {
	var req AddVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	intakeReq := intake.Request{
		Title:       req.Title,
		Description: req.Description,
		Playlists:   req.Playlists,
	}

	var (
		video *model.Video
		err   error
	)
	switch model.SourceType(req.SourceType) {
	case model.SourceEmbed:
		video, err = h.workflow.SubmitEmbed(intakeReq, req.VideoURL)
	case model.SourceDirectURL, "":
		video, err = h.workflow.SubmitDirectURL(intakeReq, req.VideoURL)
	default:
		writeError(w, http.StatusBadRequest, "Unknown source type")
		return
	}

	if err != nil {
		var vErr *intake.ValidationError
		if errors.As(err, &vErr) {
			// Submitted fields are echoed back untouched for correction.
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":     vErr.Message,
				"field":     vErr.Field,
				"submitted": req,
			})
			return
		}
		logger.Error("Video intake failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to add video")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"video": video})
}

// DeleteVideoHandler removes a video from the catalog.
func (h *APIHandler) DeleteVideoHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete video")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// IncrementViewsHandler bumps a video's view counter. A miss is silently
// ignored, matching the store contract.
func (h *APIHandler) IncrementViewsHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.catalog.IncrementViews(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
