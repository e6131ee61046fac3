package server

import (
	"errors"
	"net/http"
	"strings"

	"vidarc/core/intake"
	"vidarc/logger"
)

// UploadVideoHandler handles local-file intake.
// Expected multipart form fields:
// - videoFile: the video file
// - title: video title
// - description: video description
// - playlists: comma-separated playlist IDs (optional)
func (h *APIHandler) UploadVideoHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(512 << 20); err != nil { // 512MB max memory
		writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	videoFile, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing 'videoFile' in form")
		return
	}
	defer videoFile.Close()

	var playlists []string
	if raw := strings.TrimSpace(r.FormValue("playlists")); raw != "" {
		playlists = strings.Split(raw, ",")
	}

	req := intake.Request{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Playlists:   playlists,
	}

	contentType := videoHeader.Header.Get("Content-Type")
	video, err := h.workflow.SubmitLocalFile(req, videoFile, videoHeader.Filename, contentType)
	if err != nil {
		var vErr *intake.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error": vErr.Message,
				"field": vErr.Field,
			})
			return
		}
		logger.Error("Video upload failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to store uploaded video")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"video":   video,
		"warning": intake.LocalFileWarning,
	})
}
