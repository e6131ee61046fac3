package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"vidarc/cache"
	"vidarc/config"
	"vidarc/core/auth"
	"vidarc/core/intake"
	"vidarc/core/player"
	"vidarc/repository"
)

type contextKey string

const usernameKey contextKey = "username"

// APIHandler handles all API requests.
type APIHandler struct {
	catalog       repository.CatalogStore
	playlists     repository.PlaylistRepository
	workflow      *intake.Workflow
	players       *player.Manager
	authenticator *auth.Authenticator
	tokens        *auth.TokenIssuer
	sessions      *cache.SessionCache
	cfg           *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	catalog repository.CatalogStore,
	playlists repository.PlaylistRepository,
	workflow *intake.Workflow,
	players *player.Manager,
	authenticator *auth.Authenticator,
	tokens *auth.TokenIssuer,
	sessions *cache.SessionCache,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		catalog:       catalog,
		playlists:     playlists,
		workflow:      workflow,
		players:       players,
		authenticator: authenticator,
		tokens:        tokens,
		sessions:      sessions,
		cfg:           cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// GetUsernameFromContext extracts the username from the request context.
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameKey).(string)
	if !ok {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}
