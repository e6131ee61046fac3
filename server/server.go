package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vidarc/cache"
	"vidarc/config"
	"vidarc/core/auth"
	"vidarc/core/intake"
	"vidarc/core/media"
	"vidarc/core/player"
	"vidarc/db"
	"vidarc/logger"
	"vidarc/model"
	"vidarc/repository"
	"vidarc/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.InfoLevel,
		OutputPath: "logs/vidarc.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})
	defer logger.Sync()

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to Redis. The catalog survives without it, seeded from the
	// built-in data, but nothing persists across restarts.
	var mirror repository.Mirror
	var sessions *cache.SessionCache
	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, catalog will not persist across restarts", logger.ErrorField(err))
	} else {
		defer redisClient.Close()
		mirror = repository.NewRedisMirror(redisClient)
		sessions = cache.NewSessionCache(redisClient, cfg.JWTTTL)
		logger.Info("Connected to Redis")
	}

	// MinIO holds captured thumbnail frames. Without it they are kept
	// beside the uploaded files instead.
	var objectStorage *storage.ObjectStorage
	var thumbnails intake.ThumbnailStore
	objectStorage, err = storage.NewObjectStorage(cfg)
	if err != nil {
		logger.Warn("MinIO unavailable, thumbnails will be stored on local disk", logger.ErrorField(err))
		objectStorage = nil
	} else {
		thumbnails = objectStorage
	}

	ensureDirExists(cfg.UploadDir)
	ensureDirExists(cfg.VideoUploadDir)

	catalog := repository.NewCatalog(mirror, model.SeedVideos())
	defer catalog.Close()

	playlists := repository.NewPlaylistRepository(model.SeedPlaylists())
	processor := media.NewFFmpegProcessor(cfg.FFmpegPath)
	workflow := intake.NewWorkflow(catalog, playlists, processor, thumbnails, cfg.VideoUploadDir)

	if cfg.WatchDir != "" {
		watcher, err := intake.NewWatcher(workflow, cfg.WatchDir)
		if err != nil {
			logger.Warn("Drop directory watcher disabled", logger.ErrorField(err))
		} else {
			defer watcher.Close()
		}
	}

	players := player.NewManager(catalog, player.Options{
		ControlsHideAfter: cfg.ControlsHideAfter,
		VolumeFloor:       cfg.VolumeFloor,
	})
	defer players.CloseAll()

	authenticator, err := auth.NewAuthenticator(cfg.AuthUsername, cfg.AuthPassword)
	if err != nil {
		logger.Fatal("Failed to initialize authenticator", logger.ErrorField(err))
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	apiHandler := NewAPIHandler(catalog, playlists, workflow, players, authenticator, tokens, sessions, cfg)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Auth endpoints
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", apiHandler.AuthMiddleware(apiHandler.LogoutHandler)).Methods(http.MethodPost)

	// Catalog endpoints
	router.HandleFunc("/api/videos", apiHandler.AuthMiddleware(apiHandler.GetVideosHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/videos", apiHandler.AuthMiddleware(apiHandler.AddVideoHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/videos/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteVideoHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/videos/{id}/views", apiHandler.AuthMiddleware(apiHandler.IncrementViewsHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.GetPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/upload", apiHandler.AuthMiddleware(apiHandler.UploadVideoHandler)).Methods(http.MethodPost)

	// Player socket; one session per connection
	router.HandleFunc("/api/player/{video_id}", apiHandler.AuthMiddleware(apiHandler.PlayerSocketHandler)).Methods(http.MethodGet)

	// Thumbnails and derived media from MinIO
	router.PathPrefix("/media/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if objectStorage == nil {
			http.Error(w, "Object storage not available", http.StatusNotFound)
			return
		}
		objectPath := strings.TrimPrefix(r.URL.Path, "/media/")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		object, err := objectStorage.Open(ctx, objectPath)
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer object.Close()

		var contentType string
		if strings.HasSuffix(objectPath, ".jpg") || strings.HasSuffix(objectPath, ".jpeg") {
			contentType = "image/jpeg"
		} else if strings.HasSuffix(objectPath, ".png") {
			contentType = "image/png"
		} else {
			contentType = "application/octet-stream"
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000")

		if _, err := io.Copy(w, object); err != nil {
			logger.Warn("Error serving media object", logger.String("path", objectPath), logger.ErrorField(err))
		}
	})

	// Uploaded video files
	uploadsFileServer := http.FileServer(http.Dir(cfg.UploadDir))
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", uploadsFileServer))

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	// Let any scheduled catalog mirror writes settle before closing.
	catalog.Flush()

	logger.Info("Server stopped")
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("Creating directory", logger.String("path", path))
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Fatal("Failed to create directory", logger.String("path", path), logger.ErrorField(err))
		}
	} else if err != nil {
		logger.Fatal("Failed to check directory", logger.String("path", path), logger.ErrorField(err))
	}
}
