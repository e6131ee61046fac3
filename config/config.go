package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// For V1, these are mostly hardcoded or have simple defaults.
type Config struct {
	ListenAddr string
	FFmpegPath string

	UploadDir      string // Base directory for all uploads
	VideoUploadDir string // Subdirectory for uploaded video files: UploadDir/videos
	WatchDir       string // Optional drop directory; files appearing here are auto-ingested

	// Fixed credential pair for the single gallery user.
	AuthUsername string
	AuthPassword string
	JWTSecret    string
	JWTTTL       time.Duration

	// Player tuning
	ControlsHideAfter time.Duration // idle timeout before controls auto-hide while playing
	VolumeFloor       float64       // volume below this is treated as an implicit mute

	// Redis configuration (catalog mirror + session markers)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MinIO configuration (thumbnails and derived media artifacts)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration gets an environment variable as a duration in seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvFloat gets an environment variable as float64 or returns a default value.
func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// Attempt to load .env file. godotenv.Load() will not override existing env vars.
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	uploadBase := getEnv("UPLOAD_DIR", "uploads")

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),

		UploadDir:      uploadBase,
		VideoUploadDir: filepath.Join(uploadBase, "videos"),
		WatchDir:       getEnv("WATCH_DIR", ""), // empty disables the drop-directory watcher

		AuthUsername: getEnv("AUTH_USERNAME", "admin"),
		AuthPassword: getEnv("AUTH_PASSWORD", "password123"),
		JWTSecret:    getEnv("JWT_SECRET", "vidarc-dev-secret"),
		JWTTTL:       getEnvDuration("JWT_TTL", 24*time.Hour),

		ControlsHideAfter: getEnvDuration("CONTROLS_HIDE_AFTER", 3*time.Second),
		VolumeFloor:       getEnvFloat("VOLUME_FLOOR", 0.05),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "vidarc"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
	}
}
