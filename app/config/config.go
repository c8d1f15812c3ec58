// Package config loads runtime configuration from the environment, with an
// optional .env file for development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything main needs to wire the application.
type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string
	// DBPath is the badger data directory.
	DBPath string
	// UploadDir is where the disk blob store keeps uploaded files.
	UploadDir string
	// SuperAdmin is the username of the distinguished super identity. Only
	// this identity can mint admins.
	SuperAdmin string
}

// Load reads .env if present and falls back to defaults for anything unset.
func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		DBPath:     getenv("DB_PATH", "data/badger"),
		UploadDir:  getenv("UPLOAD_DIR", "uploads"),
		SuperAdmin: getenv("SUPER_ADMIN", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
