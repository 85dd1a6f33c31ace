package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string
	DBPath     string
	JWTSecret  string
	AdminEmail string
	AdminPass  string
	GelfAddr   string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present next to the binary.
func Load() *Config {
	godotenv.Load()

	return &Config{
		HTTPAddr:   getEnv("MS_ADDR", ":8080"),
		DBPath:     getEnv("MS_DB_PATH", "ministore.db"),
		JWTSecret:  getEnv("MS_JWT_SECRET", "ministore-dev-secret-change-me"),
		AdminEmail: getEnv("MS_ADMIN_EMAIL", "admin@ministore.local"),
		AdminPass:  getEnv("MS_ADMIN_PASS", "admin123"),
		GelfAddr:   getEnv("MS_GELF_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
