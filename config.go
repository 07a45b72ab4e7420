package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the admin API.
type Config struct {
	Port      string
	MongoURL  string
	MongoDB   string
	JWTSecret string
	RedisURL  string
	// S3 upload surface; empty bucket disables it
	S3Bucket    string
	S3CDNDomain string
}

// LoadConfig reads configuration from the environment, with a local
// .env file as a development convenience.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "kureno"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		RedisURL:    os.Getenv("REDIS_URL"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3CDNDomain: os.Getenv("S3_CDN_DOMAIN"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
