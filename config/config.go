// Package config reads server settings from the environment.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	CatalogSource     string // "memory" or "mongo"
	MongoURI          string
	MongoDatabase     string
	RedisURL          string // empty disables Redis
	RedisPassword     string
	ShareBaseURL      string
	PaymentDelay      time.Duration
	AssistantMinDelay time.Duration
	AssistantMaxDelay time.Duration
	SessionTTL        time.Duration
	CatalogCacheTTL   time.Duration
	ShareTTL          time.Duration
}

// Load reads .env if present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	return FromEnv()
}

func FromEnv() Config {
	port := getEnv("PORT", ":8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return Config{
		Port:              port,
		CatalogSource:     strings.ToLower(getEnv("CATALOG_SOURCE", "memory")),
		MongoURI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGODB_DATABASE", "skouce"),
		RedisURL:          getEnv("REDIS_URL", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		ShareBaseURL:      getEnv("SHARE_BASE_URL", "http://localhost:8080"),
		PaymentDelay:      getDuration("PAYMENT_DELAY", 3*time.Second),
		AssistantMinDelay: getDuration("ASSISTANT_MIN_DELAY", time.Second),
		AssistantMaxDelay: getDuration("ASSISTANT_MAX_DELAY", 3*time.Second),
		SessionTTL:        getDuration("SESSION_TTL", 30*time.Minute),
		CatalogCacheTTL:   getDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		ShareTTL:          getDuration("SHARE_TTL", 7*24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}
