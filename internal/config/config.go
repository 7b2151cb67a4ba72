package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultEndpoint is the turnslate cloud function serving translation
// bundles.
const DefaultEndpoint = "https://us-central1-turnslate.cloudfunctions.net/langs"

type Config struct {
	Endpoint           string
	HTTPTimeoutSeconds int
	WorkerCount        int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Endpoint:           getEnv("TURNSLATE_ENDPOINT", DefaultEndpoint),
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 120),
		WorkerCount:        getEnvInt("WORKER_COUNT", 8),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
