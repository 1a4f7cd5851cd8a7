// internal/config/config.go
//
// Process configuration read from the environment (after godotenv has loaded
// an optional .env file).
//
// Environment variables (defaults in parentheses):
//   PORT                 listen port (5175)
//   LOG_LEVEL            zerolog level (info)
//   LOG_FORMAT           "json" or "console" (json)
//   JWT_SECRET           HMAC secret for client tokens (dev_secret_change_me)
//   TOKEN_TTL            client token lifetime (24h)
//   CLIENT_ORIGIN        allowed CORS origin (http://localhost:5173)
//   WORDS_FILE           word catalog path (embedded catalog)
//   RATE_LIMIT_RPS       intents per second per IP (10)
//   RATE_LIMIT_BURST     burst per IP (20)
//   CLIENT_IDLE_TIMEOUT  idle clients are evicted after this (30m)
//   TICK_INTERVAL        countdown step (1s)

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const devSecret = "dev_secret_change_me"

// Config holds every tunable of the server.
type Config struct {
	Port         string
	LogLevel     string
	LogFormat    string
	JWTSecret    string
	TokenTTL     time.Duration
	ClientOrigin string
	WordsFile    string
	RateRPS      int
	RateBurst    int
	IdleTimeout  time.Duration
	TickInterval time.Duration
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		JWTSecret:    getEnv("JWT_SECRET", devSecret),
		TokenTTL:     envDuration("TOKEN_TTL", 24*time.Hour),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		WordsFile:    os.Getenv("WORDS_FILE"),
		RateRPS:      envInt("RATE_LIMIT_RPS", 10),
		RateBurst:    envInt("RATE_LIMIT_BURST", 20),
		IdleTimeout:  envDuration("CLIENT_IDLE_TIMEOUT", 30*time.Minute),
		TickInterval: envDuration("TICK_INTERVAL", time.Second),
	}
}

// InsecureSecret reports whether the development JWT secret is in use.
func (c Config) InsecureSecret() bool { return c.JWTSecret == devSecret }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", k).Str("value", v).Msg("invalid integer, using default")
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Msg("invalid duration, using default")
		return def
	}
	return d
}
