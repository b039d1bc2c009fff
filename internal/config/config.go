package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates the client's runtime settings. Flags override these;
// these override the built-in defaults.
type Config struct {
	ServerURL    string
	GeoURL       string
	HTTPTimeout  time.Duration
	DebugLogPath string
}

const (
	defaultServerURL = "http://localhost:8000"
	// Public IP-geolocation endpoint; best-effort only (see internal/geo).
	defaultGeoURL = "https://ipapi.co/json/"

	defaultHTTPTimeout = 30 * time.Second
)

// Load reads an optional .env file, then the environment. Missing .env is
// normal for installed binaries.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		ServerURL:    strings.TrimRight(envOr("CIVIC_SERVER", defaultServerURL), "/"),
		GeoURL:       envOr("CIVIC_GEO_URL", defaultGeoURL),
		HTTPTimeout:  envDurationOr("CIVIC_HTTP_TIMEOUT", defaultHTTPTimeout),
		DebugLogPath: strings.TrimSpace(os.Getenv("CIVIC_DEBUG_LOG")),
	}
	return cfg
}

func envOr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envDurationOr(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return d
	}
	return parsed
}
